package lm629

// Data bytes are transferred in groups, each group followed by a handshake.
// The chip takes 16-bit words most significant byte first; 32-bit values
// are sent as the high word then the low word.

func word(v uint16) []byte {
	return []byte{byte(v >> 8), byte(v)}
}

func longWords(v int32) [][]byte {
	u := uint32(v)
	return [][]byte{word(uint16(u >> 16)), word(uint16(u))}
}

// FilterPayload returns the data groups transferred after LFIL.
func FilterPayload(f Filter) [][]byte {
	groups := [][]byte{{byte((f.DTerm - 1) & 0xff), f.Control()}}
	for _, gain := range []int{f.Kp, f.Ki, f.Kd, f.Il} {
		if gain != 0 {
			groups = append(groups, word(uint16(gain)))
		}
	}
	return groups
}

// TrajectoryPayload returns the data groups transferred after LTRJ.
// Magnitudes whose load flag is clear are left out.
func TrajectoryPayload(t Trajectory) [][]byte {
	groups := [][]byte{word(t.Control())}
	if t.LoadAcc {
		groups = append(groups, longWords(t.Acc)...)
	}
	if t.LoadVel {
		groups = append(groups, longWords(t.Velocity)...)
	}
	if t.LoadPos {
		groups = append(groups, longWords(t.Position)...)
	}
	return groups
}

func decodeWord(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

func decodeLong(b []byte) int32 {
	return int32(uint32(decodeWord(b[0:2]))<<16 | uint32(decodeWord(b[2:4])))
}
