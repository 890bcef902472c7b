package lm629

import (
	"encoding/binary"
	"fmt"
)

// Raw layouts of the parameter structures exchanged with configuration
// tools: little-endian 32-bit integers, filter as dterm, kp, ki, kd, il and
// trajectory as eleven boolean words followed by acc, velocity, position.
const (
	RawFilterSize     = 5 * 4
	RawTrajectorySize = 14 * 4
)

// MarshalBinary implements encoding.BinaryMarshaler.
func (f Filter) MarshalBinary() ([]byte, error) {
	buf := make([]byte, RawFilterSize)
	for n, v := range []int{f.DTerm, f.Kp, f.Ki, f.Kd, f.Il} {
		binary.LittleEndian.PutUint32(buf[n*4:], uint32(int32(v)))
	}
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (f *Filter) UnmarshalBinary(data []byte) error {
	if len(data) != RawFilterSize {
		return fmt.Errorf("%w: raw filter is %d bytes, want %d", ErrInvalidParameter, len(data), RawFilterSize)
	}
	for n, p := range []*int{&f.DTerm, &f.Kp, &f.Ki, &f.Kd, &f.Il} {
		*p = int(int32(binary.LittleEndian.Uint32(data[n*4:])))
	}
	return nil
}

func (t *Trajectory) flagFields() []*bool {
	return []*bool{
		&t.ForwardDir, &t.VelocityMode, &t.StopSmooth, &t.StopAbrupt, &t.MotorOff,
		&t.LoadAcc, &t.LoadVel, &t.LoadPos, &t.AccRelative, &t.VelRelative, &t.PosRelative,
	}
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (t Trajectory) MarshalBinary() ([]byte, error) {
	buf := make([]byte, RawTrajectorySize)
	off := 0
	for _, flag := range t.flagFields() {
		if *flag {
			binary.LittleEndian.PutUint32(buf[off:], 1)
		}
		off += 4
	}
	for _, v := range []int32{t.Acc, t.Velocity, t.Position} {
		binary.LittleEndian.PutUint32(buf[off:], uint32(v))
		off += 4
	}
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
// Any non-zero boolean word is true.
func (t *Trajectory) UnmarshalBinary(data []byte) error {
	if len(data) != RawTrajectorySize {
		return fmt.Errorf("%w: raw trajectory is %d bytes, want %d", ErrInvalidParameter, len(data), RawTrajectorySize)
	}
	off := 0
	for _, flag := range t.flagFields() {
		*flag = binary.LittleEndian.Uint32(data[off:]) != 0
		off += 4
	}
	for _, p := range []*int32{&t.Acc, &t.Velocity, &t.Position} {
		*p = int32(binary.LittleEndian.Uint32(data[off:]))
		off += 4
	}
	return nil
}
