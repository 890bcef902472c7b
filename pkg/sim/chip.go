package sim

import (
	"time"

	"github.com/robotalks/servo.go/pkg/lm629"
)

// SamplePeriod is the servo loop period of a simulated chip.
const SamplePeriod = 256 * time.Microsecond

// PowerOnStatus is the status of a chip right after reset.
const PowerOnStatus = lm629.ResetSignatureB

// ChipState is a snapshot of a simulated chip.
type ChipState struct {
	Status      lm629.Status
	Position    int32
	Target      int32
	Velocity    int32
	Moving      bool
	Filter      lm629.Filter
	Trajectory  lm629.Trajectory
	IRQMask     byte
	Breakpoint  int32
	Threshold   uint16
	StopOnError bool
	IndexPos    int32
	Resets      int
}

type chip struct {
	status    byte
	busyReads int
	busyLeft  int
	stuck     bool
	hangOn    byte
	hang      bool
	badResets int
	resets    int
	inReset   bool

	op   byte
	in   []byte
	need int
	out  []byte

	filter        lm629.Filter
	loadedFilter  lm629.Filter
	filterPending bool

	loaded     lm629.Trajectory
	accPending bool
	active     lm629.Trajectory

	position   float64
	target     float64
	speed      float64 // counts per sample
	moving     bool
	lastUpdate time.Time

	irqMask     byte
	breakpoint  int32
	bpArmed     bool
	threshold   uint16
	stopOnError bool
	indexPos    int32
}

func newChip(now time.Time) *chip {
	c := &chip{}
	c.reset(now)
	return c
}

func (c *chip) reset(now time.Time) {
	*c = chip{
		busyReads: c.busyReads,
		stuck:     c.stuck,
		hangOn:    c.hangOn,
		hang:      c.hang,
		badResets: c.badResets,
		resets:    c.resets + 1,
	}
	c.status = PowerOnStatus
	if c.badResets > 0 {
		c.badResets--
		c.status = 0
	}
	c.lastUpdate = now
}

func (c *chip) readStatus(now time.Time) byte {
	c.advance(now)
	st := c.status
	if c.stuck || c.inReset {
		return st | lm629.StatusBusy
	}
	if c.busyLeft > 0 {
		c.busyLeft--
		return st | lm629.StatusBusy
	}
	return st
}

func (c *chip) accepted() {
	c.busyLeft = c.busyReads
}

func (c *chip) writeCommand(op byte, now time.Time) {
	c.advance(now)
	c.op, c.in, c.need, c.out = op, nil, 0, nil
	c.accepted()
	if c.hang && op == c.hangOn {
		c.stuck, c.hang = true, false
	}
	switch op {
	case lm629.OpRST:
		c.reset(now)
	case lm629.OpSTT:
		c.start()
	case lm629.OpDFH:
		c.target -= c.position
		c.position = 0
	case lm629.OpSIP:
		c.indexPos = int32(c.position)
		c.status |= lm629.StatusIndexPulse
	case lm629.OpUDF:
		if c.filterPending {
			c.filter, c.filterPending = c.loadedFilter, false
		}
	case lm629.OpLFIL, lm629.OpLTRJ, lm629.OpRSTI, lm629.OpMSKI, lm629.OpLPEI, lm629.OpLPES:
		c.need = 2
	case lm629.OpSBPA, lm629.OpSBPR:
		c.need = 4
	case lm629.OpRDSIGS:
		c.out = wordBytes(c.signals())
	case lm629.OpRDSUM:
		c.out = wordBytes(0)
	case lm629.OpRDRV:
		speed := int16(c.speed)
		if !c.moving {
			speed = 0
		}
		c.out = wordBytes(uint16(speed))
	case lm629.OpRDRP:
		c.out = longBytes(int32(c.position))
	case lm629.OpRDDP:
		c.out = longBytes(int32(c.target))
	case lm629.OpRDDV:
		c.out = longBytes(c.active.Velocity)
	case lm629.OpRDIP:
		c.out = longBytes(c.indexPos)
	default:
		c.status |= lm629.StatusCommandError
	}
}

func (c *chip) writeData(val byte) {
	c.accepted()
	if len(c.in) >= c.need {
		c.status |= lm629.StatusCommandError
		return
	}
	c.in = append(c.in, val)
	if len(c.in) == 2 {
		switch c.op {
		case lm629.OpLFIL:
			c.need += 2 * bitCount(uint16(c.in[1]&0x0f))
		case lm629.OpLTRJ:
			ctl := uint16(c.in[0])<<8 | uint16(c.in[1])
			c.need += 4 * bitCount(ctl&(lm629.TrajLoadAcc|lm629.TrajLoadVel|lm629.TrajLoadPos))
		}
	}
	if len(c.in) == c.need {
		c.complete()
	}
}

func (c *chip) readData() byte {
	c.accepted()
	if len(c.out) == 0 {
		return 0
	}
	val := c.out[0]
	c.out = c.out[1:]
	return val
}

func (c *chip) complete() {
	in := c.in
	switch c.op {
	case lm629.OpLFIL:
		f := lm629.Filter{DTerm: int(in[0]) + 1}
		ctl, words := in[1], in[2:]
		for _, term := range []struct {
			bit byte
			val *int
		}{
			{lm629.FilterLoadKp, &f.Kp},
			{lm629.FilterLoadKi, &f.Ki},
			{lm629.FilterLoadKd, &f.Kd},
			{lm629.FilterLoadIl, &f.Il},
		} {
			if ctl&term.bit != 0 {
				*term.val = int(uint16(words[0])<<8 | uint16(words[1]))
				words = words[2:]
			}
		}
		c.loadedFilter, c.filterPending = f, true
	case lm629.OpLTRJ:
		c.loadTrajectory(uint16(in[0])<<8|uint16(in[1]), in[2:])
	case lm629.OpRSTI:
		c.status &^= lm629.IRQAll &^ in[1]
	case lm629.OpMSKI:
		c.irqMask = in[1] & lm629.IRQAll
	case lm629.OpLPEI, lm629.OpLPES:
		c.threshold = uint16(in[0])<<8 | uint16(in[1])
		c.stopOnError = c.op == lm629.OpLPES
	case lm629.OpSBPA, lm629.OpSBPR:
		bp := decodeLong(in)
		if c.op == lm629.OpSBPR {
			bp += int32(c.target)
		}
		c.breakpoint, c.bpArmed = bp, true
	}
}

func (c *chip) loadTrajectory(ctl uint16, data []byte) {
	t := &c.loaded
	t.ForwardDir = ctl&lm629.TrajForwardDir != 0
	t.VelocityMode = ctl&lm629.TrajVelocityMode != 0
	t.StopSmooth = ctl&lm629.TrajStopSmooth != 0
	t.StopAbrupt = ctl&lm629.TrajStopAbrupt != 0
	t.MotorOff = ctl&lm629.TrajMotorOff != 0
	t.LoadAcc = ctl&lm629.TrajLoadAcc != 0
	t.AccRelative = ctl&lm629.TrajAccRelative != 0
	t.LoadVel = ctl&lm629.TrajLoadVel != 0
	t.VelRelative = ctl&lm629.TrajVelRelative != 0
	t.LoadPos = ctl&lm629.TrajLoadPos != 0
	t.PosRelative = ctl&lm629.TrajPosRelative != 0
	if t.LoadAcc {
		t.Acc, data = decodeLong(data), data[4:]
		c.accPending = true
	}
	if t.LoadVel {
		t.Velocity, data = decodeLong(data), data[4:]
	}
	if t.LoadPos {
		t.Position = decodeLong(data)
	}
}

func (c *chip) start() {
	t := c.loaded
	c.accPending = false
	switch {
	case t.MotorOff:
		c.moving = false
		c.target = c.position
		c.status |= lm629.StatusMotorOff | lm629.StatusTrajectoryComplete
		c.active.MotorOff = true
		return
	case t.StopSmooth || t.StopAbrupt:
		c.moving = false
		c.target = c.position
		c.status |= lm629.StatusTrajectoryComplete
		return
	}
	vel := c.active.Velocity
	if t.LoadVel {
		if t.VelRelative {
			vel += t.Velocity
		} else {
			vel = t.Velocity
		}
	}
	target := c.target
	if t.LoadPos {
		if t.PosRelative {
			target += float64(t.Position)
		} else {
			target = float64(t.Position)
		}
	}
	c.active = t
	c.active.Velocity = vel
	// Direction comes from ForwardDir or the target, never the sign.
	c.speed = abs(float64(vel)) / 65536
	c.status &^= lm629.StatusMotorOff | lm629.StatusTrajectoryComplete
	if t.VelocityMode {
		c.moving = vel != 0
		return
	}
	c.target = target
	c.moving = c.target != c.position
	if !c.moving {
		c.status |= lm629.StatusTrajectoryComplete
	}
}

func (c *chip) advance(now time.Time) {
	elapsed := now.Sub(c.lastUpdate)
	if elapsed <= 0 {
		return
	}
	c.lastUpdate = now
	if !c.moving || c.inReset {
		return
	}
	step := c.speed * float64(elapsed) / float64(SamplePeriod)
	prev := c.position
	if c.active.VelocityMode {
		if !c.active.ForwardDir {
			step = -step
		}
		c.position += step
		c.target = c.position
	} else {
		remain := c.target - c.position
		if remain < 0 {
			step = -step
		}
		if abs(step) >= abs(remain) {
			c.position = c.target
			c.moving = false
			c.status |= lm629.StatusTrajectoryComplete
		} else {
			c.position += step
		}
	}
	if c.bpArmed && crossed(prev, c.position, float64(c.breakpoint)) {
		c.bpArmed = false
		c.status |= lm629.StatusBreakpoint
	}
}

func (c *chip) signals() uint16 {
	sig := uint16(c.status &^ lm629.StatusBusy)
	if c.filterPending {
		sig |= lm629.SignalFilterLoaded
	}
	if c.accPending {
		sig |= lm629.SignalAccelerationLoaded
	}
	if c.active.VelocityMode {
		sig |= lm629.SignalVelocityMode
	}
	if c.active.ForwardDir {
		sig |= lm629.SignalForwardDir
	}
	if c.stopOnError {
		sig |= lm629.SignalTurnOffOnError
	}
	if !c.moving && c.status&lm629.StatusMotorOff == 0 {
		sig |= lm629.SignalOnTarget
	}
	if c.interrupting() {
		sig |= lm629.SignalHostInterrupt
	}
	return sig
}

func (c *chip) interrupting() bool {
	return c.status&c.irqMask&lm629.IRQAll != 0
}

func (c *chip) snapshot() ChipState {
	return ChipState{
		Status:      lm629.Status(c.status),
		Position:    int32(c.position),
		Target:      int32(c.target),
		Velocity:    c.active.Velocity,
		Moving:      c.moving,
		Filter:      c.filter,
		Trajectory:  c.active,
		IRQMask:     c.irqMask,
		Breakpoint:  c.breakpoint,
		Threshold:   c.threshold,
		StopOnError: c.stopOnError,
		IndexPos:    c.indexPos,
		Resets:      c.resets,
	}
}

func wordBytes(v uint16) []byte {
	return []byte{byte(v >> 8), byte(v)}
}

func longBytes(v int32) []byte {
	u := uint32(v)
	return []byte{byte(u >> 24), byte(u >> 16), byte(u >> 8), byte(u)}
}

func decodeLong(b []byte) int32 {
	return int32(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]))
}

func bitCount(v uint16) int {
	n := 0
	for ; v != 0; v &= v - 1 {
		n++
	}
	return n
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func crossed(from, to, mark float64) bool {
	return (from < mark && to >= mark) || (from > mark && to <= mark)
}
