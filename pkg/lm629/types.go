package lm629

import "fmt"

// Gains are transferred as 16-bit words; negative values are sent in
// two's complement, so both signed and unsigned 16-bit ranges are accepted.
const (
	MinGain  = -0x8000
	MaxGain  = 0xffff
	MinDTerm = 1
	MaxDTerm = 256
)

// Filter holds the PID filter coefficients of a channel.
// A zero gain is not transferred to the chip.
type Filter struct {
	DTerm int `json:"dterm" yaml:"dterm"`
	Kp    int `json:"kp" yaml:"kp"`
	Ki    int `json:"ki" yaml:"ki"`
	Kd    int `json:"kd" yaml:"kd"`
	Il    int `json:"il" yaml:"il"`
}

// Validate checks the filter against the chip's ranges.
func (f Filter) Validate() error {
	if f.DTerm < MinDTerm || f.DTerm > MaxDTerm {
		return fmt.Errorf("%w: dterm %d not in [%d, %d]", ErrInvalidParameter, f.DTerm, MinDTerm, MaxDTerm)
	}
	for _, g := range []struct {
		name string
		val  int
	}{{"kp", f.Kp}, {"ki", f.Ki}, {"kd", f.Kd}, {"il", f.Il}} {
		if g.val < MinGain || g.val > MaxGain {
			return fmt.Errorf("%w: %s %d exceeds 16 bits", ErrInvalidParameter, g.name, g.val)
		}
	}
	return nil
}

// Control returns the filter control byte selecting the non-zero terms.
func (f Filter) Control() byte {
	var ctl byte
	if f.Kp != 0 {
		ctl |= FilterLoadKp
	}
	if f.Ki != 0 {
		ctl |= FilterLoadKi
	}
	if f.Kd != 0 {
		ctl |= FilterLoadKd
	}
	if f.Il != 0 {
		ctl |= FilterLoadIl
	}
	return ctl
}

// Trajectory holds the trajectory parameters of a channel.
// A magnitude is transferred only if its Load flag is set. Flags are
// independent and every int32 magnitude fits the 32-bit transfer, so
// any value is accepted and the chip arbitrates combinations.
type Trajectory struct {
	ForwardDir   bool `json:"forward_dir,omitempty" yaml:"forward_dir"`
	VelocityMode bool `json:"velocity_mode,omitempty" yaml:"velocity_mode"`
	StopSmooth   bool `json:"stop_smooth,omitempty" yaml:"stop_smooth"`
	StopAbrupt   bool `json:"stop_abrupt,omitempty" yaml:"stop_abrupt"`
	MotorOff     bool `json:"motor_off,omitempty" yaml:"motor_off"`
	LoadAcc      bool `json:"load_acc,omitempty" yaml:"load_acc"`
	AccRelative  bool `json:"acc_relative,omitempty" yaml:"acc_relative"`
	LoadVel      bool `json:"load_vel,omitempty" yaml:"load_vel"`
	VelRelative  bool `json:"vel_relative,omitempty" yaml:"vel_relative"`
	LoadPos      bool `json:"load_pos,omitempty" yaml:"load_pos"`
	PosRelative  bool `json:"pos_relative,omitempty" yaml:"pos_relative"`

	Acc      int32 `json:"acc" yaml:"acc"`
	Velocity int32 `json:"velocity" yaml:"velocity"`
	Position int32 `json:"position" yaml:"position"`
}

// Control returns the 16-bit trajectory control word.
func (t Trajectory) Control() uint16 {
	var ctl uint16
	for _, b := range []struct {
		on  bool
		bit uint16
	}{
		{t.ForwardDir, TrajForwardDir},
		{t.VelocityMode, TrajVelocityMode},
		{t.StopSmooth, TrajStopSmooth},
		{t.StopAbrupt, TrajStopAbrupt},
		{t.MotorOff, TrajMotorOff},
		{t.LoadAcc, TrajLoadAcc},
		{t.AccRelative, TrajAccRelative},
		{t.LoadVel, TrajLoadVel},
		{t.VelRelative, TrajVelRelative},
		{t.LoadPos, TrajLoadPos},
		{t.PosRelative, TrajPosRelative},
	} {
		if b.on {
			ctl |= b.bit
		}
	}
	return ctl
}

// Stop returns a trajectory which only carries a stop mode.
func Stop(mode StopMode) Trajectory {
	var t Trajectory
	switch mode {
	case StopAbrupt:
		t.StopAbrupt = true
	case StopMotorOff:
		t.MotorOff = true
	default:
		t.StopSmooth = true
	}
	return t
}

// StopMode selects how a running trajectory is stopped.
type StopMode int

// Stop modes.
const (
	StopSmooth StopMode = iota
	StopAbrupt
	StopMotorOff
)

// Status is the status byte read from the command port.
type Status byte

// Busy indicates the chip is not ready for the next byte.
func (s Status) Busy() bool { return byte(s)&StatusBusy != 0 }

// CommandError indicates an invalid command was received.
func (s Status) CommandError() bool { return byte(s)&StatusCommandError != 0 }

// TrajectoryComplete indicates the trajectory finished.
func (s Status) TrajectoryComplete() bool { return byte(s)&StatusTrajectoryComplete != 0 }

// IndexPulse indicates an index pulse was observed.
func (s Status) IndexPulse() bool { return byte(s)&StatusIndexPulse != 0 }

// WrapAround indicates the position counter wrapped around.
func (s Status) WrapAround() bool { return byte(s)&StatusWrapAround != 0 }

// PositionError indicates the position error exceeded the threshold.
func (s Status) PositionError() bool { return byte(s)&StatusPositionError != 0 }

// Breakpoint indicates the breakpoint was reached.
func (s Status) Breakpoint() bool { return byte(s)&StatusBreakpoint != 0 }

// MotorOff indicates the motor output is off.
func (s Status) MotorOff() bool { return byte(s)&StatusMotorOff != 0 }

// Signals is the 16-bit signals register.
type Signals uint16

// Status returns the status bits carried in the low byte.
func (s Signals) Status() Status { return Status(byte(s) &^ byte(SignalAcquireNextIndex)) }

// AcquireNextIndex indicates the chip waits for the next index pulse.
func (s Signals) AcquireNextIndex() bool { return uint16(s)&SignalAcquireNextIndex != 0 }

// EightBitMode indicates 8-bit output mode.
func (s Signals) EightBitMode() bool { return uint16(s)&SignalEightBitMode != 0 }

// TurnOffOnError indicates the motor is turned off on excessive position error.
func (s Signals) TurnOffOnError() bool { return uint16(s)&SignalTurnOffOnError != 0 }

// OnTarget indicates the motor is on target.
func (s Signals) OnTarget() bool { return uint16(s)&SignalOnTarget != 0 }

// VelocityMode indicates velocity mode is active.
func (s Signals) VelocityMode() bool { return uint16(s)&SignalVelocityMode != 0 }

// ForwardDir indicates the forward direction in velocity mode.
func (s Signals) ForwardDir() bool { return uint16(s)&SignalForwardDir != 0 }

// FilterLoaded indicates filter parameters were loaded but not updated.
func (s Signals) FilterLoaded() bool { return uint16(s)&SignalFilterLoaded != 0 }

// AccelerationLoaded indicates an acceleration was loaded but not started.
func (s Signals) AccelerationLoaded() bool { return uint16(s)&SignalAccelerationLoaded != 0 }

// HostInterrupt indicates the host interrupt line is asserted.
func (s Signals) HostInterrupt() bool { return uint16(s)&SignalHostInterrupt != 0 }

// ParamState is the lifecycle of a parameter set on a channel.
type ParamState int

// Parameter states.
const (
	Idle ParamState = iota
	Pending
	Loaded
	Active
)

func (s ParamState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Loaded:
		return "loaded"
	case Active:
		return "active"
	}
	return fmt.Sprintf("ParamState(%d)", int(s))
}
