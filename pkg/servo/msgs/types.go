package msgs

import (
	"github.com/robotalks/servo.go/pkg/l1/msgs"
	"github.com/robotalks/servo.go/pkg/lm629"
)

// GroupServo defines the custom group.
const GroupServo = msgs.GroupCustom

// TypeIDs
const (
	ServoStatusEventTypeID uint32 = GroupServo | msgs.TypeIDKindEvent | 0x0000

	ServoStatusQueryTypeID               uint32 = GroupServo | 0x0000
	ServoInitTypeID                      uint32 = GroupServo | 0x0001
	ServoHardResetTypeID                 uint32 = GroupServo | 0x0002
	ServoSoftResetTypeID                 uint32 = GroupServo | 0x0003
	ServoSetFilterTypeID                 uint32 = GroupServo | 0x0004
	ServoUpdateFilterTypeID              uint32 = GroupServo | 0x0005
	ServoSetTrajectoryTypeID             uint32 = GroupServo | 0x0006
	ServoStartTrajectoryTypeID           uint32 = GroupServo | 0x0007
	ServoStopTypeID                      uint32 = GroupServo | 0x0008
	ServoDefineHomeTypeID                uint32 = GroupServo | 0x0009
	ServoAcquireIndexTypeID              uint32 = GroupServo | 0x000a
	ServoSetBreakpointTypeID             uint32 = GroupServo | 0x000b
	ServoSetPositionErrorThresholdTypeID uint32 = GroupServo | 0x000c
	ServoSetIRQMaskTypeID                uint32 = GroupServo | 0x000d
	ServoResetInterruptsTypeID           uint32 = GroupServo | 0x000e
	ServoSetBoardTypeID                  uint32 = GroupServo | 0x000f
	ServoIRQQueryTypeID                  uint32 = GroupServo | 0x0010
	ServoReportQueryTypeID               uint32 = GroupServo | 0x0011
	ServoRawWriteTypeID                  uint32 = GroupServo | 0x0012
	ServoReadbackQueryTypeID             uint32 = GroupServo | 0x0013

	ServoStatusReplyTypeID uint32 = ServoStatusQueryTypeID | msgs.TypeIDMaskReply
	ServoIRQTypeID         uint32 = ServoIRQQueryTypeID | msgs.TypeIDMaskReply
	ServoReportTypeID      uint32 = ServoReportQueryTypeID | msgs.TypeIDMaskReply
	ServoReadbackTypeID    uint32 = ServoReadbackQueryTypeID | msgs.TypeIDMaskReply
)

// Stop modes of ServoStop.
const (
	StopSmooth   = uint32(lm629.StopSmooth)
	StopAbrupt   = uint32(lm629.StopAbrupt)
	StopMotorOff = uint32(lm629.StopMotorOff)
)

// Raw parameter kinds of ServoRawWrite.
const (
	RawFilter uint32 = iota
	RawTrajectory
)

// Board outputs of ServoSetBoard.
const (
	BoardLED       uint32 = 0x01
	BoardIRQEnable uint32 = 0x02
	BoardBrake0    uint32 = 0x04
	BoardBrake1    uint32 = 0x08
)

// BoardBrake returns the output bit of the brake of channel n.
func BoardBrake(n int) uint32 {
	return BoardBrake0 << uint(n)
}

func init() {
	for _, m := range []msgs.SerializableMessage{
		(*ServoStatus)(nil),
		(*ServoStatusQuery)(nil),
		(*ServoStatusReply)(nil),
		(*ServoInit)(nil),
		(*ServoHardReset)(nil),
		(*ServoSoftReset)(nil),
		(*ServoSetFilter)(nil),
		(*ServoUpdateFilter)(nil),
		(*ServoSetTrajectory)(nil),
		(*ServoStartTrajectory)(nil),
		(*ServoStop)(nil),
		(*ServoDefineHome)(nil),
		(*ServoAcquireIndex)(nil),
		(*ServoSetBreakpoint)(nil),
		(*ServoSetPositionErrorThreshold)(nil),
		(*ServoSetIRQMask)(nil),
		(*ServoResetInterrupts)(nil),
		(*ServoSetBoard)(nil),
		(*ServoIRQQuery)(nil),
		(*ServoIRQ)(nil),
		(*ServoReportQuery)(nil),
		(*ServoReport)(nil),
		(*ServoRawWrite)(nil),
		(*ServoReadbackQuery)(nil),
		(*ServoReadback)(nil),
	} {
		msgs.MessageTypes[m.TypeID()] = m
	}
}

// FilterFrom converts a filter to its message form.
func FilterFrom(f lm629.Filter) *ServoFilter {
	return &ServoFilter{
		DTerm: int32(f.DTerm),
		Kp:    int32(f.Kp),
		Ki:    int32(f.Ki),
		Kd:    int32(f.Kd),
		Il:    int32(f.Il),
	}
}

// Filter converts the message to a filter.
func (m *ServoFilter) Filter() lm629.Filter {
	if m == nil {
		return lm629.Filter{}
	}
	return lm629.Filter{
		DTerm: int(m.DTerm),
		Kp:    int(m.Kp),
		Ki:    int(m.Ki),
		Kd:    int(m.Kd),
		Il:    int(m.Il),
	}
}

// TrajectoryFrom converts a trajectory to its message form.
func TrajectoryFrom(t lm629.Trajectory) *ServoTrajectory {
	return &ServoTrajectory{
		ForwardDir:   t.ForwardDir,
		VelocityMode: t.VelocityMode,
		StopSmooth:   t.StopSmooth,
		StopAbrupt:   t.StopAbrupt,
		MotorOff:     t.MotorOff,
		LoadAcc:      t.LoadAcc,
		AccRelative:  t.AccRelative,
		LoadVel:      t.LoadVel,
		VelRelative:  t.VelRelative,
		LoadPos:      t.LoadPos,
		PosRelative:  t.PosRelative,
		Acc:          t.Acc,
		Velocity:     t.Velocity,
		Position:     t.Position,
	}
}

// Trajectory converts the message to a trajectory.
func (m *ServoTrajectory) Trajectory() lm629.Trajectory {
	if m == nil {
		return lm629.Trajectory{}
	}
	return lm629.Trajectory{
		ForwardDir:   m.ForwardDir,
		VelocityMode: m.VelocityMode,
		StopSmooth:   m.StopSmooth,
		StopAbrupt:   m.StopAbrupt,
		MotorOff:     m.MotorOff,
		LoadAcc:      m.LoadAcc,
		AccRelative:  m.AccRelative,
		LoadVel:      m.LoadVel,
		VelRelative:  m.VelRelative,
		LoadPos:      m.LoadPos,
		PosRelative:  m.PosRelative,
		Acc:          m.Acc,
		Velocity:     m.Velocity,
		Position:     m.Position,
	}
}
