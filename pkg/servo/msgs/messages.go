package msgs

import (
	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/servo.go/pkg/framework"
)

// ServoStatusQuery queries the status of the board and both channels.
type ServoStatusQuery struct {
}

// NewMessage implements Message.
func (m *ServoStatusQuery) NewMessage() fx.Message { return &ServoStatusQuery{} }

// TypeID implements SerializableMessage.
func (m *ServoStatusQuery) TypeID() uint32 { return ServoStatusQueryTypeID }

// Serializable implements SerializableMessage.
func (m *ServoStatusQuery) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ServoStatusQuery) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ServoStatusQuery) Reset() { *m = ServoStatusQuery{} }

// String implements proto.Message.
func (m *ServoStatusQuery) String() string { return proto.CompactTextString(m) }

// ServoStatusReply is the response for ServoStatusQuery.
type ServoStatusReply struct {
	Status *ServoStatus `protobuf:"bytes,1,opt,name=status,proto3" json:"status,omitempty"`
}

// NewMessage implements Message.
func (m *ServoStatusReply) NewMessage() fx.Message { return &ServoStatusReply{} }

// TypeID implements SerializableMessage.
func (m *ServoStatusReply) TypeID() uint32 { return ServoStatusReplyTypeID }

// Serializable implements SerializableMessage.
func (m *ServoStatusReply) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ServoStatusReply) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ServoStatusReply) Reset() { *m = ServoStatusReply{} }

// String implements proto.Message.
func (m *ServoStatusReply) String() string { return proto.CompactTextString(m) }

// ServoStatus is an Event message reflecting the board status.
type ServoStatus struct {
	Board     string                `protobuf:"bytes,1,opt,name=board,proto3" json:"board,omitempty"`
	LED       bool                  `protobuf:"varint,2,opt,name=led,proto3" json:"led,omitempty"`
	IRQEnable bool                  `protobuf:"varint,3,opt,name=irq_enable,proto3" json:"irq_enable,omitempty"`
	Brakes    uint32                `protobuf:"varint,4,opt,name=brakes,proto3" json:"brakes,omitempty"`
	Channels  []*ServoChannelStatus `protobuf:"bytes,5,rep,name=channels,proto3" json:"channels,omitempty"`
	Error     string                `protobuf:"bytes,6,opt,name=error,proto3" json:"error,omitempty"`
}

// NewMessage implements Message.
func (m *ServoStatus) NewMessage() fx.Message { return &ServoStatus{} }

// TypeID implements SerializableMessage.
func (m *ServoStatus) TypeID() uint32 { return ServoStatusEventTypeID }

// Serializable implements SerializableMessage.
func (m *ServoStatus) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ServoStatus) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ServoStatus) Reset() { *m = ServoStatus{} }

// String implements proto.Message.
func (m *ServoStatus) String() string { return proto.CompactTextString(m) }

// ServoInit runs the bring-up sequence of the board.
type ServoInit struct {
}

// NewMessage implements Message.
func (m *ServoInit) NewMessage() fx.Message { return &ServoInit{} }

// TypeID implements SerializableMessage.
func (m *ServoInit) TypeID() uint32 { return ServoInitTypeID }

// Serializable implements SerializableMessage.
func (m *ServoInit) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ServoInit) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ServoInit) Reset() { *m = ServoInit{} }

// String implements proto.Message.
func (m *ServoInit) String() string { return proto.CompactTextString(m) }

// ServoHardReset hard resets a channel through the board reset register.
type ServoHardReset struct {
	Channel uint32 `protobuf:"varint,1,opt,name=channel,proto3" json:"channel,omitempty"`
}

// NewMessage implements Message.
func (m *ServoHardReset) NewMessage() fx.Message { return &ServoHardReset{} }

// TypeID implements SerializableMessage.
func (m *ServoHardReset) TypeID() uint32 { return ServoHardResetTypeID }

// Serializable implements SerializableMessage.
func (m *ServoHardReset) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ServoHardReset) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ServoHardReset) Reset() { *m = ServoHardReset{} }

// String implements proto.Message.
func (m *ServoHardReset) String() string { return proto.CompactTextString(m) }

// ServoSoftReset resets a channel with the RST command.
type ServoSoftReset struct {
	Channel uint32 `protobuf:"varint,1,opt,name=channel,proto3" json:"channel,omitempty"`
}

// NewMessage implements Message.
func (m *ServoSoftReset) NewMessage() fx.Message { return &ServoSoftReset{} }

// TypeID implements SerializableMessage.
func (m *ServoSoftReset) TypeID() uint32 { return ServoSoftResetTypeID }

// Serializable implements SerializableMessage.
func (m *ServoSoftReset) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ServoSoftReset) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ServoSoftReset) Reset() { *m = ServoSoftReset{} }

// String implements proto.Message.
func (m *ServoSoftReset) String() string { return proto.CompactTextString(m) }

// ServoSetFilter stores and loads a filter. With Commit, the filter is also committed.
type ServoSetFilter struct {
	Channel uint32       `protobuf:"varint,1,opt,name=channel,proto3" json:"channel,omitempty"`
	Filter  *ServoFilter `protobuf:"bytes,2,opt,name=filter,proto3" json:"filter,omitempty"`
	Commit  bool         `protobuf:"varint,3,opt,name=commit,proto3" json:"commit,omitempty"`
}

// NewMessage implements Message.
func (m *ServoSetFilter) NewMessage() fx.Message { return &ServoSetFilter{} }

// TypeID implements SerializableMessage.
func (m *ServoSetFilter) TypeID() uint32 { return ServoSetFilterTypeID }

// Serializable implements SerializableMessage.
func (m *ServoSetFilter) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ServoSetFilter) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ServoSetFilter) Reset() { *m = ServoSetFilter{} }

// String implements proto.Message.
func (m *ServoSetFilter) String() string { return proto.CompactTextString(m) }

// ServoUpdateFilter commits the loaded filter.
type ServoUpdateFilter struct {
	Channel uint32 `protobuf:"varint,1,opt,name=channel,proto3" json:"channel,omitempty"`
}

// NewMessage implements Message.
func (m *ServoUpdateFilter) NewMessage() fx.Message { return &ServoUpdateFilter{} }

// TypeID implements SerializableMessage.
func (m *ServoUpdateFilter) TypeID() uint32 { return ServoUpdateFilterTypeID }

// Serializable implements SerializableMessage.
func (m *ServoUpdateFilter) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ServoUpdateFilter) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ServoUpdateFilter) Reset() { *m = ServoUpdateFilter{} }

// String implements proto.Message.
func (m *ServoUpdateFilter) String() string { return proto.CompactTextString(m) }

// ServoSetTrajectory stores and loads a trajectory. With Start, the trajectory is also started.
type ServoSetTrajectory struct {
	Channel    uint32           `protobuf:"varint,1,opt,name=channel,proto3" json:"channel,omitempty"`
	Trajectory *ServoTrajectory `protobuf:"bytes,2,opt,name=trajectory,proto3" json:"trajectory,omitempty"`
	Start      bool             `protobuf:"varint,3,opt,name=start,proto3" json:"start,omitempty"`
}

// NewMessage implements Message.
func (m *ServoSetTrajectory) NewMessage() fx.Message { return &ServoSetTrajectory{} }

// TypeID implements SerializableMessage.
func (m *ServoSetTrajectory) TypeID() uint32 { return ServoSetTrajectoryTypeID }

// Serializable implements SerializableMessage.
func (m *ServoSetTrajectory) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ServoSetTrajectory) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ServoSetTrajectory) Reset() { *m = ServoSetTrajectory{} }

// String implements proto.Message.
func (m *ServoSetTrajectory) String() string { return proto.CompactTextString(m) }

// ServoStartTrajectory starts the loaded trajectory.
type ServoStartTrajectory struct {
	Channel uint32 `protobuf:"varint,1,opt,name=channel,proto3" json:"channel,omitempty"`
}

// NewMessage implements Message.
func (m *ServoStartTrajectory) NewMessage() fx.Message { return &ServoStartTrajectory{} }

// TypeID implements SerializableMessage.
func (m *ServoStartTrajectory) TypeID() uint32 { return ServoStartTrajectoryTypeID }

// Serializable implements SerializableMessage.
func (m *ServoStartTrajectory) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ServoStartTrajectory) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ServoStartTrajectory) Reset() { *m = ServoStartTrajectory{} }

// String implements proto.Message.
func (m *ServoStartTrajectory) String() string { return proto.CompactTextString(m) }

// ServoStop stops a channel. Mode is one of StopSmooth, StopAbrupt, StopMotorOff.
type ServoStop struct {
	Channel uint32 `protobuf:"varint,1,opt,name=channel,proto3" json:"channel,omitempty"`
	Mode    uint32 `protobuf:"varint,2,opt,name=mode,proto3" json:"mode,omitempty"`
}

// NewMessage implements Message.
func (m *ServoStop) NewMessage() fx.Message { return &ServoStop{} }

// TypeID implements SerializableMessage.
func (m *ServoStop) TypeID() uint32 { return ServoStopTypeID }

// Serializable implements SerializableMessage.
func (m *ServoStop) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ServoStop) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ServoStop) Reset() { *m = ServoStop{} }

// String implements proto.Message.
func (m *ServoStop) String() string { return proto.CompactTextString(m) }

// ServoDefineHome makes the current position the home position.
type ServoDefineHome struct {
	Channel uint32 `protobuf:"varint,1,opt,name=channel,proto3" json:"channel,omitempty"`
}

// NewMessage implements Message.
func (m *ServoDefineHome) NewMessage() fx.Message { return &ServoDefineHome{} }

// TypeID implements SerializableMessage.
func (m *ServoDefineHome) TypeID() uint32 { return ServoDefineHomeTypeID }

// Serializable implements SerializableMessage.
func (m *ServoDefineHome) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ServoDefineHome) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ServoDefineHome) Reset() { *m = ServoDefineHome{} }

// String implements proto.Message.
func (m *ServoDefineHome) String() string { return proto.CompactTextString(m) }

// ServoAcquireIndex latches the position at the next index pulse.
type ServoAcquireIndex struct {
	Channel uint32 `protobuf:"varint,1,opt,name=channel,proto3" json:"channel,omitempty"`
}

// NewMessage implements Message.
func (m *ServoAcquireIndex) NewMessage() fx.Message { return &ServoAcquireIndex{} }

// TypeID implements SerializableMessage.
func (m *ServoAcquireIndex) TypeID() uint32 { return ServoAcquireIndexTypeID }

// Serializable implements SerializableMessage.
func (m *ServoAcquireIndex) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ServoAcquireIndex) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ServoAcquireIndex) Reset() { *m = ServoAcquireIndex{} }

// String implements proto.Message.
func (m *ServoAcquireIndex) String() string { return proto.CompactTextString(m) }

// ServoSetBreakpoint sets an absolute or relative breakpoint.
type ServoSetBreakpoint struct {
	Channel  uint32 `protobuf:"varint,1,opt,name=channel,proto3" json:"channel,omitempty"`
	Position int32  `protobuf:"varint,2,opt,name=position,proto3" json:"position,omitempty"`
	Relative bool   `protobuf:"varint,3,opt,name=relative,proto3" json:"relative,omitempty"`
}

// NewMessage implements Message.
func (m *ServoSetBreakpoint) NewMessage() fx.Message { return &ServoSetBreakpoint{} }

// TypeID implements SerializableMessage.
func (m *ServoSetBreakpoint) TypeID() uint32 { return ServoSetBreakpointTypeID }

// Serializable implements SerializableMessage.
func (m *ServoSetBreakpoint) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ServoSetBreakpoint) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ServoSetBreakpoint) Reset() { *m = ServoSetBreakpoint{} }

// String implements proto.Message.
func (m *ServoSetBreakpoint) String() string { return proto.CompactTextString(m) }

// ServoSetPositionErrorThreshold sets the position error threshold.
type ServoSetPositionErrorThreshold struct {
	Channel     uint32 `protobuf:"varint,1,opt,name=channel,proto3" json:"channel,omitempty"`
	Threshold   uint32 `protobuf:"varint,2,opt,name=threshold,proto3" json:"threshold,omitempty"`
	StopOnError bool   `protobuf:"varint,3,opt,name=stop_on_error,proto3" json:"stop_on_error,omitempty"`
}

// NewMessage implements Message.
func (m *ServoSetPositionErrorThreshold) NewMessage() fx.Message { return &ServoSetPositionErrorThreshold{} }

// TypeID implements SerializableMessage.
func (m *ServoSetPositionErrorThreshold) TypeID() uint32 { return ServoSetPositionErrorThresholdTypeID }

// Serializable implements SerializableMessage.
func (m *ServoSetPositionErrorThreshold) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ServoSetPositionErrorThreshold) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ServoSetPositionErrorThreshold) Reset() { *m = ServoSetPositionErrorThreshold{} }

// String implements proto.Message.
func (m *ServoSetPositionErrorThreshold) String() string { return proto.CompactTextString(m) }

// ServoSetIRQMask sets the interrupt mask of a channel.
type ServoSetIRQMask struct {
	Channel uint32 `protobuf:"varint,1,opt,name=channel,proto3" json:"channel,omitempty"`
	Mask    uint32 `protobuf:"varint,2,opt,name=mask,proto3" json:"mask,omitempty"`
}

// NewMessage implements Message.
func (m *ServoSetIRQMask) NewMessage() fx.Message { return &ServoSetIRQMask{} }

// TypeID implements SerializableMessage.
func (m *ServoSetIRQMask) TypeID() uint32 { return ServoSetIRQMaskTypeID }

// Serializable implements SerializableMessage.
func (m *ServoSetIRQMask) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ServoSetIRQMask) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ServoSetIRQMask) Reset() { *m = ServoSetIRQMask{} }

// String implements proto.Message.
func (m *ServoSetIRQMask) String() string { return proto.CompactTextString(m) }

// ServoResetInterrupts clears interrupt flags of a channel, keeping the bits in Keep.
type ServoResetInterrupts struct {
	Channel uint32 `protobuf:"varint,1,opt,name=channel,proto3" json:"channel,omitempty"`
	Keep    uint32 `protobuf:"varint,2,opt,name=keep,proto3" json:"keep,omitempty"`
}

// NewMessage implements Message.
func (m *ServoResetInterrupts) NewMessage() fx.Message { return &ServoResetInterrupts{} }

// TypeID implements SerializableMessage.
func (m *ServoResetInterrupts) TypeID() uint32 { return ServoResetInterruptsTypeID }

// Serializable implements SerializableMessage.
func (m *ServoResetInterrupts) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ServoResetInterrupts) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ServoResetInterrupts) Reset() { *m = ServoResetInterrupts{} }

// String implements proto.Message.
func (m *ServoResetInterrupts) String() string { return proto.CompactTextString(m) }

// ServoSetBoard sets the board outputs selected by Select to the bits in Value.
type ServoSetBoard struct {
	Select uint32 `protobuf:"varint,1,opt,name=select,proto3" json:"select,omitempty"`
	Value  uint32 `protobuf:"varint,2,opt,name=value,proto3" json:"value,omitempty"`
}

// NewMessage implements Message.
func (m *ServoSetBoard) NewMessage() fx.Message { return &ServoSetBoard{} }

// TypeID implements SerializableMessage.
func (m *ServoSetBoard) TypeID() uint32 { return ServoSetBoardTypeID }

// Serializable implements SerializableMessage.
func (m *ServoSetBoard) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ServoSetBoard) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ServoSetBoard) Reset() { *m = ServoSetBoard{} }

// String implements proto.Message.
func (m *ServoSetBoard) String() string { return proto.CompactTextString(m) }

// ServoIRQQuery reads the interrupt cause, with Clear also acknowledges it.
type ServoIRQQuery struct {
	Clear bool `protobuf:"varint,1,opt,name=clear,proto3" json:"clear,omitempty"`
}

// NewMessage implements Message.
func (m *ServoIRQQuery) NewMessage() fx.Message { return &ServoIRQQuery{} }

// TypeID implements SerializableMessage.
func (m *ServoIRQQuery) TypeID() uint32 { return ServoIRQQueryTypeID }

// Serializable implements SerializableMessage.
func (m *ServoIRQQuery) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ServoIRQQuery) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ServoIRQQuery) Reset() { *m = ServoIRQQuery{} }

// String implements proto.Message.
func (m *ServoIRQQuery) String() string { return proto.CompactTextString(m) }

// ServoIRQ is the response for ServoIRQQuery.
type ServoIRQ struct {
	Cause uint32 `protobuf:"varint,1,opt,name=cause,proto3" json:"cause,omitempty"`
}

// NewMessage implements Message.
func (m *ServoIRQ) NewMessage() fx.Message { return &ServoIRQ{} }

// TypeID implements SerializableMessage.
func (m *ServoIRQ) TypeID() uint32 { return ServoIRQTypeID }

// Serializable implements SerializableMessage.
func (m *ServoIRQ) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ServoIRQ) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ServoIRQ) Reset() { *m = ServoIRQ{} }

// String implements proto.Message.
func (m *ServoIRQ) String() string { return proto.CompactTextString(m) }

// ServoReportQuery requests the text report. With Channels, filter and trajectory reports of both channels are appended.
type ServoReportQuery struct {
	Channels bool `protobuf:"varint,1,opt,name=channels,proto3" json:"channels,omitempty"`
}

// NewMessage implements Message.
func (m *ServoReportQuery) NewMessage() fx.Message { return &ServoReportQuery{} }

// TypeID implements SerializableMessage.
func (m *ServoReportQuery) TypeID() uint32 { return ServoReportQueryTypeID }

// Serializable implements SerializableMessage.
func (m *ServoReportQuery) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ServoReportQuery) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ServoReportQuery) Reset() { *m = ServoReportQuery{} }

// String implements proto.Message.
func (m *ServoReportQuery) String() string { return proto.CompactTextString(m) }

// ServoReport is the response for ServoReportQuery.
type ServoReport struct {
	Text string `protobuf:"bytes,1,opt,name=text,proto3" json:"text,omitempty"`
}

// NewMessage implements Message.
func (m *ServoReport) NewMessage() fx.Message { return &ServoReport{} }

// TypeID implements SerializableMessage.
func (m *ServoReport) TypeID() uint32 { return ServoReportTypeID }

// Serializable implements SerializableMessage.
func (m *ServoReport) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ServoReport) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ServoReport) Reset() { *m = ServoReport{} }

// String implements proto.Message.
func (m *ServoReport) String() string { return proto.CompactTextString(m) }

// ServoRawWrite stores and loads parameters from their raw binary layout.
type ServoRawWrite struct {
	Channel uint32 `protobuf:"varint,1,opt,name=channel,proto3" json:"channel,omitempty"`
	Kind    uint32 `protobuf:"varint,2,opt,name=kind,proto3" json:"kind,omitempty"`
	Data    []byte `protobuf:"bytes,3,opt,name=data,proto3" json:"data,omitempty"`
}

// NewMessage implements Message.
func (m *ServoRawWrite) NewMessage() fx.Message { return &ServoRawWrite{} }

// TypeID implements SerializableMessage.
func (m *ServoRawWrite) TypeID() uint32 { return ServoRawWriteTypeID }

// Serializable implements SerializableMessage.
func (m *ServoRawWrite) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ServoRawWrite) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ServoRawWrite) Reset() { *m = ServoRawWrite{} }

// String implements proto.Message.
func (m *ServoRawWrite) String() string { return proto.CompactTextString(m) }

// ServoReadbackQuery reads the position and velocity registers of a channel.
type ServoReadbackQuery struct {
	Channel uint32 `protobuf:"varint,1,opt,name=channel,proto3" json:"channel,omitempty"`
}

// NewMessage implements Message.
func (m *ServoReadbackQuery) NewMessage() fx.Message { return &ServoReadbackQuery{} }

// TypeID implements SerializableMessage.
func (m *ServoReadbackQuery) TypeID() uint32 { return ServoReadbackQueryTypeID }

// Serializable implements SerializableMessage.
func (m *ServoReadbackQuery) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ServoReadbackQuery) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ServoReadbackQuery) Reset() { *m = ServoReadbackQuery{} }

// String implements proto.Message.
func (m *ServoReadbackQuery) String() string { return proto.CompactTextString(m) }

// ServoReadback is the response for ServoReadbackQuery.
type ServoReadback struct {
	Channel         uint32 `protobuf:"varint,1,opt,name=channel,proto3" json:"channel,omitempty"`
	DesiredPosition int32  `protobuf:"varint,2,opt,name=desired_position,proto3" json:"desired_position,omitempty"`
	RealPosition    int32  `protobuf:"varint,3,opt,name=real_position,proto3" json:"real_position,omitempty"`
	IndexPosition   int32  `protobuf:"varint,4,opt,name=index_position,proto3" json:"index_position,omitempty"`
	DesiredVelocity int32  `protobuf:"varint,5,opt,name=desired_velocity,proto3" json:"desired_velocity,omitempty"`
	RealVelocity    int32  `protobuf:"varint,6,opt,name=real_velocity,proto3" json:"real_velocity,omitempty"`
	IntegrationSum  int32  `protobuf:"varint,7,opt,name=integration_sum,proto3" json:"integration_sum,omitempty"`
}

// NewMessage implements Message.
func (m *ServoReadback) NewMessage() fx.Message { return &ServoReadback{} }

// TypeID implements SerializableMessage.
func (m *ServoReadback) TypeID() uint32 { return ServoReadbackTypeID }

// Serializable implements SerializableMessage.
func (m *ServoReadback) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ServoReadback) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ServoReadback) Reset() { *m = ServoReadback{} }

// String implements proto.Message.
func (m *ServoReadback) String() string { return proto.CompactTextString(m) }

// ServoFilter carries the PID filter coefficients.
type ServoFilter struct {
	DTerm int32 `protobuf:"varint,1,opt,name=dterm,proto3" json:"dterm,omitempty"`
	Kp    int32 `protobuf:"varint,2,opt,name=kp,proto3" json:"kp,omitempty"`
	Ki    int32 `protobuf:"varint,3,opt,name=ki,proto3" json:"ki,omitempty"`
	Kd    int32 `protobuf:"varint,4,opt,name=kd,proto3" json:"kd,omitempty"`
	Il    int32 `protobuf:"varint,5,opt,name=il,proto3" json:"il,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *ServoFilter) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ServoFilter) Reset() { *m = ServoFilter{} }

// String implements proto.Message.
func (m *ServoFilter) String() string { return proto.CompactTextString(m) }

// ServoTrajectory carries trajectory flags and magnitudes.
type ServoTrajectory struct {
	ForwardDir   bool  `protobuf:"varint,1,opt,name=forward_dir,proto3" json:"forward_dir,omitempty"`
	VelocityMode bool  `protobuf:"varint,2,opt,name=velocity_mode,proto3" json:"velocity_mode,omitempty"`
	StopSmooth   bool  `protobuf:"varint,3,opt,name=stop_smooth,proto3" json:"stop_smooth,omitempty"`
	StopAbrupt   bool  `protobuf:"varint,4,opt,name=stop_abrupt,proto3" json:"stop_abrupt,omitempty"`
	MotorOff     bool  `protobuf:"varint,5,opt,name=motor_off,proto3" json:"motor_off,omitempty"`
	LoadAcc      bool  `protobuf:"varint,6,opt,name=load_acc,proto3" json:"load_acc,omitempty"`
	AccRelative  bool  `protobuf:"varint,7,opt,name=acc_relative,proto3" json:"acc_relative,omitempty"`
	LoadVel      bool  `protobuf:"varint,8,opt,name=load_vel,proto3" json:"load_vel,omitempty"`
	VelRelative  bool  `protobuf:"varint,9,opt,name=vel_relative,proto3" json:"vel_relative,omitempty"`
	LoadPos      bool  `protobuf:"varint,10,opt,name=load_pos,proto3" json:"load_pos,omitempty"`
	PosRelative  bool  `protobuf:"varint,11,opt,name=pos_relative,proto3" json:"pos_relative,omitempty"`
	Acc          int32 `protobuf:"varint,12,opt,name=acc,proto3" json:"acc,omitempty"`
	Velocity     int32 `protobuf:"varint,13,opt,name=velocity,proto3" json:"velocity,omitempty"`
	Position     int32 `protobuf:"varint,14,opt,name=position,proto3" json:"position,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *ServoTrajectory) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ServoTrajectory) Reset() { *m = ServoTrajectory{} }

// String implements proto.Message.
func (m *ServoTrajectory) String() string { return proto.CompactTextString(m) }

// ServoChannelStatus is the status of one channel.
type ServoChannelStatus struct {
	Channel            uint32           `protobuf:"varint,1,opt,name=channel,proto3" json:"channel,omitempty"`
	Status             uint32           `protobuf:"varint,2,opt,name=status,proto3" json:"status,omitempty"`
	Signals            uint32           `protobuf:"varint,3,opt,name=signals,proto3" json:"signals,omitempty"`
	Position           int32            `protobuf:"varint,4,opt,name=position,proto3" json:"position,omitempty"`
	FilterState        string           `protobuf:"bytes,5,opt,name=filter_state,proto3" json:"filter_state,omitempty"`
	TrajectoryState    string           `protobuf:"bytes,6,opt,name=trajectory_state,proto3" json:"trajectory_state,omitempty"`
	TrajectoryComplete bool             `protobuf:"varint,7,opt,name=trajectory_complete,proto3" json:"trajectory_complete,omitempty"`
	PositionError      bool             `protobuf:"varint,8,opt,name=position_error,proto3" json:"position_error,omitempty"`
	IRQMask            uint32           `protobuf:"varint,9,opt,name=irq_mask,proto3" json:"irq_mask,omitempty"`
	Threshold          uint32           `protobuf:"varint,10,opt,name=threshold,proto3" json:"threshold,omitempty"`
	Filter             *ServoFilter     `protobuf:"bytes,11,opt,name=filter,proto3" json:"filter,omitempty"`
	Trajectory         *ServoTrajectory `protobuf:"bytes,12,opt,name=trajectory,proto3" json:"trajectory,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *ServoChannelStatus) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ServoChannelStatus) Reset() { *m = ServoChannelStatus{} }

// String implements proto.Message.
func (m *ServoChannelStatus) String() string { return proto.CompactTextString(m) }
