package lm629

// Command opcodes written to the command port.
const (
	OpRST    byte = 0x00 // reset
	OpSTT    byte = 0x01 // start trajectory
	OpDFH    byte = 0x02 // define home
	OpSIP    byte = 0x03 // set index position
	OpUDF    byte = 0x04 // update filter
	OpRDDV   byte = 0x07 // read desired velocity
	OpRDDP   byte = 0x08 // read desired position
	OpRDIP   byte = 0x09 // read index position
	OpRDRP   byte = 0x0a // read real position
	OpRDRV   byte = 0x0b // read real velocity
	OpRDSIGS byte = 0x0c // read signals register
	OpRDSUM  byte = 0x0d // read integration sum
	OpLPES   byte = 0x1a // load position error for stopping
	OpLPEI   byte = 0x1b // load position error for interrupt
	OpMSKI   byte = 0x1c // mask interrupts
	OpRSTI   byte = 0x1d // reset interrupts
	OpLFIL   byte = 0x1e // load filter parameters
	OpLTRJ   byte = 0x1f // load trajectory parameters
	OpSBPA   byte = 0x20 // set breakpoint, absolute
	OpSBPR   byte = 0x21 // set breakpoint, relative
)

// Filter control byte bits.
const (
	FilterLoadKp byte = 0x08
	FilterLoadKi byte = 0x04
	FilterLoadKd byte = 0x02
	FilterLoadIl byte = 0x01
)

// Trajectory control word bits.
const (
	TrajForwardDir   uint16 = 0x1000
	TrajVelocityMode uint16 = 0x0800
	TrajStopSmooth   uint16 = 0x0400
	TrajStopAbrupt   uint16 = 0x0200
	TrajMotorOff     uint16 = 0x0100
	TrajLoadAcc      uint16 = 0x0020
	TrajAccRelative  uint16 = 0x0010
	TrajLoadVel      uint16 = 0x0008
	TrajVelRelative  uint16 = 0x0004
	TrajLoadPos      uint16 = 0x0002
	TrajPosRelative  uint16 = 0x0001
)

// Status byte bits, also the low byte of the signals register.
const (
	StatusBusy               byte = 0x01
	StatusCommandError       byte = 0x02
	StatusTrajectoryComplete byte = 0x04
	StatusIndexPulse         byte = 0x08
	StatusWrapAround         byte = 0x10
	StatusPositionError      byte = 0x20
	StatusBreakpoint         byte = 0x40
	StatusMotorOff           byte = 0x80
)

// Signals register bits above the status byte.
const (
	SignalAcquireNextIndex   uint16 = 0x0001
	SignalEightBitMode       uint16 = 0x0100
	SignalTurnOffOnError     uint16 = 0x0200
	SignalOnTarget           uint16 = 0x0400
	SignalVelocityMode       uint16 = 0x0800
	SignalForwardDir         uint16 = 0x1000
	SignalFilterLoaded       uint16 = 0x2000
	SignalAccelerationLoaded uint16 = 0x4000
	SignalHostInterrupt      uint16 = 0x8000
)

// Interrupt mask bits for MSKI and RSTI.
const (
	IRQBreakpoint    byte = 0x40
	IRQPositionError byte = 0x20
	IRQWrapAround    byte = 0x10
	IRQIndexPulse    byte = 0x08
	IRQTrajectory    byte = 0x04
	IRQCommandError  byte = 0x02
	IRQAll           byte = 0x7e
)

// Status byte signatures after a hardware reset.
const (
	ResetSignatureA byte = 0xc4
	ResetSignatureB byte = 0x84
	// After interrupts are cleared the trajectory-complete bit drops.
	ReadySignatureA byte = 0xc0
	ReadySignatureB byte = 0x80
)

// BusyRetryLimit bounds the busy-bit polling of a single handshake.
const BusyRetryLimit = 30
