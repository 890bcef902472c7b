package lm629

import (
	"fmt"

	"github.com/golang/glog"
)

// Status reads the status byte from the command port.
func (c *Channel) Status() (Status, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	st, err := c.readStatus()
	return st, c.opError("status", err)
}

// Signals reads the signals register with RDSIGS.
func (c *Channel) Signals() (Signals, error) {
	buf, err := c.queryLocked(OpRDSIGS, 1, "signals")
	if err != nil {
		return 0, err
	}
	return Signals(decodeWord(buf)), nil
}

// IntegrationSum reads the integration sum with RDSUM.
func (c *Channel) IntegrationSum() (int16, error) {
	buf, err := c.queryLocked(OpRDSUM, 1, "integration sum")
	if err != nil {
		return 0, err
	}
	return int16(decodeWord(buf)), nil
}

// RealVelocity reads the integer part of the actual velocity with RDRV,
// in counts per sample.
func (c *Channel) RealVelocity() (int16, error) {
	buf, err := c.queryLocked(OpRDRV, 1, "real velocity")
	if err != nil {
		return 0, err
	}
	return int16(decodeWord(buf)), nil
}

// RealPosition reads the actual position with RDRP.
func (c *Channel) RealPosition() (int32, error) {
	return c.queryLong(OpRDRP, "real position")
}

// DesiredPosition reads the position the trajectory generator demands
// with RDDP.
func (c *Channel) DesiredPosition() (int32, error) {
	return c.queryLong(OpRDDP, "desired position")
}

// DesiredVelocity reads the demanded velocity with RDDV, scaled by 65536.
func (c *Channel) DesiredVelocity() (int32, error) {
	return c.queryLong(OpRDDV, "desired velocity")
}

// IndexPosition reads the position latched at the last index pulse
// with RDIP.
func (c *Channel) IndexPosition() (int32, error) {
	return c.queryLong(OpRDIP, "index position")
}

func (c *Channel) queryLong(op byte, name string) (int32, error) {
	buf, err := c.queryLocked(op, 2, name)
	if err != nil {
		return 0, err
	}
	return decodeLong(buf), nil
}

func (c *Channel) queryLocked(op byte, words int, name string) ([]byte, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	buf, err := c.query(op, words)
	if err != nil {
		return nil, c.opError(name, err)
	}
	return buf, nil
}

func (c *Channel) commandLocked(name string, op byte, groups ...[]byte) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	glog.V(2).Infof("channel %d: %s", c.index, name)
	return c.opError(name, c.command(op, groups...))
}

// DefineHome makes the current position the zero position with DFH.
func (c *Channel) DefineHome() error {
	return c.commandLocked("define home", OpDFH)
}

// AcquireIndex latches the position at the next index pulse with SIP.
func (c *Channel) AcquireIndex() error {
	return c.commandLocked("set index position", OpSIP)
}

// SetPositionErrorThreshold loads the position error limit. With stop set
// the chip turns the motor off when exceeded (LPES), otherwise it only
// raises the position error interrupt (LPEI).
func (c *Channel) SetPositionErrorThreshold(threshold uint16, stop bool) error {
	if threshold > 0x7fff {
		return c.opError("set position error threshold",
			fmt.Errorf("%w: threshold %d exceeds 15 bits", ErrInvalidParameter, threshold))
	}
	op := OpLPEI
	if stop {
		op = OpLPES
	}
	if err := c.commandLocked("set position error threshold", op, word(threshold)); err != nil {
		return err
	}
	c.errorThreshold.Store(uint32(threshold))
	return nil
}

// PositionErrorThreshold returns the last threshold loaded.
func (c *Channel) PositionErrorThreshold() uint16 {
	return uint16(c.errorThreshold.Load())
}

// SetBreakpoint loads a breakpoint, absolute (SBPA) or relative to the
// current target (SBPR).
func (c *Channel) SetBreakpoint(pos int32, relative bool) error {
	op := OpSBPA
	if relative {
		op = OpSBPR
	}
	return c.commandLocked("set breakpoint", op, longWords(pos)...)
}

// MaskInterrupts enables the host interrupt for the bits set in mask (MSKI).
func (c *Channel) MaskInterrupts(mask byte) error {
	if mask&^IRQAll != 0 {
		return c.opError("mask interrupts",
			fmt.Errorf("%w: interrupt mask %02x", ErrInvalidParameter, mask))
	}
	if err := c.commandLocked("mask interrupts", OpMSKI, []byte{0, mask}); err != nil {
		return err
	}
	c.irqMask.Store(uint32(mask))
	return nil
}

// InterruptMask returns the mask last loaded by MaskInterrupts.
func (c *Channel) InterruptMask() byte {
	return byte(c.irqMask.Load())
}

// ResetInterrupts clears the interrupt flags whose bit is zero in keep (RSTI).
func (c *Channel) ResetInterrupts(keep byte) error {
	return c.commandLocked("reset interrupts", OpRSTI, []byte{0, keep})
}
