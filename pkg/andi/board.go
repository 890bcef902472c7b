// Package andi drives the ANDI-SERVO interface board carrying two LM629
// motion controllers.
package andi

import (
	"errors"
	"fmt"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/servo.go/pkg/lm629"
	"github.com/robotalks/servo.go/pkg/portio"
)

// Register offsets from the board base address.
const (
	RegCommand0  uint16 = 0
	RegData0     uint16 = 1
	RegCommand1  uint16 = 2
	RegData1     uint16 = 3
	RegBrakes    uint16 = 4
	RegHardReset uint16 = 5
	// RegControl takes the LED and IRQ enable bits on write and
	// returns the IRQ cause on read.
	RegControl  uint16 = 6
	RegClearIRQ uint16 = 7

	PortCount = 8
)

// Channels is the number of LM629 on the board.
const Channels = 2

// Control register bits.
const (
	ControlLED       byte = 0x01
	ControlIRQEnable byte = 0x02
)

// Cause is the IRQ cause register.
type Cause byte

// Cause bits.
const (
	CauseThermal0 Cause = 0x01
	CauseThermal1 Cause = 0x02
	CauseChip0    Cause = 0x04
	CauseChip1    Cause = 0x08
)

// Chip reports an interrupt raised by the LM629 of the channel.
func (c Cause) Chip(ch int) bool {
	return c&(CauseChip0<<uint(ch)) != 0
}

// Thermal reports a thermal shutdown of the channel's power stage.
func (c Cause) Thermal(ch int) bool {
	return c&(CauseThermal0<<uint(ch)) != 0
}

var (
	// ErrClosed indicates the board was closed.
	ErrClosed = errors.New("board closed")
	// ErrNoChannel indicates a channel number out of range.
	ErrNoChannel = fmt.Errorf("%w: no such channel", lm629.ErrInvalidParameter)
)

// State is the lifecycle of a board.
type State int

// Board states.
const (
	StateInit State = iota
	StateOperational
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateOperational:
		return "operational"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Board owns both channels and the board control ports.
// Board-wide operations are serialized by the board lock.
type Board struct {
	config   Config
	bus      portio.Backend
	channels [Channels]*lm629.Channel

	lock    sync.Mutex
	state   State
	control byte
	brakes  byte
}

// New creates a Board on bus and stages the configured bring-up
// parameters as pending on both channels. A nil conf uses DefaultConfig.
func New(bus portio.Backend, conf *Config) (*Board, error) {
	if conf == nil {
		conf = DefaultConfig()
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	b := &Board{config: *conf, bus: bus}
	base := uint16(conf.BaseAddress)
	b.channels[0] = lm629.NewChannel(bus, 0, base+RegCommand0, base+RegData0)
	b.channels[1] = lm629.NewChannel(bus, 1, base+RegCommand1, base+RegData1)
	for n, ch := range b.channels {
		if err := ch.SetPendingFilter(conf.Channels[n].Filter); err != nil {
			return nil, err
		}
		ch.SetPendingTrajectory(conf.Channels[n].Trajectory)
	}
	return b, nil
}

// Config returns the configuration the board was created with.
func (b *Board) Config() Config {
	return b.config
}

// Channel returns the channel n.
func (b *Board) Channel(n int) (*lm629.Channel, error) {
	if n < 0 || n >= Channels {
		return nil, ErrNoChannel
	}
	return b.channels[n], nil
}

// State returns the lifecycle state.
func (b *Board) State() State {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.state
}

func (b *Board) port(reg uint16) uint16 {
	return uint16(b.config.BaseAddress) + reg
}

func (b *Board) checkOpen() error {
	if b.state == StateClosed {
		return ErrClosed
	}
	return nil
}

func (b *Board) write(reg uint16, val byte) error {
	if err := b.bus.WritePort(b.port(reg), val); err != nil {
		return fmt.Errorf("%w: %w", lm629.ErrBusFault, err)
	}
	return nil
}

func (b *Board) read(reg uint16) (byte, error) {
	val, err := b.bus.ReadPort(b.port(reg))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", lm629.ErrBusFault, err)
	}
	return val, nil
}

// HardReset pulses the reset line of channel n and verifies the chip
// comes back with a known signature. The whole sequence is retried up to
// ResetAttempts times before a *lm629.MismatchError is returned.
func (b *Board) HardReset(n int) error {
	ch, err := b.Channel(n)
	if err != nil {
		return err
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	if err := b.checkOpen(); err != nil {
		return err
	}
	return b.hardReset(ch)
}

func (b *Board) hardReset(ch *lm629.Channel) error {
	n := ch.Index()
	pulse := func() error {
		b.control &^= ControlIRQEnable
		if err := b.write(RegControl, b.control); err != nil {
			return err
		}
		if _, err := b.read(RegClearIRQ); err != nil {
			return err
		}
		if err := b.write(RegHardReset, 1<<uint(n)); err != nil {
			return err
		}
		b.bus.Sleep(b.config.ResetPulse())
		if err := b.write(RegHardReset, 0); err != nil {
			return err
		}
		b.bus.Sleep(b.config.ResetSettle())
		return nil
	}
	var err error
	for attempt := 1; attempt <= b.config.ResetAttempts; attempt++ {
		glog.V(2).Infof("channel %d: hard reset attempt %d", n, attempt)
		if err = ch.HardReset(pulse); err == nil {
			return nil
		}
		var mismatch *lm629.MismatchError
		if !errors.As(err, &mismatch) {
			return err
		}
		mismatch.Attempts = attempt
		glog.Warningf("channel %d: reset status %02x, retrying", n, byte(mismatch.Status))
	}
	return err
}

type initStep struct {
	name string
	run  func() error
}

func (b *Board) initSteps() []initStep {
	c0, c1 := b.channels[0], b.channels[1]
	return []initStep{
		{"hard reset 0", func() error { return b.hardReset(c0) }},
		{"hard reset 1", func() error { return b.hardReset(c1) }},
		{"load filter 0", c0.LoadFilter},
		{"load filter 1", c1.LoadFilter},
		{"commit filter 0", c0.CommitFilter},
		{"commit filter 1", c1.CommitFilter},
		{"load trajectory 0", c0.LoadTrajectory},
		{"load trajectory 1", c1.LoadTrajectory},
		{"start trajectory 0", c0.StartTrajectory},
		{"start trajectory 1", c1.StartTrajectory},
	}
}

// InitError reports the bring-up step that failed.
type InitError struct {
	Step string
	Err  error
}

// Error implements error.
func (e *InitError) Error() string {
	return fmt.Sprintf("init %s: %v", e.Step, e.Err)
}

// Unwrap returns the underlying error.
func (e *InitError) Unwrap() error {
	return e.Err
}

// Init brings the board up: both chips are reset, the pending filters
// are loaded and committed, then the pending trajectories are loaded and
// started. It stops at the first failing step.
func (b *Board) Init() error {
	b.lock.Lock()
	defer b.lock.Unlock()
	if err := b.checkOpen(); err != nil {
		return err
	}
	for _, step := range b.initSteps() {
		if err := step.run(); err != nil {
			glog.Errorf("board init: %s: %v", step.name, err)
			return &InitError{Step: step.name, Err: err}
		}
	}
	b.state = StateOperational
	glog.Info("board operational")
	return nil
}

// Close releases the backend. The board can not be used afterwards.
func (b *Board) Close() error {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.state == StateClosed {
		return nil
	}
	b.state = StateClosed
	return portio.Close(b.bus)
}

// SetLED switches the fault LED.
func (b *Board) SetLED(on bool) error {
	return b.setControl(ControlLED, on)
}

// LED returns the fault LED state last written.
func (b *Board) LED() bool {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.control&ControlLED != 0
}

// SetIRQEnable enables or disables the board interrupt line.
func (b *Board) SetIRQEnable(on bool) error {
	return b.setControl(ControlIRQEnable, on)
}

// IRQEnabled returns the interrupt enable state last written.
func (b *Board) IRQEnabled() bool {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.control&ControlIRQEnable != 0
}

func (b *Board) setControl(bit byte, on bool) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	if err := b.checkOpen(); err != nil {
		return err
	}
	val := b.control &^ bit
	if on {
		val |= bit
	}
	if err := b.write(RegControl, val); err != nil {
		return err
	}
	b.control = val
	return nil
}

// IRQCause reads which sources raised the board interrupt.
func (b *Board) IRQCause() (Cause, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if err := b.checkOpen(); err != nil {
		return 0, err
	}
	val, err := b.read(RegControl)
	return Cause(val & 0x0f), err
}

// ClearIRQ acknowledges the board interrupt.
func (b *Board) ClearIRQ() error {
	b.lock.Lock()
	defer b.lock.Unlock()
	if err := b.checkOpen(); err != nil {
		return err
	}
	_, err := b.read(RegClearIRQ)
	return err
}

// SetBrake engages or releases the PWM brake of channel n.
func (b *Board) SetBrake(n int, on bool) error {
	if n < 0 || n >= Channels {
		return ErrNoChannel
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	if err := b.checkOpen(); err != nil {
		return err
	}
	val := b.brakes &^ (1 << uint(n))
	if on {
		val |= 1 << uint(n)
	}
	if err := b.write(RegBrakes, val); err != nil {
		return err
	}
	b.brakes = val
	return nil
}

// Brake returns the PWM brake state of channel n last written.
func (b *Board) Brake(n int) bool {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.brakes&(1<<uint(n)) != 0
}
