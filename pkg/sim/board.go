// Package sim simulates an ANDI-SERVO board at the I/O port level so the
// driver stack can run without hardware.
package sim

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/servo.go/pkg/andi"
	"github.com/robotalks/servo.go/pkg/lm629"
	"github.com/robotalks/servo.go/pkg/portio"
)

// AccessKind tells a read from a write.
type AccessKind int

// Access kinds.
const (
	Read AccessKind = iota
	Write
)

func (k AccessKind) String() string {
	if k == Write {
		return "out"
	}
	return "in"
}

// Access is one recorded port access.
type Access struct {
	Kind  AccessKind
	Port  uint16
	Value byte
}

func (a Access) String() string {
	return fmt.Sprintf("%s %#x %02x", a.Kind, a.Port, a.Value)
}

// Command is a command byte written to one of the chips.
type Command struct {
	Channel int
	Op      byte
}

// Board is a simulated ANDI-SERVO board implementing portio.Backend.
// Without Realtime the board runs on a virtual clock advanced by Sleep.
type Board struct {
	Base     uint16
	Realtime bool

	lock     sync.Mutex
	clock    time.Time
	chips    [andi.Channels]*chip
	brakes   byte
	control  byte
	reset    byte
	thermal  byte
	accesses []Access
	commands []Command
	failures map[uint16]error
	closed   bool
}

// New creates a board at base with both chips fresh out of reset.
func New(base uint16) *Board {
	b := &Board{Base: base, clock: time.Unix(0, 0), failures: make(map[uint16]error)}
	for n := range b.chips {
		b.chips[n] = newChip(b.clock)
	}
	return b
}

// NewRealtime creates a board running on the wall clock.
func NewRealtime(base uint16) *Board {
	b := New(base)
	b.Realtime = true
	b.clock = time.Now()
	for _, c := range b.chips {
		c.lastUpdate = b.clock
	}
	return b
}

func (b *Board) now() time.Time {
	if b.Realtime {
		return time.Now()
	}
	return b.clock
}

func (b *Board) decode(port uint16) (reg uint16, ok bool) {
	if port < b.Base || port >= b.Base+andi.PortCount {
		return 0, false
	}
	return port - b.Base, true
}

// ReadPort implements portio.Backend.
func (b *Board) ReadPort(port uint16) (byte, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if err := b.failures[port]; err != nil {
		return 0, &portio.BusFaultError{Op: "read", Port: port, Err: err}
	}
	val := b.read(port)
	b.accesses = append(b.accesses, Access{Kind: Read, Port: port, Value: val})
	return val, nil
}

func (b *Board) read(port uint16) byte {
	reg, ok := b.decode(port)
	if !ok {
		return 0xff
	}
	now := b.now()
	switch reg {
	case andi.RegCommand0, andi.RegCommand1:
		return b.chips[reg/2].readStatus(now)
	case andi.RegData0, andi.RegData1:
		return b.chips[reg/2].readData()
	case andi.RegControl:
		return byte(b.cause(now))
	case andi.RegClearIRQ:
		return 0
	case andi.RegBrakes:
		return b.brakes
	}
	return 0xff
}

func (b *Board) cause(now time.Time) andi.Cause {
	cause := andi.Cause(b.thermal & 0x03)
	for n, c := range b.chips {
		c.advance(now)
		if c.interrupting() {
			cause |= andi.CauseChip0 << uint(n)
		}
	}
	return cause
}

// WritePort implements portio.Backend.
func (b *Board) WritePort(port uint16, val byte) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	if err := b.failures[port]; err != nil {
		return &portio.BusFaultError{Op: "write", Port: port, Err: err}
	}
	b.accesses = append(b.accesses, Access{Kind: Write, Port: port, Value: val})
	reg, ok := b.decode(port)
	if !ok {
		return nil
	}
	now := b.now()
	switch reg {
	case andi.RegCommand0, andi.RegCommand1:
		n := int(reg / 2)
		b.commands = append(b.commands, Command{Channel: n, Op: val})
		glog.V(5).Infof("sim: chip %d command %02x", n, val)
		b.chips[n].writeCommand(val, now)
	case andi.RegData0, andi.RegData1:
		b.chips[reg/2].writeData(val)
	case andi.RegBrakes:
		b.brakes = val
	case andi.RegHardReset:
		for n, c := range b.chips {
			held := val&(1<<uint(n)) != 0
			if c.inReset && !held {
				c.reset(now)
			}
			c.inReset = held
		}
		b.reset = val
	case andi.RegControl:
		b.control = val
	}
	return nil
}

// Sleep implements portio.Backend.
func (b *Board) Sleep(d time.Duration) {
	if b.Realtime {
		time.Sleep(d)
		return
	}
	b.lock.Lock()
	b.clock = b.clock.Add(d)
	b.lock.Unlock()
}

// Close implements io.Closer.
func (b *Board) Close() error {
	b.lock.Lock()
	b.closed = true
	b.lock.Unlock()
	return nil
}

// Closed reports whether Close was called.
func (b *Board) Closed() bool {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.closed
}

// Chip returns a snapshot of chip n.
func (b *Board) Chip(n int) ChipState {
	b.lock.Lock()
	defer b.lock.Unlock()
	c := b.chips[n]
	c.advance(b.now())
	return c.snapshot()
}

// Accesses returns the recorded port accesses.
func (b *Board) Accesses() []Access {
	b.lock.Lock()
	defer b.lock.Unlock()
	return append([]Access(nil), b.accesses...)
}

// Commands returns the recorded command bytes of both chips.
func (b *Board) Commands() []Command {
	b.lock.Lock()
	defer b.lock.Unlock()
	return append([]Command(nil), b.commands...)
}

// ClearLog drops recorded accesses and commands.
func (b *Board) ClearLog() {
	b.lock.Lock()
	b.accesses, b.commands = nil, nil
	b.lock.Unlock()
}

// Control returns the last value written to the control register.
func (b *Board) Control() byte {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.control
}

// Brakes returns the brake register.
func (b *Board) Brakes() byte {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.brakes
}

// SetStuck keeps the busy bit of chip n asserted.
func (b *Board) SetStuck(n int, stuck bool) {
	b.lock.Lock()
	b.chips[n].stuck = stuck
	b.lock.Unlock()
}

// HangOn makes chip n keep its busy bit asserted once it receives the
// command op, as if it locked up executing it. SetStuck(n, false) clears it.
func (b *Board) HangOn(n int, op byte) {
	b.lock.Lock()
	b.chips[n].hangOn, b.chips[n].hang = op, true
	b.lock.Unlock()
}

// SetBusyReads makes chip n report busy for count status reads after
// every byte it accepts.
func (b *Board) SetBusyReads(n, count int) {
	b.lock.Lock()
	b.chips[n].busyReads = count
	b.lock.Unlock()
}

// FailResets makes the next count resets of chip n come back with a
// status no LM629 produces.
func (b *Board) FailResets(n, count int) {
	b.lock.Lock()
	b.chips[n].badResets = count
	b.lock.Unlock()
}

// SetThermal raises or clears the thermal shutdown flag of channel n.
func (b *Board) SetThermal(n int, on bool) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if on {
		b.thermal |= 1 << uint(n)
	} else {
		b.thermal &^= 1 << uint(n)
	}
}

// FailPort makes every access to port fail with a *portio.BusFaultError
// wrapping err. A nil err heals it.
func (b *Board) FailPort(port uint16, err error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if err == nil {
		delete(b.failures, port)
		return
	}
	b.failures[port] = err
}

// PositionError forces the position error condition on chip n.
func (b *Board) PositionError(n int) {
	b.lock.Lock()
	defer b.lock.Unlock()
	c := b.chips[n]
	c.status |= lm629.StatusPositionError
	if c.stopOnError {
		c.moving = false
		c.status |= lm629.StatusMotorOff
	}
}
