// Package lm629 drives one LM629 precision motion controller through its
// command and data ports.
package lm629

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/servo.go/pkg/portio"
)

// ResetSettle is the delay between RST and the first handshake.
const ResetSettle = 2 * time.Millisecond

// Channel is one axis driven by its own LM629.
//
// Every register transaction holds the channel lock until it completes or
// fails. Active parameters are swapped atomically and can be read without it.
type Channel struct {
	index    int
	bus      portio.Backend
	cmdPort  uint16
	dataPort uint16

	lock sync.Mutex

	pendingFilter Filter
	loadedFilter  Filter
	filterState   ParamState
	activeFilter  atomic.Pointer[Filter]

	pendingTraj Trajectory
	loadedTraj  Trajectory
	trajState   ParamState
	activeTraj  atomic.Pointer[Trajectory]

	filterCommitted    atomic.Bool
	trajectoryArmed    atomic.Bool
	trajectoryComplete atomic.Bool
	positionError      atomic.Bool
	irqMask            atomic.Uint32
	errorThreshold     atomic.Uint32
}

// NewChannel creates a Channel using the command and data ports on bus.
func NewChannel(bus portio.Backend, index int, cmdPort, dataPort uint16) *Channel {
	c := &Channel{
		index:    index,
		bus:      bus,
		cmdPort:  cmdPort,
		dataPort: dataPort,
	}
	c.activeFilter.Store(&Filter{})
	c.activeTraj.Store(&Trajectory{})
	return c
}

// Index returns the channel number on the board.
func (c *Channel) Index() int {
	return c.index
}

func (c *Channel) opError(op string, err error) error {
	if err == nil {
		return nil
	}
	glog.Warningf("channel %d: %s failed: %v", c.index, op, err)
	return &OpError{Op: op, Channel: c.index, Err: err}
}

// SetPendingFilter stages a filter without touching the chip.
func (c *Channel) SetPendingFilter(f Filter) error {
	if err := f.Validate(); err != nil {
		return c.opError("set filter", err)
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	c.pendingFilter = f
	c.filterState = Pending
	return nil
}

// PendingFilter returns the staged filter.
func (c *Channel) PendingFilter() Filter {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.pendingFilter
}

// FilterState returns the lifecycle state of the filter parameters.
func (c *Channel) FilterState() ParamState {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.filterState
}

// ActiveFilter returns the filter last committed to the chip.
func (c *Channel) ActiveFilter() Filter {
	return *c.activeFilter.Load()
}

// LoadFilter transfers the pending filter to the chip with LFIL.
// The chip keeps using the previous filter until CommitFilter.
func (c *Channel) LoadFilter() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.filterState == Idle {
		return c.opError("load filter", ErrNotLoaded)
	}
	f := c.pendingFilter
	glog.V(2).Infof("channel %d: load filter %+v", c.index, f)
	if err := c.command(OpLFIL, FilterPayload(f)...); err != nil {
		return c.opError("load filter", err)
	}
	c.loadedFilter = f
	c.filterState = Loaded
	c.filterCommitted.Store(false)
	return nil
}

// CommitFilter issues UDF and promotes the loaded filter to active.
// Without a prior successful LoadFilter it fails with ErrNotLoaded and
// performs no I/O.
func (c *Channel) CommitFilter() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.filterState != Loaded {
		return c.opError("commit filter", ErrNotLoaded)
	}
	if err := c.command(OpUDF); err != nil {
		return c.opError("commit filter", err)
	}
	f := c.loadedFilter
	c.activeFilter.Store(&f)
	c.filterState = Active
	c.filterCommitted.Store(true)
	glog.V(2).Infof("channel %d: filter committed", c.index)
	return nil
}

// SetPendingTrajectory stages a trajectory without touching the chip.
func (c *Channel) SetPendingTrajectory(t Trajectory) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.pendingTraj = t
	c.trajState = Pending
}

// PendingTrajectory returns the staged trajectory.
func (c *Channel) PendingTrajectory() Trajectory {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.pendingTraj
}

// TrajectoryState returns the lifecycle state of the trajectory parameters.
func (c *Channel) TrajectoryState() ParamState {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.trajState
}

// ActiveTrajectory returns the trajectory last started.
func (c *Channel) ActiveTrajectory() Trajectory {
	return *c.activeTraj.Load()
}

// LoadTrajectory transfers the pending trajectory to the chip with LTRJ.
func (c *Channel) LoadTrajectory() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.trajState == Idle {
		return c.opError("load trajectory", ErrNotLoaded)
	}
	t := c.pendingTraj
	glog.V(2).Infof("channel %d: load trajectory %+v", c.index, t)
	if err := c.command(OpLTRJ, TrajectoryPayload(t)...); err != nil {
		return c.opError("load trajectory", err)
	}
	c.loadedTraj = t
	c.trajState = Loaded
	c.trajectoryArmed.Store(false)
	return nil
}

// StartTrajectory issues STT and promotes the loaded trajectory to active.
func (c *Channel) StartTrajectory() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.trajState != Loaded {
		return c.opError("start trajectory", ErrNotLoaded)
	}
	if err := c.command(OpSTT); err != nil {
		return c.opError("start trajectory", err)
	}
	t := c.loadedTraj
	c.activeTraj.Store(&t)
	c.trajState = Active
	c.trajectoryComplete.Store(false)
	c.trajectoryArmed.Store(true)
	glog.V(2).Infof("channel %d: trajectory started", c.index)
	return nil
}

// SoftReset resets the chip with RST and clears all interrupts.
// Parameters loaded but not yet committed are lost on the chip and
// have to be loaded again.
func (c *Channel) SoftReset() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	glog.V(2).Infof("channel %d: soft reset", c.index)
	if err := c.writeCmd(OpRST); err != nil {
		return c.opError("soft reset", err)
	}
	c.bus.Sleep(ResetSettle)
	if err := c.awaitReady(); err != nil {
		return c.opError("soft reset", err)
	}
	if err := c.command(OpRSTI, []byte{0, 0}); err != nil {
		return c.opError("soft reset", err)
	}
	c.afterReset()
	return nil
}

// HardReset runs pulse, which toggles the board reset line of this chip,
// then verifies the reset signatures and clears all interrupts.
// A single attempt is made; an unexpected status yields a *MismatchError.
func (c *Channel) HardReset(pulse func() error) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if err := pulse(); err != nil {
		return c.opError("hard reset", err)
	}
	st, err := c.readStatus()
	if err != nil {
		return c.opError("hard reset", err)
	}
	if st != Status(ResetSignatureA) && st != Status(ResetSignatureB) {
		return c.opError("hard reset", &MismatchError{Channel: c.index, Status: st, Attempts: 1})
	}
	if err := c.command(OpRSTI, []byte{0, 0}); err != nil {
		return c.opError("hard reset", err)
	}
	if st, err = c.readStatus(); err != nil {
		return c.opError("hard reset", err)
	}
	if st != Status(ReadySignatureA) && st != Status(ReadySignatureB) {
		return c.opError("hard reset", &MismatchError{Channel: c.index, Status: st, Attempts: 1})
	}
	if err := c.awaitReady(); err != nil {
		return c.opError("hard reset", err)
	}
	c.afterReset()
	return nil
}

// afterReset mirrors the chip dropping its parameters: nothing is active
// and whatever was loaded or active must be loaded again.
func (c *Channel) afterReset() {
	if c.filterState != Idle {
		c.filterState = Pending
	}
	if c.trajState != Idle {
		c.trajState = Pending
	}
	c.activeFilter.Store(&Filter{})
	c.activeTraj.Store(&Trajectory{})
	c.filterCommitted.Store(false)
	c.trajectoryArmed.Store(false)
	c.positionError.Store(false)
	c.irqMask.Store(0)
}

// FilterCommitted reports whether the last loaded filter was committed.
func (c *Channel) FilterCommitted() bool {
	return c.filterCommitted.Load()
}

// TrajectoryArmed reports whether the last loaded trajectory was started.
func (c *Channel) TrajectoryArmed() bool {
	return c.trajectoryArmed.Load()
}

// TrajectoryComplete reports the completion flag set by Observe or
// SetTrajectoryComplete.
func (c *Channel) TrajectoryComplete() bool {
	return c.trajectoryComplete.Load()
}

// SetTrajectoryComplete sets the completion flag, usually from an
// interrupt or a status poll.
func (c *Channel) SetTrajectoryComplete(done bool) {
	c.trajectoryComplete.Store(done)
}

// PositionError reports the last observed position error flag.
func (c *Channel) PositionError() bool {
	return c.positionError.Load()
}

// Observe records the flags carried by a polled status byte.
func (c *Channel) Observe(st Status) {
	if c.trajectoryArmed.Load() && st.TrajectoryComplete() {
		c.trajectoryComplete.Store(true)
	}
	c.positionError.Store(st.PositionError())
}
