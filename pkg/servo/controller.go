package servo

import (
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/golang/protobuf/proto"

	"github.com/robotalks/servo.go/pkg/andi"
	fx "github.com/robotalks/servo.go/pkg/framework"
	"github.com/robotalks/servo.go/pkg/l1"
	l1msgs "github.com/robotalks/servo.go/pkg/l1/msgs"
	"github.com/robotalks/servo.go/pkg/lm629"
	"github.com/robotalks/servo.go/pkg/servo/msgs"
)

// ControllerType is the L1 controller type of the board.
const ControllerType = "andi-servo"

// Controller is the L1 controller of an ANDI-SERVO board. All board
// access happens on the loop goroutine.
type Controller struct {
	Board        *andi.Board
	Events       l1.Registrar
	PollInterval time.Duration
	InitOnStart  bool

	started       bool
	lastPoll      time.Time
	status        msgs.ServoStatus
	statusChanged bool
	lastErr       string
}

// NewController creates a Controller. Status events go to events,
// which may be nil.
func NewController(board *andi.Board, events l1.Registrar) *Controller {
	return &Controller{
		Board:        board,
		Events:       events,
		PollInterval: defaultConfig.PollInterval,
		InitOnStart:  defaultConfig.InitOnStart,
	}
}

// AddToLoop implements LoopAdder.
func (c *Controller) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvSense, fx.ControlFunc(c.poll))
	loop.AddController(fx.PrLvControl, c)
	loop.AddController(fx.PrLvPostProc, fx.ControlFunc(c.notifyStatusChange))
}

// Status returns the last polled status.
func (c *Controller) Status() *msgs.ServoStatus {
	st := c.status
	return &st
}

func (c *Controller) poll(cc fx.ControlContext) error {
	if !c.started {
		c.started = true
		if c.InitOnStart {
			glog.Info("servo: board bring-up")
			if err := c.Board.Init(); err != nil {
				glog.Errorf("servo: bring-up failed: %v", err)
			}
		}
		c.refresh()
		c.lastPoll = cc.Time()
		return nil
	}
	if c.PollInterval > 0 && cc.Time().Sub(c.lastPoll) >= c.PollInterval {
		c.lastPoll = cc.Time()
		c.refresh()
	}
	return nil
}

// refresh reads both channels and records a change of the status.
func (c *Controller) refresh() {
	st := msgs.ServoStatus{
		Board:     c.Board.State().String(),
		LED:       c.Board.LED(),
		IRQEnable: c.Board.IRQEnabled(),
	}
	for n := 0; n < andi.Channels; n++ {
		if c.Board.Brake(n) {
			st.Brakes |= 1 << uint(n)
		}
	}
	for n := 0; n < andi.Channels; n++ {
		ch, _ := c.Board.Channel(n)
		snap, err := c.Board.Snapshot(n)
		if err != nil {
			st.Error = err.Error()
			break
		}
		ch.Observe(snap.Status)
		st.Channels = append(st.Channels, &msgs.ServoChannelStatus{
			Channel:            uint32(n),
			Status:             uint32(snap.Status),
			Signals:            uint32(snap.Signals),
			Position:           snap.Position,
			FilterState:        ch.FilterState().String(),
			TrajectoryState:    ch.TrajectoryState().String(),
			TrajectoryComplete: ch.TrajectoryComplete(),
			PositionError:      ch.PositionError(),
			IRQMask:            uint32(ch.InterruptMask()),
			Threshold:          uint32(ch.PositionErrorThreshold()),
			Filter:             msgs.FilterFrom(ch.ActiveFilter()),
			Trajectory:         msgs.TrajectoryFrom(ch.ActiveTrajectory()),
		})
	}
	if st.Error != c.lastErr {
		if st.Error != "" {
			glog.Warningf("servo: poll: %s", st.Error)
		}
		c.lastErr = st.Error
	}
	if !proto.Equal(&st, &c.status) {
		c.status = st
		c.statusChanged = true
	}
}

// Control implements Controller.
func (c *Controller) Control(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		cmd, ok := mctx.CurrentMessage().(*l1.CommandMsg)
		if !ok {
			return
		}
		reply, handled := c.execute(cmd.Command.Msg())
		if !handled {
			return
		}
		mctx.MessageTaken()
		if err := cmd.Command.Done(reply); err != nil {
			glog.Warningf("servo: reply %T: %v", reply, err)
		}
	}))
	return nil
}

func (c *Controller) notifyStatusChange(cc fx.ControlContext) error {
	changed := c.statusChanged
	c.statusChanged = false
	if changed && c.Events != nil {
		return c.Events.SendEvent(cc.Context(), c.Status())
	}
	return nil
}

func result(err error) fx.Message {
	if err != nil {
		return l1msgs.NewCommandErr(err)
	}
	return l1msgs.NewCommandOK()
}

// execute runs a command and returns the reply. Commands which are not
// servo commands are left to other controllers.
func (c *Controller) execute(msg fx.Message) (fx.Message, bool) {
	var reply fx.Message
	var err error
	switch m := msg.(type) {
	case *msgs.ServoStatusQuery:
		c.refresh()
		return &msgs.ServoStatusReply{Status: c.Status()}, true
	case *msgs.ServoReportQuery:
		if reply, err = c.report(m.Channels); err != nil {
			return result(err), true
		}
		return reply, true
	case *msgs.ServoReadbackQuery:
		if reply, err = c.readback(m.Channel); err != nil {
			return result(err), true
		}
		return reply, true
	case *msgs.ServoIRQQuery:
		var cause andi.Cause
		cause, err = c.Board.IRQCause()
		if err == nil && m.Clear {
			err = c.Board.ClearIRQ()
		}
		if err != nil {
			return result(err), true
		}
		return &msgs.ServoIRQ{Cause: uint32(cause)}, true
	case *msgs.ServoInit:
		err = c.Board.Init()
	case *msgs.ServoHardReset:
		err = c.Board.HardReset(int(m.Channel))
	case *msgs.ServoSetBoard:
		err = c.setBoard(m.Select, m.Value)
	default:
		var handled bool
		if handled, err = c.channelCommand(msg); !handled {
			return nil, false
		}
	}
	glog.V(1).Infof("servo: %T: %v", msg, err)
	c.refresh()
	return result(err), true
}

// channelCommand runs the commands addressed to a single channel.
func (c *Controller) channelCommand(msg fx.Message) (bool, error) {
	var n uint32
	switch m := msg.(type) {
	case *msgs.ServoSoftReset:
		n = m.Channel
	case *msgs.ServoSetFilter:
		n = m.Channel
	case *msgs.ServoUpdateFilter:
		n = m.Channel
	case *msgs.ServoSetTrajectory:
		n = m.Channel
	case *msgs.ServoStartTrajectory:
		n = m.Channel
	case *msgs.ServoStop:
		n = m.Channel
	case *msgs.ServoDefineHome:
		n = m.Channel
	case *msgs.ServoAcquireIndex:
		n = m.Channel
	case *msgs.ServoSetBreakpoint:
		n = m.Channel
	case *msgs.ServoSetPositionErrorThreshold:
		n = m.Channel
	case *msgs.ServoSetIRQMask:
		n = m.Channel
	case *msgs.ServoResetInterrupts:
		n = m.Channel
	case *msgs.ServoRawWrite:
		n = m.Channel
	default:
		return false, nil
	}
	ch, err := c.Board.Channel(int(n))
	if err != nil {
		return true, err
	}
	return true, c.runOnChannel(ch, msg)
}

func (c *Controller) runOnChannel(ch *lm629.Channel, msg fx.Message) error {
	switch m := msg.(type) {
	case *msgs.ServoSoftReset:
		return ch.SoftReset()
	case *msgs.ServoSetFilter:
		if err := loadFilter(ch, m.Filter.Filter()); err != nil {
			return err
		}
		if m.Commit {
			return ch.CommitFilter()
		}
	case *msgs.ServoUpdateFilter:
		return ch.CommitFilter()
	case *msgs.ServoSetTrajectory:
		if err := loadTrajectory(ch, m.Trajectory.Trajectory()); err != nil {
			return err
		}
		if m.Start {
			return ch.StartTrajectory()
		}
	case *msgs.ServoStartTrajectory:
		return ch.StartTrajectory()
	case *msgs.ServoStop:
		if m.Mode > msgs.StopMotorOff {
			return fmt.Errorf("%w: stop mode %d", lm629.ErrInvalidParameter, m.Mode)
		}
		if err := loadTrajectory(ch, lm629.Stop(lm629.StopMode(m.Mode))); err != nil {
			return err
		}
		return ch.StartTrajectory()
	case *msgs.ServoDefineHome:
		return ch.DefineHome()
	case *msgs.ServoAcquireIndex:
		return ch.AcquireIndex()
	case *msgs.ServoSetBreakpoint:
		return ch.SetBreakpoint(m.Position, m.Relative)
	case *msgs.ServoSetPositionErrorThreshold:
		if m.Threshold > 0xffff {
			return fmt.Errorf("%w: threshold %d exceeds 16 bits", lm629.ErrInvalidParameter, m.Threshold)
		}
		return ch.SetPositionErrorThreshold(uint16(m.Threshold), m.StopOnError)
	case *msgs.ServoSetIRQMask:
		if m.Mask > 0xff {
			return fmt.Errorf("%w: interrupt mask %#x exceeds 8 bits", lm629.ErrInvalidParameter, m.Mask)
		}
		return ch.MaskInterrupts(byte(m.Mask))
	case *msgs.ServoResetInterrupts:
		if m.Keep > 0xff {
			return fmt.Errorf("%w: interrupt mask %#x exceeds 8 bits", lm629.ErrInvalidParameter, m.Keep)
		}
		return ch.ResetInterrupts(byte(m.Keep))
	case *msgs.ServoRawWrite:
		return rawWrite(ch, m.Kind, m.Data)
	}
	return nil
}

func loadFilter(ch *lm629.Channel, f lm629.Filter) error {
	if err := ch.SetPendingFilter(f); err != nil {
		return err
	}
	return ch.LoadFilter()
}

func loadTrajectory(ch *lm629.Channel, t lm629.Trajectory) error {
	ch.SetPendingTrajectory(t)
	return ch.LoadTrajectory()
}

func rawWrite(ch *lm629.Channel, kind uint32, data []byte) error {
	switch kind {
	case msgs.RawFilter:
		var f lm629.Filter
		if err := f.UnmarshalBinary(data); err != nil {
			return err
		}
		return loadFilter(ch, f)
	case msgs.RawTrajectory:
		var t lm629.Trajectory
		if err := t.UnmarshalBinary(data); err != nil {
			return err
		}
		return loadTrajectory(ch, t)
	}
	return fmt.Errorf("%w: raw kind %d", lm629.ErrInvalidParameter, kind)
}

func (c *Controller) setBoard(sel, val uint32) error {
	if sel&BoardOutputs != sel {
		return fmt.Errorf("%w: board outputs %#x", lm629.ErrInvalidParameter, sel)
	}
	if sel&msgs.BoardLED != 0 {
		if err := c.Board.SetLED(val&msgs.BoardLED != 0); err != nil {
			return err
		}
	}
	if sel&msgs.BoardIRQEnable != 0 {
		if err := c.Board.SetIRQEnable(val&msgs.BoardIRQEnable != 0); err != nil {
			return err
		}
	}
	for n := 0; n < andi.Channels; n++ {
		if bit := msgs.BoardBrake(n); sel&bit != 0 {
			if err := c.Board.SetBrake(n, val&bit != 0); err != nil {
				return err
			}
		}
	}
	return nil
}

// BoardOutputs are all outputs ServoSetBoard can select.
const BoardOutputs = msgs.BoardLED | msgs.BoardIRQEnable | msgs.BoardBrake0 | msgs.BoardBrake1

func (c *Controller) report(channels bool) (*msgs.ServoReport, error) {
	text, err := c.Board.Report()
	if err != nil {
		return nil, err
	}
	if channels {
		for n := 0; n < andi.Channels; n++ {
			chText, err := c.Board.ChannelReport(n)
			if err != nil {
				return nil, err
			}
			text += chText
		}
	}
	return &msgs.ServoReport{Text: text}, nil
}

func (c *Controller) readback(n uint32) (*msgs.ServoReadback, error) {
	ch, err := c.Board.Channel(int(n))
	if err != nil {
		return nil, err
	}
	rb := &msgs.ServoReadback{Channel: n}
	for _, r := range []struct {
		dst  *int32
		read func() (int32, error)
	}{
		{&rb.DesiredPosition, ch.DesiredPosition},
		{&rb.RealPosition, ch.RealPosition},
		{&rb.IndexPosition, ch.IndexPosition},
		{&rb.DesiredVelocity, ch.DesiredVelocity},
	} {
		if *r.dst, err = r.read(); err != nil {
			return nil, err
		}
	}
	vel, err := ch.RealVelocity()
	if err != nil {
		return nil, err
	}
	sum, err := ch.IntegrationSum()
	if err != nil {
		return nil, err
	}
	rb.RealVelocity, rb.IntegrationSum = int32(vel), int32(sum)
	return rb, nil
}
