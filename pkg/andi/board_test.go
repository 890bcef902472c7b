package andi_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/servo.go/pkg/andi"
	"github.com/robotalks/servo.go/pkg/lm629"
	"github.com/robotalks/servo.go/pkg/portio"
	"github.com/robotalks/servo.go/pkg/sim"
)

const base = andi.DefaultBaseAddress

func newBoard(t *testing.T) (*andi.Board, *sim.Board) {
	hw := sim.New(base)
	b, err := andi.New(hw, nil)
	require.NoError(t, err)
	return b, hw
}

func TestInitOrder(t *testing.T) {
	b, hw := newBoard(t)
	require.Equal(t, andi.StateInit, b.State())
	require.NoError(t, b.Init())
	require.Equal(t, andi.StateOperational, b.State())

	require.Equal(t, []sim.Command{
		{Channel: 0, Op: lm629.OpRSTI},
		{Channel: 1, Op: lm629.OpRSTI},
		{Channel: 0, Op: lm629.OpLFIL},
		{Channel: 1, Op: lm629.OpLFIL},
		{Channel: 0, Op: lm629.OpUDF},
		{Channel: 1, Op: lm629.OpUDF},
		{Channel: 0, Op: lm629.OpLTRJ},
		{Channel: 1, Op: lm629.OpLTRJ},
		{Channel: 0, Op: lm629.OpSTT},
		{Channel: 1, Op: lm629.OpSTT},
	}, hw.Commands())

	for n := 0; n < andi.Channels; n++ {
		ch, err := b.Channel(n)
		require.NoError(t, err)
		require.True(t, ch.FilterCommitted())
		require.True(t, ch.TrajectoryArmed())
		require.Equal(t, lm629.Active, ch.FilterState())
		require.Equal(t, lm629.Active, ch.TrajectoryState())
		require.Equal(t, andi.DefaultChannelConfig.Filter, ch.ActiveFilter())

		state := hw.Chip(n)
		require.Equal(t, andi.DefaultChannelConfig.Filter, state.Filter)
		require.Equal(t, int32(0), state.Position)
		require.Equal(t, 2, state.Resets)
	}
}

func TestInitAbortsOnStuckChip(t *testing.T) {
	testCases := []struct {
		name  string
		setup func(hw *sim.Board)
		step  string
		kind  error
		never []byte
	}{
		{
			name:  "stuck from power on",
			setup: func(hw *sim.Board) { hw.SetStuck(1, true) },
			step:  "hard reset 1",
			kind:  lm629.ErrHardwareMismatch,
			never: []byte{lm629.OpLFIL, lm629.OpUDF, lm629.OpLTRJ, lm629.OpSTT},
		},
		{
			name:  "hangs on filter update",
			setup: func(hw *sim.Board) { hw.HangOn(1, lm629.OpUDF) },
			step:  "commit filter 1",
			kind:  lm629.ErrBusy,
			never: []byte{lm629.OpLTRJ, lm629.OpSTT},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b, hw := newBoard(t)
			tc.setup(hw)
			err := b.Init()
			require.Error(t, err)
			var initErr *andi.InitError
			require.True(t, errors.As(err, &initErr))
			require.Equal(t, tc.step, initErr.Step)
			require.True(t, errors.Is(err, tc.kind))
			require.Equal(t, andi.StateInit, b.State())

			for _, cmd := range hw.Commands() {
				require.NotContains(t, tc.never, cmd.Op)
			}
		})
	}
}

func TestCommitBusyTimeout(t *testing.T) {
	b, hw := newBoard(t)
	require.NoError(t, b.HardReset(0))
	require.NoError(t, b.HardReset(1))
	ch, err := b.Channel(0)
	require.NoError(t, err)
	require.NoError(t, ch.LoadFilter())
	hw.SetStuck(0, true)
	err = ch.CommitFilter()
	require.True(t, errors.Is(err, lm629.ErrBusy))
	require.False(t, ch.FilterCommitted())
	require.Equal(t, lm629.Filter{}, ch.ActiveFilter())
}

func TestHardResetRetries(t *testing.T) {
	t.Run("recovers", func(t *testing.T) {
		b, hw := newBoard(t)
		hw.FailResets(0, 2)
		require.NoError(t, b.HardReset(0))
		require.Equal(t, 1+3, hw.Chip(0).Resets)
	})
	t.Run("gives up", func(t *testing.T) {
		b, hw := newBoard(t)
		hw.FailResets(0, 5)
		err := b.HardReset(0)
		require.True(t, errors.Is(err, lm629.ErrHardwareMismatch))
		var mismatch *lm629.MismatchError
		require.True(t, errors.As(err, &mismatch))
		require.Equal(t, andi.DefaultResetAttempts, mismatch.Attempts)
		require.Equal(t, 0, mismatch.Channel)
		require.Equal(t, lm629.Status(0), mismatch.Status)
	})
	t.Run("pulse sequence", func(t *testing.T) {
		b, hw := newBoard(t)
		require.NoError(t, b.SetIRQEnable(true))
		hw.ClearLog()
		require.NoError(t, b.HardReset(1))
		acc := hw.Accesses()
		require.True(t, len(acc) > 4)
		require.Equal(t, sim.Access{Kind: sim.Write, Port: base + andi.RegControl, Value: 0}, acc[0])
		require.Equal(t, sim.Access{Kind: sim.Read, Port: base + andi.RegClearIRQ, Value: 0}, acc[1])
		require.Equal(t, sim.Access{Kind: sim.Write, Port: base + andi.RegHardReset, Value: 2}, acc[2])
		require.Equal(t, sim.Access{Kind: sim.Write, Port: base + andi.RegHardReset, Value: 0}, acc[3])
		require.False(t, b.IRQEnabled())
	})
	t.Run("no channel", func(t *testing.T) {
		b, _ := newBoard(t)
		err := b.HardReset(2)
		require.True(t, errors.Is(err, lm629.ErrInvalidParameter))
	})
}

func TestResetDropsLoadedParameters(t *testing.T) {
	b, _ := newBoard(t)
	require.NoError(t, b.Init())
	ch, err := b.Channel(0)
	require.NoError(t, err)
	require.NoError(t, ch.SetPendingFilter(lm629.Filter{DTerm: 1, Kp: 8}))
	require.NoError(t, ch.LoadFilter())
	require.Equal(t, lm629.Loaded, ch.FilterState())

	require.NoError(t, b.HardReset(0))
	require.Equal(t, lm629.Pending, ch.FilterState())
	require.False(t, ch.FilterCommitted())
	require.False(t, ch.TrajectoryArmed())
	err = ch.CommitFilter()
	require.True(t, errors.Is(err, lm629.ErrNotLoaded))
	require.Equal(t, lm629.Filter{}, ch.ActiveFilter())
	require.Equal(t, lm629.Trajectory{}, ch.ActiveTrajectory())
	require.Equal(t, lm629.Pending, ch.TrajectoryState())

	report, err := b.ChannelReport(0)
	require.NoError(t, err)
	require.Contains(t, report, lm629.FormatFilter(lm629.Filter{}))
}

func TestMotion(t *testing.T) {
	b, hw := newBoard(t)
	require.NoError(t, b.Init())
	ch, err := b.Channel(0)
	require.NoError(t, err)
	ch.SetPendingTrajectory(lm629.Trajectory{
		LoadVel:  true,
		LoadPos:  true,
		Velocity: 65536 * 4,
		Position: 1000,
	})
	require.NoError(t, ch.LoadTrajectory())
	require.NoError(t, ch.StartTrajectory())

	st, err := ch.Status()
	require.NoError(t, err)
	require.False(t, st.TrajectoryComplete())

	hw.Sleep(sim.SamplePeriod * 100)
	pos, err := ch.RealPosition()
	require.NoError(t, err)
	require.Equal(t, int32(400), pos)

	hw.Sleep(sim.SamplePeriod * 200)
	st, err = ch.Status()
	require.NoError(t, err)
	require.True(t, st.TrajectoryComplete())
	ch.Observe(st)
	require.True(t, ch.TrajectoryComplete())
	pos, err = ch.RealPosition()
	require.NoError(t, err)
	require.Equal(t, int32(1000), pos)
}

func TestControlPorts(t *testing.T) {
	b, hw := newBoard(t)

	require.NoError(t, b.SetLED(true))
	require.True(t, b.LED())
	require.Equal(t, andi.ControlLED, hw.Control())
	require.NoError(t, b.SetIRQEnable(true))
	require.Equal(t, andi.ControlLED|andi.ControlIRQEnable, hw.Control())
	require.NoError(t, b.SetLED(false))
	require.Equal(t, andi.ControlIRQEnable, hw.Control())
	require.True(t, b.IRQEnabled())

	require.NoError(t, b.SetBrake(1, true))
	require.Equal(t, byte(0x02), hw.Brakes())
	require.NoError(t, b.SetBrake(0, true))
	require.NoError(t, b.SetBrake(1, false))
	require.Equal(t, byte(0x01), hw.Brakes())
	require.True(t, b.Brake(0))
	require.False(t, b.Brake(1))
	require.True(t, errors.Is(b.SetBrake(3, true), andi.ErrNoChannel))

	hw.SetThermal(1, true)
	cause, err := b.IRQCause()
	require.NoError(t, err)
	require.True(t, cause.Thermal(1))
	require.False(t, cause.Thermal(0))
	require.False(t, cause.Chip(0))
	require.NoError(t, b.ClearIRQ())
}

func TestChipInterruptCause(t *testing.T) {
	b, hw := newBoard(t)
	require.NoError(t, b.Init())
	ch, err := b.Channel(1)
	require.NoError(t, err)
	require.NoError(t, ch.MaskInterrupts(lm629.IRQPositionError))
	hw.PositionError(1)

	cause, err := b.IRQCause()
	require.NoError(t, err)
	require.True(t, cause.Chip(1))
	require.False(t, cause.Chip(0))

	sig, err := ch.Signals()
	require.NoError(t, err)
	require.True(t, sig.HostInterrupt())

	require.NoError(t, ch.ResetInterrupts(0))
	cause, err = b.IRQCause()
	require.NoError(t, err)
	require.False(t, cause.Chip(1))
}

func TestBusFault(t *testing.T) {
	b, hw := newBoard(t)
	gone := errors.New("bridge gone")
	hw.FailPort(base+andi.RegBrakes, gone)
	err := b.SetBrake(0, true)
	require.True(t, errors.Is(err, lm629.ErrBusFault))
	require.True(t, errors.Is(err, gone))
	var fault *portio.BusFaultError
	require.True(t, errors.As(err, &fault))
	require.Equal(t, base+andi.RegBrakes, fault.Port)
	require.Equal(t, "write", fault.Op)
	require.False(t, b.Brake(0))

	hw.FailPort(base+andi.RegClearIRQ, gone)
	err = b.ClearIRQ()
	require.True(t, errors.Is(err, lm629.ErrBusFault))
	require.True(t, errors.As(err, &fault))
	require.Equal(t, "read", fault.Op)

	hw.FailPort(base+andi.RegBrakes, nil)
	hw.FailPort(base+andi.RegClearIRQ, nil)
	require.NoError(t, b.SetBrake(0, true))
}

func TestClose(t *testing.T) {
	b, hw := newBoard(t)
	require.NoError(t, b.Close())
	require.True(t, hw.Closed())
	require.Equal(t, andi.StateClosed, b.State())
	require.True(t, errors.Is(b.Init(), andi.ErrClosed))
	require.True(t, errors.Is(b.SetLED(true), andi.ErrClosed))
	require.NoError(t, b.Close())
}

func TestReport(t *testing.T) {
	b, _ := newBoard(t)
	require.NoError(t, b.Init())
	out, err := b.Report()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, andi.ReportHeader))
	require.Contains(t, out, "Channel 0 Status  : 84\n")
	require.Contains(t, out, "Channel 1 Signals : ")
	require.Contains(t, out, "Channel 0 Encoder Count : 00000000\n")
	require.Contains(t, out, "Channel 1 Encoder Count : 00000000\n")

	out, err = b.ChannelReport(1)
	require.NoError(t, err)
	require.Contains(t, out, "Channel 1 Filter :\n")
	require.Contains(t, out, "\tKd    : 50\n")
	require.Contains(t, out, "\tstop_smooth   : True\n")

	_, err = b.ChannelReport(-1)
	require.True(t, errors.Is(err, andi.ErrNoChannel))
}
