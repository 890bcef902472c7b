package lm629

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	testCmdPort  uint16 = 0x300
	testDataPort uint16 = 0x301
)

type busOp struct {
	write bool
	port  uint16
	val   byte
}

type fakeBus struct {
	ops       []busOp
	status    byte
	statusSeq []byte
	stuck     bool
	data      []byte
	slept     []time.Duration
	writeErr  error
}

func (b *fakeBus) ReadPort(port uint16) (byte, error) {
	var val byte
	switch port {
	case testCmdPort:
		val = b.status
		if len(b.statusSeq) > 0 {
			val, b.statusSeq = b.statusSeq[0], b.statusSeq[1:]
		}
		if b.stuck {
			val |= StatusBusy
		}
	case testDataPort:
		if len(b.data) > 0 {
			val, b.data = b.data[0], b.data[1:]
		}
	}
	b.ops = append(b.ops, busOp{port: port, val: val})
	return val, nil
}

func (b *fakeBus) WritePort(port uint16, val byte) error {
	if b.writeErr != nil {
		return b.writeErr
	}
	b.ops = append(b.ops, busOp{write: true, port: port, val: val})
	return nil
}

func (b *fakeBus) Sleep(d time.Duration) {
	b.slept = append(b.slept, d)
}

func (b *fakeBus) writes(port uint16) (out []byte) {
	for _, op := range b.ops {
		if op.write && op.port == port {
			out = append(out, op.val)
		}
	}
	return
}

func (b *fakeBus) statusReads() (n int) {
	for _, op := range b.ops {
		if !op.write && op.port == testCmdPort {
			n++
		}
	}
	return
}

func newTestChannel() (*Channel, *fakeBus) {
	bus := &fakeBus{}
	return NewChannel(bus, 0, testCmdPort, testDataPort), bus
}

var (
	bootFilter = Filter{DTerm: 2, Kp: 2, Kd: 50}
	bootTraj   = Trajectory{
		StopSmooth: true,
		LoadAcc:    true,
		LoadVel:    true,
		LoadPos:    true,
		Acc:        160000,
		Velocity:   200000,
	}
)

func TestLoadAndCommitFilter(t *testing.T) {
	c, bus := newTestChannel()
	require.NoError(t, c.SetPendingFilter(bootFilter))
	require.Equal(t, Pending, c.FilterState())
	require.Empty(t, bus.ops)

	require.NoError(t, c.LoadFilter())
	require.Equal(t, Loaded, c.FilterState())
	require.False(t, c.FilterCommitted())
	require.Equal(t, Filter{}, c.ActiveFilter())

	require.NoError(t, c.CommitFilter())
	require.Equal(t, Active, c.FilterState())
	require.True(t, c.FilterCommitted())
	require.Equal(t, bootFilter, c.ActiveFilter())

	require.Equal(t, []byte{OpLFIL, OpUDF}, bus.writes(testCmdPort))
	require.Equal(t, []byte{0x01, 0x0a, 0x00, 0x02, 0x00, 0x32}, bus.writes(testDataPort))
	// LFIL: one handshake per group plus the final one; UDF: one.
	require.Equal(t, 4+1, bus.statusReads())
}

func TestFilterPayload(t *testing.T) {
	testCases := []struct {
		name   string
		filter Filter
		expect [][]byte
	}{
		{"boot filter", bootFilter, [][]byte{{0x01, 0x0a}, {0x00, 0x02}, {0x00, 0x32}}},
		{"all gains zero", Filter{DTerm: 7}, [][]byte{{0x06, 0x00}}},
		{"all gains", Filter{DTerm: 256, Kp: 0x1234, Ki: 1, Kd: 0xffff, Il: -1},
			[][]byte{{0xff, 0x0f}, {0x12, 0x34}, {0x00, 0x01}, {0xff, 0xff}, {0xff, 0xff}}},
		{"integral only", Filter{DTerm: 1, Ki: 0x100}, [][]byte{{0x00, 0x04}, {0x01, 0x00}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, tc.filter.Validate())
			require.Equal(t, tc.expect, FilterPayload(tc.filter))
		})
	}
}

func TestFilterAllZeroGains(t *testing.T) {
	c, bus := newTestChannel()
	require.NoError(t, c.SetPendingFilter(Filter{DTerm: 3}))
	require.NoError(t, c.LoadFilter())
	require.Equal(t, []byte{OpLFIL}, bus.writes(testCmdPort))
	require.Equal(t, []byte{0x02, 0x00}, bus.writes(testDataPort))
}

func TestFilterValidate(t *testing.T) {
	testCases := []struct {
		name   string
		filter Filter
	}{
		{"dterm zero", Filter{DTerm: 0, Kp: 1}},
		{"dterm too large", Filter{DTerm: 257}},
		{"kp too large", Filter{DTerm: 1, Kp: 0x10000}},
		{"kd too small", Filter{DTerm: 1, Kd: -0x8001}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, bus := newTestChannel()
			err := c.SetPendingFilter(tc.filter)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrInvalidParameter))
			require.Equal(t, Idle, c.FilterState())
			require.Empty(t, bus.ops)
		})
	}
}

func TestCommitWithoutLoad(t *testing.T) {
	c, bus := newTestChannel()
	err := c.CommitFilter()
	require.True(t, errors.Is(err, ErrNotLoaded))
	require.True(t, errors.Is(err, ErrInvalidParameter))

	require.NoError(t, c.SetPendingFilter(bootFilter))
	err = c.CommitFilter()
	require.True(t, errors.Is(err, ErrNotLoaded))
	require.Empty(t, bus.ops)
	require.Equal(t, Filter{}, c.ActiveFilter())
	require.False(t, c.FilterCommitted())

	err = c.StartTrajectory()
	require.True(t, errors.Is(err, ErrNotLoaded))
	require.False(t, c.TrajectoryArmed())
}

func TestHandshakeBusy(t *testing.T) {
	c, bus := newTestChannel()
	require.NoError(t, c.SetPendingFilter(bootFilter))
	bus.stuck = true

	err := c.LoadFilter()
	require.True(t, errors.Is(err, ErrBusy))
	var opErr *OpError
	require.True(t, errors.As(err, &opErr))
	require.Equal(t, "load filter", opErr.Op)

	require.Equal(t, BusyRetryLimit, bus.statusReads())
	require.Empty(t, bus.writes(testDataPort))
	require.Equal(t, Pending, c.FilterState())

	// the chip recovers and the load can be retried.
	bus.stuck = false
	require.NoError(t, c.LoadFilter())
	require.Equal(t, Loaded, c.FilterState())
}

func TestBusyFailureKeepsActive(t *testing.T) {
	c, bus := newTestChannel()
	require.NoError(t, c.SetPendingFilter(bootFilter))
	require.NoError(t, c.LoadFilter())
	require.NoError(t, c.CommitFilter())

	require.NoError(t, c.SetPendingFilter(Filter{DTerm: 5, Kp: 9}))
	require.NoError(t, c.LoadFilter())
	bus.stuck = true
	require.True(t, errors.Is(c.CommitFilter(), ErrBusy))
	require.Equal(t, bootFilter, c.ActiveFilter())
	require.Equal(t, Loaded, c.FilterState())
	require.False(t, c.FilterCommitted())
}

func TestHandshakeRecovers(t *testing.T) {
	c, bus := newTestChannel()
	busy := make([]byte, BusyRetryLimit-1)
	for n := range busy {
		busy[n] = StatusBusy
	}
	bus.statusSeq = busy
	require.NoError(t, c.DefineHome())
	require.Equal(t, BusyRetryLimit, bus.statusReads())
}

func TestTrajectoryPayload(t *testing.T) {
	const marker int32 = 0x5a5a5a5a
	testCases := []struct {
		name   string
		traj   Trajectory
		groups int
	}{
		{"nothing loaded", Trajectory{Acc: marker, Velocity: marker, Position: marker}, 1},
		{"acceleration", Trajectory{LoadAcc: true, Acc: 7, Velocity: marker, Position: marker}, 3},
		{"velocity", Trajectory{LoadVel: true, VelocityMode: true, Acc: marker, Position: marker}, 3},
		{"position", Trajectory{LoadPos: true, PosRelative: true, Acc: marker, Velocity: marker}, 3},
		{"all", Trajectory{LoadAcc: true, LoadVel: true, LoadPos: true}, 7},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			groups := TrajectoryPayload(tc.traj)
			require.Len(t, groups, tc.groups)
			var wire []byte
			for _, g := range groups {
				require.Len(t, g, 2)
				wire = append(wire, g...)
			}
			n := 0
			for _, on := range []bool{tc.traj.LoadAcc, tc.traj.LoadVel, tc.traj.LoadPos} {
				if on {
					n++
				}
			}
			require.Len(t, wire, 2+4*n)
			for i := 2; i+4 <= len(wire); i += 2 {
				require.NotEqual(t, []byte{0x5a, 0x5a, 0x5a, 0x5a}, wire[i:i+4])
			}
		})
	}
}

func TestLoadAndStartTrajectory(t *testing.T) {
	c, bus := newTestChannel()
	c.SetPendingTrajectory(bootTraj)
	require.NoError(t, c.LoadTrajectory())
	require.False(t, c.TrajectoryArmed())
	require.Equal(t, Trajectory{}, c.ActiveTrajectory())

	c.SetTrajectoryComplete(true)
	require.NoError(t, c.StartTrajectory())
	require.True(t, c.TrajectoryArmed())
	require.False(t, c.TrajectoryComplete())
	require.Equal(t, bootTraj, c.ActiveTrajectory())

	require.Equal(t, []byte{OpLTRJ, OpSTT}, bus.writes(testCmdPort))
	require.Equal(t, []byte{
		0x04, 0x2a,
		0x00, 0x02, 0x71, 0x00,
		0x00, 0x03, 0x0d, 0x40,
		0x00, 0x00, 0x00, 0x00,
	}, bus.writes(testDataPort))
	require.Equal(t, TrajStopSmooth|TrajLoadAcc|TrajLoadVel|TrajLoadPos, bootTraj.Control())

	c.Observe(Status(StatusTrajectoryComplete | StatusPositionError))
	require.True(t, c.TrajectoryComplete())
	require.True(t, c.PositionError())
}

func TestTrajectoryAnyCombination(t *testing.T) {
	testCases := []struct {
		name   string
		traj   Trajectory
		expect []byte
	}{
		{"smooth and abrupt stop", Trajectory{StopSmooth: true, StopAbrupt: true}, []byte{0x06, 0x00}},
		{"all stop modes", Trajectory{StopSmooth: true, StopAbrupt: true, MotorOff: true}, []byte{0x07, 0x00}},
		{"negative velocity", Trajectory{LoadVel: true, Velocity: -5000}, []byte{
			0x00, 0x08,
			0xff, 0xff, 0xec, 0x78,
		}},
		{"negative relative acceleration", Trajectory{LoadAcc: true, AccRelative: true, Acc: -100}, []byte{
			0x00, 0x30,
			0xff, 0xff, 0xff, 0x9c,
		}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, bus := newTestChannel()
			c.SetPendingTrajectory(tc.traj)
			require.Equal(t, Pending, c.TrajectoryState())
			require.NoError(t, c.LoadTrajectory())
			require.Equal(t, Loaded, c.TrajectoryState())
			require.Equal(t, []byte{OpLTRJ}, bus.writes(testCmdPort))
			require.Equal(t, tc.expect, bus.writes(testDataPort))
			require.NoError(t, c.StartTrajectory())
			require.Equal(t, tc.traj, c.ActiveTrajectory())
		})
	}
}

func TestSoftReset(t *testing.T) {
	c, bus := newTestChannel()
	require.NoError(t, c.SetPendingFilter(bootFilter))
	require.NoError(t, c.LoadFilter())
	require.NoError(t, c.SoftReset())
	require.Equal(t, []byte{OpLFIL, OpRST, OpRSTI}, bus.writes(testCmdPort))
	require.Equal(t, []byte{0, 0}, bus.writes(testDataPort)[6:])
	require.Equal(t, []time.Duration{ResetSettle}, bus.slept)
	require.Equal(t, Pending, c.FilterState())
}

func TestResetClearsActive(t *testing.T) {
	c, _ := newTestChannel()
	require.NoError(t, c.SetPendingFilter(bootFilter))
	require.NoError(t, c.LoadFilter())
	require.NoError(t, c.CommitFilter())
	c.SetPendingTrajectory(bootTraj)
	require.NoError(t, c.LoadTrajectory())
	require.NoError(t, c.StartTrajectory())
	require.Equal(t, bootFilter, c.ActiveFilter())
	require.Equal(t, Active, c.TrajectoryState())

	require.NoError(t, c.SoftReset())
	require.Equal(t, Filter{}, c.ActiveFilter())
	require.Equal(t, Trajectory{}, c.ActiveTrajectory())
	require.Equal(t, Pending, c.FilterState())
	require.Equal(t, Pending, c.TrajectoryState())
	require.False(t, c.FilterCommitted())
	require.False(t, c.TrajectoryArmed())

	require.NoError(t, c.LoadFilter())
	require.NoError(t, c.CommitFilter())
	require.Equal(t, bootFilter, c.ActiveFilter())
}

func TestHardReset(t *testing.T) {
	t.Run("signature accepted", func(t *testing.T) {
		c, bus := newTestChannel()
		bus.statusSeq = []byte{ResetSignatureB}
		bus.status = ReadySignatureB
		pulsed := 0
		require.NoError(t, c.HardReset(func() error { pulsed++; return nil }))
		require.Equal(t, 1, pulsed)
		require.Equal(t, []byte{OpRSTI}, bus.writes(testCmdPort))
		require.Equal(t, []byte{0, 0}, bus.writes(testDataPort))
	})
	t.Run("unexpected signature", func(t *testing.T) {
		c, bus := newTestChannel()
		bus.status = 0x00
		err := c.HardReset(func() error { return nil })
		require.True(t, errors.Is(err, ErrHardwareMismatch))
		var mismatch *MismatchError
		require.True(t, errors.As(err, &mismatch))
		require.Equal(t, Status(0), mismatch.Status)
		require.Empty(t, bus.writes(testCmdPort))
	})
	t.Run("interrupts not cleared", func(t *testing.T) {
		c, bus := newTestChannel()
		bus.statusSeq = []byte{ResetSignatureA}
		bus.status = ResetSignatureA &^ StatusBusy
		err := c.HardReset(func() error { return nil })
		require.True(t, errors.Is(err, ErrHardwareMismatch))
	})
}

func TestReadBack(t *testing.T) {
	testCases := []struct {
		name   string
		data   []byte
		op     byte
		read   func(*Channel) (int64, error)
		expect int64
	}{
		{"real position", []byte{0x12, 0x34, 0x56, 0x78}, OpRDRP,
			func(c *Channel) (int64, error) { v, err := c.RealPosition(); return int64(v), err }, 0x12345678},
		{"negative position", []byte{0xff, 0xff, 0xff, 0xfe}, OpRDRP,
			func(c *Channel) (int64, error) { v, err := c.RealPosition(); return int64(v), err }, -2},
		{"desired position", []byte{0x00, 0x01, 0x00, 0x00}, OpRDDP,
			func(c *Channel) (int64, error) { v, err := c.DesiredPosition(); return int64(v), err }, 0x10000},
		{"desired velocity", []byte{0x00, 0x03, 0x0d, 0x40}, OpRDDV,
			func(c *Channel) (int64, error) { v, err := c.DesiredVelocity(); return int64(v), err }, 200000},
		{"index position", []byte{0x80, 0x00, 0x00, 0x00}, OpRDIP,
			func(c *Channel) (int64, error) { v, err := c.IndexPosition(); return int64(v), err }, -0x80000000},
		{"real velocity", []byte{0xff, 0xfd}, OpRDRV,
			func(c *Channel) (int64, error) { v, err := c.RealVelocity(); return int64(v), err }, -3},
		{"integration sum", []byte{0x01, 0x00}, OpRDSUM,
			func(c *Channel) (int64, error) { v, err := c.IntegrationSum(); return int64(v), err }, 256},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, bus := newTestChannel()
			bus.data = append([]byte(nil), tc.data...)
			val, err := tc.read(c)
			require.NoError(t, err)
			require.Equal(t, tc.expect, val)
			require.Equal(t, []byte{tc.op}, bus.writes(testCmdPort))
			// handshake before the opcode, one per word and a final one.
			require.Equal(t, 2+len(tc.data)/2, bus.statusReads())
		})
	}
}

func TestSignals(t *testing.T) {
	c, bus := newTestChannel()
	bus.data = []byte{0x20, 0x84}
	sig, err := c.Signals()
	require.NoError(t, err)
	require.True(t, sig.FilterLoaded())
	require.False(t, sig.HostInterrupt())
	require.True(t, sig.Status().MotorOff())
	require.True(t, sig.Status().TrajectoryComplete())
	require.False(t, sig.OnTarget())
	require.Equal(t, []byte{OpRDSIGS}, bus.writes(testCmdPort))
}

func TestChipCommands(t *testing.T) {
	testCases := []struct {
		name string
		run  func(*Channel) error
		cmd  []byte
		data []byte
	}{
		{"define home", (*Channel).DefineHome, []byte{OpDFH}, nil},
		{"acquire index", (*Channel).AcquireIndex, []byte{OpSIP}, nil},
		{"error threshold stop", func(c *Channel) error { return c.SetPositionErrorThreshold(0x1234, true) },
			[]byte{OpLPES}, []byte{0x12, 0x34}},
		{"error threshold interrupt", func(c *Channel) error { return c.SetPositionErrorThreshold(10, false) },
			[]byte{OpLPEI}, []byte{0x00, 0x0a}},
		{"absolute breakpoint", func(c *Channel) error { return c.SetBreakpoint(0x01020304, false) },
			[]byte{OpSBPA}, []byte{0x01, 0x02, 0x03, 0x04}},
		{"relative breakpoint", func(c *Channel) error { return c.SetBreakpoint(-1, true) },
			[]byte{OpSBPR}, []byte{0xff, 0xff, 0xff, 0xff}},
		{"mask interrupts", func(c *Channel) error { return c.MaskInterrupts(IRQTrajectory | IRQBreakpoint) },
			[]byte{OpMSKI}, []byte{0x00, 0x44}},
		{"reset interrupts", func(c *Channel) error { return c.ResetInterrupts(IRQIndexPulse) },
			[]byte{OpRSTI}, []byte{0x00, 0x08}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, bus := newTestChannel()
			require.NoError(t, tc.run(c))
			require.Equal(t, tc.cmd, bus.writes(testCmdPort))
			require.Equal(t, tc.data, bus.writes(testDataPort))
		})
	}

	c, bus := newTestChannel()
	require.True(t, errors.Is(c.MaskInterrupts(0x81), ErrInvalidParameter))
	require.True(t, errors.Is(c.SetPositionErrorThreshold(0x8000, true), ErrInvalidParameter))
	require.Empty(t, bus.ops)
	require.NoError(t, c.MaskInterrupts(IRQAll))
	require.Equal(t, IRQAll, c.InterruptMask())
}

func TestBusFault(t *testing.T) {
	c, bus := newTestChannel()
	require.NoError(t, c.SetPendingFilter(bootFilter))
	bus.writeErr = errors.New("port closed")
	err := c.LoadFilter()
	require.True(t, errors.Is(err, ErrBusFault))
	require.Contains(t, err.Error(), "port closed")
	require.Equal(t, Pending, c.FilterState())
}
