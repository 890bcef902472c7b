package remote_test

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/servo.go/pkg/andi"
	"github.com/robotalks/servo.go/pkg/lm629"
	"github.com/robotalks/servo.go/pkg/portio"
	"github.com/robotalks/servo.go/pkg/portio/remote"
	"github.com/robotalks/servo.go/pkg/sim"
)

const base = andi.DefaultBaseAddress

type bridgeEnv struct {
	backend *remote.Backend
	hw      *sim.Board
	cancel  context.CancelFunc
	served  chan error
}

func newBridgeEnv(t *testing.T) *bridgeEnv {
	hostConn, bridgeConn := net.Pipe()
	env := &bridgeEnv{hw: sim.New(base), served: make(chan error, 1)}
	var ctx context.Context
	ctx, env.cancel = context.WithCancel(context.Background())
	srv := &remote.Server{Bus: env.hw}
	go func() {
		env.served <- srv.Serve(ctx, bridgeConn)
		bridgeConn.Close()
	}()
	env.backend = remote.New(hostConn)
	return env
}

func (e *bridgeEnv) close(t *testing.T) {
	e.backend.Close()
	e.cancel()
	<-e.served
}

func TestPortAccess(t *testing.T) {
	env := newBridgeEnv(t)
	defer env.close(t)

	require.NoError(t, env.backend.WritePort(base+andi.RegBrakes, 0x03))
	val, err := env.backend.ReadPort(base + andi.RegBrakes)
	require.NoError(t, err)
	require.Equal(t, byte(0x03), val)
	require.True(t, env.backend.Link().Ready())

	env.backend.Sleep(5 * time.Millisecond)
	require.Equal(t, []sim.Access{
		{Kind: sim.Write, Port: base + andi.RegBrakes, Value: 0x03},
		{Kind: sim.Read, Port: base + andi.RegBrakes, Value: 0x03},
	}, env.hw.Accesses())
}

func TestBoardOverBridge(t *testing.T) {
	env := newBridgeEnv(t)
	defer env.close(t)

	b, err := andi.New(env.backend, nil)
	require.NoError(t, err)
	require.NoError(t, b.Init())
	require.Len(t, env.hw.Commands(), 10)
	require.Equal(t, andi.DefaultChannelConfig.Filter, env.hw.Chip(1).Filter)

	out, err := b.Report()
	require.NoError(t, err)
	require.Contains(t, out, "Channel 1 Encoder Count : 00000000\n")
}

func TestBusFaultReply(t *testing.T) {
	env := newBridgeEnv(t)
	defer env.close(t)

	env.hw.FailPort(base+andi.RegControl, errors.New("no card"))
	_, err := env.backend.ReadPort(base + andi.RegControl)
	require.Error(t, err)
	var fault *portio.BusFaultError
	require.True(t, errors.As(err, &fault))
	require.Equal(t, "in", fault.Op)
	var cmdErr *remote.CommandError
	require.True(t, errors.As(err, &cmdErr))
	require.Equal(t, remote.OpIn, cmdErr.Code)
	require.Equal(t, remote.ReasonBusFault, cmdErr.Reason)

	b, err := andi.New(env.backend, nil)
	require.NoError(t, err)
	_, err = b.IRQCause()
	require.True(t, errors.Is(err, lm629.ErrBusFault))

	env.hw.FailPort(base+andi.RegControl, nil)
	_, err = env.backend.ReadPort(base + andi.RegControl)
	require.NoError(t, err)
}

func TestNoBridge(t *testing.T) {
	hostConn, deadConn := net.Pipe()
	go io.Copy(io.Discard, deadConn)
	defer deadConn.Close()

	link := remote.NewLink(hostConn)
	link.Timeout = 20 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go link.Run(ctx)

	_, err := link.Do(context.Background(), remote.OpIn, []byte{0x03, 0x06})
	require.True(t, errors.Is(err, remote.ErrTimeout))
	require.False(t, link.Ready())
}

func TestLinkClosed(t *testing.T) {
	hostConn, peerConn := net.Pipe()
	link := remote.NewLink(hostConn)
	done := make(chan error, 1)
	go func() { done <- link.Run(context.Background()) }()
	peerConn.Close()
	require.Error(t, <-done)

	_, err := link.Do(context.Background(), remote.OpIn, []byte{0x03, 0x06})
	require.True(t, errors.Is(err, remote.ErrClosed))
}
