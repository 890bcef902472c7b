package remote

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/glog"
)

// DefaultTimeout bounds a request round trip.
const DefaultTimeout = 200 * time.Millisecond

// Link is the host side of the bridge protocol. Requests are issued one
// at a time and wait for their reply.
type Link struct {
	Timeout time.Duration
	// IdleEOF treats io.EOF from reads as a read timeout.
	IdleEOF bool

	rw io.ReadWriter

	reqLock   sync.Mutex
	writeLock sync.Mutex
	out       writer
	dec       Decoder

	ready   atomic.Bool
	readyCh chan struct{}
	frames  chan *Frame
	dead    chan struct{}
	err     error
}

// NewLink creates a Link on rw. Run must be started before requests.
func NewLink(rw io.ReadWriter) *Link {
	return &Link{
		Timeout: DefaultTimeout,
		rw:      rw,
		out:     writer{w: rw, seq: NewSeq()},
		readyCh: make(chan struct{}, 1),
		frames:  make(chan *Frame, 4),
		dead:    make(chan struct{}),
	}
}

// Ready reports whether the link is synchronized.
func (l *Link) Ready() bool {
	return l.ready.Load()
}

// Run receives from the bridge until ctx is done or the stream fails.
func (l *Link) Run(ctx context.Context) (err error) {
	defer func() {
		l.err = err
		close(l.dead)
	}()
	byteCh, errCh := make(chan byte), make(chan error, 1)
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go readLoop(subCtx, l.rw, l.IdleEOF, byteCh, errCh)
	for {
		select {
		case b := <-byteCh:
			if err := l.feed(b); err != nil {
				return err
			}
		case err := <-errCh:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (l *Link) feed(b byte) error {
	r := l.dec.Feed(b)
	if r.Reply != 0 {
		l.writeLock.Lock()
		err := l.out.sync(r.Reply)
		l.writeLock.Unlock()
		if err != nil {
			return err
		}
	}
	if !r.Ready {
		l.ready.Store(false)
	} else if !l.ready.Swap(true) {
		glog.V(2).Info("remote: link synchronized")
		select {
		case l.readyCh <- struct{}{}:
		default:
		}
	}
	if r.Frame != nil {
		select {
		case l.frames <- r.Frame:
		default:
			glog.Warningf("remote: dropped frame %02x", r.Frame.Code)
		}
	}
	return nil
}

// Do sends a request and returns the reply data following the echoed
// sequence. The round trip is bounded by ctx and Timeout.
func (l *Link) Do(ctx context.Context, code byte, data []byte) ([]byte, error) {
	return l.do(ctx, l.Timeout, code, data)
}

func (l *Link) do(ctx context.Context, timeout time.Duration, code byte, data []byte) ([]byte, error) {
	l.reqLock.Lock()
	defer l.reqLock.Unlock()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case <-l.dead:
		return nil, l.closedErr()
	default:
	}
	if !l.ready.Load() {
		if err := l.sync(ctx); err != nil {
			return nil, err
		}
	}
	for drained := false; !drained; {
		select {
		case <-l.frames:
		default:
			drained = true
		}
	}

	l.writeLock.Lock()
	seq, err := l.out.send(code, data)
	l.writeLock.Unlock()
	if err != nil {
		return nil, err
	}
	for {
		select {
		case f := <-l.frames:
			if len(f.Data) == 0 || Seq(f.Data[0]) != seq {
				continue
			}
			if f.Code&FlagError != 0 {
				var reason byte
				if len(f.Data) > 1 {
					reason = f.Data[1]
				}
				return nil, &CommandError{Code: f.Code &^ FlagError, Reason: reason}
			}
			if f.Code != code {
				return nil, fmt.Errorf("%w: reply %02x to %02x", ErrProtocol, f.Code, code)
			}
			return f.Data[1:], nil
		case <-l.dead:
			return nil, l.closedErr()
		case <-ctx.Done():
			l.ready.Store(false)
			return nil, ErrTimeout
		}
	}
}

func (l *Link) sync(ctx context.Context) error {
	select {
	case <-l.readyCh:
	default:
	}
	l.writeLock.Lock()
	err := l.out.sync(syncREQ)
	l.writeLock.Unlock()
	if err != nil {
		return err
	}
	select {
	case <-l.readyCh:
		return nil
	case <-l.dead:
		return l.closedErr()
	case <-ctx.Done():
		return ErrTimeout
	}
}

func (l *Link) closedErr() error {
	if l.err != nil && l.err != context.Canceled {
		return fmt.Errorf("%w: %v", ErrClosed, l.err)
	}
	return ErrClosed
}
