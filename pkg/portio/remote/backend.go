package remote

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/golang/glog"
	"github.com/tarm/serial"

	"github.com/robotalks/servo.go/pkg/portio"
)

// DefaultBaud is the line speed of the serial bridge.
const DefaultBaud = 115200

// Backend is a portio.Backend talking to a bridge.
type Backend struct {
	link   *Link
	conn   io.ReadWriter
	cancel context.CancelFunc
	done   chan struct{}
}

// New starts a Backend on conn. If conn is an io.Closer it is closed
// with the Backend.
func New(conn io.ReadWriter) *Backend {
	return newBackend(NewLink(conn), conn)
}

func newBackend(link *Link, conn io.ReadWriter) *Backend {
	ctx, cancel := context.WithCancel(context.Background())
	b := &Backend{link: link, conn: conn, cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(b.done)
		if err := link.Run(ctx); err != nil && ctx.Err() == nil {
			glog.Errorf("remote: link stopped: %v", err)
		}
	}()
	return b
}

// OpenSerial opens a bridge on a serial device.
func OpenSerial(device string, baud int) (*Backend, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	port, err := serial.OpenPort(&serial.Config{
		Name:        device,
		Baud:        baud,
		ReadTimeout: 100 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", device, err)
	}
	link := NewLink(port)
	link.IdleEOF = true
	glog.V(1).Infof("remote: bridge on %s at %d baud", device, baud)
	return newBackend(link, port), nil
}

// Dial connects to a bridge served over TCP.
func Dial(addr string) (*Backend, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	glog.V(1).Infof("remote: bridge at %s", addr)
	return New(conn), nil
}

// Link returns the underlying link.
func (b *Backend) Link() *Link {
	return b.link
}

// ReadPort implements portio.Backend.
func (b *Backend) ReadPort(port uint16) (byte, error) {
	data, err := b.link.Do(context.Background(), OpIn, []byte{byte(port >> 8), byte(port)})
	if err == nil && len(data) != 1 {
		err = fmt.Errorf("%w: %d bytes read", ErrProtocol, len(data))
	}
	if err != nil {
		return 0, &portio.BusFaultError{Op: "in", Port: port, Err: err}
	}
	return data[0], nil
}

// WritePort implements portio.Backend.
func (b *Backend) WritePort(port uint16, val byte) error {
	if _, err := b.link.Do(context.Background(), OpOut, []byte{byte(port >> 8), byte(port), val}); err != nil {
		return &portio.BusFaultError{Op: "out", Port: port, Err: err}
	}
	return nil
}

// Sleep implements portio.Backend. The delay runs on the bridge so it
// stays ordered with the port accesses; if the bridge fails to answer
// the host sleeps instead.
func (b *Backend) Sleep(d time.Duration) {
	ms := (d + time.Millisecond - 1) / time.Millisecond
	for ms > 0 {
		chunk := ms
		if chunk > 0xffff {
			chunk = 0xffff
		}
		ms -= chunk
		wait := time.Duration(chunk) * time.Millisecond
		_, err := b.link.do(context.Background(), b.link.Timeout+wait, OpDelay, []byte{byte(chunk >> 8), byte(chunk)})
		if err != nil {
			glog.Warningf("remote: delay %v: %v", wait, err)
			time.Sleep(wait)
		}
	}
}

// Close stops the link and closes the connection.
func (b *Backend) Close() error {
	b.cancel()
	var err error
	if c, ok := b.conn.(io.Closer); ok {
		err = c.Close()
	}
	<-b.done
	return err
}
