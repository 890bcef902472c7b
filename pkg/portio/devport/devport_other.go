//go:build !linux

package devport

import (
	"errors"
	"time"
)

// DefaultPath is the port device of the Linux kernel.
const DefaultPath = "/dev/port"

// ErrUnsupported is returned on systems without /dev/port.
var ErrUnsupported = errors.New("devport: /dev/port is only available on linux")

// Backend is unavailable on this platform.
type Backend struct{}

// Open always fails on this platform.
func Open(path string) (*Backend, error) {
	return nil, ErrUnsupported
}

// ReadPort implements portio.Backend.
func (b *Backend) ReadPort(port uint16) (byte, error) { return 0, ErrUnsupported }

// WritePort implements portio.Backend.
func (b *Backend) WritePort(port uint16, val byte) error { return ErrUnsupported }

// Sleep implements portio.Backend.
func (b *Backend) Sleep(d time.Duration) { time.Sleep(d) }

// Close implements io.Closer.
func (b *Backend) Close() error { return nil }
