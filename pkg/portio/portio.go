// Package portio defines the register access capability consumed by the
// servo drivers and the backends implementing it.
package portio

import (
	"fmt"
	"io"
	"time"

	"github.com/golang/glog"
)

// Backend reads and writes 8-bit I/O ports.
type Backend interface {
	// ReadPort reads one byte from the port.
	ReadPort(port uint16) (byte, error)
	// WritePort writes one byte to the port.
	WritePort(port uint16, val byte) error
	// Sleep blocks for the duration with millisecond granularity.
	Sleep(time.Duration)
}

// BusFaultError is reported by backends when the hardware access itself fails.
type BusFaultError struct {
	Op   string
	Port uint16
	Err  error
}

// Error implements error.
func (e *BusFaultError) Error() string {
	return fmt.Sprintf("bus fault: %s port 0x%03x: %v", e.Op, e.Port, e.Err)
}

// Unwrap returns the underlying error.
func (e *BusFaultError) Unwrap() error {
	return e.Err
}

// Close closes the backend if it holds any resources.
func Close(b Backend) error {
	if closer, ok := b.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

type traced struct {
	Backend
}

// Trace wraps a Backend and logs every port access at verbosity 4.
func Trace(b Backend) Backend {
	return &traced{Backend: b}
}

func (t *traced) ReadPort(port uint16) (byte, error) {
	val, err := t.Backend.ReadPort(port)
	if glog.V(4) {
		if err != nil {
			glog.Infof("IN  0x%03x: %v", port, err)
		} else {
			glog.Infof("IN  0x%03x = %02x", port, val)
		}
	}
	return val, err
}

func (t *traced) WritePort(port uint16, val byte) error {
	err := t.Backend.WritePort(port, val)
	if glog.V(4) {
		if err != nil {
			glog.Infof("OUT 0x%03x %02x: %v", port, val, err)
		} else {
			glog.Infof("OUT 0x%03x %02x", port, val)
		}
	}
	return err
}

func (t *traced) Sleep(d time.Duration) {
	glog.V(4).Infof("DELAY %v", d)
	t.Backend.Sleep(d)
}

// Close implements io.Closer.
func (t *traced) Close() error {
	return Close(t.Backend)
}
