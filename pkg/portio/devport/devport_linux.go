//go:build linux

// Package devport accesses x86 I/O ports through /dev/port.
package devport

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"
	"golang.org/x/sys/unix"

	"github.com/robotalks/servo.go/pkg/portio"
)

// DefaultPath is the port device of the Linux kernel.
const DefaultPath = "/dev/port"

// Backend is a portio.Backend on /dev/port. It requires CAP_SYS_RAWIO.
type Backend struct {
	path string
	lock sync.Mutex
	fd   int
}

// Open opens the port device at path, DefaultPath if empty.
func Open(path string) (*Backend, error) {
	if path == "" {
		path = DefaultPath
	}
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_SYNC|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	glog.V(1).Infof("devport: opened %s", path)
	return &Backend{path: path, fd: fd}, nil
}

// ReadPort implements portio.Backend.
func (b *Backend) ReadPort(port uint16) (byte, error) {
	var buf [1]byte
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.fd < 0 {
		return 0, &portio.BusFaultError{Op: "in", Port: port, Err: unix.EBADF}
	}
	n, err := unix.Pread(b.fd, buf[:], int64(port))
	if err == nil && n != 1 {
		err = unix.EIO
	}
	if err != nil {
		return 0, &portio.BusFaultError{Op: "in", Port: port, Err: err}
	}
	return buf[0], nil
}

// WritePort implements portio.Backend.
func (b *Backend) WritePort(port uint16, val byte) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.fd < 0 {
		return &portio.BusFaultError{Op: "out", Port: port, Err: unix.EBADF}
	}
	n, err := unix.Pwrite(b.fd, []byte{val}, int64(port))
	if err == nil && n != 1 {
		err = unix.EIO
	}
	if err != nil {
		return &portio.BusFaultError{Op: "out", Port: port, Err: err}
	}
	return nil
}

// Sleep implements portio.Backend.
func (b *Backend) Sleep(d time.Duration) {
	time.Sleep(d)
}

// Close implements io.Closer.
func (b *Backend) Close() error {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.fd < 0 {
		return nil
	}
	err := unix.Close(b.fd)
	b.fd = -1
	return err
}
