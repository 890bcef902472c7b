package lm629

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy indicates the busy bit did not clear within BusyRetryLimit reads.
	ErrBusy = errors.New("busy")
	// ErrHardwareMismatch indicates an unexpected status signature after reset.
	ErrHardwareMismatch = errors.New("hardware mismatch")
	// ErrInvalidParameter indicates a parameter out of the chip's range.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrNotLoaded indicates a commit or start without a prior successful load.
	ErrNotLoaded = fmt.Errorf("%w: nothing loaded", ErrInvalidParameter)
	// ErrBusFault indicates the register backend failed.
	ErrBusFault = errors.New("bus fault")
)

// OpError records the operation and channel an error happened on.
type OpError struct {
	Op      string
	Channel int
	Err     error
}

// Error implements error.
func (e *OpError) Error() string {
	return fmt.Sprintf("channel %d: %s: %v", e.Channel, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *OpError) Unwrap() error {
	return e.Err
}

// MismatchError reports the status read back after a reset.
type MismatchError struct {
	Channel  int
	Status   Status
	Attempts int
}

// Error implements error.
func (e *MismatchError) Error() string {
	return fmt.Sprintf("channel %d: unexpected status %02x after %d reset attempts",
		e.Channel, byte(e.Status), e.Attempts)
}

// Is makes MismatchError match ErrHardwareMismatch.
func (e *MismatchError) Is(target error) bool {
	return target == ErrHardwareMismatch
}

type busFault struct {
	err error
}

func (e *busFault) Error() string        { return e.err.Error() }
func (e *busFault) Unwrap() error        { return e.err }
func (e *busFault) Is(target error) bool { return target == ErrBusFault }
