// Package remote reaches the board ports through a bridge over a byte
// stream such as a serial line or a TCP connection.
//
// Each side announces its frame sequence with a sync exchange:
//
//	REQ(0xff) seq  ->
//	               <- ACK(0xfe) seq
//
// after which frames are accepted only in sequence. Any out of sequence
// byte drops the receiver back to syncing. Frames carry no checksum; a
// corrupted frame is detected by its sequence and replaced by a resync.
//
// A frame is seq, code|len<<4, then data. A length of 7 or more is sent
// as 7 in the code byte followed by an explicit length byte below 0x80.
// Replies echo the request code, setting FlagError on failure, and start
// their data with the sequence of the request.
package remote

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// Seq is a frame sequence number in [1, 0xf0).
type Seq byte

// NewSeq returns a sequence number seeded from the clock.
func NewSeq() Seq {
	return Seq(byte(time.Now().UnixNano())).Next()
}

// Next returns the sequence number following s.
func (s Seq) Next() Seq {
	n := byte(s) + 1
	if n == 0 || n >= 0xf0 {
		n = 1
	}
	return Seq(n)
}

// IsValid reports whether s can appear on the wire.
func (s Seq) IsValid() bool {
	return s > 0 && s < 0xf0
}

// Request codes.
const (
	OpIn    byte = 0x02 // data: port hi, port lo; reply: value
	OpOut   byte = 0x04 // data: port hi, port lo, value
	OpDelay byte = 0x06 // data: ms hi, ms lo

	// FlagError marks a failed reply, its data is seq, reason.
	FlagError byte = 0x01
)

// Reasons carried by error replies.
const (
	ReasonUnknownOp byte = 1
	ReasonBadLength byte = 2
	ReasonBusFault  byte = 3
)

const (
	syncREQ byte = 0xff
	syncACK byte = 0xfe

	maxDataLen = 0x7f
)

var (
	// ErrTimeout indicates no reply arrived in time.
	ErrTimeout = errors.New("remote: no reply")
	// ErrClosed indicates the link stopped.
	ErrClosed = errors.New("remote: link closed")
	// ErrProtocol indicates a malformed reply.
	ErrProtocol = errors.New("remote: protocol error")
)

// CommandError is an error reply from the bridge.
type CommandError struct {
	Code   byte
	Reason byte
}

// Error implements error.
func (e *CommandError) Error() string {
	var reason string
	switch e.Reason {
	case ReasonUnknownOp:
		reason = "unknown op"
	case ReasonBadLength:
		reason = "bad length"
	case ReasonBusFault:
		reason = "bus fault"
	default:
		reason = fmt.Sprintf("reason %d", e.Reason)
	}
	return fmt.Sprintf("remote: op %02x failed: %s", e.Code, reason)
}

// Frame is one unit on the wire.
type Frame struct {
	Seq  Seq
	Code byte
	Data []byte
}

// Bytes encodes the frame.
func (f *Frame) Bytes() []byte {
	l := len(f.Data)
	if l > maxDataLen {
		l = maxDataLen
	}
	if l < 7 {
		b := make([]byte, 2, l+2)
		b[0], b[1] = byte(f.Seq), f.Code&0x0f|byte(l)<<4
		return append(b, f.Data[:l]...)
	}
	b := make([]byte, 3, l+3)
	b[0], b[1], b[2] = byte(f.Seq), f.Code&0x0f|0x70, byte(l)
	return append(b, f.Data[:l]...)
}

// writer serializes everything one side puts on the wire.
type writer struct {
	w   io.Writer
	seq Seq
}

func (w *writer) sync(b byte) error {
	_, err := w.w.Write([]byte{b, byte(w.seq)})
	return err
}

func (w *writer) send(code byte, data []byte) (Seq, error) {
	seq := w.seq
	f := Frame{Seq: seq, Code: code, Data: data}
	if _, err := w.w.Write(f.Bytes()); err != nil {
		return seq, err
	}
	w.seq = seq.Next()
	return seq, nil
}
