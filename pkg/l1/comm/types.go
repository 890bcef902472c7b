package comm

import "errors"

// PacketReader reads packets in bytes.
type PacketReader interface {
	ReadPacket() ([]byte, error)
}

// PacketWriter writes packets in bytes.
type PacketWriter interface {
	WritePacket([]byte) error
}

// PacketReadWriter reads/writes packets in bytes.
type PacketReadWriter interface {
	PacketReader
	PacketWriter
}

var (
	// ErrNotCommand indicates a message sent as a command is not one.
	ErrNotCommand = errors.New("message is not a command")
	// ErrNotEvent indicates a message sent as an event is not one.
	ErrNotEvent = errors.New("message is not an event")
)
