package stream

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPacketFraming(t *testing.T) {
	var buf bytes.Buffer
	rw := New(&buf)
	require.NoError(t, rw.WritePacket([]byte{1, 2, 3}))
	require.NoError(t, rw.WritePacket(nil))
	require.Equal(t, []byte{3, 0, 0, 0, 1, 2, 3, 0, 0, 0, 0}, buf.Bytes())

	pkt, err := rw.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, pkt)
	pkt, err = rw.ReadPacket()
	require.NoError(t, err)
	require.Empty(t, pkt)
	_, err = rw.ReadPacket()
	require.Equal(t, io.EOF, err)
}

func TestPacketErrors(t *testing.T) {
	rw := New(bytes.NewBuffer([]byte{0xff, 0xff, 0xff, 0x7f}))
	_, err := rw.ReadPacket()
	require.Error(t, err)

	rw = New(bytes.NewBuffer([]byte{4, 0, 0, 0, 1}))
	_, err = rw.ReadPacket()
	require.Equal(t, io.ErrUnexpectedEOF, err)

	rw = New(bytes.NewBuffer([]byte{4, 0}))
	_, err = rw.ReadPacket()
	require.Equal(t, io.ErrUnexpectedEOF, err)

	require.Error(t, New(&bytes.Buffer{}).WritePacket(make([]byte, MaxPacketSize+1)))
}
