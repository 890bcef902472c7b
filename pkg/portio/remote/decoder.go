package remote

import (
	"context"
	"io"
	"os"
)

type decodeState int

const (
	stateSync       decodeState = iota // waiting for REQ or ACK
	stateSyncReqSeq                    // REQ received, waiting for seq
	stateSyncAckSeq                    // ACK received, waiting for seq
	stateSeq                           // synchronized, waiting for a frame
	stateCode
	stateLen
	stateData
)

// Decoded is the outcome of one received byte.
type Decoded struct {
	// Reply is the sync byte to answer with, followed by the own
	// sequence. Zero when nothing has to be sent.
	Reply byte
	Frame *Frame
	Ready bool
}

// Decoder turns received bytes into frames.
type Decoder struct {
	peer  Seq
	state decodeState
	frame *Frame
	recv  int
}

// Ready reports whether the peer sequence is known.
func (d *Decoder) Ready() bool {
	return d.state >= stateSeq
}

// Reset drops to syncing and asks the peer to sync.
func (d *Decoder) Reset() Decoded {
	return d.resync()
}

// Feed consumes one byte.
func (d *Decoder) Feed(b byte) (r Decoded) {
	switch d.state {
	case stateSync:
		switch b {
		case syncREQ:
			d.state = stateSyncReqSeq
		case syncACK:
			d.state = stateSyncAckSeq
		}
	case stateSyncReqSeq, stateSyncAckSeq:
		seq := Seq(b)
		if !seq.IsValid() {
			return d.resync()
		}
		if d.state == stateSyncReqSeq {
			r.Reply = syncACK
		}
		d.peer, d.state = seq, stateSeq
	case stateSeq:
		switch {
		case b == syncREQ:
			d.state = stateSyncReqSeq
		case b == syncACK:
			d.state = stateSyncAckSeq
		case Seq(b) != d.peer:
			return d.resync()
		default:
			d.frame = &Frame{Seq: d.peer}
			d.peer = d.peer.Next()
			d.state = stateCode
		}
	case stateCode:
		d.frame.Code = b & 0x0f
		switch l := int(b>>4) & 7; l {
		case 0:
			r.Frame = d.done()
		case 7:
			d.state = stateLen
		default:
			d.frame.Data, d.recv = make([]byte, l), 0
			d.state = stateData
		}
	case stateLen:
		if b > maxDataLen {
			return d.resync()
		}
		if b == 0 {
			r.Frame = d.done()
			break
		}
		d.frame.Data, d.recv = make([]byte, b), 0
		d.state = stateData
	case stateData:
		d.frame.Data[d.recv] = b
		if d.recv++; d.recv >= len(d.frame.Data) {
			r.Frame = d.done()
		}
	}
	r.Ready = d.Ready()
	return
}

func (d *Decoder) resync() Decoded {
	d.state, d.frame = stateSync, nil
	return Decoded{Reply: syncREQ}
}

func (d *Decoder) done() *Frame {
	f := d.frame
	d.frame, d.state = nil, stateSeq
	return f
}

// readLoop forwards bytes from r until ctx is done or r fails.
// With idleEOF an io.EOF is a read timeout, as reported by serial ports.
func readLoop(ctx context.Context, r io.Reader, idleEOF bool, byteCh chan<- byte, errCh chan<- error) {
	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			select {
			case byteCh <- b:
			case <-ctx.Done():
				return
			}
		}
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			if os.IsTimeout(err) || (idleEOF && err == io.EOF) {
				continue
			}
			errCh <- err
			return
		}
	}
}
