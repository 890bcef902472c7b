package remote

import (
	"context"
	"io"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/servo.go/pkg/portio"
)

// Server is the bridge side: it executes requests on a local backend.
type Server struct {
	Bus     portio.Backend
	IdleEOF bool
}

// Serve answers requests arriving on rw until ctx is done or rw fails.
func (s *Server) Serve(ctx context.Context, rw io.ReadWriter) error {
	var dec Decoder
	out := writer{w: rw, seq: NewSeq()}
	byteCh, errCh := make(chan byte), make(chan error, 1)
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go readLoop(subCtx, rw, s.IdleEOF, byteCh, errCh)
	for {
		select {
		case b := <-byteCh:
			r := dec.Feed(b)
			if r.Reply != 0 {
				if err := out.sync(r.Reply); err != nil {
					return err
				}
			}
			if r.Frame == nil {
				continue
			}
			code, data := s.execute(r.Frame)
			if _, err := out.send(code, append([]byte{byte(r.Frame.Seq)}, data...)); err != nil {
				return err
			}
		case err := <-errCh:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *Server) execute(f *Frame) (byte, []byte) {
	failed := func(reason byte) (byte, []byte) {
		return f.Code | FlagError, []byte{reason}
	}
	wantLen := map[byte]int{OpIn: 2, OpOut: 3, OpDelay: 2}
	n, ok := wantLen[f.Code]
	if !ok {
		glog.Warningf("bridge: unknown op %02x", f.Code)
		return failed(ReasonUnknownOp)
	}
	if len(f.Data) != n {
		return failed(ReasonBadLength)
	}
	arg := uint16(f.Data[0])<<8 | uint16(f.Data[1])
	switch f.Code {
	case OpIn:
		val, err := s.Bus.ReadPort(arg)
		if err != nil {
			glog.Warningf("bridge: in %#x: %v", arg, err)
			return failed(ReasonBusFault)
		}
		return f.Code, []byte{val}
	case OpOut:
		if err := s.Bus.WritePort(arg, f.Data[2]); err != nil {
			glog.Warningf("bridge: out %#x: %v", arg, err)
			return failed(ReasonBusFault)
		}
	case OpDelay:
		s.Bus.Sleep(time.Duration(arg) * time.Millisecond)
	}
	return f.Code, nil
}
