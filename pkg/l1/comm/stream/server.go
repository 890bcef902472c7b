package stream

import (
	"context"
	"net"
	"net/url"

	"github.com/golang/glog"

	fx "github.com/robotalks/servo.go/pkg/framework"
	"github.com/robotalks/servo.go/pkg/l1"
	"github.com/robotalks/servo.go/pkg/l1/comm"
)

// Server accepts L2 connections on a TCP address. Each connection is a
// length-prefixed packet stream.
type Server struct {
	Addr string

	hub      comm.Hub
	listener net.Listener
}

// NewServer creates a Server listening on addr.
func NewServer(addr string) *Server {
	return &Server{Addr: addr}
}

// Listen binds the address. It is called by Run if not called before.
func (s *Server) Listen() error {
	if s.listener != nil {
		return nil
	}
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.listener = ln
	glog.Infof("stream: listening on %s", ln.Addr())
	return nil
}

// ListenAddr returns the bound address, nil before Listen.
func (s *Server) ListenAddr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Name implements Named.
func (s *Server) Name() string {
	return "stream " + s.Addr
}

// SendEvent implements l1.Registrar.
func (s *Server) SendEvent(ctx context.Context, msg fx.Message) error {
	return s.hub.SendEvent(ctx, msg)
}

// AddToLoop implements LoopAdder.
func (s *Server) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(s)
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	return fx.RunWithContextCloser(ctx, s.listener, func() error {
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				return err
			}
			glog.V(1).Infof("stream: accepted %s", conn.RemoteAddr())
			go func() {
				err := s.hub.Serve(ctx, conn.RemoteAddr().String(), New(conn))
				glog.V(1).Infof("stream: %s closed: %v", conn.RemoteAddr(), err)
			}()
		}
	})
}

// Connector implements l1.Connector for a controller served by Server.
type Connector struct {
	Addr string
}

// NewConnector creates a Connector from a tcp://host:port URL.
func NewConnector(rawURL string) (*Connector, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	return &Connector{Addr: u.Host}, nil
}

// Discover implements l1.Connector. A stream carries exactly one
// controller and has no registry to query.
func (c *Connector) Discover(ctx context.Context) ([]l1.ControllerInfo, error) {
	return nil, comm.ErrNoDiscovery
}

// Connect implements l1.Connector. The ref is not checked.
func (c *Connector) Connect(ctx context.Context, ref l1.ControllerRef) (l1.ControllerConn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", c.Addr)
	if err != nil {
		return nil, err
	}
	cc := &ControllerConn{}
	cc.Init(New(conn))
	return cc, nil
}

// ControllerConn is an l1.ControllerConn over a stream.
type ControllerConn struct {
	comm.ControllerConn
}
