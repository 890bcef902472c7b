package websocket

import (
	"context"
	"encoding/json"
	"net"
	"net/http"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	fx "github.com/robotalks/servo.go/pkg/framework"
	"github.com/robotalks/servo.go/pkg/l1"
	"github.com/robotalks/servo.go/pkg/l1/comm"
)

// MetaPath serves the ControllerInfo as JSON.
const MetaPath = "/meta"

// Server is an l1.Registrar accepting L2 connections over WebSocket on
// path /TYPE/ID.
type Server struct {
	Addr string
	Info l1.ControllerInfo

	hub   comm.Hub
	ctx   context.Context
	ready chan struct{}
}

// NewServer creates a Server. With an empty addr, nothing is listened
// and connections come only through Handler.
func NewServer(addr string, info l1.ControllerInfo) *Server {
	return &Server{Addr: addr, Info: info, ready: make(chan struct{})}
}

// Path returns the WebSocket endpoint of the controller.
func (s *Server) Path() string {
	return "/" + s.Info.Ref.Name()
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(MetaPath, s.serveMeta)
	mux.Handle(s.Path(), websocket.Handler(s.serveConn))
	return mux
}

// Links returns the number of connected clients.
func (s *Server) Links() int {
	return s.hub.Links()
}

// Name implements Named.
func (s *Server) Name() string {
	return "websocket " + s.Path()
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
	s.ctx = ctx
	close(s.ready)
	if s.Addr == "" {
		<-ctx.Done()
		return ctx.Err()
	}
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	glog.Infof("websocket: serving %s on %s", s.Path(), ln.Addr())
	srv := &http.Server{Handler: s.Handler()}
	return fx.RunWithContextCancel(ctx, func() { srv.Close() }, func() error {
		return srv.Serve(ln)
	})
}

func (s *Server) serveMeta(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&s.Info)
}

func (s *Server) serveConn(ws *websocket.Conn) {
	<-s.ready
	glog.V(1).Infof("websocket: accepted %s", ws.Request().RemoteAddr)
	err := s.hub.Serve(s.ctx, ws.Request().RemoteAddr, New(ws))
	glog.V(1).Infof("websocket: %s closed: %v", ws.Request().RemoteAddr, err)
}
