package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/websocket"

	"github.com/robotalks/servo.go/pkg/l1"
	"github.com/robotalks/servo.go/pkg/l1/comm"
)

// Connector implements l1.Connector for a controller served by Server.
type Connector struct {
	URL *url.URL
}

// NewConnector creates a Connector from a ws:// or wss:// URL of the
// server root.
func NewConnector(rawURL string) (*Connector, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("websocket: unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	return &Connector{URL: u}, nil
}

func (c *Connector) httpURL(path string) string {
	u := *c.URL
	if u.Scheme == "wss" {
		u.Scheme = "https"
	} else {
		u.Scheme = "http"
	}
	u.Path += path
	return u.String()
}

// Discover implements l1.Connector by fetching the server's meta.
func (c *Connector) Discover(ctx context.Context) ([]l1.ControllerInfo, error) {
	req, err := http.NewRequest(http.MethodGet, c.httpURL(MetaPath), nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("websocket: meta: %s", resp.Status)
	}
	var info l1.ControllerInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return []l1.ControllerInfo{info}, nil
}

// Connect implements l1.Connector.
func (c *Connector) Connect(ctx context.Context, ref l1.ControllerRef) (l1.ControllerConn, error) {
	u := *c.URL
	u.Path += "/" + ref.Name()
	conf, err := websocket.NewConfig(u.String(), c.httpURL("/"))
	if err != nil {
		return nil, err
	}
	ws, err := websocket.DialConfig(conf)
	if err != nil {
		return nil, err
	}
	conn := &ControllerConn{}
	conn.Init(New(ws))
	return conn, nil
}

// ControllerConn is an l1.ControllerConn over WebSocket.
type ControllerConn struct {
	comm.ControllerConn
}
