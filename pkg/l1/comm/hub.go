package comm

import (
	"context"
	"errors"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/servo.go/pkg/framework"
)

// ErrNoDiscovery indicates the transport can't enumerate controllers.
var ErrNoDiscovery = errors.New("discovery not supported")

// Hub is a Registrar over any number of point-to-point links, e.g.
// accepted network connections. Events are sent to every link.
type Hub struct {
	lock  sync.Mutex
	links map[*Registrar]string
}

// Serve runs a link on rw until rw fails or ctx is done. ctx must carry
// the loop control of the loop receiving the commands. name identifies
// the link in errors, usually the peer address.
func (h *Hub) Serve(ctx context.Context, name string, rw PacketReadWriter) error {
	reg := &Registrar{}
	reg.Init(rw)
	h.lock.Lock()
	if h.links == nil {
		h.links = make(map[*Registrar]string)
	}
	h.links[reg] = name
	count := len(h.links)
	h.lock.Unlock()
	glog.V(1).Infof("link %s attached, %d active", name, count)

	defer func() {
		h.lock.Lock()
		delete(h.links, reg)
		count := len(h.links)
		h.lock.Unlock()
		glog.V(1).Infof("link %s detached, %d active", name, count)
	}()
	return fx.RunWithContextCancel(ctx, func() { reg.Close() }, func() error {
		return reg.Serve(ctx)
	})
}

// Links returns the number of attached links.
func (h *Hub) Links() int {
	h.lock.Lock()
	defer h.lock.Unlock()
	return len(h.links)
}

// SendEvent implements Registrar. Errors are tagged with the name of
// the failing link.
func (h *Hub) SendEvent(ctx context.Context, msg fx.Message) error {
	h.lock.Lock()
	regs := make(map[*Registrar]string, len(h.links))
	for reg, name := range h.links {
		regs[reg] = name
	}
	h.lock.Unlock()
	var errs fx.AggregatedError
	for reg, name := range regs {
		errs.AddFrom(name, reg.SendEvent(ctx, msg))
	}
	return errs.Aggregate()
}
