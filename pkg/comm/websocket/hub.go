package websocket

import (
	"context"
	"net"
	"net/http"
	"sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/net/websocket"

	"github.com/robotalks/motion.go/pkg/comm"
	fx "github.com/robotalks/motion.go/pkg/framework"
	"github.com/robotalks/motion.go/pkg/msgs"
)

// DefaultPath is where the hub accepts connections.
const DefaultPath = "/motion"

// Hub accepts websocket stations. Every station receives all events and
// may send commands, which are posted to the loop the hub runs in.
type Hub struct {
	Addr string
	Path string
	// Listener overrides Addr when set.
	Listener net.Listener

	fanout comm.Fanout

	lock  sync.Mutex
	ctx   context.Context
	conns map[*ReadWriter]struct{}
}

// NewHub creates a Hub listening on addr.
func NewHub(addr string) *Hub {
	return &Hub{Addr: addr, Path: DefaultPath}
}

// SendEvent implements comm.EventSender.
func (h *Hub) SendEvent(ctx context.Context, msg fx.Message) error {
	if h.fanout.Len() == 0 {
		return nil
	}
	events := comm.EventWriter{Writer: &h.fanout}
	return events.SendEvent(ctx, msg)
}

// Stations returns the number of connected stations.
func (h *Hub) Stations() int {
	return h.fanout.Len()
}

// Handler returns the websocket handler.
func (h *Hub) Handler() http.Handler {
	return websocket.Handler(h.serve)
}

// AddToLoop implements LoopAdder.
func (h *Hub) AddToLoop(l *fx.Loop) {
	l.AddRunnable(h)
}

// Run implements Runnable.
func (h *Hub) Run(ctx context.Context) error {
	ln := h.Listener
	if ln == nil {
		var err error
		if ln, err = net.Listen("tcp", h.Addr); err != nil {
			return errors.Wrapf(err, "websocket listen %s", h.Addr)
		}
	}
	h.lock.Lock()
	h.ctx = ctx
	h.lock.Unlock()

	path := h.Path
	if path == "" {
		path = DefaultPath
	}
	mux := http.NewServeMux()
	mux.Handle(path, h.Handler())
	srv := &http.Server{Handler: mux}
	glog.Infof("websocket: serving %s%s", ln.Addr(), path)
	return fx.RunWithContextCancel(ctx, func() {
		srv.Close()
		h.closeAll()
	}, func() error {
		if err := srv.Serve(ln); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
}

func (h *Hub) serve(conn *websocket.Conn) {
	rw := New(conn)
	h.lock.Lock()
	ctx := h.ctx
	if h.conns == nil {
		h.conns = make(map[*ReadWriter]struct{})
	}
	h.conns[rw] = struct{}{}
	h.lock.Unlock()
	h.fanout.Attach(rw)
	defer func() {
		h.fanout.Detach(rw)
		h.lock.Lock()
		delete(h.conns, rw)
		h.lock.Unlock()
	}()
	if ctx == nil {
		glog.Warning("websocket: hub is not running in a loop")
		return
	}

	glog.V(2).Infof("websocket: station %s connected", conn.Request().RemoteAddr)
	pipe := comm.NewPipe(rw)
	pipe.Handler = msgs.HandleTypedMsgFunc(func(ctx context.Context, msg fx.Message, typed *msgs.Typed) error {
		comm.PostTyped(ctx, pipe, msg, typed)
		return nil
	})
	if err := pipe.Run(ctx); err != nil {
		glog.V(2).Infof("websocket: station %s: %v", conn.Request().RemoteAddr, err)
	}
}

func (h *Hub) closeAll() {
	h.lock.Lock()
	defer h.lock.Unlock()
	for rw := range h.conns {
		rw.Close()
	}
}
