// Package realtime pushes order and menu events to connected dashboards over
// WebSocket, optionally relayed between server instances through Redis.
package realtime

import (
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
	"golang.org/x/net/websocket"

	"github.com/ray-remotestate/swiftserve/models"
)

const defaultWriteTimeout = 5 * time.Second

type peer struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (p *peer) send(ev models.Event, timeout time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.conn.SetWriteDeadline(time.Now().Add(timeout))
	return websocket.JSON.Send(p.conn, ev)
}

// Hub tracks connected peers and broadcasts events to all of them.
type Hub struct {
	mu    sync.Mutex
	peers map[*peer]struct{}

	writeTimeout time.Duration

	accepted  *atomic.Int64
	dropped   *atomic.Int64
	delivered *atomic.Int64
}

type Stats struct {
	Connected int   `json:"connected"`
	Accepted  int64 `json:"accepted"`
	Dropped   int64 `json:"dropped"`
	Delivered int64 `json:"delivered"`
}

func NewHub() *Hub {
	return &Hub{
		peers:        make(map[*peer]struct{}),
		writeTimeout: defaultWriteTimeout,
		accepted:     atomic.NewInt64(0),
		dropped:      atomic.NewInt64(0),
		delivered:    atomic.NewInt64(0),
	}
}

// SetWriteTimeout bounds how long one peer may hold up a broadcast.
func (h *Hub) SetWriteTimeout(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.writeTimeout = d
}

// Handler upgrades GET requests to a WebSocket subscription from any origin.
func (h *Hub) Handler() http.Handler {
	return websocket.Server{
		Handshake: func(*websocket.Config, *http.Request) error { return nil },
		Handler:   h.serve,
	}
}

func (h *Hub) serve(conn *websocket.Conn) {
	// clear deadlines inherited from the HTTP server
	_ = conn.SetDeadline(time.Time{})

	p := &peer{conn: conn}
	h.add(p)
	defer h.remove(p)

	for {
		var msg string
		if err := websocket.Message.Receive(conn, &msg); err != nil {
			return
		}
		// any client frame is a keepalive
		if err := p.send(models.Event{Type: models.EventPing}, h.timeout()); err != nil {
			return
		}
	}
}

func (h *Hub) timeout() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.writeTimeout
}

func (h *Hub) add(p *peer) {
	h.mu.Lock()
	h.peers[p] = struct{}{}
	count := len(h.peers)
	h.mu.Unlock()

	h.accepted.Inc()
	logrus.WithFields(logrus.Fields{"remote": remoteAddr(p.conn), "peers": count}).Info("websocket connected")
}

func (h *Hub) remove(p *peer) {
	h.mu.Lock()
	_, ok := h.peers[p]
	delete(h.peers, p)
	count := len(h.peers)
	h.mu.Unlock()

	_ = p.conn.Close()
	if ok {
		logrus.WithFields(logrus.Fields{"remote": remoteAddr(p.conn), "peers": count}).Info("websocket disconnected")
	}
}

func remoteAddr(conn *websocket.Conn) string {
	if r := conn.Request(); r != nil {
		return r.RemoteAddr
	}
	return ""
}

// Publish sends ev to every connected peer. Peers that fail or time out are
// disconnected.
func (h *Hub) Publish(ev models.Event) {
	h.mu.Lock()
	peers := make([]*peer, 0, len(h.peers))
	for p := range h.peers {
		peers = append(peers, p)
	}
	timeout := h.writeTimeout
	h.mu.Unlock()

	var wg sync.WaitGroup
	for _, p := range peers {
		wg.Add(1)
		go func(p *peer) {
			defer wg.Done()
			if err := p.send(ev, timeout); err != nil {
				h.dropped.Inc()
				logrus.WithError(err).WithField("remote", remoteAddr(p.conn)).Warn("dropping websocket peer")
				h.remove(p)
				return
			}
			h.delivered.Inc()
		}(p)
	}
	wg.Wait()
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.peers)
}

func (h *Hub) Stats() Stats {
	return Stats{
		Connected: h.Count(),
		Accepted:  h.accepted.Load(),
		Dropped:   h.dropped.Load(),
		Delivered: h.delivered.Load(),
	}
}

// Close disconnects every peer.
func (h *Hub) Close() {
	h.mu.Lock()
	peers := make([]*peer, 0, len(h.peers))
	for p := range h.peers {
		peers = append(peers, p)
	}
	h.mu.Unlock()

	for _, p := range peers {
		h.remove(p)
	}
}
