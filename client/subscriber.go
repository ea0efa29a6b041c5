package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/websocket"

	"github.com/ray-remotestate/swiftserve/models"
)

const (
	DefaultReconnectDelay = 3 * time.Second
	DefaultMaxReconnects  = 5

	sendTimeout = 5 * time.Second
)

var (
	ErrGaveUp       = errors.New("websocket: max reconnection attempts reached")
	ErrNotConnected = errors.New("websocket: not connected")
)

type Listener func(models.Event)

// Subscriber keeps a WebSocket subscription to /ws open and fans incoming
// events out to per-type listeners. Ping frames are swallowed.
type Subscriber struct {
	url    string
	origin string

	ReconnectDelay time.Duration
	MaxReconnects  int

	sendMu sync.Mutex

	mu        sync.Mutex
	listeners map[models.EventType]map[uint64]Listener
	nextID    uint64
	conn      *websocket.Conn
	closed    bool
	done      chan struct{}
}

// NewSubscriber derives the WebSocket endpoint from the API base URL.
func NewSubscriber(baseURL string) (*Subscriber, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	origin := u.Scheme + "://" + u.Host
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
		origin = "http://" + u.Host
	default:
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = "/ws"
	u.RawQuery = ""

	return &Subscriber{
		url:            u.String(),
		origin:         origin,
		ReconnectDelay: DefaultReconnectDelay,
		MaxReconnects:  DefaultMaxReconnects,
		listeners:      make(map[models.EventType]map[uint64]Listener),
		done:           make(chan struct{}),
	}, nil
}

// Subscribe registers fn for events of type t and returns a function that
// removes it again.
func (s *Subscriber) Subscribe(t models.EventType, fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	if s.listeners[t] == nil {
		s.listeners[t] = make(map[uint64]Listener)
	}
	s.listeners[t][id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners[t], id)
	}
}

func (s *Subscriber) emit(ev models.Event) {
	s.mu.Lock()
	fns := make([]Listener, 0, len(s.listeners[ev.Type]))
	for _, fn := range s.listeners[ev.Type] {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		s.call(fn, ev)
	}
}

func (s *Subscriber) call(fn Listener, ev models.Event) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("type", ev.Type).Errorf("websocket listener panicked: %v", r)
		}
	}()
	fn(ev)
}

// Run connects and keeps reconnecting until ctx is done, Close is called or
// MaxReconnects consecutive attempts have failed. A successful connection
// resets the attempt counter.
func (s *Subscriber) Run(ctx context.Context) error {
	attempts := 0
	for {
		if s.stopped(ctx) {
			return nil
		}

		conn, err := s.dial(ctx)
		if err != nil {
			logrus.WithError(err).WithField("url", s.url).Warn("websocket connect failed")
		} else {
			attempts = 0
			s.serve(ctx, conn)
		}

		if s.stopped(ctx) {
			return nil
		}
		if attempts >= s.MaxReconnects {
			logrus.WithField("url", s.url).Error("max reconnection attempts reached")
			return ErrGaveUp
		}
		attempts++
		logrus.Infof("attempting to reconnect (%d/%d)", attempts, s.MaxReconnects)

		select {
		case <-ctx.Done():
			return nil
		case <-s.done:
			return nil
		case <-time.After(s.ReconnectDelay):
		}
	}
}

func (s *Subscriber) stopped(ctx context.Context) bool {
	if ctx.Err() != nil {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Subscriber) dial(ctx context.Context) (*websocket.Conn, error) {
	cfg, err := websocket.NewConfig(s.url, s.origin)
	if err != nil {
		return nil, err
	}
	return cfg.DialContext(ctx)
}

func (s *Subscriber) serve(ctx context.Context, conn *websocket.Conn) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = conn.Close()
		return
	}
	s.conn = conn
	s.mu.Unlock()

	stop := context.AfterFunc(ctx, func() { abort(conn) })
	defer stop()

	logrus.WithField("url", s.url).Info("websocket connected")
	s.emit(models.Event{Type: models.EventConnected})

	for {
		var msg string
		if err := websocket.Message.Receive(conn, &msg); err != nil {
			break
		}
		var ev models.Event
		if err := json.Unmarshal([]byte(msg), &ev); err != nil {
			logrus.WithError(err).Warn("error parsing websocket message")
			continue
		}
		if ev.Type == models.EventPing {
			continue
		}
		s.emit(ev)
	}

	s.mu.Lock()
	s.conn = nil
	s.mu.Unlock()
	_ = conn.Close()

	logrus.WithField("url", s.url).Info("websocket disconnected")
	s.emit(models.Event{Type: models.EventDisconnected})
}

// Send writes v as a JSON frame. The server answers any frame with a ping.
// A write that stalls longer than five seconds fails.
func (s *Subscriber) Send(v any) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(sendTimeout))
	return websocket.JSON.Send(conn, v)
}

func (s *Subscriber) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// Close drops the connection and prevents further reconnects.
func (s *Subscriber) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.done)
	conn := s.conn
	s.mu.Unlock()

	if conn != nil {
		abort(conn)
	}
}

// abort fails any in-flight write before closing conn, since Close waits for
// the connection's write lock.
func abort(conn *websocket.Conn) {
	_ = conn.SetWriteDeadline(time.Now())
	_ = conn.Close()
}
