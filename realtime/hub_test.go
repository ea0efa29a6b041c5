package realtime

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/ray-remotestate/swiftserve/config"
	"github.com/ray-remotestate/swiftserve/models"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub()
	srv := httptest.NewServer(hub.Handler())
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, srv
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, err := websocket.Dial(wsURL, "", srv.URL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) models.Event {
	t.Helper()
	_ = conn.SetDeadline(time.Now().Add(2 * time.Second))
	var ev models.Event
	require.NoError(t, websocket.JSON.Receive(conn, &ev))
	return ev
}

func TestHubRepliesPingToClientFrames(t *testing.T) {
	_, srv := startHub(t)
	conn := dialWS(t, srv)

	require.NoError(t, websocket.Message.Send(conn, "hello"))
	assert.Equal(t, models.EventPing, readEvent(t, conn).Type)
}

func TestHubBroadcastsToEveryPeer(t *testing.T) {
	hub, srv := startHub(t)
	a := dialWS(t, srv)
	b := dialWS(t, srv)
	require.Eventually(t, func() bool { return hub.Count() == 2 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish(models.OrderUpdatedEvent("order-1", models.OrderStatusReady))

	for _, conn := range []*websocket.Conn{a, b} {
		ev := readEvent(t, conn)
		assert.Equal(t, models.EventOrderUpdated, ev.Type)
		assert.Equal(t, "order-1", ev.OrderID)
		assert.Equal(t, models.OrderStatusReady, ev.Status)
	}

	stats := hub.Stats()
	assert.Equal(t, 2, stats.Connected)
	assert.Equal(t, int64(2), stats.Accepted)
	assert.Equal(t, int64(2), stats.Delivered)
}

func TestHubForgetsClosedPeers(t *testing.T) {
	hub, srv := startHub(t)
	conn := dialWS(t, srv)
	require.Eventually(t, func() bool { return hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Count() == 0 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish(models.MenuUpdatedEvent())
	assert.Zero(t, hub.Stats().Delivered)
}

func TestHubDropsStalledPeer(t *testing.T) {
	hub, srv := startHub(t)
	hub.SetWriteTimeout(200 * time.Millisecond)

	healthy := dialWS(t, srv)
	received := make(chan struct{}, 1)
	go func() {
		for {
			var msg string
			if err := websocket.Message.Receive(healthy, &msg); err != nil {
				return
			}
			select {
			case received <- struct{}{}:
			default:
			}
		}
	}()
	// never reads, so its socket buffers fill up
	_ = dialWS(t, srv)
	require.Eventually(t, func() bool { return hub.Count() == 2 }, 2*time.Second, 10*time.Millisecond)

	big := models.NewOrderEvent(models.Order{ID: "order-big", CustomerInstructions: strings.Repeat("x", 1<<20)})
	for i := 0; i < 200 && hub.Stats().Dropped == 0; i++ {
		hub.Publish(big)
	}

	stats := hub.Stats()
	assert.Equal(t, int64(1), stats.Dropped)
	assert.Equal(t, 1, stats.Connected)

	select {
	case <-received:
	case <-time.After(2 * time.Second):
		t.Fatal("healthy peer received nothing")
	}
	hub.Publish(models.MenuUpdatedEvent())
	assert.Equal(t, 1, hub.Count())
}

type captured struct {
	mu     sync.Mutex
	events []models.Event
}

func (c *captured) Publish(ev models.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func (c *captured) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func TestRelayHandleSkipsOwnEvents(t *testing.T) {
	local := &captured{}
	r := NewRelay(config.RedisConfig{Addr: "localhost:0", Channel: "test"}, local)
	t.Cleanup(func() { _ = r.Close() })

	own, err := r.encode(models.MenuUpdatedEvent())
	require.NoError(t, err)
	require.NoError(t, r.handle(string(own)))
	assert.Zero(t, local.len())

	other := `{"origin":"another-instance","event":{"type":"order_updated","orderId":"order-7","status":"preparing"}}`
	require.NoError(t, r.handle(other))
	require.Equal(t, 1, local.len())
	assert.Equal(t, models.OrderUpdatedEvent("order-7", models.OrderStatusPreparing), local.events[0])

	assert.Error(t, r.handle("not json"))
}

// TestRelayIntegration requires a running Redis.
func TestRelayIntegration(t *testing.T) {
	cfg := config.RedisConfig{Addr: "localhost:6379", Channel: "swiftserve:test:" + t.Name()}
	receiving := &captured{}
	receiver := NewRelay(cfg, receiving)
	t.Cleanup(func() { _ = receiver.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := receiver.Ping(ctx); err != nil {
		t.Skip("Skipping Redis integration test: redis not available")
	}

	go func() { _ = receiver.Run(ctx) }()

	sending := &captured{}
	sender := NewRelay(cfg, sending)
	t.Cleanup(func() { _ = sender.Close() })

	// the subscription may not be live yet, so keep publishing until it lands
	require.Eventually(t, func() bool {
		sender.Publish(models.MenuUpdatedEvent())
		return receiving.len() > 0
	}, 4*time.Second, 100*time.Millisecond)
	assert.Equal(t, models.EventMenuUpdated, receiving.events[0].Type)
	assert.NotZero(t, sending.len(), "sender broadcasts locally too")
}
