package client

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/swiftserve/models"
)

const DefaultPollInterval = 5 * time.Second

// OrderBook mirrors the restaurant's orders and the orders placed from this
// client. Polling and pushed events write into the same state; the last
// write wins.
type OrderBook struct {
	api          *Client
	PollInterval time.Duration

	mu         sync.RWMutex
	orders     []models.Order
	userOrders []models.Order
	lastErr    error
	onChange   func()
	now        func() time.Time
}

func NewOrderBook(api *Client) *OrderBook {
	return &OrderBook{api: api, PollInterval: DefaultPollInterval, now: time.Now}
}

// OnChange registers fn to run after every state change.
func (b *OrderBook) OnChange(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onChange = fn
}

func (b *OrderBook) changed() {
	b.mu.RLock()
	fn := b.onChange
	b.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// Load replaces the restaurant orders from the API. On failure the previous
// orders are kept and the error is recorded.
func (b *OrderBook) Load(ctx context.Context) error {
	orders, err := b.api.Orders(ctx, models.OrderFilter{})
	b.mu.Lock()
	b.lastErr = err
	if err == nil {
		b.orders = orders
	}
	b.mu.Unlock()
	if err != nil {
		return err
	}
	b.changed()
	return nil
}

func (b *OrderBook) Err() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastErr
}

func (b *OrderBook) Create(ctx context.Context, in models.CreateOrderInput) (models.Order, error) {
	order, err := b.api.CreateOrder(ctx, in)
	if err != nil {
		return models.Order{}, err
	}
	order.Status = models.OrderStatusNew
	b.mu.Lock()
	b.userOrders = prepend(b.userOrders, order)
	b.mu.Unlock()
	b.changed()
	return order, nil
}

// UpdateStatus applies the change locally once the API accepts it. When the
// API rejects it the orders are reloaded and the API error is returned.
func (b *OrderBook) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	if _, err := b.api.UpdateOrderStatus(ctx, id, status); err != nil {
		if loadErr := b.Load(ctx); loadErr != nil {
			logrus.WithError(loadErr).Warn("failed to reload orders")
		}
		return err
	}
	b.setStatus(id, status)
	return nil
}

func (b *OrderBook) setStatus(id string, status models.OrderStatus) {
	now := b.now().UTC()
	b.mu.Lock()
	for _, list := range [][]models.Order{b.orders, b.userOrders} {
		for i := range list {
			if list[i].ID == id {
				list[i].Status = status
				list[i].UpdatedAt = now
			}
		}
	}
	b.mu.Unlock()
	b.changed()
}

// Get looks locally first and falls back to the API, remembering the result
// as one of this client's orders.
func (b *OrderBook) Get(ctx context.Context, id string) (models.Order, error) {
	b.mu.RLock()
	for _, list := range [][]models.Order{b.orders, b.userOrders} {
		if i := indexOf(list, id); i >= 0 {
			o := list[i]
			b.mu.RUnlock()
			return o, nil
		}
	}
	b.mu.RUnlock()

	order, err := b.api.Order(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	b.mu.Lock()
	added := indexOf(b.userOrders, id) < 0
	if added {
		b.userOrders = prepend(b.userOrders, order)
	}
	b.mu.Unlock()
	if added {
		b.changed()
	}
	return order, nil
}

func (b *OrderBook) Orders() []models.Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]models.Order(nil), b.orders...)
}

func (b *OrderBook) UserOrders() []models.Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]models.Order(nil), b.userOrders...)
}

func (b *OrderBook) ByStatus(status models.OrderStatus) []models.Order {
	return b.filter(func(o models.Order) bool { return o.Status == status })
}

func (b *OrderBook) Active() []models.Order {
	return b.filter(func(o models.Order) bool { return o.Status.IsActive() })
}

func (b *OrderBook) filter(keep func(models.Order) bool) []models.Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := []models.Order{}
	for _, o := range b.orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}

// HandleEvent applies a pushed new_order or order_updated event.
func (b *OrderBook) HandleEvent(ev models.Event) {
	switch ev.Type {
	case models.EventNewOrder:
		if ev.Order == nil {
			return
		}
		b.mu.Lock()
		if indexOf(b.orders, ev.Order.ID) >= 0 {
			b.mu.Unlock()
			return
		}
		b.orders = prepend(b.orders, *ev.Order)
		b.mu.Unlock()
		b.changed()
	case models.EventOrderUpdated:
		if ev.OrderID != "" && ev.Status.IsValid() {
			b.setStatus(ev.OrderID, ev.Status)
		}
	}
}

// Attach feeds the subscriber's order events into the book and returns a
// function that detaches it.
func (b *OrderBook) Attach(sub *Subscriber) func() {
	offNew := sub.Subscribe(models.EventNewOrder, b.HandleEvent)
	offUpdated := sub.Subscribe(models.EventOrderUpdated, b.HandleEvent)
	return func() {
		offNew()
		offUpdated()
	}
}

// Run loads immediately and then every PollInterval until ctx is done.
func (b *OrderBook) Run(ctx context.Context) {
	ticker := time.NewTicker(b.PollInterval)
	defer ticker.Stop()
	for {
		if err := b.Load(ctx); err != nil && ctx.Err() == nil {
			logrus.WithError(err).Warn("failed to poll orders")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func prepend(list []models.Order, o models.Order) []models.Order {
	out := make([]models.Order, 0, len(list)+1)
	out = append(out, o)
	return append(out, list...)
}

func indexOf(list []models.Order, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}
