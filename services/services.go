// Package services holds the restaurant operations behind the REST API:
// menu upkeep, the order lifecycle and settings.
package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ray-remotestate/swiftserve/models"
)

type MenuRepository interface {
	ListMenuItems(ctx context.Context) ([]models.MenuItem, error)
	GetMenuItem(ctx context.Context, id string) (models.MenuItem, error)
	CreateMenuItem(ctx context.Context, item models.MenuItem) error
	UpdateMenuItem(ctx context.Context, item models.MenuItem) error
	DeleteMenuItem(ctx context.Context, id string) error
	AdjustPrices(ctx context.Context, percentage float64) (int, error)
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, o models.Order, initial models.StatusChange) error
	ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, error)
	GetOrder(ctx context.Context, id string) (models.Order, error)
	UpdateOrderStatus(ctx context.Context, change models.StatusChange) error
	OrderHistory(ctx context.Context, id string) ([]models.StatusChange, error)
}

type SettingsRepository interface {
	GetSettings(ctx context.Context) (models.RestaurantSettings, error)
	SaveSettings(ctx context.Context, st models.RestaurantSettings) error
}

// Store is implemented by dbhelper.Store and memstore.Store.
type Store interface {
	MenuRepository
	OrderRepository
	SettingsRepository
}

// Publisher receives every event the services emit.
type Publisher interface {
	Publish(ev models.Event)
}

// Fanout publishes each event to all of its members in order.
type Fanout []Publisher

func (f Fanout) Publish(ev models.Event) {
	for _, p := range f {
		if p != nil {
			p.Publish(ev)
		}
	}
}

type noopPublisher struct{}

func (noopPublisher) Publish(models.Event) {}

type Service struct {
	store     Store
	events    Publisher
	now       func() time.Time
	newID     func() string
	maxTables int
}

type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDs replaces the uuid generator used for new ids.
func WithIDs(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

func WithMaxTables(n int) Option {
	return func(s *Service) { s.maxTables = n }
}

const DefaultMaxTables = 20

func New(store Store, events Publisher, opts ...Option) *Service {
	if events == nil {
		events = noopPublisher{}
	}
	s := &Service{
		store:     store,
		events:    events,
		now:       time.Now,
		newID:     uuid.NewString,
		maxTables: DefaultMaxTables,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) MaxTables() int {
	return s.maxTables
}
