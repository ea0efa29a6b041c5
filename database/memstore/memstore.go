// Package memstore keeps menu, orders and settings in process memory. It
// backs DB_DRIVER=memory and the service tests.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ray-remotestate/swiftserve/models"
)

type Store struct {
	mu       sync.RWMutex
	menu     map[string]models.MenuItem
	orders   map[string]models.Order
	history  map[string][]models.StatusChange
	settings *models.RestaurantSettings
}

func New() *Store {
	return &Store{
		menu:    make(map[string]models.MenuItem),
		orders:  make(map[string]models.Order),
		history: make(map[string][]models.StatusChange),
	}
}

func copyItem(item models.MenuItem) models.MenuItem {
	item.Tags = append([]string{}, item.Tags...)
	if item.NutritionInfo != nil {
		n := *item.NutritionInfo
		item.NutritionInfo = &n
	}
	return item
}

func copyOrder(o models.Order) models.Order {
	o.Items = append([]models.OrderItem(nil), o.Items...)
	return o
}

func (s *Store) ListMenuItems(_ context.Context) ([]models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.MenuItem, 0, len(s.menu))
	for _, item := range s.menu {
		items = append(items, copyItem(item))
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		return items[i].Name < items[j].Name
	})
	return items, nil
}

func (s *Store) GetMenuItem(_ context.Context, id string) (models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.menu[id]
	if !ok {
		return models.MenuItem{}, fmt.Errorf("menu item %s: %w", id, models.ErrNotFound)
	}
	return copyItem(item), nil
}

func (s *Store) CountMenuItems(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.menu), nil
}

func (s *Store) CreateMenuItem(_ context.Context, item models.MenuItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.menu[item.ID]; ok {
		return fmt.Errorf("menu item %s already exists", item.ID)
	}
	s.menu[item.ID] = copyItem(item)
	return nil
}

func (s *Store) SeedMenuItems(_ context.Context, items []models.MenuItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range items {
		if _, ok := s.menu[item.ID]; ok {
			return fmt.Errorf("menu item %s already exists", item.ID)
		}
	}
	for _, item := range items {
		s.menu[item.ID] = copyItem(item)
	}
	return nil
}

func (s *Store) UpdateMenuItem(_ context.Context, item models.MenuItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.menu[item.ID]; !ok {
		return fmt.Errorf("menu item %s: %w", item.ID, models.ErrNotFound)
	}
	s.menu[item.ID] = copyItem(item)
	return nil
}

func (s *Store) DeleteMenuItem(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.menu[id]; !ok {
		return fmt.Errorf("menu item %s: %w", id, models.ErrNotFound)
	}
	delete(s.menu, id)
	return nil
}

func (s *Store) AdjustPrices(_ context.Context, percentage float64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := 0
	for id, item := range s.menu {
		next := models.AdjustPrice(item.Price, percentage)
		if next == item.Price {
			continue
		}
		item.Price = next
		s.menu[id] = item
		updated++
	}
	return updated, nil
}

func (s *Store) CreateOrder(_ context.Context, o models.Order, initial models.StatusChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[o.ID]; ok {
		return fmt.Errorf("order %s already exists", o.ID)
	}
	s.orders[o.ID] = copyOrder(o)
	s.history[o.ID] = []models.StatusChange{initial}
	return nil
}

func (s *Store) ListOrders(_ context.Context, filter models.OrderFilter) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := []models.Order{}
	for _, o := range s.orders {
		if filter.Match(o) {
			orders = append(orders, copyOrder(o))
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].Timestamp.Equal(orders[j].Timestamp) {
			return orders[i].Timestamp.After(orders[j].Timestamp)
		}
		return orders[i].ID > orders[j].ID
	})
	return orders, nil
}

func (s *Store) GetOrder(_ context.Context, id string) (models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return models.Order{}, fmt.Errorf("order %s: %w", id, models.ErrNotFound)
	}
	return copyOrder(o), nil
}

func (s *Store) UpdateOrderStatus(_ context.Context, change models.StatusChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[change.OrderID]
	if !ok {
		return fmt.Errorf("order %s: %w", change.OrderID, models.ErrNotFound)
	}
	if o.Status != change.From {
		return fmt.Errorf("%w: order %s is %q, not %q", models.ErrInvalidTransition, change.OrderID, o.Status, change.From)
	}
	o.Status = change.To
	o.UpdatedAt = change.ChangedAt
	s.orders[o.ID] = o
	s.history[o.ID] = append(s.history[o.ID], change)
	return nil
}

func (s *Store) OrderHistory(_ context.Context, id string) ([]models.StatusChange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.StatusChange{}, s.history[id]...), nil
}

func (s *Store) GetSettings(_ context.Context) (models.RestaurantSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.settings == nil {
		return models.DefaultSettings(), nil
	}
	return *s.settings, nil
}

func (s *Store) SaveSettings(_ context.Context, st models.RestaurantSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = &st
	return nil
}
