package client

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/swiftserve/models"
)

const reloadTimeout = 10 * time.Second

// MenuPatch holds the fields to change; nil fields keep their current value.
type MenuPatch struct {
	Name            *string
	Description     *string
	Price           *int64
	Category        *string
	Available       *bool
	PreparationTime *int
	Tags            []string
	NutritionInfo   *models.NutritionInfo
	AIRecommended   *bool
	Image           *string
}

func (p MenuPatch) apply(in *models.MenuItemInput) {
	if p.Name != nil {
		in.Name = *p.Name
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	if p.Price != nil {
		in.Price = *p.Price
	}
	if p.Category != nil {
		in.Category = *p.Category
	}
	if p.Available != nil {
		in.Available = p.Available
	}
	if p.PreparationTime != nil {
		in.PreparationTime = p.PreparationTime
	}
	if p.Tags != nil {
		in.Tags = p.Tags
	}
	if p.NutritionInfo != nil {
		in.NutritionInfo = p.NutritionInfo
	}
	if p.AIRecommended != nil {
		in.AIRecommended = *p.AIRecommended
	}
	if p.Image != nil {
		in.Image = *p.Image
	}
}

// MenuBook mirrors the menu and the category list a dashboard edits.
type MenuBook struct {
	api *Client

	mu         sync.RWMutex
	items      []models.MenuItem
	categories []string
	// categories added locally that no item uses yet
	custom  []string
	lastErr error
}

func NewMenuBook(api *Client) *MenuBook {
	return &MenuBook{
		api:        api,
		categories: append([]string(nil), models.DefaultCategories...),
	}
}

func (m *MenuBook) Load(ctx context.Context) error {
	items, err := m.api.Menu(ctx)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastErr = err
	if err != nil {
		return err
	}
	m.items = items
	m.categories = models.Categories(items)
	for _, c := range m.custom {
		if !contains(m.categories, c) {
			m.categories = append(m.categories, c)
		}
	}
	return nil
}

func (m *MenuBook) Err() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}

func (m *MenuBook) Items() []models.MenuItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.MenuItem(nil), m.items...)
}

func (m *MenuBook) Available() []models.MenuItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.MenuItem{}
	for _, item := range m.items {
		if item.Available {
			out = append(out, item)
		}
	}
	return out
}

func (m *MenuBook) Categories() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.categories...)
}

func (m *MenuBook) find(id string) (models.MenuItem, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, item := range m.items {
		if item.ID == id {
			return item, true
		}
	}
	return models.MenuItem{}, false
}

func (m *MenuBook) replace(item models.MenuItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == item.ID {
			m.items[i] = item
			return
		}
	}
}

func (m *MenuBook) reload(ctx context.Context) {
	if err := m.Load(ctx); err != nil {
		logrus.WithError(err).Warn("failed to reload menu")
	}
}

func (m *MenuBook) Add(ctx context.Context, in models.MenuItemInput) (models.MenuItem, error) {
	item, err := m.api.CreateMenuItem(ctx, in)
	if err != nil {
		return models.MenuItem{}, err
	}
	m.reload(ctx)
	return item, nil
}

// Update merges patch into the current item and sends the full replacement.
func (m *MenuBook) Update(ctx context.Context, id string, patch MenuPatch) (models.MenuItem, error) {
	current, ok := m.find(id)
	if !ok {
		fetched, err := m.api.Menu(ctx)
		if err != nil {
			return models.MenuItem{}, err
		}
		for _, item := range fetched {
			if item.ID == id {
				current, ok = item, true
			}
		}
		if !ok {
			return models.MenuItem{}, &APIError{Status: 404, Detail: "menu item " + id + ": not found"}
		}
	}

	in := current.Input()
	patch.apply(&in)
	updated, err := m.api.UpdateMenuItem(ctx, id, in)
	if err != nil {
		m.reload(ctx)
		return models.MenuItem{}, err
	}
	m.replace(updated)
	return updated, nil
}

// Delete removes the item locally once the API accepts it. On failure the
// menu is reloaded and the API error is returned.
func (m *MenuBook) Delete(ctx context.Context, id string) error {
	if err := m.api.DeleteMenuItem(ctx, id); err != nil {
		m.reload(ctx)
		return err
	}
	m.mu.Lock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i:i], m.items[i+1:]...)
			break
		}
	}
	m.mu.Unlock()
	return nil
}

func (m *MenuBook) ToggleAvailability(ctx context.Context, id string) (models.MenuItem, error) {
	item, err := m.api.ToggleAvailability(ctx, id)
	if err != nil {
		return models.MenuItem{}, err
	}
	m.replace(item)
	return item, nil
}

func (m *MenuBook) BulkUpdatePrices(ctx context.Context, percentage float64) (int, error) {
	updated, err := m.api.BulkUpdatePrices(ctx, percentage)
	if err != nil {
		return 0, err
	}
	m.reload(ctx)
	return updated, nil
}

// AddCategory adds a category locally; it reaches the server with the first
// item that uses it.
func (m *MenuBook) AddCategory(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if name == "" || contains(m.categories, name) {
		return false
	}
	m.categories = append(m.categories, name)
	m.custom = append(m.custom, name)
	return true
}

func (m *MenuBook) DeleteCategory(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories = remove(m.categories, name)
	m.custom = remove(m.custom, name)
}

// Attach reloads the menu whenever the server announces a change.
func (m *MenuBook) Attach(sub *Subscriber) func() {
	return sub.Subscribe(models.EventMenuUpdated, func(models.Event) {
		ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
		defer cancel()
		m.reload(ctx)
	})
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func remove(list []string, s string) []string {
	out := list[:0:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
