package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ray-remotestate/swiftserve/models"
)

func TestMenuItemsAreCopied(t *testing.T) {
	s := New()
	ctx := context.Background()

	item := models.MenuItem{ID: "item1", Name: "Butter Chicken", Category: "Main Course", Price: 320, Tags: []string{"Popular"}}
	require.NoError(t, s.CreateMenuItem(ctx, item))
	assert.Error(t, s.CreateMenuItem(ctx, item))

	got, err := s.GetMenuItem(ctx, "item1")
	require.NoError(t, err)
	got.Tags[0] = "changed"

	again, err := s.GetMenuItem(ctx, "item1")
	require.NoError(t, err)
	assert.Equal(t, "Popular", again.Tags[0])
}

func TestListMenuItemsOrder(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.SeedMenuItems(ctx, []models.MenuItem{
		{ID: "b", Name: "Naan", Category: "Breads"},
		{ID: "a", Name: "Tikka", Category: "Appetizers"},
		{ID: "c", Name: "Garlic Naan", Category: "Breads"},
	}))

	items, err := s.ListMenuItems(ctx)
	require.NoError(t, err)
	var names []string
	for _, item := range items {
		names = append(names, item.Name)
	}
	assert.Equal(t, []string{"Tikka", "Garlic Naan", "Naan"}, names)
}

func TestAdjustPricesFloorsAtOne(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.SeedMenuItems(ctx, []models.MenuItem{{ID: "a", Price: 100}, {ID: "b", Price: 3}}))

	n, err := s.AdjustPrices(ctx, -90)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	a, _ := s.GetMenuItem(ctx, "a")
	b, _ := s.GetMenuItem(ctx, "b")
	assert.Equal(t, int64(10), a.Price)
	assert.Equal(t, int64(1), b.Price)
}

func TestUpdateOrderStatusCompareAndSet(t *testing.T) {
	s := New()
	ctx := context.Background()
	at := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

	o := models.Order{ID: "order-1", TableNumber: 3, Status: models.OrderStatusNew, Timestamp: at, UpdatedAt: at}
	require.NoError(t, s.CreateOrder(ctx, o, models.StatusChange{OrderID: o.ID, To: models.OrderStatusNew, ChangedAt: at}))

	change := models.StatusChange{OrderID: "order-1", From: models.OrderStatusNew, To: models.OrderStatusPreparing, ChangedAt: at.Add(time.Minute)}
	require.NoError(t, s.UpdateOrderStatus(ctx, change))
	assert.ErrorIs(t, s.UpdateOrderStatus(ctx, change), models.ErrInvalidTransition)

	change.OrderID = "missing"
	assert.ErrorIs(t, s.UpdateOrderStatus(ctx, change), models.ErrNotFound)

	history, err := s.OrderHistory(ctx, "order-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.OrderStatusPreparing, history[1].To)

	got, err := s.GetOrder(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, at.Add(time.Minute), got.UpdatedAt)
}

func TestListOrdersFilters(t *testing.T) {
	s := New()
	ctx := context.Background()
	base := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

	for i, st := range []models.OrderStatus{models.OrderStatusNew, models.OrderStatusCompleted, models.OrderStatusReady} {
		o := models.Order{ID: string(rune('a' + i)), TableNumber: i + 1, Status: st, Timestamp: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, s.CreateOrder(ctx, o, models.StatusChange{OrderID: o.ID, To: st}))
	}

	all, err := s.ListOrders(ctx, models.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID)

	active, err := s.ListOrders(ctx, models.OrderFilter{Active: true})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	table2, err := s.ListOrders(ctx, models.OrderFilter{Table: 2})
	require.NoError(t, err)
	require.Len(t, table2, 1)
	assert.Equal(t, models.OrderStatusCompleted, table2[0].Status)
}

func TestSettingsDefaults(t *testing.T) {
	s := New()
	ctx := context.Background()

	st, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), st)

	st.GSTPercentage = 18
	require.NoError(t, s.SaveSettings(ctx, st))
	got, _ := s.GetSettings(ctx)
	assert.Equal(t, 18.0, got.GSTPercentage)
}
