package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ray-remotestate/swiftserve/models"
)

func TestParseRange(t *testing.T) {
	r, err := ParseRange("")
	require.NoError(t, err)
	assert.Equal(t, RangeWeek, r)

	r, err = ParseRange("month")
	require.NoError(t, err)
	assert.Equal(t, RangeMonth, r)

	_, err = ParseRange("year")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestSince(t *testing.T) {
	now := time.Date(2026, 10, 17, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC), RangeToday.Since(now))
	assert.Equal(t, time.Date(2026, 10, 11, 0, 0, 0, 0, time.UTC), RangeWeek.Since(now))
	assert.Equal(t, time.Date(2026, 9, 18, 0, 0, 0, 0, time.UTC), RangeMonth.Since(now))
	assert.True(t, RangeAll.Since(now).IsZero())
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 10, 17, 21, 0, 0, 0, time.UTC)
	orders := []models.Order{
		{
			Status: models.OrderStatusCompleted, Total: 700, Timestamp: time.Date(2026, 10, 17, 13, 10, 0, 0, time.UTC),
			Items: []models.OrderItem{
				{Name: "Butter Chicken", Price: 320, Quantity: 2, Category: "Main Course"},
				{Name: "Masala Chai", Price: 60, Quantity: 1, Category: "Beverages"},
			},
		},
		{
			Status: models.OrderStatusCompleted, Total: 301, Timestamp: time.Date(2026, 10, 16, 13, 45, 0, 0, time.UTC),
			Items: []models.OrderItem{
				{Name: "Masala Chai", Price: 60, Quantity: 3},
				{Name: "Gulab Jamun", Price: 120, Quantity: 1, Category: "Desserts"},
			},
		},
		{
			Status: models.OrderStatusNew, Total: 80, Timestamp: time.Date(2026, 10, 17, 19, 0, 0, 0, time.UTC),
			Items: []models.OrderItem{{Name: "Garlic Naan", Price: 80, Quantity: 1, Category: "Breads"}},
		},
		{
			Status: models.OrderStatusCompleted, Total: 5000, Timestamp: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
			Items: []models.OrderItem{{Name: "Old", Price: 5000, Quantity: 1}},
		},
	}

	s := Summarize(orders, RangeWeek, now)
	assert.Equal(t, RangeWeek, s.Range)
	assert.Equal(t, int64(1081), s.TotalRevenue)
	assert.Equal(t, 3, s.TotalOrders)
	assert.Equal(t, 2, s.CompletedOrders)
	assert.Equal(t, int64(541), s.AvgOrderValue, "1081/2 rounds half away from zero")
	assert.Equal(t, []DayRevenue{{Day: "2026-10-16", Revenue: 301}, {Day: "2026-10-17", Revenue: 780}}, s.RevenueByDay)
	assert.Equal(t, []ItemSales{
		{Name: "Masala Chai", Count: 4, Revenue: 240},
		{Name: "Butter Chicken", Count: 2, Revenue: 640},
		{Name: "Garlic Naan", Count: 1, Revenue: 80},
		{Name: "Gulab Jamun", Count: 1, Revenue: 120},
	}, s.PopularItems)
	assert.Equal(t, []CategoryRevenue{
		{Name: "Main Course", Value: 640},
		{Name: "Other", Value: 180},
		{Name: "Desserts", Value: 120},
		{Name: "Breads", Value: 80},
		{Name: "Beverages", Value: 60},
	}, s.CategoryRevenue)
	assert.Equal(t, 13, s.PeakHour)
	assert.Equal(t, map[models.OrderStatus]int{models.OrderStatusCompleted: 2, models.OrderStatusNew: 1}, s.StatusCounts)

	today := Summarize(orders, RangeToday, now)
	assert.Equal(t, 2, today.TotalOrders)

	all := Summarize(orders, RangeAll, now)
	assert.Equal(t, 4, all.TotalOrders)
	assert.Equal(t, 13, all.PeakHour)
}

func TestPeakHourTiesResolveToEarliest(t *testing.T) {
	now := time.Date(2026, 10, 17, 23, 0, 0, 0, time.UTC)
	orders := []models.Order{
		{Timestamp: time.Date(2026, 10, 17, 20, 0, 0, 0, time.UTC)},
		{Timestamp: time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)},
	}
	assert.Equal(t, 9, Summarize(orders, RangeToday, now).PeakHour)
}

func TestSummarizeKeepsLastSevenDaysAndTopFive(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	var orders []models.Order
	for d := 0; d < 10; d++ {
		orders = append(orders, models.Order{
			Status:    models.OrderStatusCompleted,
			Total:     int64(100 + d),
			Timestamp: now.AddDate(0, 0, -d),
			Items:     []models.OrderItem{{Name: string(rune('A' + d)), Price: 10, Quantity: 10 - d}},
		})
	}

	s := Summarize(orders, RangeAll, now)
	require.Len(t, s.RevenueByDay, 7)
	assert.Equal(t, "2026-10-11", s.RevenueByDay[0].Day)
	assert.Equal(t, "2026-10-17", s.RevenueByDay[6].Day)

	require.Len(t, s.PopularItems, 5)
	assert.Equal(t, "A", s.PopularItems[0].Name)
	assert.Equal(t, "E", s.PopularItems[4].Name)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, RangeToday, time.Now())
	assert.Zero(t, s.TotalOrders)
	assert.Zero(t, s.AvgOrderValue)
	assert.Zero(t, s.PeakHour)
	assert.Empty(t, s.RevenueByDay)
	assert.NotNil(t, s.PopularItems)
}
