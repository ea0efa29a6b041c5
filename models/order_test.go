package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderStatusNew, OrderStatusPreparing, true},
		{OrderStatusNew, OrderStatusCancelled, true},
		{OrderStatusNew, OrderStatusReady, false},
		{OrderStatusNew, OrderStatusCompleted, false},
		{OrderStatusNew, OrderStatusNew, false},
		{OrderStatusPreparing, OrderStatusReady, true},
		{OrderStatusPreparing, OrderStatusCancelled, true},
		{OrderStatusPreparing, OrderStatusNew, false},
		{OrderStatusPreparing, OrderStatusCompleted, false},
		{OrderStatusReady, OrderStatusCompleted, true},
		{OrderStatusReady, OrderStatusCancelled, true},
		{OrderStatusReady, OrderStatusPreparing, false},
		{OrderStatusCompleted, OrderStatusNew, false},
		{OrderStatusCompleted, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusNew, false},
		{"", OrderStatusNew, false},
		{OrderStatusNew, "", false},
	}
	for _, tt := range tests {
		got := CanTransition(tt.from, tt.to)
		if got != tt.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestCheckTransition(t *testing.T) {
	require.NoError(t, CheckTransition(OrderStatusNew, OrderStatusPreparing))

	err := CheckTransition(OrderStatusCompleted, OrderStatusNew)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Contains(t, err.Error(), `"completed"`)

	err = CheckTransition(OrderStatusNew, "served")
	assert.ErrorIs(t, err, ErrValidation)
	assert.False(t, errors.Is(err, ErrInvalidTransition))
}

func TestOrderStatusHelpers(t *testing.T) {
	assert.True(t, OrderStatusReady.IsActive())
	assert.False(t, OrderStatusCompleted.IsActive())
	assert.False(t, OrderStatusCancelled.IsActive())
	assert.Equal(t, "New Order", OrderStatusNew.Label())
	assert.Equal(t, "served", OrderStatus("served").Label())
}

func TestComputeTotals(t *testing.T) {
	items := []OrderItem{
		{ID: "item1", Price: 320, Quantity: 2},
		{ID: "item5", Price: 60, Quantity: 1},
	}

	got := ComputeTotals(items, 5, 0)
	assert.Equal(t, Totals{Subtotal: 700, GST: 35, ServiceCharge: 0, Total: 735}, got)

	got = ComputeTotals([]OrderItem{{Price: 250, Quantity: 1}}, 5, 10)
	assert.Equal(t, int64(250), got.Subtotal)
	assert.Equal(t, int64(13), got.GST, "12.5 rounds half away from zero")
	assert.Equal(t, int64(25), got.ServiceCharge)
	assert.Equal(t, int64(288), got.Total)

	assert.Equal(t, Totals{}, ComputeTotals(nil, 5, 0))
}

func TestCreateOrderInputValidate(t *testing.T) {
	in := CreateOrderInput{
		Items:         []OrderItem{{ID: "item1", Quantity: 1}},
		TableNumber:   4,
		CustomerName:  "  Asha ",
		PaymentMethod: "UPI",
	}
	require.NoError(t, in.Validate(20))
	assert.Equal(t, "Asha", in.CustomerName)
	assert.Equal(t, PaymentUPI, in.PaymentMethod)

	bad := CreateOrderInput{
		Items:         []OrderItem{{ID: "", Quantity: 0}},
		TableNumber:   21,
		PaymentMethod: "bitcoin",
	}
	err := bad.Validate(20)
	require.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields(), 5)
	assert.Contains(t, err.Error(), "tableNumber must be between 1 and 20")
}

func TestCreateOrderInputQuantityBounds(t *testing.T) {
	in := CreateOrderInput{
		Items:         []OrderItem{{ID: "item1", Quantity: MaxQuantity}},
		TableNumber:   1,
		CustomerName:  "Asha",
		PaymentMethod: PaymentCash,
	}
	require.NoError(t, in.Validate(20))

	in.Items = []OrderItem{{ID: "item1", Quantity: MaxQuantity + 1}, {ID: "item5", Quantity: 1 << 60}}
	err := in.Validate(20)
	require.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{
		"items[0].quantity must be at most 100",
		"items[1].quantity must be at most 100",
	}, verr.Fields())
}

func TestComputeTotalsAtLimits(t *testing.T) {
	got := ComputeTotals([]OrderItem{{Price: MaxPrice, Quantity: MaxQuantity}}, 5, 10)
	assert.Equal(t, int64(1_000_000_000), got.Subtotal)
	assert.Equal(t, int64(50_000_000), got.GST)
	assert.Equal(t, int64(100_000_000), got.ServiceCharge)
	assert.Equal(t, got.Subtotal+got.GST+got.ServiceCharge, got.Total)
}

func TestOrderFilterMatch(t *testing.T) {
	o := Order{Status: OrderStatusReady, TableNumber: 3}

	assert.True(t, OrderFilter{}.Match(o))
	assert.True(t, OrderFilter{Status: OrderStatusReady, Table: 3, Active: true}.Match(o))
	assert.False(t, OrderFilter{Status: OrderStatusNew}.Match(o))
	assert.False(t, OrderFilter{Table: 4}.Match(o))

	o.Status = OrderStatusCompleted
	assert.False(t, OrderFilter{Active: true}.Match(o))
}

func TestOrderDerivedValues(t *testing.T) {
	o := Order{Items: []OrderItem{
		{Quantity: 2, PreparationTime: 20},
		{Quantity: 1, PreparationTime: 30},
	}}
	assert.Equal(t, 30, o.PreparationMinutes())
	assert.Equal(t, 3, o.ItemCount())
}
