package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusNew       OrderStatus = "new"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var orderStatusLabels = map[OrderStatus]string{
	OrderStatusNew:       "New Order",
	OrderStatusPreparing: "Preparing",
	OrderStatusReady:     "Ready",
	OrderStatusCompleted: "Completed",
	OrderStatusCancelled: "Cancelled",
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusNew:       {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:     {OrderStatusCompleted, OrderStatusCancelled},
}

func (s OrderStatus) IsValid() bool {
	_, ok := orderStatusLabels[s]
	return ok
}

// IsActive reports whether the order still belongs on the kitchen board.
func (s OrderStatus) IsActive() bool {
	return s == OrderStatusNew || s == OrderStatusPreparing || s == OrderStatusReady
}

func (s OrderStatus) Label() string {
	if label, ok := orderStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// CanTransition reports whether an order in status from may move to status to.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckTransition wraps ErrInvalidTransition with the offending pair.
func CheckTransition(from, to OrderStatus) error {
	if !to.IsValid() {
		return Invalid("unknown status %q", to)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w from %q to %q", ErrInvalidTransition, from, to)
	}
	return nil
}

type PaymentMethod string

const (
	PaymentUPI  PaymentMethod = "upi"
	PaymentCard PaymentMethod = "card"
	PaymentCash PaymentMethod = "cash"
)

func (p PaymentMethod) IsValid() bool {
	return p == PaymentUPI || p == PaymentCard || p == PaymentCash
}

// MaxQuantity caps a single order line.
const MaxQuantity = 100

type OrderItem struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Price              int64  `json:"price"`
	Quantity           int    `json:"quantity"`
	Category           string `json:"category,omitempty"`
	Customization      string `json:"customization,omitempty"`
	KitchenInstruction string `json:"kitchenInstruction,omitempty"`
	PreparationTime    int    `json:"preparationTime"`
}

func (i OrderItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}

type Order struct {
	ID                   string        `db:"id" json:"id"`
	CustomerName         string        `db:"customer_name" json:"customerName"`
	TableNumber          int           `db:"table_number" json:"tableNumber"`
	Items                []OrderItem   `db:"items" json:"items"`
	Status               OrderStatus   `db:"status" json:"status"`
	Subtotal             int64         `db:"subtotal" json:"subtotal"`
	GST                  int64         `db:"gst" json:"gst"`
	ServiceCharge        int64         `db:"service_charge" json:"serviceCharge"`
	Total                int64         `db:"total" json:"total"`
	PaymentMethod        PaymentMethod `db:"payment_method" json:"paymentMethod"`
	CustomerInstructions string        `db:"customer_instructions" json:"customerInstructions,omitempty"`
	Timestamp            time.Time     `db:"timestamp" json:"timestamp"`
	UpdatedAt            time.Time     `db:"updated_at" json:"updatedAt"`
}

// PreparationMinutes is the longest preparation time among the items.
func (o Order) PreparationMinutes() int {
	longest := 0
	for _, item := range o.Items {
		if item.PreparationTime > longest {
			longest = item.PreparationTime
		}
	}
	return longest
}

// ItemCount is the total quantity across lines.
func (o Order) ItemCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// CreateOrderInput is what a customer submits at checkout. Totals sent by the
// client are accepted for compatibility and ignored.
type CreateOrderInput struct {
	Items                []OrderItem   `json:"items"`
	TableNumber          int           `json:"tableNumber"`
	CustomerName         string        `json:"customerName"`
	PaymentMethod        PaymentMethod `json:"paymentMethod"`
	CustomerInstructions string        `json:"customerInstructions,omitempty"`
	Subtotal             float64       `json:"subtotal,omitempty"`
	GST                  float64       `json:"gst,omitempty"`
	Total                float64       `json:"total,omitempty"`
}

func (in *CreateOrderInput) Validate(maxTables int) error {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerInstructions = strings.TrimSpace(in.CustomerInstructions)
	in.PaymentMethod = PaymentMethod(strings.ToLower(string(in.PaymentMethod)))

	var v ValidationError
	if in.CustomerName == "" {
		v.Add("customerName is required")
	}
	if in.TableNumber < 1 || in.TableNumber > maxTables {
		v.Add("tableNumber must be between 1 and %d", maxTables)
	}
	if !in.PaymentMethod.IsValid() {
		v.Add("paymentMethod must be one of upi, card, cash")
	}
	if len(in.Items) == 0 {
		v.Add("at least one item is required")
	}
	for i, item := range in.Items {
		if strings.TrimSpace(item.ID) == "" {
			v.Add("items[%d].id is required", i)
		}
		switch {
		case item.Quantity < 1:
			v.Add("items[%d].quantity must be at least 1", i)
		case item.Quantity > MaxQuantity:
			v.Add("items[%d].quantity must be at most %d", i, MaxQuantity)
		}
	}
	return v.Err()
}

// StatusChange is one entry of an order's status history.
type StatusChange struct {
	OrderID   string      `db:"order_id" json:"orderId"`
	From      OrderStatus `db:"from_status" json:"from"`
	To        OrderStatus `db:"to_status" json:"to"`
	ChangedAt time.Time   `db:"changed_at" json:"changedAt"`
}

// OrderFilter narrows ListOrders. Zero values mean no filter.
type OrderFilter struct {
	Status OrderStatus
	Table  int
	Active bool
}

func (f OrderFilter) Match(o Order) bool {
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if f.Table != 0 && o.TableNumber != f.Table {
		return false
	}
	if f.Active && !o.Status.IsActive() {
		return false
	}
	return true
}

type Totals struct {
	Subtotal      int64 `json:"subtotal"`
	GST           int64 `json:"gst"`
	ServiceCharge int64 `json:"serviceCharge"`
	Total         int64 `json:"total"`
}

// ComputeTotals prices the lines with the given GST and service-charge percentages.
func ComputeTotals(items []OrderItem, gstPercentage, servicePercentage float64) Totals {
	var t Totals
	for _, item := range items {
		t.Subtotal += item.LineTotal()
	}
	t.GST = Percent(t.Subtotal, gstPercentage)
	t.ServiceCharge = Percent(t.Subtotal, servicePercentage)
	t.Total = t.Subtotal + t.GST + t.ServiceCharge
	return t
}

// Percent returns pct percent of amount rounded half away from zero.
func Percent(amount int64, pct float64) int64 {
	return RoundHalfAway(float64(amount) * pct / 100)
}

func RoundHalfAway(f float64) int64 {
	return int64(math.Round(f))
}
