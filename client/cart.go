package client

import (
	"sync"

	"github.com/ray-remotestate/swiftserve/models"
)

type CartLine struct {
	Item          models.MenuItem `json:"item"`
	Quantity      int             `json:"quantity"`
	Customization string          `json:"customization,omitempty"`
}

// Cart collects a customer's picks before checkout, one line per menu item.
type Cart struct {
	mu    sync.Mutex
	lines []CartLine
}

func NewCart() *Cart {
	return &Cart{}
}

// Add increases the quantity of item, up to models.MaxQuantity. A non-empty
// customization replaces the line's previous one.
func (c *Cart) Add(item models.MenuItem, quantity int, customization string) {
	if quantity < 1 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].Item.ID == item.ID {
			c.lines[i].Quantity = min(c.lines[i].Quantity+quantity, models.MaxQuantity)
			if customization != "" {
				c.lines[i].Customization = customization
			}
			return
		}
	}
	c.lines = append(c.lines, CartLine{Item: item, Quantity: min(quantity, models.MaxQuantity), Customization: customization})
}

func (c *Cart) Remove(itemID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].Item.ID == itemID {
			c.lines = append(c.lines[:i:i], c.lines[i+1:]...)
			return
		}
	}
}

// SetQuantity sets the line's quantity, capped at models.MaxQuantity; zero or
// less removes it.
func (c *Cart) SetQuantity(itemID string, quantity int) {
	if quantity < 1 {
		c.Remove(itemID)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].Item.ID == itemID {
			c.lines[i].Quantity = min(quantity, models.MaxQuantity)
			return
		}
	}
}

func (c *Cart) Lines() []CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]CartLine(nil), c.lines...)
}

// Count is the number of dishes across lines.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

func (c *Cart) orderItems() []models.OrderItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]models.OrderItem, 0, len(c.lines))
	for _, l := range c.lines {
		items = append(items, models.OrderItem{
			ID:              l.Item.ID,
			Name:            l.Item.Name,
			Price:           l.Item.Price,
			Quantity:        l.Quantity,
			Category:        l.Item.Category,
			Customization:   l.Customization,
			PreparationTime: l.Item.PreparationTime,
		})
	}
	return items
}

// Totals prices the cart the way the server will.
func (c *Cart) Totals(settings models.RestaurantSettings) models.Totals {
	return models.ComputeTotals(c.orderItems(), settings.GSTPercentage, settings.ServiceCharge)
}

// Checkout builds the order request. The server recomputes the totals.
func (c *Cart) Checkout(customerName string, table int, payment models.PaymentMethod, instructions string, settings models.RestaurantSettings) models.CreateOrderInput {
	items := c.orderItems()
	t := models.ComputeTotals(items, settings.GSTPercentage, settings.ServiceCharge)
	return models.CreateOrderInput{
		Items:                items,
		TableNumber:          table,
		CustomerName:         customerName,
		PaymentMethod:        payment,
		CustomerInstructions: instructions,
		Subtotal:             float64(t.Subtotal),
		GST:                  float64(t.GST),
		Total:                float64(t.Total),
	}
}
