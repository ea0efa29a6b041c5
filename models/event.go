package models

type EventType string

const (
	EventNewOrder     EventType = "new_order"
	EventOrderUpdated EventType = "order_updated"
	EventMenuUpdated  EventType = "menu_updated"
	EventPing         EventType = "ping"

	// Client-side pseudo events raised by the subscriber itself.
	EventConnected    EventType = "connected"
	EventDisconnected EventType = "disconnected"
)

// Event is the frame pushed over /ws.
type Event struct {
	Type    EventType   `json:"type"`
	Order   *Order      `json:"order,omitempty"`
	OrderID string      `json:"orderId,omitempty"`
	Status  OrderStatus `json:"status,omitempty"`
}

func NewOrderEvent(o Order) Event {
	return Event{Type: EventNewOrder, Order: &o}
}

func OrderUpdatedEvent(orderID string, status OrderStatus) Event {
	return Event{Type: EventOrderUpdated, OrderID: orderID, Status: status}
}

func MenuUpdatedEvent() Event {
	return Event{Type: EventMenuUpdated}
}
