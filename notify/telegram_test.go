package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ray-remotestate/swiftserve/config"
	"github.com/ray-remotestate/swiftserve/models"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, f.err
}

func (f *fakeSender) messages() []tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tgbotapi.MessageConfig(nil), f.sent...)
}

func sampleOrder() models.Order {
	return models.Order{
		ID:           "order-42",
		CustomerName: "Asha",
		TableNumber:  4,
		Items: []models.OrderItem{
			{Name: "Butter Chicken", Quantity: 2, KitchenInstruction: "KITCHEN: SPICE: LOW"},
			{Name: "Masala Chai", Quantity: 1},
		},
		Total:         12450,
		PaymentMethod: models.PaymentCard,
	}
}

func TestFormat(t *testing.T) {
	n := NewWithSender(&fakeSender{}, 1)

	got := n.Format(models.NewOrderEvent(sampleOrder()))
	assert.Equal(t, "New order order-42\n"+
		"Table 4, Asha\n"+
		"2 x Butter Chicken\n"+
		"   KITCHEN: SPICE: LOW\n"+
		"1 x Masala Chai\n"+
		"Total: ₹12,450 (CARD)", got)

	assert.Equal(t, "Order order-42 is now Ready", n.Format(models.OrderUpdatedEvent("order-42", models.OrderStatusReady)))
	assert.Empty(t, n.Format(models.MenuUpdatedEvent()))
	assert.Empty(t, n.Format(models.Event{Type: models.EventNewOrder}))
}

func TestRunDeliversQueuedEvents(t *testing.T) {
	sender := &fakeSender{}
	n := NewWithSender(sender, 99)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go n.Run(ctx)

	n.Publish(models.MenuUpdatedEvent())
	n.Publish(models.OrderUpdatedEvent("order-1", models.OrderStatusPreparing))

	require.Eventually(t, func() bool { return len(sender.messages()) == 1 }, 2*time.Second, 10*time.Millisecond)
	msg := sender.messages()[0]
	assert.Equal(t, int64(99), msg.ChatID)
	assert.Equal(t, "Order order-1 is now Preparing", msg.Text)
}

func TestPublishDropsWhenQueueFull(t *testing.T) {
	n := NewWithSender(&fakeSender{err: errors.New("offline")}, 1)
	for i := 0; i < queueSize+10; i++ {
		n.Publish(models.OrderUpdatedEvent("order-1", models.OrderStatusReady))
	}
	assert.Len(t, n.queue, queueSize)
}

func TestNewRequiresTokenAndChat(t *testing.T) {
	_, err := New(config.TelegramConfig{})
	assert.Error(t, err)
	_, err = New(config.TelegramConfig{Token: "123:abc"})
	assert.Error(t, err)
}
