// Package notify sends short order alerts to a staff Telegram chat.
package notify

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ray-remotestate/swiftserve/config"
	"github.com/ray-remotestate/swiftserve/models"
)

const queueSize = 64

// Sender is the part of *tgbotapi.BotAPI the notifier uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier turns order events into chat messages. Publish never blocks;
// events that do not fit in the queue are dropped.
type Notifier struct {
	sender  Sender
	chatID  int64
	printer *message.Printer
	queue   chan models.Event
}

// New connects to the Bot API with the configured token.
func New(cfg config.TelegramConfig) (*Notifier, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("telegram token is not configured")
	}
	if cfg.ChatID == 0 {
		return nil, fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_TOKEN is set")
	}
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	logrus.Infof("telegram notifications enabled as @%s", api.Self.UserName)
	return NewWithSender(api, cfg.ChatID), nil
}

func NewWithSender(sender Sender, chatID int64) *Notifier {
	return &Notifier{
		sender:  sender,
		chatID:  chatID,
		printer: message.NewPrinter(language.English),
		queue:   make(chan models.Event, queueSize),
	}
}

func (n *Notifier) Publish(ev models.Event) {
	if ev.Type != models.EventNewOrder && ev.Type != models.EventOrderUpdated {
		return
	}
	select {
	case n.queue <- ev:
	default:
		logrus.WithField("type", ev.Type).Warn("telegram queue full, dropping event")
	}
}

// Run delivers queued events until ctx is done.
func (n *Notifier) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-n.queue:
			n.deliver(ev)
		}
	}
}

func (n *Notifier) deliver(ev models.Event) {
	text := n.Format(ev)
	if text == "" {
		return
	}
	if _, err := n.sender.Send(tgbotapi.NewMessage(n.chatID, text)); err != nil {
		logrus.WithError(err).WithField("type", ev.Type).Error("failed to send telegram message")
	}
}

func (n *Notifier) amount(v int64) string {
	return n.printer.Sprintf("₹%d", v)
}

// Format renders the message for ev, or "" for events that are not announced.
func (n *Notifier) Format(ev models.Event) string {
	switch ev.Type {
	case models.EventNewOrder:
		if ev.Order == nil {
			return ""
		}
		o := ev.Order
		var b strings.Builder
		fmt.Fprintf(&b, "New order %s\n", o.ID)
		fmt.Fprintf(&b, "Table %d, %s\n", o.TableNumber, o.CustomerName)
		for _, item := range o.Items {
			fmt.Fprintf(&b, "%d x %s\n", item.Quantity, item.Name)
			if item.KitchenInstruction != "" {
				fmt.Fprintf(&b, "   %s\n", item.KitchenInstruction)
			}
		}
		if o.CustomerInstructions != "" {
			fmt.Fprintf(&b, "Note: %s\n", o.CustomerInstructions)
		}
		fmt.Fprintf(&b, "Total: %s (%s)", n.amount(o.Total), strings.ToUpper(string(o.PaymentMethod)))
		return b.String()
	case models.EventOrderUpdated:
		return fmt.Sprintf("Order %s is now %s", ev.OrderID, ev.Status.Label())
	}
	return ""
}
