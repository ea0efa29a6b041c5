package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/swiftserve/analytics"
	"github.com/ray-remotestate/swiftserve/assistant"
	"github.com/ray-remotestate/swiftserve/kitchen"
	"github.com/ray-remotestate/swiftserve/models"
)

// CreateOrder prices the submitted lines from the menu and current settings,
// stores the order as new and announces it.
func (s *Service) CreateOrder(ctx context.Context, in models.CreateOrderInput) (models.Order, error) {
	if err := in.Validate(s.maxTables); err != nil {
		return models.Order{}, err
	}

	items, err := s.resolveItems(ctx, in.Items)
	if err != nil {
		return models.Order{}, err
	}
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return models.Order{}, err
	}
	totals := models.ComputeTotals(items, settings.GSTPercentage, settings.ServiceCharge)

	now := s.now().UTC()
	o := models.Order{
		ID:                   "order-" + s.newID(),
		CustomerName:         in.CustomerName,
		TableNumber:          in.TableNumber,
		Items:                items,
		Status:               models.OrderStatusNew,
		Subtotal:             totals.Subtotal,
		GST:                  totals.GST,
		ServiceCharge:        totals.ServiceCharge,
		Total:                totals.Total,
		PaymentMethod:        in.PaymentMethod,
		CustomerInstructions: in.CustomerInstructions,
		Timestamp:            now,
		UpdatedAt:            now,
	}
	initial := models.StatusChange{OrderID: o.ID, To: models.OrderStatusNew, ChangedAt: now}
	if err := s.store.CreateOrder(ctx, o, initial); err != nil {
		return models.Order{}, err
	}

	logrus.WithFields(logrus.Fields{
		"id":    o.ID,
		"table": o.TableNumber,
		"items": o.ItemCount(),
		"total": o.Total,
	}).Info("order placed")
	s.events.Publish(models.NewOrderEvent(o))
	return o, nil
}

func (s *Service) resolveItems(ctx context.Context, lines []models.OrderItem) ([]models.OrderItem, error) {
	var v models.ValidationError
	items := make([]models.OrderItem, 0, len(lines))
	for i, line := range lines {
		menuItem, err := s.store.GetMenuItem(ctx, line.ID)
		if errors.Is(err, models.ErrNotFound) {
			v.Add("items[%d]: unknown menu item %q", i, line.ID)
			continue
		}
		if err != nil {
			return nil, err
		}
		if !menuItem.Available {
			v.Add("items[%d]: %s is not available", i, menuItem.Name)
			continue
		}

		item := models.OrderItem{
			ID:              menuItem.ID,
			Name:            menuItem.Name,
			Price:           menuItem.Price,
			Quantity:        line.Quantity,
			Category:        menuItem.Category,
			Customization:   strings.TrimSpace(line.Customization),
			PreparationTime: menuItem.PreparationTime,
		}
		if item.Customization != "" {
			item.KitchenInstruction = assistant.Customize(item.Customization)
		}
		items = append(items, item)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Service) ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, models.Invalid("unknown status %q", filter.Status)
	}
	return s.store.ListOrders(ctx, filter)
}

func (s *Service) GetOrder(ctx context.Context, id string) (models.Order, error) {
	return s.store.GetOrder(ctx, id)
}

// UpdateOrderStatus moves the order along its lifecycle. A concurrent update
// that got there first surfaces as ErrInvalidTransition.
func (s *Service) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error) {
	status = models.OrderStatus(strings.ToLower(strings.TrimSpace(string(status))))
	if !status.IsValid() {
		return models.Order{}, models.Invalid("unknown status %q", status)
	}
	o, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	if err := models.CheckTransition(o.Status, status); err != nil {
		return models.Order{}, err
	}

	change := models.StatusChange{OrderID: id, From: o.Status, To: status, ChangedAt: s.now().UTC()}
	if err := s.store.UpdateOrderStatus(ctx, change); err != nil {
		return models.Order{}, err
	}
	o.Status = status
	o.UpdatedAt = change.ChangedAt

	logrus.WithFields(logrus.Fields{"id": id, "from": change.From, "to": change.To}).Info("order status changed")
	s.events.Publish(models.OrderUpdatedEvent(id, status))
	return o, nil
}

func (s *Service) OrderHistory(ctx context.Context, id string) ([]models.StatusChange, error) {
	if _, err := s.store.GetOrder(ctx, id); err != nil {
		return nil, err
	}
	return s.store.OrderHistory(ctx, id)
}

// KitchenBoard lays out the active orders, optionally for one table.
func (s *Service) KitchenBoard(ctx context.Context, table int) (kitchen.Board, error) {
	orders, err := s.store.ListOrders(ctx, models.OrderFilter{Active: true})
	if err != nil {
		return kitchen.Board{}, err
	}
	return kitchen.Build(orders, table, s.now()), nil
}

func (s *Service) Analytics(ctx context.Context, rangeName string) (analytics.Summary, error) {
	r, err := analytics.ParseRange(rangeName)
	if err != nil {
		return analytics.Summary{}, err
	}
	orders, err := s.store.ListOrders(ctx, models.OrderFilter{})
	if err != nil {
		return analytics.Summary{}, err
	}
	return analytics.Summarize(orders, r, s.now()), nil
}

// SuggestAction returns a service prompt for the order, or a general prompt
// when the order is unknown.
func (s *Service) SuggestAction(ctx context.Context, orderID string, pick assistant.Picker) (string, error) {
	o, err := s.store.GetOrder(ctx, orderID)
	if errors.Is(err, models.ErrNotFound) {
		return assistant.Suggest(nil, s.now(), pick), nil
	}
	if err != nil {
		return "", err
	}
	return assistant.Suggest(&o, s.now(), pick), nil
}
