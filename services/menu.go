package services

import (
	"context"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/swiftserve/assistant"
	"github.com/ray-remotestate/swiftserve/models"
)

func (s *Service) ListMenu(ctx context.Context) ([]models.MenuItem, error) {
	return s.store.ListMenuItems(ctx)
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	items, err := s.store.ListMenuItems(ctx)
	if err != nil {
		return nil, err
	}
	return models.Categories(items), nil
}

func (s *Service) CreateMenuItem(ctx context.Context, in models.MenuItemInput) (models.MenuItem, error) {
	if err := in.Validate(); err != nil {
		return models.MenuItem{}, err
	}
	item := models.MenuItem{ID: "item-" + s.newID()}
	in.Apply(&item)
	if err := s.store.CreateMenuItem(ctx, item); err != nil {
		return models.MenuItem{}, err
	}
	logrus.WithFields(logrus.Fields{"id": item.ID, "name": item.Name}).Info("menu item created")
	s.events.Publish(models.MenuUpdatedEvent())
	return item, nil
}

// UpdateMenuItem replaces the editable fields of the item. Nutrition info and
// image are kept when the input leaves them out.
func (s *Service) UpdateMenuItem(ctx context.Context, id string, in models.MenuItemInput) (models.MenuItem, error) {
	if err := in.Validate(); err != nil {
		return models.MenuItem{}, err
	}
	item, err := s.store.GetMenuItem(ctx, id)
	if err != nil {
		return models.MenuItem{}, err
	}
	in.Apply(&item)
	if err := s.store.UpdateMenuItem(ctx, item); err != nil {
		return models.MenuItem{}, err
	}
	s.events.Publish(models.MenuUpdatedEvent())
	return item, nil
}

func (s *Service) DeleteMenuItem(ctx context.Context, id string) error {
	if err := s.store.DeleteMenuItem(ctx, id); err != nil {
		return err
	}
	logrus.WithField("id", id).Info("menu item deleted")
	s.events.Publish(models.MenuUpdatedEvent())
	return nil
}

func (s *Service) ToggleAvailability(ctx context.Context, id string) (models.MenuItem, error) {
	item, err := s.store.GetMenuItem(ctx, id)
	if err != nil {
		return models.MenuItem{}, err
	}
	item.Available = !item.Available
	if err := s.store.UpdateMenuItem(ctx, item); err != nil {
		return models.MenuItem{}, err
	}
	s.events.Publish(models.MenuUpdatedEvent())
	return item, nil
}

// BulkUpdatePrices changes every price by percentage and returns how many
// items changed.
func (s *Service) BulkUpdatePrices(ctx context.Context, percentage float64) (int, error) {
	if math.IsNaN(percentage) || math.IsInf(percentage, 0) || percentage <= -100 {
		return 0, models.Invalid("percentage must be a number greater than -100")
	}
	updated, err := s.store.AdjustPrices(ctx, percentage)
	if err != nil {
		return 0, err
	}
	logrus.WithFields(logrus.Fields{"percentage": percentage, "updated": updated}).Info("menu prices adjusted")
	if updated > 0 {
		s.events.Publish(models.MenuUpdatedEvent())
	}
	return updated, nil
}

// Recommendations picks dishes to highlight from posted, or from the stored
// menu when nothing was posted.
func (s *Service) Recommendations(ctx context.Context, posted []models.MenuItem) ([]string, error) {
	if len(posted) > 0 {
		return assistant.Recommend(posted), nil
	}
	items, err := s.store.ListMenuItems(ctx)
	if err != nil {
		return nil, err
	}
	return assistant.Recommend(items), nil
}
