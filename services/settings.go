package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/swiftserve/models"
)

func (s *Service) GetSettings(ctx context.Context) (models.RestaurantSettings, error) {
	return s.store.GetSettings(ctx)
}

func (s *Service) UpdateSettings(ctx context.Context, in models.RestaurantSettings) (models.RestaurantSettings, error) {
	if err := in.Validate(); err != nil {
		return models.RestaurantSettings{}, err
	}
	if err := s.store.SaveSettings(ctx, in); err != nil {
		return models.RestaurantSettings{}, err
	}
	logrus.WithFields(logrus.Fields{"gst": in.GSTPercentage, "serviceCharge": in.ServiceCharge}).Info("settings updated")
	return in, nil
}
