package dbhelper

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ray-remotestate/swiftserve/models"
)

// GetSettings returns the stored settings, or the defaults when none were saved.
func (s *Store) GetSettings(ctx context.Context) (models.RestaurantSettings, error) {
	var st models.RestaurantSettings
	err := s.db.QueryRowContext(ctx, `
		SELECT restaurant_name, address, phone, email, gst_percentage, service_charge,
			sound_alerts, browser_notifications, email_notifications
		FROM restaurant_settings WHERE id = 1`).
		Scan(&st.RestaurantName, &st.Address, &st.Phone, &st.Email, &st.GSTPercentage, &st.ServiceCharge,
			&st.SoundAlerts, &st.BrowserNotifications, &st.EmailNotifications)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return models.RestaurantSettings{}, fmt.Errorf("get settings: %w", err)
	}
	return st, nil
}

func (s *Store) SaveSettings(ctx context.Context, st models.RestaurantSettings) error {
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO restaurant_settings (id, restaurant_name, address, phone, email, gst_percentage,
			service_charge, sound_alerts, browser_notifications, email_notifications)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			restaurant_name = excluded.restaurant_name,
			address = excluded.address,
			phone = excluded.phone,
			email = excluded.email,
			gst_percentage = excluded.gst_percentage,
			service_charge = excluded.service_charge,
			sound_alerts = excluded.sound_alerts,
			browser_notifications = excluded.browser_notifications,
			email_notifications = excluded.email_notifications`),
		st.RestaurantName, st.Address, st.Phone, st.Email, st.GSTPercentage, st.ServiceCharge,
		st.SoundAlerts, st.BrowserNotifications, st.EmailNotifications)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
