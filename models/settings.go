package models

import "strings"

type RestaurantSettings struct {
	RestaurantName       string  `db:"restaurant_name" json:"restaurantName"`
	Address              string  `db:"address" json:"address"`
	Phone                string  `db:"phone" json:"phone"`
	Email                string  `db:"email" json:"email"`
	GSTPercentage        float64 `db:"gst_percentage" json:"gstPercentage"`
	ServiceCharge        float64 `db:"service_charge" json:"serviceCharge"`
	SoundAlerts          bool    `db:"sound_alerts" json:"soundAlerts"`
	BrowserNotifications bool    `db:"browser_notifications" json:"browserNotifications"`
	EmailNotifications   bool    `db:"email_notifications" json:"emailNotifications"`
}

func DefaultSettings() RestaurantSettings {
	return RestaurantSettings{
		RestaurantName:     "SwiftServe AI Restaurant",
		GSTPercentage:      5,
		ServiceCharge:      0,
		SoundAlerts:        true,
		EmailNotifications: true,
	}
}

func (s *RestaurantSettings) Validate() error {
	s.RestaurantName = strings.TrimSpace(s.RestaurantName)

	var v ValidationError
	if s.RestaurantName == "" {
		v.Add("restaurantName is required")
	}
	if s.GSTPercentage < 0 || s.GSTPercentage > 100 {
		v.Add("gstPercentage must be between 0 and 100")
	}
	if s.ServiceCharge < 0 || s.ServiceCharge > 100 {
		v.Add("serviceCharge must be between 0 and 100")
	}
	return v.Err()
}
