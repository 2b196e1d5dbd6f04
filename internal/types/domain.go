package types

import (
	"time"
)

// UserPreferences holds per-user display and alerting settings.
type UserPreferences struct {
	TemperatureUnit    string `json:"temperature_unit"`
	WindSpeedUnit      string `json:"wind_speed_unit"`
	DefaultLocation    string `json:"default_location"`
	AlertNotifications bool   `json:"alert_notifications"`
	RiskThreshold      string `json:"risk_threshold"`
	Language           string `json:"language"`
	Timezone           string `json:"timezone"`
	Theme              string `json:"theme"`
}

// DefaultPreferences returns the preference set applied when a user is created
// without explicit preferences.
func DefaultPreferences() UserPreferences {
	return UserPreferences{
		TemperatureUnit:    "celsius",
		WindSpeedUnit:      "kmh",
		AlertNotifications: true,
		RiskThreshold:      "medium",
		Language:           "en",
		Timezone:           "UTC",
		Theme:              "light",
	}
}

// UserLocation is a saved place belonging to a single user. At most one
// location per user may have IsDefault set.
type UserLocation struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	Country     string    `json:"country"`
	CountryCode string    `json:"country_code"`
	IsDefault   bool      `json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// WeatherAlert is a user-defined threshold rule that fires when an observation
// crosses it. Alerts are owned by their UserProfile; UserID is a back-reference
// for lookups, not ownership.
type WeatherAlert struct {
	ID                  string         `json:"id"`
	UserID              string         `json:"user_id"`
	Location            string         `json:"location"`
	Latitude            float64        `json:"latitude"`
	Longitude           float64        `json:"longitude"`
	AlertType           AlertType      `json:"alert_type"`
	Threshold           float64        `json:"threshold"`
	Condition           AlertCondition `json:"condition"`
	IsActive            bool           `json:"is_active"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	Description         string         `json:"description"`
	NotificationMethods []string       `json:"notification_methods"`
	LastTriggered       *time.Time     `json:"last_triggered,omitempty"`
}

// UserProfile is the root aggregate: a user together with the locations and
// alerts they own.
type UserProfile struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Preferences UserPreferences `json:"preferences"`
	Locations   []*UserLocation `json:"locations"`
	Alerts      []*WeatherAlert `json:"alerts"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	LastLogin   *time.Time      `json:"last_login,omitempty"`
	IsActive    bool            `json:"is_active"`
}

// Clone returns a deep copy of the profile. Handlers receive clones so that
// nothing outside the directory's lock can mutate directory state.
func (u *UserProfile) Clone() *UserProfile {
	if u == nil {
		return nil
	}
	out := *u
	out.Locations = make([]*UserLocation, len(u.Locations))
	for i, loc := range u.Locations {
		c := *loc
		out.Locations[i] = &c
	}
	out.Alerts = make([]*WeatherAlert, len(u.Alerts))
	for i, a := range u.Alerts {
		out.Alerts[i] = a.Clone()
	}
	return &out
}

// Clone returns a deep copy of the alert.
func (a *WeatherAlert) Clone() *WeatherAlert {
	if a == nil {
		return nil
	}
	c := *a
	c.NotificationMethods = append([]string(nil), a.NotificationMethods...)
	if a.LastTriggered != nil {
		t := *a.LastTriggered
		c.LastTriggered = &t
	}
	return &c
}

// UserStats is the aggregate view returned by the stats endpoint.
type UserStats struct {
	TotalAlerts    int        `json:"total_alerts"`
	ActiveAlerts   int        `json:"active_alerts"`
	TotalLocations int        `json:"total_locations"`
	MemberSince    time.Time  `json:"member_since"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
	AccountActive  bool       `json:"account_active"`
}

// UserExport is the portable form of a full profile. Importing an export
// reproduces an equivalent profile, locations and alerts included.
type UserExport struct {
	Profile    *UserProfile `json:"profile"`
	ExportedAt time.Time    `json:"exported_at"`
}
