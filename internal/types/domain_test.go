package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserProfileCloneIsDeep(t *testing.T) {
	triggered := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	u := &UserProfile{
		ID:    "usr_1",
		Name:  "Dana",
		Email: "dana@example.com",
		Locations: []*UserLocation{
			{ID: "loc_1", Name: "Home", IsDefault: true},
		},
		Alerts: []*WeatherAlert{
			{
				ID:                  "alert_1",
				AlertType:           AlertWind,
				Threshold:           30,
				Condition:           ConditionAbove,
				NotificationMethods: []string{"email"},
				LastTriggered:       &triggered,
			},
		},
	}

	c := u.Clone()
	require.NotNil(t, c)

	c.Locations[0].Name = "Office"
	c.Alerts[0].NotificationMethods[0] = "push"
	*c.Alerts[0].LastTriggered = triggered.Add(time.Hour)

	assert.Equal(t, "Home", u.Locations[0].Name)
	assert.Equal(t, "email", u.Alerts[0].NotificationMethods[0])
	assert.Equal(t, triggered, *u.Alerts[0].LastTriggered)
}

func TestCloneNil(t *testing.T) {
	var u *UserProfile
	assert.Nil(t, u.Clone())

	var a *WeatherAlert
	assert.Nil(t, a.Clone())
}

func TestDefaultPreferences(t *testing.T) {
	p := DefaultPreferences()
	assert.Equal(t, "celsius", p.TemperatureUnit)
	assert.Equal(t, "kmh", p.WindSpeedUnit)
	assert.True(t, p.AlertNotifications)
	assert.Equal(t, "medium", p.RiskThreshold)
	assert.Equal(t, "UTC", p.Timezone)
}

func TestObservationValueFor(t *testing.T) {
	obs := NewObservation(22, 55, 12, 5, "Sunny")

	v, ok := obs.ValueFor(AlertTemperature)
	require.True(t, ok)
	assert.Equal(t, 22.0, v)

	v, ok = obs.ValueFor(AlertHumidity)
	require.True(t, ok)
	assert.Equal(t, 55.0, v)

	_, ok = obs.ValueFor(AlertType("uv_index"))
	assert.False(t, ok)

	empty := Observation{}
	v, ok = empty.ValueFor(AlertWind)
	require.True(t, ok)
	assert.Zero(t, v)
}
