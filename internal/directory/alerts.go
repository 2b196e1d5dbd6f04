package directory

import (
	"context"
	"fmt"

	"raincheck/internal/types"
)

func alertNotFound(id string) error {
	return types.NewAppError(types.ErrCodeNotFoundAlert, fmt.Sprintf("alert %s not found", id), nil)
}

// AlertInput carries the fields for a new threshold alert.
type AlertInput struct {
	Location            string
	Latitude            float64
	Longitude           float64
	AlertType           types.AlertType
	Threshold           float64
	Condition           types.AlertCondition
	Description         string
	NotificationMethods []string
}

// AlertUpdateInput patches an alert. Nil fields are left unchanged.
type AlertUpdateInput struct {
	Location            *string
	AlertType           *types.AlertType
	Threshold           *float64
	Condition           *types.AlertCondition
	Description         *string
	NotificationMethods []string
	IsActive            *bool
}

// ListAlerts returns clones of all alerts owned by a user.
func (d *Directory) ListAlerts(ctx context.Context, userID string) ([]*types.WeatherAlert, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	user, ok := d.users[userID]
	if !ok {
		return nil, userNotFound(userID)
	}

	out := make([]*types.WeatherAlert, len(user.Alerts))
	for i, alert := range user.Alerts {
		out[i] = alert.Clone()
	}
	return out, nil
}

// CreateAlert registers a new active alert for the user.
func (d *Directory) CreateAlert(ctx context.Context, userID string, in AlertInput) (*types.WeatherAlert, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	user, ok := d.users[userID]
	if !ok {
		return nil, userNotFound(userID)
	}

	now := d.clock.Now().UTC()
	methods := in.NotificationMethods
	if len(methods) == 0 {
		methods = []string{"email"}
	}

	alert := &types.WeatherAlert{
		ID:                  newAlertID(),
		UserID:              userID,
		Location:            in.Location,
		Latitude:            in.Latitude,
		Longitude:           in.Longitude,
		AlertType:           in.AlertType,
		Threshold:           in.Threshold,
		Condition:           in.Condition,
		IsActive:            true,
		CreatedAt:           now,
		UpdatedAt:           now,
		Description:         in.Description,
		NotificationMethods: methods,
	}

	user.Alerts = append(user.Alerts, alert)
	d.alertOwner[alert.ID] = userID
	user.UpdatedAt = now

	if err := d.persistLocked(ctx); err != nil {
		return nil, err
	}
	return alert.Clone(), nil
}

// UpdateAlert applies a partial update to an alert.
func (d *Directory) UpdateAlert(ctx context.Context, userID, alertID string, in AlertUpdateInput) (*types.WeatherAlert, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	user, ok := d.users[userID]
	if !ok {
		return nil, userNotFound(userID)
	}

	var target *types.WeatherAlert
	for _, alert := range user.Alerts {
		if alert.ID == alertID {
			target = alert
			break
		}
	}
	if target == nil {
		return nil, alertNotFound(alertID)
	}

	if in.Location != nil {
		target.Location = *in.Location
	}
	if in.AlertType != nil {
		target.AlertType = *in.AlertType
	}
	if in.Threshold != nil {
		target.Threshold = *in.Threshold
	}
	if in.Condition != nil {
		target.Condition = *in.Condition
	}
	if in.Description != nil {
		target.Description = *in.Description
	}
	if in.NotificationMethods != nil {
		target.NotificationMethods = append([]string(nil), in.NotificationMethods...)
	}
	if in.IsActive != nil {
		target.IsActive = *in.IsActive
	}

	now := d.clock.Now().UTC()
	target.UpdatedAt = now
	user.UpdatedAt = now

	if err := d.persistLocked(ctx); err != nil {
		return nil, err
	}
	return target.Clone(), nil
}

// DeleteAlert removes an alert.
func (d *Directory) DeleteAlert(ctx context.Context, userID, alertID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	user, ok := d.users[userID]
	if !ok {
		return userNotFound(userID)
	}

	for i, alert := range user.Alerts {
		if alert.ID == alertID {
			user.Alerts = append(user.Alerts[:i], user.Alerts[i+1:]...)
			delete(d.alertOwner, alertID)
			user.UpdatedAt = d.clock.Now().UTC()
			return d.persistLocked(ctx)
		}
	}
	return alertNotFound(alertID)
}

// CheckAlertConditions evaluates the user's alerts against an observation.
// Triggered alerts get their LastTriggered stamped, and when any fire the
// updated state is persisted before returning. The returned alerts are
// clones.
func (d *Directory) CheckAlertConditions(ctx context.Context, userID string, obs types.Observation) ([]*types.WeatherAlert, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	user, ok := d.users[userID]
	if !ok {
		return nil, userNotFound(userID)
	}

	triggered := d.evaluator.Evaluate(user.Alerts, obs)
	if len(triggered) == 0 {
		return []*types.WeatherAlert{}, nil
	}

	user.UpdatedAt = d.clock.Now().UTC()
	if err := d.persistLocked(ctx); err != nil {
		return nil, err
	}

	out := make([]*types.WeatherAlert, len(triggered))
	for i, alert := range triggered {
		out[i] = alert.Clone()
	}
	return out, nil
}
