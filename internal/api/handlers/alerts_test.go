package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raincheck/internal/directory"
	"raincheck/internal/types"
)

// mockAlertDirectory is a function-field test double for AlertDirectory.
type mockAlertDirectory struct {
	listFn   func(ctx context.Context, userID string) ([]*types.WeatherAlert, error)
	createFn func(ctx context.Context, userID string, in directory.AlertInput) (*types.WeatherAlert, error)
	updateFn func(ctx context.Context, userID, alertID string, in directory.AlertUpdateInput) (*types.WeatherAlert, error)
	deleteFn func(ctx context.Context, userID, alertID string) error
	checkFn  func(ctx context.Context, userID string, obs types.Observation) ([]*types.WeatherAlert, error)
}

func (m *mockAlertDirectory) ListAlerts(ctx context.Context, userID string) ([]*types.WeatherAlert, error) {
	return m.listFn(ctx, userID)
}

func (m *mockAlertDirectory) CreateAlert(ctx context.Context, userID string, in directory.AlertInput) (*types.WeatherAlert, error) {
	return m.createFn(ctx, userID, in)
}

func (m *mockAlertDirectory) UpdateAlert(ctx context.Context, userID, alertID string, in directory.AlertUpdateInput) (*types.WeatherAlert, error) {
	return m.updateFn(ctx, userID, alertID, in)
}

func (m *mockAlertDirectory) DeleteAlert(ctx context.Context, userID, alertID string) error {
	return m.deleteFn(ctx, userID, alertID)
}

func (m *mockAlertDirectory) CheckAlertConditions(ctx context.Context, userID string, obs types.Observation) ([]*types.WeatherAlert, error) {
	return m.checkFn(ctx, userID, obs)
}

func TestCreateAlertEndpoint(t *testing.T) {
	var captured directory.AlertInput
	mock := &mockAlertDirectory{
		createFn: func(ctx context.Context, userID string, in directory.AlertInput) (*types.WeatherAlert, error) {
			captured = in
			return &types.WeatherAlert{ID: "alert_1", UserID: userID, AlertType: in.AlertType, IsActive: true}, nil
		},
	}
	h := NewAlertHandler(mock, testValidator(), testLogger())

	rec := serve(t, h.Routes(), http.MethodPost, "/v1/users/usr_1/alerts", map[string]any{
		"location":   "Vienna",
		"latitude":   48.2,
		"longitude":  16.3,
		"alert_type": "wind",
		"threshold":  30,
		"condition":  "above",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, types.AlertWind, captured.AlertType)
	assert.Equal(t, types.ConditionAbove, captured.Condition)
	assert.InDelta(t, 30.0, captured.Threshold, 1e-9)
}

func TestCreateAlertEndpointRejectsUnknownType(t *testing.T) {
	h := NewAlertHandler(&mockAlertDirectory{}, testValidator(), testLogger())

	rec := serve(t, h.Routes(), http.MethodPost, "/v1/users/usr_1/alerts", map[string]any{
		"alert_type": "earthquake",
		"threshold":  5,
		"condition":  "above",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "validation_invalid_alert_type", resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "alert_type")
}

func TestCreateAlertEndpointRejectsThresholdRange(t *testing.T) {
	h := NewAlertHandler(&mockAlertDirectory{}, testValidator(), testLogger())

	rec := serve(t, h.Routes(), http.MethodPost, "/v1/users/usr_1/alerts", map[string]any{
		"alert_type": "wind",
		"threshold":  5000,
		"condition":  "above",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "validation_threshold_out_of_range", resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "threshold")
}

func TestUpdateAlertEndpoint(t *testing.T) {
	var captured directory.AlertUpdateInput
	mock := &mockAlertDirectory{
		updateFn: func(ctx context.Context, userID, alertID string, in directory.AlertUpdateInput) (*types.WeatherAlert, error) {
			captured = in
			return &types.WeatherAlert{ID: alertID, UserID: userID}, nil
		},
	}
	h := NewAlertHandler(mock, testValidator(), testLogger())

	rec := serve(t, h.Routes(), http.MethodPatch, "/v1/users/usr_1/alerts/alert_1", map[string]any{
		"threshold": 25,
		"is_active": false,
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured.Threshold)
	assert.InDelta(t, 25.0, *captured.Threshold, 1e-9)
	require.NotNil(t, captured.IsActive)
	assert.False(t, *captured.IsActive)
	assert.Nil(t, captured.AlertType)
}

func TestDeleteAlertEndpointNotFound(t *testing.T) {
	mock := &mockAlertDirectory{
		deleteFn: func(ctx context.Context, userID, alertID string) error {
			return types.NewAppError(types.ErrCodeNotFoundAlert, "alert "+alertID+" not found", nil)
		},
	}
	h := NewAlertHandler(mock, testValidator(), testLogger())

	rec := serve(t, h.Routes(), http.MethodDelete, "/v1/users/usr_1/alerts/alert_missing", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "not_found_alert", resp.Error.Code)
}

func TestCheckAlertsEndpoint(t *testing.T) {
	var captured types.Observation
	mock := &mockAlertDirectory{
		checkFn: func(ctx context.Context, userID string, obs types.Observation) ([]*types.WeatherAlert, error) {
			captured = obs
			return []*types.WeatherAlert{
				{ID: "alert_1", UserID: userID, AlertType: types.AlertWind, IsActive: true},
			}, nil
		},
	}
	h := NewAlertHandler(mock, testValidator(), testLogger())

	rec := serve(t, h.Routes(), http.MethodPost, "/v1/users/usr_1/alerts/check", map[string]any{
		"wind_speed":  35.0,
		"temperature": 22.0,
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured.WindSpeed)
	assert.InDelta(t, 35.0, *captured.WindSpeed, 1e-9)
	assert.Nil(t, captured.Precipitation)

	var resp struct {
		Data []types.WeatherAlert `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "alert_1", resp.Data[0].ID)
}

func TestCheckAlertsEndpointEmptyResult(t *testing.T) {
	mock := &mockAlertDirectory{
		checkFn: func(ctx context.Context, userID string, obs types.Observation) ([]*types.WeatherAlert, error) {
			return []*types.WeatherAlert{}, nil
		},
	}
	h := NewAlertHandler(mock, testValidator(), testLogger())

	rec := serve(t, h.Routes(), http.MethodPost, "/v1/users/usr_1/alerts/check", map[string]any{
		"wind_speed": 1.0,
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data []types.WeatherAlert `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data)
}
