package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"raincheck/internal/core"
	"raincheck/internal/directory"
	"raincheck/internal/types"
)

// AlertDirectory is the directory surface the alert handler depends on.
type AlertDirectory interface {
	ListAlerts(ctx context.Context, userID string) ([]*types.WeatherAlert, error)
	CreateAlert(ctx context.Context, userID string, in directory.AlertInput) (*types.WeatherAlert, error)
	UpdateAlert(ctx context.Context, userID, alertID string, in directory.AlertUpdateInput) (*types.WeatherAlert, error)
	DeleteAlert(ctx context.Context, userID, alertID string) error
	CheckAlertConditions(ctx context.Context, userID string, obs types.Observation) ([]*types.WeatherAlert, error)
}

// CreateAlertRequest is the request body for POST /v1/users/{id}/alerts.
type CreateAlertRequest struct {
	Location            string   `json:"location"`
	Latitude            float64  `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude           float64  `json:"longitude" validate:"gte=-180,lte=180"`
	AlertType           string   `json:"alert_type" validate:"required,oneof=temperature precipitation wind humidity"`
	Threshold           float64  `json:"threshold" validate:"gte=-100,lte=1000"`
	Condition           string   `json:"condition" validate:"required,oneof=above below"`
	Description         string   `json:"description"`
	NotificationMethods []string `json:"notification_methods,omitempty"`
}

// UpdateAlertRequest is the request body for PATCH /v1/users/{id}/alerts/{alertID}.
// All fields are optional; absent fields are left unchanged.
type UpdateAlertRequest struct {
	Location            *string  `json:"location,omitempty"`
	AlertType           *string  `json:"alert_type,omitempty" validate:"omitempty,oneof=temperature precipitation wind humidity"`
	Threshold           *float64 `json:"threshold,omitempty" validate:"omitempty,gte=-100,lte=1000"`
	Condition           *string  `json:"condition,omitempty" validate:"omitempty,oneof=above below"`
	Description         *string  `json:"description,omitempty"`
	NotificationMethods []string `json:"notification_methods,omitempty"`
	IsActive            *bool    `json:"is_active,omitempty"`
}

// AlertHandler serves the threshold-alert endpoints.
type AlertHandler struct {
	alerts    AlertDirectory
	validator *core.Validator
	logger    *slog.Logger
}

// NewAlertHandler creates an AlertHandler with the provided dependencies.
func NewAlertHandler(alerts AlertDirectory, v *core.Validator, l *slog.Logger) *AlertHandler {
	if l == nil {
		l = slog.Default()
	}
	return &AlertHandler{alerts: alerts, validator: v, logger: l}
}

// Routes returns the registrar mounting the alert endpoints under /v1.
func (h *AlertHandler) Routes() core.RouteRegistrar {
	return func(r chi.Router) {
		r.Route("/users/{id}/alerts", func(r chi.Router) {
			r.Get("/", h.List)
			r.Post("/", h.Create)
			r.Post("/check", h.Check)
			r.Patch("/{alertID}", h.Update)
			r.Delete("/{alertID}", h.Delete)
		})
	}
}

// List handles GET /v1/users/{id}/alerts.
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.alerts.ListAlerts(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: alerts})
}

// Create handles POST /v1/users/{id}/alerts.
func (h *AlertHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAlertRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	alert, err := h.alerts.CreateAlert(r.Context(), chi.URLParam(r, "id"), directory.AlertInput{
		Location:            req.Location,
		Latitude:            req.Latitude,
		Longitude:           req.Longitude,
		AlertType:           types.AlertType(req.AlertType),
		Threshold:           req.Threshold,
		Condition:           types.AlertCondition(req.Condition),
		Description:         req.Description,
		NotificationMethods: req.NotificationMethods,
	})
	if err != nil {
		core.Error(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "alert created",
		slog.String("alert_id", alert.ID),
		slog.String("alert_type", string(alert.AlertType)),
	)
	core.JSON(w, r, http.StatusCreated, core.APIResponse{Data: alert})
}

// Update handles PATCH /v1/users/{id}/alerts/{alertID}.
func (h *AlertHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateAlertRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	in := directory.AlertUpdateInput{
		Location:            req.Location,
		Description:         req.Description,
		NotificationMethods: req.NotificationMethods,
		IsActive:            req.IsActive,
		Threshold:           req.Threshold,
	}
	if req.AlertType != nil {
		t := types.AlertType(*req.AlertType)
		in.AlertType = &t
	}
	if req.Condition != nil {
		c := types.AlertCondition(*req.Condition)
		in.Condition = &c
	}

	alert, err := h.alerts.UpdateAlert(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "alertID"), in)
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: alert})
}

// Delete handles DELETE /v1/users/{id}/alerts/{alertID}.
func (h *AlertHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.alerts.DeleteAlert(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "alertID")); err != nil {
		core.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Check handles POST /v1/users/{id}/alerts/check. The body is an observation;
// the response lists the alerts it triggered.
func (h *AlertHandler) Check(w http.ResponseWriter, r *http.Request) {
	var obs types.Observation
	if err := core.DecodeJSON(w, r, &obs); err != nil {
		core.Error(w, r, err)
		return
	}

	triggered, err := h.alerts.CheckAlertConditions(r.Context(), chi.URLParam(r, "id"), obs)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	if len(triggered) > 0 {
		h.logger.InfoContext(r.Context(), "alerts triggered",
			slog.String("user_id", chi.URLParam(r, "id")),
			slog.Int("count", len(triggered)),
		)
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: triggered})
}
