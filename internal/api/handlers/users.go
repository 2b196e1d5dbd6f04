// Package handlers contains the HTTP handler implementations for the
// RainCheck API. Each handler declares a narrow interface over the directory
// so tests can substitute function-field doubles.
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

// UserDirectory is the directory surface the user handler depends on.
type UserDirectory interface {
	CreateUser(ctx context.Context, in directory.CreateUserInput) (*types.UserProfile, error)
	GetUser(ctx context.Context, userID string) (*types.UserProfile, error)
	UpdateUser(ctx context.Context, userID string, in directory.UpdateUserInput) (*types.UserProfile, error)
	DeleteUser(ctx context.Context, userID string) error
	Stats(ctx context.Context, userID string) (*types.UserStats, error)
	Preferences(ctx context.Context, userID string) (*types.UserPreferences, error)
	UpdatePreferences(ctx context.Context, userID string, prefs types.UserPreferences) (*types.UserPreferences, error)
	Export(ctx context.Context, userID string) (*types.UserExport, error)
	Import(ctx context.Context, export *types.UserExport) (*types.UserProfile, error)
}

// CreateUserRequest is the request body for POST /v1/users.
type CreateUserRequest struct {
	Name        string                 `json:"name" validate:"required"`
	Email       string                 `json:"email" validate:"required,email"`
	Preferences *types.UserPreferences `json:"preferences,omitempty"`
}

// UpdateUserRequest is the request body for PATCH /v1/users/{id}.
// All fields are optional; absent fields are left unchanged.
type UpdateUserRequest struct {
	Name        *string                `json:"name,omitempty" validate:"omitempty,min=1"`
	Email       *string                `json:"email,omitempty" validate:"omitempty,email"`
	Preferences *types.UserPreferences `json:"preferences,omitempty"`
}

// PreferencesRequest is the request body for PUT /v1/users/{id}/preferences.
// The preference set is replaced wholesale.
type PreferencesRequest struct {
	TemperatureUnit    string `json:"temperature_unit" validate:"required,oneof=celsius fahrenheit"`
	WindSpeedUnit      string `json:"wind_speed_unit" validate:"required,oneof=kmh mph ms"`
	DefaultLocation    string `json:"default_location"`
	AlertNotifications bool   `json:"alert_notifications"`
	RiskThreshold      string `json:"risk_threshold" validate:"required,oneof=low medium high"`
	Language           string `json:"language" validate:"required"`
	Timezone           string `json:"timezone" validate:"required"`
	Theme              string `json:"theme" validate:"required,oneof=light dark"`
}

// UserHandler serves user lifecycle, stats, preferences, and export/import.
type UserHandler struct {
	users     UserDirectory
	validator *core.Validator
	logger    *slog.Logger
}

// NewUserHandler creates a UserHandler with the provided dependencies.
func NewUserHandler(users UserDirectory, v *core.Validator, l *slog.Logger) *UserHandler {
	if l == nil {
		l = slog.Default()
	}
	return &UserHandler{users: users, validator: v, logger: l}
}

// Routes returns the registrar mounting the user endpoints under /v1.
func (h *UserHandler) Routes() core.RouteRegistrar {
	return func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/", h.Create)
			r.Post("/import", h.Import)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Get)
				r.Patch("/", h.Update)
				r.Delete("/", h.Delete)
				r.Get("/stats", h.Stats)
				r.Get("/export", h.Export)
				r.Get("/preferences", h.GetPreferences)
				r.Put("/preferences", h.PutPreferences)
			})
		})
	}
}

// Create handles POST /v1/users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	user, err := h.users.CreateUser(r.Context(), directory.CreateUserInput{
		Name:        req.Name,
		Email:       req.Email,
		Preferences: req.Preferences,
	})
	if err != nil {
		core.Error(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "user created", slog.String("user_id", user.ID))
	core.JSON(w, r, http.StatusCreated, core.APIResponse{Data: user})
}

// Get handles GET /v1/users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: user})
}

// Update handles PATCH /v1/users/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	user, err := h.users.UpdateUser(r.Context(), chi.URLParam(r, "id"), directory.UpdateUserInput{
		Name:        req.Name,
		Email:       req.Email,
		Preferences: req.Preferences,
	})
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: user})
}

// Delete handles DELETE /v1/users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if err := h.users.DeleteUser(r.Context(), userID); err != nil {
		core.Error(w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "user deleted", slog.String("user_id", userID))
	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET /v1/users/{id}/stats.
func (h *UserHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.users.Stats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: stats})
}

// GetPreferences handles GET /v1/users/{id}/preferences.
func (h *UserHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.users.Preferences(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: prefs})
}

// PutPreferences handles PUT /v1/users/{id}/preferences.
func (h *UserHandler) PutPreferences(w http.ResponseWriter, r *http.Request) {
	var req PreferencesRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	prefs, err := h.users.UpdatePreferences(r.Context(), chi.URLParam(r, "id"), types.UserPreferences{
		TemperatureUnit:    req.TemperatureUnit,
		WindSpeedUnit:      req.WindSpeedUnit,
		DefaultLocation:    req.DefaultLocation,
		AlertNotifications: req.AlertNotifications,
		RiskThreshold:      req.RiskThreshold,
		Language:           req.Language,
		Timezone:           req.Timezone,
		Theme:              req.Theme,
	})
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: prefs})
}

// Export handles GET /v1/users/{id}/export.
func (h *UserHandler) Export(w http.ResponseWriter, r *http.Request) {
	export, err := h.users.Export(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: export})
}

// Import handles POST /v1/users/import. The payload is validated in full
// before any state changes; a rejected import leaves the directory untouched.
func (h *UserHandler) Import(w http.ResponseWriter, r *http.Request) {
	var export types.UserExport
	if err := core.DecodeJSON(w, r, &export); err != nil {
		core.Error(w, r, err)
		return
	}

	user, err := h.users.Import(r.Context(), &export)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "user imported", slog.String("user_id", user.ID))
	core.JSON(w, r, http.StatusCreated, core.APIResponse{Data: user})
}
