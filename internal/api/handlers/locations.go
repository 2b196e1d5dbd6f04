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

// LocationDirectory is the directory surface the location handler depends on.
type LocationDirectory interface {
	ListLocations(ctx context.Context, userID string) ([]*types.UserLocation, error)
	AddLocation(ctx context.Context, userID string, in directory.LocationInput) (*types.UserLocation, error)
	UpdateLocation(ctx context.Context, userID, locationID string, in directory.LocationInput) (*types.UserLocation, error)
	DeleteLocation(ctx context.Context, userID, locationID string) error
	DefaultLocation(ctx context.Context, userID string) (*types.UserLocation, error)
}

// LocationRequest is the request body for creating or replacing a location.
type LocationRequest struct {
	Name        string  `json:"name" validate:"required"`
	Address     string  `json:"address"`
	Latitude    float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude   float64 `json:"longitude" validate:"gte=-180,lte=180"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	Country     string  `json:"country"`
	CountryCode string  `json:"country_code"`
	IsDefault   bool    `json:"is_default"`
}

func (req LocationRequest) input() directory.LocationInput {
	return directory.LocationInput{
		Name:        req.Name,
		Address:     req.Address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		City:        req.City,
		State:       req.State,
		Country:     req.Country,
		CountryCode: req.CountryCode,
		IsDefault:   req.IsDefault,
	}
}

// LocationHandler serves the saved-location endpoints.
type LocationHandler struct {
	locations LocationDirectory
	validator *core.Validator
	logger    *slog.Logger
}

// NewLocationHandler creates a LocationHandler with the provided dependencies.
func NewLocationHandler(locations LocationDirectory, v *core.Validator, l *slog.Logger) *LocationHandler {
	if l == nil {
		l = slog.Default()
	}
	return &LocationHandler{locations: locations, validator: v, logger: l}
}

// Routes returns the registrar mounting the location endpoints under /v1.
func (h *LocationHandler) Routes() core.RouteRegistrar {
	return func(r chi.Router) {
		r.Route("/users/{id}/locations", func(r chi.Router) {
			r.Get("/", h.List)
			r.Post("/", h.Add)
			r.Get("/default", h.Default)
			r.Put("/{locationID}", h.Update)
			r.Delete("/{locationID}", h.Delete)
		})
	}
}

// List handles GET /v1/users/{id}/locations.
func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	locations, err := h.locations.ListLocations(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: locations})
}

// Add handles POST /v1/users/{id}/locations.
func (h *LocationHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req LocationRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	loc, err := h.locations.AddLocation(r.Context(), chi.URLParam(r, "id"), req.input())
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusCreated, core.APIResponse{Data: loc})
}

// Update handles PUT /v1/users/{id}/locations/{locationID}. The location is
// replaced in full.
func (h *LocationHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req LocationRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	loc, err := h.locations.UpdateLocation(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "locationID"), req.input())
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: loc})
}

// Delete handles DELETE /v1/users/{id}/locations/{locationID}.
func (h *LocationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.locations.DeleteLocation(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "locationID")); err != nil {
		core.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Default handles GET /v1/users/{id}/locations/default.
func (h *LocationHandler) Default(w http.ResponseWriter, r *http.Request) {
	loc, err := h.locations.DefaultLocation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: loc})
}
