// Package directory holds the in-memory user registry: users together with
// their saved locations and threshold alerts. All reads and writes go through
// a single lock, and every mutation persists the full snapshot before the
// lock is released, so the persisted state always matches memory.
package directory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"raincheck/internal/alerts"
	"raincheck/internal/store"
	"raincheck/internal/types"
)

// Directory is the root aggregate service for users, locations, and alerts.
// Callers always receive deep clones; nothing outside the lock can alias
// directory state.
type Directory struct {
	mu    sync.RWMutex
	users map[string]*types.UserProfile

	// Secondary indexes mapping entity id to owning user id. Kept strictly
	// consistent with the users map; import uses them to reject id clashes
	// across users.
	locationOwner map[string]string
	alertOwner    map[string]string

	store     store.Store
	clock     clockwork.Clock
	evaluator *alerts.Evaluator
	logger    *slog.Logger
}

// New creates an empty Directory. Call Load before serving requests.
func New(st store.Store, clock clockwork.Clock, logger *slog.Logger) *Directory {
	return &Directory{
		users:         map[string]*types.UserProfile{},
		locationOwner: map[string]string{},
		alertOwner:    map[string]string{},
		store:         st,
		clock:         clock,
		evaluator:     alerts.NewEvaluator(clock),
		logger:        logger,
	}
}

// Load replaces directory state with the persisted snapshot and rebuilds the
// secondary indexes.
func (d *Directory) Load(ctx context.Context) error {
	snap, err := d.store.Load(ctx)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalStore, "loading directory snapshot", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.users = map[string]*types.UserProfile{}
	d.locationOwner = map[string]string{}
	d.alertOwner = map[string]string{}

	for id, user := range snap.Users {
		d.users[id] = user.Clone()
		for _, loc := range user.Locations {
			d.locationOwner[loc.ID] = id
		}
		for _, alert := range user.Alerts {
			d.alertOwner[alert.ID] = id
		}
	}

	d.logger.Info("directory loaded", slog.Int("users", len(d.users)))
	return nil
}

// persistLocked writes the full snapshot. Must be called with the write lock
// held.
func (d *Directory) persistLocked(ctx context.Context) error {
	snap := store.NewSnapshot(d.users, d.clock.Now().UTC())
	if err := d.store.Replace(ctx, snap); err != nil {
		return types.NewAppError(types.ErrCodeInternalStore, "persisting directory snapshot", err)
	}
	return nil
}

func newUserID() string     { return "usr_" + uuid.NewString() }
func newLocationID() string { return "loc_" + uuid.NewString() }
func newAlertID() string    { return "alert_" + uuid.NewString() }

func userNotFound(id string) error {
	return types.NewAppError(types.ErrCodeNotFoundUser, fmt.Sprintf("user %s not found", id), nil)
}

// CreateUserInput carries the fields for a new user. Nil preferences fall
// back to the defaults.
type CreateUserInput struct {
	Name        string
	Email       string
	Preferences *types.UserPreferences
}

// CreateUser registers a new user and persists the snapshot.
func (d *Directory) CreateUser(ctx context.Context, in CreateUserInput) (*types.UserProfile, error) {
	now := d.clock.Now().UTC()

	prefs := types.DefaultPreferences()
	if in.Preferences != nil {
		prefs = *in.Preferences
	}

	user := &types.UserProfile{
		ID:          newUserID(),
		Name:        in.Name,
		Email:       in.Email,
		Preferences: prefs,
		Locations:   []*types.UserLocation{},
		Alerts:      []*types.WeatherAlert{},
		CreatedAt:   now,
		UpdatedAt:   now,
		LastLogin:   &now,
		IsActive:    true,
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.users[user.ID] = user
	if err := d.persistLocked(ctx); err != nil {
		return nil, err
	}
	return user.Clone(), nil
}

// GetUser returns the user and records the access as a login.
func (d *Directory) GetUser(ctx context.Context, userID string) (*types.UserProfile, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	user, ok := d.users[userID]
	if !ok {
		return nil, userNotFound(userID)
	}

	now := d.clock.Now().UTC()
	user.LastLogin = &now
	if err := d.persistLocked(ctx); err != nil {
		return nil, err
	}
	return user.Clone(), nil
}

// UpdateUserInput patches a user. Nil fields are left unchanged.
type UpdateUserInput struct {
	Name        *string
	Email       *string
	Preferences *types.UserPreferences
}

// UpdateUser applies a partial update to the user profile.
func (d *Directory) UpdateUser(ctx context.Context, userID string, in UpdateUserInput) (*types.UserProfile, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	user, ok := d.users[userID]
	if !ok {
		return nil, userNotFound(userID)
	}

	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.Preferences != nil {
		user.Preferences = *in.Preferences
	}
	user.UpdatedAt = d.clock.Now().UTC()

	if err := d.persistLocked(ctx); err != nil {
		return nil, err
	}
	return user.Clone(), nil
}

// DeleteUser removes the user along with all owned locations and alerts.
func (d *Directory) DeleteUser(ctx context.Context, userID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	user, ok := d.users[userID]
	if !ok {
		return userNotFound(userID)
	}

	for _, loc := range user.Locations {
		delete(d.locationOwner, loc.ID)
	}
	for _, alert := range user.Alerts {
		delete(d.alertOwner, alert.ID)
	}
	delete(d.users, userID)

	return d.persistLocked(ctx)
}

// Stats returns aggregate counts for a user.
func (d *Directory) Stats(ctx context.Context, userID string) (*types.UserStats, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	user, ok := d.users[userID]
	if !ok {
		return nil, userNotFound(userID)
	}

	active := 0
	for _, alert := range user.Alerts {
		if alert.IsActive {
			active++
		}
	}

	stats := &types.UserStats{
		TotalAlerts:    len(user.Alerts),
		ActiveAlerts:   active,
		TotalLocations: len(user.Locations),
		MemberSince:    user.CreatedAt,
		AccountActive:  user.IsActive,
	}
	if user.LastLogin != nil {
		t := *user.LastLogin
		stats.LastLogin = &t
	}
	return stats, nil
}

// Preferences returns the user's preference set.
func (d *Directory) Preferences(ctx context.Context, userID string) (*types.UserPreferences, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	user, ok := d.users[userID]
	if !ok {
		return nil, userNotFound(userID)
	}
	prefs := user.Preferences
	return &prefs, nil
}

// UpdatePreferences replaces the user's preference set wholesale.
func (d *Directory) UpdatePreferences(ctx context.Context, userID string, prefs types.UserPreferences) (*types.UserPreferences, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	user, ok := d.users[userID]
	if !ok {
		return nil, userNotFound(userID)
	}

	user.Preferences = prefs
	user.UpdatedAt = d.clock.Now().UTC()

	if err := d.persistLocked(ctx); err != nil {
		return nil, err
	}
	out := user.Preferences
	return &out, nil
}

// Export produces a portable copy of the full profile.
func (d *Directory) Export(ctx context.Context, userID string) (*types.UserExport, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	user, ok := d.users[userID]
	if !ok {
		return nil, userNotFound(userID)
	}

	return &types.UserExport{
		Profile:    user.Clone(),
		ExportedAt: d.clock.Now().UTC(),
	}, nil
}

// Import validates an exported profile in full and, only if everything
// checks out, installs it and persists. A profile with the same id replaces
// the existing one; a partially valid payload changes nothing.
func (d *Directory) Import(ctx context.Context, export *types.UserExport) (*types.UserProfile, error) {
	if err := validateExport(export); err != nil {
		return nil, err
	}

	incoming := export.Profile.Clone()

	d.mu.Lock()
	defer d.mu.Unlock()

	// Reject ids that already belong to a different user.
	for _, loc := range incoming.Locations {
		if owner, ok := d.locationOwner[loc.ID]; ok && owner != incoming.ID {
			return nil, types.NewAppErrorWithDetails(
				types.ErrCodeImportInvalidPayload,
				"location id already belongs to another user",
				nil,
				map[string]any{"location_id": loc.ID},
			)
		}
	}
	for _, alert := range incoming.Alerts {
		if owner, ok := d.alertOwner[alert.ID]; ok && owner != incoming.ID {
			return nil, types.NewAppErrorWithDetails(
				types.ErrCodeImportInvalidPayload,
				"alert id already belongs to another user",
				nil,
				map[string]any{"alert_id": alert.ID},
			)
		}
	}

	// Drop index entries for the profile being replaced, if any.
	if existing, ok := d.users[incoming.ID]; ok {
		for _, loc := range existing.Locations {
			delete(d.locationOwner, loc.ID)
		}
		for _, alert := range existing.Alerts {
			delete(d.alertOwner, alert.ID)
		}
	}

	d.users[incoming.ID] = incoming
	for _, loc := range incoming.Locations {
		d.locationOwner[loc.ID] = incoming.ID
	}
	for _, alert := range incoming.Alerts {
		d.alertOwner[alert.ID] = incoming.ID
	}

	if err := d.persistLocked(ctx); err != nil {
		return nil, err
	}
	return incoming.Clone(), nil
}

// validateExport checks the whole payload before any state changes.
func validateExport(export *types.UserExport) error {
	invalid := func(msg string, details map[string]any) error {
		return types.NewAppErrorWithDetails(types.ErrCodeImportInvalidPayload, msg, nil, details)
	}

	if export == nil || export.Profile == nil {
		return invalid("export payload must include a profile", nil)
	}
	p := export.Profile
	if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Email) == "" {
		return invalid("profile id, name, and email are required", nil)
	}

	defaults := 0
	seenLocations := map[string]struct{}{}
	for _, loc := range p.Locations {
		if loc == nil || strings.TrimSpace(loc.ID) == "" {
			return invalid("every location needs an id", nil)
		}
		if _, dup := seenLocations[loc.ID]; dup {
			return invalid("duplicate location id", map[string]any{"location_id": loc.ID})
		}
		seenLocations[loc.ID] = struct{}{}
		if loc.IsDefault {
			defaults++
		}
	}
	if defaults > 1 {
		return invalid("at most one location may be the default", nil)
	}

	seenAlerts := map[string]struct{}{}
	for _, alert := range p.Alerts {
		if alert == nil || strings.TrimSpace(alert.ID) == "" {
			return invalid("every alert needs an id", nil)
		}
		if _, dup := seenAlerts[alert.ID]; dup {
			return invalid("duplicate alert id", map[string]any{"alert_id": alert.ID})
		}
		seenAlerts[alert.ID] = struct{}{}
		if alert.UserID != p.ID {
			return invalid("alert does not belong to the imported profile", map[string]any{"alert_id": alert.ID})
		}
		if !alert.AlertType.IsValid() {
			return invalid("unknown alert type", map[string]any{"alert_id": alert.ID, "alert_type": string(alert.AlertType)})
		}
		if !alert.Condition.IsValid() {
			return invalid("unknown alert condition", map[string]any{"alert_id": alert.ID, "condition": string(alert.Condition)})
		}
	}

	return nil
}
