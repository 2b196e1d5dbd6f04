package directory

import (
	"context"
	"fmt"

	"raincheck/internal/types"
)

func locationNotFound(id string) error {
	return types.NewAppError(types.ErrCodeNotFoundLocation, fmt.Sprintf("location %s not found", id), nil)
}

// LocationInput carries the full field set for creating or replacing a
// location.
type LocationInput struct {
	Name        string
	Address     string
	Latitude    float64
	Longitude   float64
	City        string
	State       string
	Country     string
	CountryCode string
	IsDefault   bool
}

// ListLocations returns clones of all locations saved by a user.
func (d *Directory) ListLocations(ctx context.Context, userID string) ([]*types.UserLocation, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	user, ok := d.users[userID]
	if !ok {
		return nil, userNotFound(userID)
	}

	out := make([]*types.UserLocation, len(user.Locations))
	for i, loc := range user.Locations {
		c := *loc
		out[i] = &c
	}
	return out, nil
}

// AddLocation saves a new location for the user. Marking it default clears
// the flag on every other location, preserving the at-most-one-default
// invariant.
func (d *Directory) AddLocation(ctx context.Context, userID string, in LocationInput) (*types.UserLocation, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	user, ok := d.users[userID]
	if !ok {
		return nil, userNotFound(userID)
	}

	now := d.clock.Now().UTC()

	if in.IsDefault {
		for _, loc := range user.Locations {
			loc.IsDefault = false
		}
	}

	loc := &types.UserLocation{
		ID:          newLocationID(),
		Name:        in.Name,
		Address:     in.Address,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		City:        in.City,
		State:       in.State,
		Country:     in.Country,
		CountryCode: in.CountryCode,
		IsDefault:   in.IsDefault,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	user.Locations = append(user.Locations, loc)
	d.locationOwner[loc.ID] = userID
	user.UpdatedAt = now

	if err := d.persistLocked(ctx); err != nil {
		return nil, err
	}
	c := *loc
	return &c, nil
}

// UpdateLocation replaces all fields of an existing location. Promoting a
// location to default demotes the previous default.
func (d *Directory) UpdateLocation(ctx context.Context, userID, locationID string, in LocationInput) (*types.UserLocation, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	user, ok := d.users[userID]
	if !ok {
		return nil, userNotFound(userID)
	}

	var target *types.UserLocation
	for _, loc := range user.Locations {
		if loc.ID == locationID {
			target = loc
			break
		}
	}
	if target == nil {
		return nil, locationNotFound(locationID)
	}

	if in.IsDefault && !target.IsDefault {
		for _, loc := range user.Locations {
			loc.IsDefault = false
		}
	}

	now := d.clock.Now().UTC()
	target.Name = in.Name
	target.Address = in.Address
	target.Latitude = in.Latitude
	target.Longitude = in.Longitude
	target.City = in.City
	target.State = in.State
	target.Country = in.Country
	target.CountryCode = in.CountryCode
	target.IsDefault = in.IsDefault
	target.UpdatedAt = now
	user.UpdatedAt = now

	if err := d.persistLocked(ctx); err != nil {
		return nil, err
	}
	c := *target
	return &c, nil
}

// DeleteLocation removes a saved location.
func (d *Directory) DeleteLocation(ctx context.Context, userID, locationID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	user, ok := d.users[userID]
	if !ok {
		return userNotFound(userID)
	}

	for i, loc := range user.Locations {
		if loc.ID == locationID {
			user.Locations = append(user.Locations[:i], user.Locations[i+1:]...)
			delete(d.locationOwner, locationID)
			user.UpdatedAt = d.clock.Now().UTC()
			return d.persistLocked(ctx)
		}
	}
	return locationNotFound(locationID)
}

// DefaultLocation returns the user's default location, falling back to the
// first saved location when none is flagged.
func (d *Directory) DefaultLocation(ctx context.Context, userID string) (*types.UserLocation, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	user, ok := d.users[userID]
	if !ok {
		return nil, userNotFound(userID)
	}

	for _, loc := range user.Locations {
		if loc.IsDefault {
			c := *loc
			return &c, nil
		}
	}
	if len(user.Locations) > 0 {
		c := *user.Locations[0]
		return &c, nil
	}
	return nil, types.NewAppError(types.ErrCodeNotFoundLocation, "user has no saved locations", nil)
}
