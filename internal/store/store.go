// Package store persists the user directory as a single snapshot document.
// Every mutation in the directory replaces the whole snapshot; the store never
// needs incremental queries, which keeps the file and Postgres backends
// interchangeable behind one small interface.
package store

import (
	"context"
	"time"

	"raincheck/internal/types"
)

// snapshotVersion is the current on-disk format version. Bump it when the
// snapshot layout changes incompatibly.
const snapshotVersion = 1

// Snapshot is the full persisted state of the user directory.
type Snapshot struct {
	Version int                           `json:"version"`
	SavedAt time.Time                     `json:"saved_at"`
	Users   map[string]*types.UserProfile `json:"users"`
}

// NewSnapshot builds a versioned snapshot of the given users.
func NewSnapshot(users map[string]*types.UserProfile, savedAt time.Time) *Snapshot {
	return &Snapshot{
		Version: snapshotVersion,
		SavedAt: savedAt,
		Users:   users,
	}
}

// Store loads and replaces directory snapshots. Replace must be atomic: a
// reader never observes a partially written snapshot, and a crash mid-write
// leaves the previous snapshot intact.
type Store interface {
	// Load returns the most recent snapshot, or an empty (non-nil) snapshot
	// when none has been persisted yet.
	Load(ctx context.Context) (*Snapshot, error)

	// Replace atomically persists snap as the new current snapshot.
	Replace(ctx context.Context, snap *Snapshot) error

	// Close releases any held resources.
	Close() error
}

// emptySnapshot returns a fresh snapshot with no users, used when no
// persisted state exists yet.
func emptySnapshot() *Snapshot {
	return &Snapshot{
		Version: snapshotVersion,
		Users:   map[string]*types.UserProfile{},
	}
}
