package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"raincheck/internal/config"
)

// DBTX is the minimal interface shared by *pgxpool.Pool and pgx.Tx. The
// Postgres store accepts this so tests can substitute a fake connection.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists the snapshot document in a single-row table. The
// schema is deliberately not queryable by entity; the row holds the same JSON
// document the file store compresses to disk.
type PostgresStore struct {
	db   DBTX
	pool *pgxpool.Pool
}

const createSnapshotTable = `
CREATE TABLE IF NOT EXISTS directory_snapshot (
    id       INTEGER PRIMARY KEY CHECK (id = 1),
    document JSONB NOT NULL,
    saved_at TIMESTAMPTZ NOT NULL
)`

const upsertSnapshot = `
INSERT INTO directory_snapshot (id, document, saved_at)
VALUES (1, $1, $2)
ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document, saved_at = EXCLUDED.saved_at`

const selectSnapshot = `SELECT document FROM directory_snapshot WHERE id = 1`

// NewPostgresStore connects a pool using the store configuration, verifies
// connectivity, and ensures the snapshot table exists.
func NewPostgresStore(ctx context.Context, cfg config.StoreConfig) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing database url: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxConns)
	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.HealthCheckPeriod = cfg.HealthCheckPeriod

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	s := &PostgresStore{db: pool, pool: pool}
	if _, err := s.db.Exec(ctx, createSnapshotTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensuring snapshot table: %w", err)
	}
	return s, nil
}

// NewPostgresStoreWithDB wraps an existing connection. Used by tests.
func NewPostgresStoreWithDB(db DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

// Load implements Store.
func (s *PostgresStore) Load(ctx context.Context) (*Snapshot, error) {
	var document []byte
	err := s.db.QueryRow(ctx, selectSnapshot).Scan(&document)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return emptySnapshot(), nil
		}
		return nil, fmt.Errorf("reading snapshot row: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(document, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if snap.Users == nil {
		snap.Users = emptySnapshot().Users
	}
	return &snap, nil
}

// Replace implements Store. The upsert replaces the whole document in one
// statement, which gives the same atomicity as the file store's rename.
func (s *PostgresStore) Replace(ctx context.Context, snap *Snapshot) error {
	document, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if _, err := s.db.Exec(ctx, upsertSnapshot, document, snap.SavedAt); err != nil {
		return fmt.Errorf("writing snapshot row: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// Name implements core.HealthProbe.
func (s *PostgresStore) Name() string {
	return "store"
}

// Check implements core.HealthProbe.
func (s *PostgresStore) Check(ctx context.Context) error {
	if s.pool == nil {
		return nil
	}
	return s.pool.Ping(ctx)
}
