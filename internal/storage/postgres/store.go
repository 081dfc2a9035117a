package postgres

// Package postgres provides a pgx-backed snapshot store for deployments that
// already run Postgres. Snapshots are stored as one jsonb row per scenario.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tinoosan/cashflow/internal/cashflow"
	"github.com/tinoosan/cashflow/internal/errs"
)

// Store holds a pgx connection pool. All methods are safe for concurrent use.
type Store struct {
	pool *pgxpool.Pool
}

// Open establishes a pgx pool using the provided connection string and
// makes sure the snapshot table exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, `
		create table if not exists ledgers (
			scenario   text primary key,
			snapshot   jsonb not null,
			updated_at timestamptz not null default now()
		)
	`); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ready pings the pool to verify connectivity.
func (s *Store) Ready(ctx context.Context) error { return s.pool.Ping(ctx) }

// Ledger loads the snapshot for a scenario. Undecodable rows surface as
// ErrCorruptSnapshot so the engine regenerates them.
func (s *Store) Ledger(ctx context.Context, scenario string) (cashflow.Ledger, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`select snapshot from ledgers where scenario = $1`, scenario,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return cashflow.Ledger{}, errs.ErrNotFound
	}
	if err != nil {
		return cashflow.Ledger{}, fmt.Errorf("load snapshot: %w", err)
	}
	var l cashflow.Ledger
	if err := json.Unmarshal(raw, &l); err != nil {
		return cashflow.Ledger{}, fmt.Errorf("%w: %v", errs.ErrCorruptSnapshot, err)
	}
	return l, nil
}

// SaveLedger upserts the snapshot for the ledger's scenario.
func (s *Store) SaveLedger(ctx context.Context, l cashflow.Ledger) error {
	if l.Scenario == "" {
		return errs.ErrInvalid
	}
	raw, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if _, err := s.pool.Exec(ctx, `
		insert into ledgers (scenario, snapshot, updated_at)
		values ($1, $2, now())
		on conflict (scenario) do update set
			snapshot = excluded.snapshot,
			updated_at = excluded.updated_at
	`, l.Scenario, raw); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
