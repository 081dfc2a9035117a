// Package sqlite persists ledger snapshots in a local SQLite file, one row
// per scenario. It is the default backend: a scenario ledger is small enough
// that whole-snapshot writes stay cheap, and a single file survives restarts.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tinoosan/cashflow/internal/cashflow"
	"github.com/tinoosan/cashflow/internal/errs"
)

// Store wraps a database/sql handle over a SQLite file.
type Store struct {
	db *sql.DB
}

// Open creates the database file (and its directory) if needed, runs the
// embedded migrations and returns a ready store.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying handle.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ready pings the database.
func (s *Store) Ready(ctx context.Context) error { return s.db.PingContext(ctx) }

// Ledger loads the snapshot for a scenario. A row that fails to decode is
// reported as ErrCorruptSnapshot so the engine can regenerate it.
func (s *Store) Ledger(ctx context.Context, scenario string) (cashflow.Ledger, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT snapshot FROM ledgers WHERE scenario = ?`, scenario,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
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
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO ledgers (scenario, snapshot, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(scenario) DO UPDATE SET
			snapshot = excluded.snapshot,
			updated_at = excluded.updated_at
	`, l.Scenario, raw, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
