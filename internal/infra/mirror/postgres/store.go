// Package postgres mirrors documents into a Postgres table through pgx.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	"github.com/jmoiron/sqlx"

	"scenariokeeper/internal/mirror/core"
	"scenariokeeper/pkg/scenario"
)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/scenariokeeper?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store is a Postgres-backed mirror.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

// Open connects using dsn (falling back to a local default), pings the server
// and ensures the documents table.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	raw, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db := sqlx.NewDb(raw, defaultDriver)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := ensureTable(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, now: time.Now}, nil
}

func ensureTable(ctx context.Context, db *sqlx.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS documents (
		set_id TEXT PRIMARY KEY,
		payload JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure documents table: %w", err)
	}
	return nil
}

func (s *Store) Driver() core.Driver { return core.DriverPostgres }

// Publish upserts the row of setID inside a transaction.
func (s *Store) Publish(ctx context.Context, setID string, doc scenario.Document) error {
	row, err := core.NewRow(setID, doc, s.now())
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.NamedExecContext(ctx, `INSERT INTO documents(set_id,payload,updated_at) VALUES(:set_id,:payload,:updated_at) ON CONFLICT(set_id) DO UPDATE SET payload=EXCLUDED.payload, updated_at=EXCLUDED.updated_at`, row); err != nil {
		return fmt.Errorf("upsert %s: %w", setID, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

func (s *Store) Fetch(ctx context.Context, setID string) (core.Snapshot, error) {
	var row core.Row
	err := s.db.GetContext(ctx, &row, `SELECT set_id, payload, updated_at FROM documents WHERE set_id = $1`, setID)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Snapshot{}, fmt.Errorf("%w: %s", core.ErrNotFound, setID)
	}
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("select %s: %w", setID, err)
	}
	return row.Snapshot()
}

func (s *Store) List(ctx context.Context) ([]string, error) {
	var ids []string
	if err := s.db.SelectContext(ctx, &ids, `SELECT set_id FROM documents ORDER BY set_id`); err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	return ids, nil
}

// DB exposes the underlying handle for integration hooks.
func (s *Store) DB() *sqlx.DB { return s.db }

func (s *Store) Close() error { return s.db.Close() }

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
