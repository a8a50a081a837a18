// Package sqlite mirrors documents into a SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"scenariokeeper/internal/mirror/core"
	"scenariokeeper/pkg/scenario"
)

const schema = `CREATE TABLE IF NOT EXISTS documents (
	set_id TEXT PRIMARY KEY,
	payload BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

// Store is a SQLite-backed mirror.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

// Open opens or creates the database at path and ensures the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("sqlite mirror: empty path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create dir: %w", err)
		}
	}
	db, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Driver() core.Driver { return core.DriverSQLite }

// Publish replaces the row of setID with doc.
func (s *Store) Publish(ctx context.Context, setID string, doc scenario.Document) error {
	row, err := core.NewRow(setID, doc, s.now())
	if err != nil {
		return err
	}
	_, err = s.db.NamedExecContext(ctx, `INSERT INTO documents(set_id, payload, updated_at)
		VALUES(:set_id, :payload, :updated_at)
		ON CONFLICT(set_id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`, row)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", setID, err)
	}
	return nil
}

func (s *Store) Fetch(ctx context.Context, setID string) (core.Snapshot, error) {
	var row core.Row
	err := s.db.GetContext(ctx, &row, `SELECT set_id, payload, updated_at FROM documents WHERE set_id = ?`, setID)
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

func (s *Store) Close() error { return s.db.Close() }
