// Package mirror publishes verified documents to a SQL read model.
package mirror

import (
	"context"
	"errors"
	"fmt"

	"scenariokeeper/internal/infra/mirror/postgres"
	"scenariokeeper/internal/infra/mirror/sqlite"
	"scenariokeeper/internal/mirror/core"
	"scenariokeeper/pkg/scenario"
)

type (
	// Mirror is the read-model contract.
	Mirror = core.Mirror
	// Snapshot is a published document set.
	Snapshot = core.Snapshot
	// Driver names a backend.
	Driver = core.Driver
)

const (
	DriverNone     = core.DriverNone
	DriverSQLite   = core.DriverSQLite
	DriverPostgres = core.DriverPostgres
)

var (
	ErrNotFound      = core.ErrNotFound
	ErrUnknownDriver = errors.New("mirror: unknown driver")
)

// Config selects a backend. DSN is a file path for sqlite and a connection
// URL for postgres.
type Config struct {
	Driver Driver
	DSN    string
}

// Open returns the configured mirror. An empty driver means none.
func Open(ctx context.Context, cfg Config) (Mirror, error) {
	switch cfg.Driver {
	case "", DriverNone:
		return Nop{}, nil
	case DriverSQLite:
		return sqlite.Open(ctx, cfg.DSN)
	case DriverPostgres:
		return postgres.Open(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, cfg.Driver)
	}
}

// Nop accepts publishes and never has anything to fetch.
type Nop struct{}

func (Nop) Publish(context.Context, string, scenario.Document) error { return nil }

func (Nop) Fetch(_ context.Context, setID string) (Snapshot, error) {
	return Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, setID)
}

func (Nop) List(context.Context) ([]string, error) { return nil, nil }

func (Nop) Driver() Driver { return DriverNone }

func (Nop) Close() error { return nil }
