// Package core defines the contract shared by the document mirror drivers.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"scenariokeeper/internal/document"
	"scenariokeeper/pkg/scenario"
)

// Driver identifies a mirror backend.
type Driver string

const (
	DriverNone     Driver = "none"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// ErrNotFound is returned by Fetch for a set that was never published.
var ErrNotFound = errors.New("mirror: set not published")

// Snapshot is the latest published copy of a document set.
type Snapshot struct {
	SetID     string
	Document  scenario.Document
	UpdatedAt time.Time
}

// Mirror keeps one row per document set holding its latest verified content.
type Mirror interface {
	Publish(ctx context.Context, setID string, doc scenario.Document) error
	Fetch(ctx context.Context, setID string) (Snapshot, error)
	List(ctx context.Context) ([]string, error)
	Driver() Driver
	Close() error
}

// Row is the persisted form shared by the SQL drivers.
type Row struct {
	SetID     string    `db:"set_id"`
	Payload   []byte    `db:"payload"`
	UpdatedAt time.Time `db:"updated_at"`
}

// NewRow encodes doc for storage.
func NewRow(setID string, doc scenario.Document, at time.Time) (Row, error) {
	if setID == "" {
		return Row{}, errors.New("mirror: empty set id")
	}
	payload, err := document.Encode(doc)
	if err != nil {
		return Row{}, fmt.Errorf("encode %s: %w", setID, err)
	}
	return Row{SetID: setID, Payload: payload, UpdatedAt: at.UTC()}, nil
}

// Snapshot decodes the row payload.
func (r Row) Snapshot() (Snapshot, error) {
	doc, err := document.Decode(r.Payload)
	if err != nil {
		return Snapshot{}, fmt.Errorf("decode %s: %w", r.SetID, err)
	}
	return Snapshot{SetID: r.SetID, Document: doc, UpdatedAt: r.UpdatedAt.UTC()}, nil
}
