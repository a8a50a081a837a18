package blob

import (
	"time"

	memorystore "scenariokeeper/internal/infra/blob/memory"
)

// NewMemory returns an in-memory Store.
func NewMemory() Store { return memorystore.New() }

// NewMemoryWithClock returns an in-memory Store stamping objects with now().
func NewMemoryWithClock(now func() time.Time) Store { return memorystore.NewWithClock(now) }
