// Package blob is the entry point to the backup store drivers. Packages outside
// this tree depend on blob.Store and never import a driver directly.
package blob

import (
	"scenariokeeper/internal/blob/core"
)

type (
	// Driver identifies a storage backend.
	Driver = core.Driver
	// PutOptions configures a write.
	PutOptions = core.PutOptions
	// Info describes a stored object.
	Info = core.Info
	// Store is the create-only object store contract.
	Store = core.Store
)

const (
	DriverFilesystem = core.DriverFilesystem
	DriverS3         = core.DriverS3
	DriverMemory     = core.DriverMemory
)

var (
	ErrExists     = core.ErrExists
	ErrNotFound   = core.ErrNotFound
	ErrInvalidKey = core.ErrInvalidKey
)
