// Package changes decides whether an in-memory document diverges from its file.
package changes

import (
	"go.uber.org/zap"

	"scenariokeeper/internal/logging"
	"scenariokeeper/pkg/scenario"
)

// Loader reads the persisted form of a document.
type Loader interface {
	Load(path string) (scenario.Document, error)
}

// Detector compares documents against their on-disk snapshot.
type Detector struct {
	loader Loader
	logger *zap.Logger
}

// NewDetector returns a Detector reading through loader.
func NewDetector(loader Loader, logger *zap.Logger) *Detector {
	return &Detector{loader: loader, logger: logging.OrNop(logger)}
}

// HasChanged re-reads path and reports whether doc differs from it. An
// unreadable or malformed file counts as an empty document, so any non-empty
// doc is then reported as changed.
func (d *Detector) HasChanged(path string, doc scenario.Document) bool {
	disk, err := d.loader.Load(path)
	if err != nil || disk == nil {
		disk = scenario.Document{}
	}
	changed := !scenario.Equal(doc, disk)
	d.logger.Debug("change check", zap.String("path", path), zap.Bool("changed", changed))
	return changed
}
