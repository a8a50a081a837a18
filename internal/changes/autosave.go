package changes

import (
	"go.uber.org/zap"

	"scenariokeeper/internal/logging"
	"scenariokeeper/pkg/scenario"
)

// VerifyingStore persists a document and confirms the write.
type VerifyingStore interface {
	Loader
	SaveAndVerify(path string, doc scenario.Document) (bool, error)
}

// Result describes one autosave attempt.
type Result struct {
	Saved    bool // a write was issued
	Verified bool // the write read back equal
}

// Autosaver issues a verified save only when the document has changed.
type Autosaver struct {
	store    VerifyingStore
	detector *Detector
	logger   *zap.Logger
}

// NewAutosaver builds an Autosaver over store.
func NewAutosaver(store VerifyingStore, logger *zap.Logger) *Autosaver {
	logger = logging.OrNop(logger)
	return &Autosaver{store: store, detector: NewDetector(store, logger), logger: logger}
}

// Detector exposes the change detector used by the gate.
func (a *Autosaver) Detector() *Detector { return a.detector }

// Tick is meant to be polled by the caller's loop. It saves doc only if it
// differs from path.
func (a *Autosaver) Tick(path string, doc scenario.Document) (Result, error) {
	if !a.detector.HasChanged(path, doc) {
		return Result{}, nil
	}
	ok, err := a.store.SaveAndVerify(path, doc)
	if err != nil {
		a.logger.Warn("autosave failed", zap.String("path", path), zap.Error(err))
		return Result{Saved: true}, err
	}
	a.logger.Info("autosaved", zap.String("path", path), zap.Int("records", len(doc)))
	return Result{Saved: true, Verified: ok}, nil
}
