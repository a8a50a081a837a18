// Package document loads and persists scenario documents as JSON files.
package document

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"scenariokeeper/internal/atomicfile"
	"scenariokeeper/internal/logging"
	"scenariokeeper/internal/metrics"
	"scenariokeeper/pkg/scenario"
)

// Store reads and writes whole documents. It keeps no document state and is
// safe to share between document sets.
type Store struct {
	logger  *zap.Logger
	metrics metrics.Recorder
	// afterSave runs between the write and the verification read.
	afterSave func(path string)
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(s *Store) { s.logger = logging.OrNop(l) } }

// WithMetrics sets the operation recorder.
func WithMetrics(r metrics.Recorder) Option { return func(s *Store) { s.metrics = metrics.OrNop(r) } }

// NewStore constructs a Store.
func NewStore(opts ...Option) *Store {
	s := &Store{logger: zap.NewNop(), metrics: metrics.Nop{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the document at path. A missing file yields an empty document and
// no error. A malformed file yields an empty document and a *ParseError; other
// read failures yield an empty document and the wrapped error. The returned
// document is never nil.
func (s *Store) Load(path string) (scenario.Document, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return scenario.Document{}, nil
	}
	if err != nil {
		s.logger.Warn("document unreadable", zap.String("path", path), zap.Error(err))
		return scenario.Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := Decode(data)
	if err != nil {
		s.logger.Warn("document malformed, continuing with an empty document", zap.String("path", path), zap.Error(err))
		return scenario.Document{}, &ParseError{Path: path, Err: err}
	}
	return doc, nil
}

// Save atomically replaces the file at path with doc.
func (s *Store) Save(path string, doc scenario.Document) (err error) {
	defer metrics.Track(s.metrics, metrics.OpDocumentSave)(&err)
	data, err := Encode(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := atomicfile.WriteBytes(path, data); err != nil {
		s.logger.Warn("document save failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("save %s: %w", path, err)
	}
	s.logger.Debug("document saved", zap.String("path", path), zap.Int("records", len(doc)), zap.Int("bytes", len(data)))
	return nil
}

// SaveAndVerify saves doc and immediately re-loads path, returning true only
// when the re-read document is structurally equal to doc. A false result comes
// with either the save error or ErrWriteVerifyFailed.
func (s *Store) SaveAndVerify(path string, doc scenario.Document) (ok bool, err error) {
	defer metrics.Track(s.metrics, metrics.OpDocumentVerify)(&err)
	ok, err = WriteVerify(doc,
		func(d scenario.Document) error {
			if err := s.Save(path, d); err != nil {
				return err
			}
			if s.afterSave != nil {
				s.afterSave(path)
			}
			return nil
		},
		func() (scenario.Document, error) { return s.Load(path) },
		scenario.Equal,
	)
	if err != nil && errors.Is(err, ErrWriteVerifyFailed) {
		s.logger.Warn("document verification failed", zap.String("path", path), zap.Error(err))
	}
	return ok, err
}
