// Package session binds one document set to its file and exposes the
// operations a presentation layer calls between Load and the next Save.
package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"go.uber.org/zap"

	"scenariokeeper/internal/backup"
	"scenariokeeper/internal/changes"
	"scenariokeeper/internal/document"
	"scenariokeeper/internal/logging"
	"scenariokeeper/internal/mirror"
	"scenariokeeper/pkg/scenario"
)

var (
	ErrNoBackups = errors.New("session: backups not configured")
	ErrMirror    = errors.New("session: mirror publish failed")
)

// Options configures Open. Store and Editor default to fresh instances and
// Mirror defaults to mirror.Nop.
type Options struct {
	SetID   string
	Path    string
	Store   *document.Store
	Editor  *scenario.Editor
	Backups *backup.Manager
	Mirror  mirror.Mirror
	Logger  *zap.Logger
}

// Session owns the in-memory document of one set. It is not safe for
// concurrent use.
type Session struct {
	setID     string
	path      string
	doc       scenario.Document
	store     *document.Store
	autosaver *changes.Autosaver
	editor    *scenario.Editor
	backups   *backup.Manager
	mirror    mirror.Mirror
	logger    *zap.Logger
}

// Open loads the document at opts.Path. A malformed file still yields a usable
// session holding an empty document; the *document.ParseError is returned
// alongside it.
func Open(ctx context.Context, opts Options) (*Session, error) {
	if opts.SetID == "" || opts.Path == "" {
		return nil, errors.New("session: set id and path are required")
	}
	logger := logging.OrNop(opts.Logger).With(zap.String("set", opts.SetID))
	store := opts.Store
	if store == nil {
		store = document.NewStore(document.WithLogger(logger))
	}
	editor := opts.Editor
	if editor == nil {
		editor = scenario.NewEditor()
	}
	m := opts.Mirror
	if m == nil {
		m = mirror.Nop{}
	}
	s := &Session{
		setID:     opts.SetID,
		path:      opts.Path,
		store:     store,
		autosaver: changes.NewAutosaver(store, logger),
		editor:    editor,
		backups:   opts.Backups,
		mirror:    m,
		logger:    logger,
	}
	err := s.Reload()
	return s, err
}

func (s *Session) SetID() string { return s.setID }

func (s *Session) Path() string { return s.path }

// Document returns the live in-memory document; edits to it are picked up by
// the next Autosave or Save.
func (s *Session) Document() scenario.Document { return s.doc }

func (s *Session) Editor() *scenario.Editor { return s.editor }

// Reload replaces the in-memory document with the file content.
func (s *Session) Reload() error {
	doc, err := s.store.Load(s.path)
	s.doc = doc
	return err
}

// HasChanged reports whether the in-memory document differs from the file.
func (s *Session) HasChanged() bool {
	return s.autosaver.Detector().HasChanged(s.path, s.doc)
}

// Autosave writes the document only when it changed, then publishes it to
// the mirror once verified.
func (s *Session) Autosave(ctx context.Context) (changes.Result, error) {
	res, err := s.autosaver.Tick(s.path, s.doc)
	if err != nil || !res.Verified {
		return res, err
	}
	return res, s.publish(ctx)
}

// Save writes and verifies the document unconditionally.
func (s *Session) Save(ctx context.Context) (bool, error) {
	ok, err := s.store.SaveAndVerify(s.path, s.doc)
	if err != nil {
		return ok, err
	}
	s.logger.Info("document saved", zap.String("path", s.path), zap.Int("records", len(s.doc)))
	return ok, s.publish(ctx)
}

func (s *Session) publish(ctx context.Context) error {
	if err := s.mirror.Publish(ctx, s.setID, s.doc); err != nil {
		return fmt.Errorf("%w: %w", ErrMirror, err)
	}
	return nil
}

// Backup snapshots the file as it is on disk, not the in-memory document.
func (s *Session) Backup(ctx context.Context) (string, error) {
	if s.backups == nil {
		return "", ErrNoBackups
	}
	return s.backups.CreateBackup(ctx, s.setID, s.path)
}

// Backups lists the set's backups, most recent first.
func (s *Session) Backups(ctx context.Context) ([]backup.Backup, error) {
	if s.backups == nil {
		return nil, ErrNoBackups
	}
	return s.backups.ListBackups(ctx, s.setID)
}

// Restore overwrites the file with the named backup and reloads the document.
// Unsaved in-memory edits are discarded.
func (s *Session) Restore(ctx context.Context, name string) error {
	if s.backups == nil {
		return ErrNoBackups
	}
	if err := s.backups.RestoreBackup(ctx, name, s.path); err != nil {
		return err
	}
	return s.Reload()
}

// Diagnosis summarises the state of the document file.
type Diagnosis struct {
	SetID         string
	Path          string
	Exists        bool
	Size          int64
	ModTime       time.Time
	DiskRecords   int
	MemoryRecords int
	Changed       bool
	LoadError     error
}

// Diagnose inspects the file without touching the in-memory document.
func (s *Session) Diagnose() Diagnosis {
	d := Diagnosis{SetID: s.setID, Path: s.path, MemoryRecords: len(s.doc)}
	st, err := os.Stat(s.path)
	switch {
	case err == nil:
		d.Exists, d.Size, d.ModTime = true, st.Size(), st.ModTime()
	case !errors.Is(err, fs.ErrNotExist):
		d.LoadError = err
	}
	disk, err := s.store.Load(s.path)
	if err != nil && d.LoadError == nil {
		d.LoadError = err
	}
	d.DiskRecords = len(disk)
	d.Changed = !scenario.Equal(s.doc, disk)
	return d
}
