// Package backup snapshots document files into a blob store and restores them.
package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"scenariokeeper/internal/atomicfile"
	"scenariokeeper/internal/blob"
	"scenariokeeper/internal/logging"
	"scenariokeeper/internal/metrics"
)

const (
	// TimestampLayout is the second-resolution stamp embedded in backup names.
	TimestampLayout = "2006-01-02_15-04-05"
	nameInfix       = "_scenarios_"
	nameExt         = ".json"
	// maxSuffix bounds the _2.._N retries used when a name is already taken.
	maxSuffix = 99
)

var (
	ErrSourceMissing = errors.New("backup: source document missing")
	ErrBackupMissing = errors.New("backup: backup not found")
	ErrInvalidSet    = errors.New("backup: empty set id")
)

// Backup describes one stored copy.
type Backup struct {
	Name      string
	Size      int64
	CreatedAt time.Time
}

// Manager creates, lists and restores backups of document files.
type Manager struct {
	store   blob.Store
	now     func() time.Time
	logger  *zap.Logger
	metrics metrics.Recorder
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source used for backup names.
func WithClock(now func() time.Time) Option { return func(m *Manager) { m.now = now } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(m *Manager) { m.logger = logging.OrNop(l) } }

// WithMetrics sets the operation recorder.
func WithMetrics(r metrics.Recorder) Option { return func(m *Manager) { m.metrics = metrics.OrNop(r) } }

// NewManager returns a Manager writing into store.
func NewManager(store blob.Store, opts ...Option) *Manager {
	m := &Manager{store: store, now: time.Now, logger: zap.NewNop(), metrics: metrics.Nop{}}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Prefix returns the name prefix shared by every backup of setID.
func Prefix(setID string) string {
	return strings.ReplaceAll(strings.TrimSpace(setID), " ", "_") + nameInfix
}

// Name returns the backup name for setID taken at t.
func Name(setID string, t time.Time) string {
	return Prefix(setID) + t.Format(TimestampLayout) + nameExt
}

// CreateBackup copies sourcePath into the store under a name derived from
// setID and the current second. A taken name gets a _2, _3, ... suffix.
func (m *Manager) CreateBackup(ctx context.Context, setID, sourcePath string) (name string, err error) {
	defer metrics.Track(m.metrics, metrics.OpBackupCreate)(&err)
	if strings.TrimSpace(setID) == "" {
		return "", ErrInvalidSet
	}
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			m.logger.Warn("backup skipped, source missing", zap.String("set", setID), zap.String("path", sourcePath))
			return "", fmt.Errorf("%w: %s", ErrSourceMissing, sourcePath)
		}
		return "", fmt.Errorf("read %s: %w", sourcePath, err)
	}
	base := Name(setID, m.now())
	opID := uuid.NewString()
	for i := 1; i <= maxSuffix; i++ {
		key := base
		if i > 1 {
			key = fmt.Sprintf("%s_%d%s", strings.TrimSuffix(base, nameExt), i, nameExt)
		}
		info, err := m.store.Put(ctx, key, bytes.NewReader(data), blob.PutOptions{ContentType: "application/json"})
		if errors.Is(err, blob.ErrExists) {
			continue
		}
		if err != nil {
			m.logger.Warn("backup failed", zap.String("op_id", opID), zap.String("set", setID), zap.String("backup", key), zap.Error(err))
			return "", fmt.Errorf("store backup %s: %w", key, err)
		}
		m.logger.Info("backup created", zap.String("op_id", opID), zap.String("set", setID),
			zap.String("backup", info.Key), zap.Int64("bytes", info.Size), zap.String("driver", string(m.store.Driver())))
		return info.Key, nil
	}
	return "", fmt.Errorf("backup name %s: %w after %d attempts", base, blob.ErrExists, maxSuffix)
}

// ListBackups returns the backups of setID, most recently modified first.
// Entries with equal modification times are ordered by name, descending.
func (m *Manager) ListBackups(ctx context.Context, setID string) ([]Backup, error) {
	if strings.TrimSpace(setID) == "" {
		return nil, ErrInvalidSet
	}
	infos, err := m.store.List(ctx, Prefix(setID))
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	out := make([]Backup, 0, len(infos))
	for _, info := range infos {
		if !strings.HasSuffix(info.Key, nameExt) {
			continue
		}
		out = append(out, Backup{Name: info.Key, Size: info.Size, CreatedAt: info.LastModified})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Name > out[j].Name
	})
	return out, nil
}

// RestoreBackup replaces destPath with the content of the named backup. The
// destination is swapped atomically; no parsing or verification happens.
func (m *Manager) RestoreBackup(ctx context.Context, name, destPath string) (err error) {
	defer metrics.Track(m.metrics, metrics.OpBackupRestore)(&err)
	_, rc, err := m.store.Get(ctx, name)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) || errors.Is(err, blob.ErrInvalidKey) {
			m.logger.Warn("restore skipped, backup missing", zap.String("backup", name))
			return fmt.Errorf("%w: %s", ErrBackupMissing, name)
		}
		return fmt.Errorf("open backup %s: %w", name, err)
	}
	defer func() { _ = rc.Close() }()
	n, err := atomicfile.Write(destPath, rc)
	if err != nil {
		m.logger.Warn("restore failed", zap.String("backup", name), zap.String("path", destPath), zap.Error(err))
		return fmt.Errorf("restore %s: %w", name, err)
	}
	m.logger.Info("backup restored", zap.String("backup", name), zap.String("path", destPath), zap.Int64("bytes", n))
	return nil
}
