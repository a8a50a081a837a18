// Package atomicfile publishes file contents with write-to-temp-then-rename so
// that readers of the destination only ever observe complete files.
package atomicfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

const defaultPerm fs.FileMode = 0o644

var (
	hookMu sync.Mutex
	// beforeRename runs after the temp file is fully written and synced. A
	// non-nil error aborts the publish and leaves the destination untouched.
	beforeRename func(tmp, dst string) error
)

// Write streams r into a temp file beside path and renames it over path.
// The destination keeps its existing permissions; new files get 0644.
func Write(path string, r io.Reader) (int64, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create dir: %w", err)
	}
	perm := defaultPerm
	if st, err := os.Stat(path); err == nil {
		perm = st.Mode().Perm()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("create temp: %w", err)
	}
	published := false
	defer func() {
		if !published {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()
	n, err := io.Copy(tmp, r)
	if err != nil {
		return 0, fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return 0, fmt.Errorf("chmod temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return 0, fmt.Errorf("sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close temp: %w", err)
	}
	if hook := currentHook(); hook != nil {
		if err := hook(tmp.Name(), path); err != nil {
			_ = os.Remove(tmp.Name())
			published = true
			return 0, err
		}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("atomic rename: %w", err)
	}
	published = true
	// The rename is already visible; a failed directory sync only weakens durability.
	_ = syncDir(dir)
	return n, nil
}

// WriteBytes is Write for an in-memory payload.
func WriteBytes(path string, data []byte) error {
	_, err := Write(path, bytes.NewReader(data))
	return err
}

// Copy publishes the contents of src at dst.
func Copy(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer func() { _ = in.Close() }()
	return Write(dst, in)
}

// OverrideBeforeRename installs a hook that runs between the temp write and the
// rename, returning a restore function. Intended for tests that simulate an
// interrupted publish.
func OverrideBeforeRename(fn func(tmp, dst string) error) func() {
	hookMu.Lock()
	defer hookMu.Unlock()
	prev := beforeRename
	beforeRename = fn
	return func() {
		hookMu.Lock()
		defer hookMu.Unlock()
		beforeRename = prev
	}
}

func currentHook() func(tmp, dst string) error {
	hookMu.Lock()
	defer hookMu.Unlock()
	return beforeRename
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer func() { _ = d.Close() }()
	return d.Sync()
}
