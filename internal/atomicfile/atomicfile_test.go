package atomicfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteCreatesAndReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "doc.json")
	if err := WriteBytes(path, []byte("one")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	if err := WriteBytes(path, []byte("two")); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil || string(b) != "two" {
		t.Fatalf("unexpected content %q %v", b, err)
	}
	st, _ := os.Stat(path)
	if st.Mode().Perm() != 0o600 {
		t.Fatalf("permissions not preserved: %v", st.Mode().Perm())
	}
	assertNoTempFiles(t, filepath.Dir(path))
}

func TestAbortBeforeRenameLeavesDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := WriteBytes(path, []byte("original")); err != nil {
		t.Fatalf("write: %v", err)
	}
	boom := errors.New("interrupted")
	restore := OverrideBeforeRename(func(tmp, dst string) error {
		if dst != path {
			t.Errorf("unexpected destination %s", dst)
		}
		if _, err := os.Stat(tmp); err != nil {
			t.Errorf("temp file should exist before rename: %v", err)
		}
		return boom
	})
	defer restore()
	if err := WriteBytes(path, []byte("replacement")); !errors.Is(err, boom) {
		t.Fatalf("expected abort error, got %v", err)
	}
	b, _ := os.ReadFile(path)
	if string(b) != "original" {
		t.Fatalf("destination modified: %q", b)
	}
	assertNoTempFiles(t, filepath.Dir(path))
}

func TestCopy(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.json")
	dst := filepath.Join(dir, "dst.json")
	if err := os.WriteFile(src, []byte(`{"a":1}`), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	n, err := Copy(src, dst)
	if err != nil || n != 7 {
		t.Fatalf("copy: %d %v", n, err)
	}
	if _, err := Copy(filepath.Join(dir, "missing"), dst); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not exist, got %v", err)
	}
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Fatalf("leftover temp file %s", e.Name())
		}
	}
}
