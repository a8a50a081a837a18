package fs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"scenariokeeper/internal/blob/core"
)

func newTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "backups"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return store
}

func TestStore_PutGetHeadListDelete(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	info, err := store.Put(ctx, "kids_scenarios_a.json", bytes.NewReader([]byte("hello")), core.PutOptions{ContentType: "application/json"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Key != "kids_scenarios_a.json" || info.Size != 5 || info.ETag == "" || info.LastModified.IsZero() {
		t.Fatalf("unexpected info %+v", info)
	}
	if _, err := store.Put(ctx, "kids_scenarios_a.json", bytes.NewReader([]byte("x")), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	h, err := store.Head(ctx, "kids_scenarios_a.json")
	if err != nil || h.Size != 5 {
		t.Fatalf("head: %+v %v", h, err)
	}
	_, rc, err := store.Get(ctx, "kids_scenarios_a.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, _ := io.ReadAll(rc)
	if err := rc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if string(b) != "hello" {
		t.Fatalf("unexpected content %q", b)
	}
	if _, err := store.Put(ctx, "parents_scenarios_a.json", bytes.NewReader([]byte("p")), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	list, err := store.List(ctx, "kids_")
	if err != nil || len(list) != 1 || list[0].Key != "kids_scenarios_a.json" {
		t.Fatalf("unexpected list %+v %v", list, err)
	}
	all, _ := store.List(ctx, "")
	if len(all) != 2 || all[0].Key != "kids_scenarios_a.json" {
		t.Fatalf("expected key-ordered listing, got %+v", all)
	}
	ok, err := store.Delete(ctx, "kids_scenarios_a.json")
	if err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	ok, err = store.Delete(ctx, "kids_scenarios_a.json")
	if err != nil || ok {
		t.Fatalf("expected second delete to report absent")
	}
}

func TestStore_NoSidecarsOrTempFiles(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	if _, err := store.Put(ctx, "a.json", bytes.NewReader([]byte("{}")), core.PutOptions{}); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(store.Root(), ".tmp-123"), []byte("partial"), 0o644); err != nil {
		t.Fatal(err)
	}
	entries, _ := os.ReadDir(store.Root())
	if len(entries) != 2 {
		t.Fatalf("expected data file plus the planted temp file, got %d", len(entries))
	}
	list, _ := store.List(ctx, "")
	if len(list) != 1 || list[0].Key != "a.json" {
		t.Fatalf("temp files must not be listed: %+v", list)
	}
}

func TestStore_LastModifiedIsMtime(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	if _, err := store.Put(ctx, "a.json", bytes.NewReader([]byte("{}")), core.PutOptions{}); err != nil {
		t.Fatal(err)
	}
	when := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := os.Chtimes(filepath.Join(store.Root(), "a.json"), when, when); err != nil {
		t.Fatal(err)
	}
	h, err := store.Head(ctx, "a.json")
	if err != nil || !h.LastModified.Equal(when) {
		t.Fatalf("expected mtime %v, got %v (%v)", when, h.LastModified, err)
	}
}

func TestStore_MissingAndInvalid(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	if list, err := store.List(ctx, ""); err != nil || len(list) != 0 {
		t.Fatalf("expected empty list before the root exists, got %v %v", list, err)
	}
	if _, err := store.Head(ctx, "nope.json"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, _, err := store.Get(ctx, "nope.json"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	for _, key := range []string{"", "../escape", "/abs", ".hidden"} {
		if _, err := store.Put(ctx, key, bytes.NewReader(nil), core.PutOptions{}); !errors.Is(err, core.ErrInvalidKey) {
			t.Fatalf("key %q: expected ErrInvalidKey, got %v", key, err)
		}
	}
	if _, err := New(" "); !errors.Is(err, core.ErrInvalidKey) {
		t.Fatalf("expected empty root rejection")
	}
	if store.Driver() != core.DriverFilesystem {
		t.Fatalf("driver mismatch")
	}
}
