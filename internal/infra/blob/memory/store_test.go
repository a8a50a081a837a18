package memory

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"scenariokeeper/internal/blob/core"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s := NewWithClock(func() time.Time { return now })
	info, err := s.Put(ctx, "b", bytes.NewReader([]byte("data")), core.PutOptions{})
	if err != nil || info.Size != 4 || !info.LastModified.Equal(now) {
		t.Fatalf("put: %+v %v", info, err)
	}
	if _, err := s.Put(ctx, "b", bytes.NewReader(nil), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	if _, err := s.Put(ctx, " ", bytes.NewReader(nil), core.PutOptions{}); !errors.Is(err, core.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
	now = now.Add(time.Second)
	if _, err := s.Put(ctx, "a", bytes.NewReader([]byte("x")), core.PutOptions{}); err != nil {
		t.Fatal(err)
	}
	list, _ := s.List(ctx, "")
	if len(list) != 2 || list[0].Key != "a" || list[1].Key != "b" {
		t.Fatalf("unexpected list %+v", list)
	}
	_, rc, err := s.Get(ctx, "b")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(rc)
	if string(body) != "data" {
		t.Fatalf("unexpected body %q", body)
	}
	if _, _, err := s.Get(ctx, "zzz"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Head(ctx, "zzz"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if ok, _ := s.Delete(ctx, "a"); !ok {
		t.Fatalf("expected delete to report existing key")
	}
	if ok, _ := s.Delete(ctx, "a"); ok {
		t.Fatalf("expected delete to report missing key")
	}
	if s.Driver() != core.DriverMemory {
		t.Fatalf("driver mismatch")
	}
}
