package blob

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestOpenDrivers(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "backups")
	cases := []struct {
		cfg  Config
		want Driver
	}{
		{Config{Dir: dir}, DriverFilesystem},
		{Config{Driver: DriverFilesystem, Dir: dir}, DriverFilesystem},
		{Config{Driver: DriverMemory}, DriverMemory},
		{Config{Driver: DriverS3, S3: S3Config{Bucket: "backups", Region: "eu-west-1", AccessKeyID: "AKIA", SecretAccessKey: "SECRET"}}, DriverS3},
	}
	for _, tc := range cases {
		st, err := Open(ctx, tc.cfg)
		if err != nil {
			t.Fatalf("open %q: %v", tc.cfg.Driver, err)
		}
		if st.Driver() != tc.want {
			t.Fatalf("expected %s, got %s", tc.want, st.Driver())
		}
	}
	if _, err := Open(ctx, Config{Driver: "ftp"}); !errors.Is(err, ErrUnknownDriver) {
		t.Fatalf("expected ErrUnknownDriver, got %v", err)
	}
	if _, err := Open(ctx, Config{Driver: DriverS3}); err == nil {
		t.Fatalf("expected missing bucket error")
	}
}

func TestMemoryWithClock(t *testing.T) {
	at := time.Date(2024, 2, 2, 2, 2, 2, 0, time.UTC)
	st := NewMemoryWithClock(func() time.Time { return at })
	info, err := st.Put(context.Background(), "k", bytes.NewReader(nil), PutOptions{})
	if err != nil || !info.LastModified.Equal(at) {
		t.Fatalf("unexpected %+v %v", info, err)
	}
	if _, err := st.Put(context.Background(), "k", bytes.NewReader(nil), PutOptions{}); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
}

func TestMockS3(t *testing.T) {
	st := NewMockS3ForTests()
	if st.Driver() != DriverS3 {
		t.Fatalf("driver mismatch")
	}
	if _, err := st.Head(context.Background(), "none"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
