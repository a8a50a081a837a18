package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, err := New(Config{Level: "debug", Encoding: "bogus", OutputPath: path})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Debug("saved", zap.String("set", "kids"))
	_ = logger.Sync()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	line := string(b)
	if !strings.Contains(line, `"level":"DEBUG"`) || !strings.Contains(line, `"set":"kids"`) {
		t.Fatalf("unexpected log line %q", line)
	}
}

func TestNewInvalidLevelFallsBackToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, err := New(Config{Level: "loud", Encoding: "console", OutputPath: path})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if logger.Core().Enabled(zap.DebugLevel) || !logger.Core().Enabled(zap.InfoLevel) {
		t.Fatalf("expected info level")
	}
}

func TestNewInvalidLevelWritesNothingToStderr(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	prev := os.Stderr
	os.Stderr = w
	_, err = New(Config{Level: "loud", OutputPath: filepath.Join(t.TempDir(), "app.log")})
	os.Stderr = prev
	_ = w.Close()
	out, _ := io.ReadAll(r)
	_ = r.Close()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("unexpected stderr output %q", out)
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatalf("expected nop logger")
	}
	l := zap.NewExample()
	if OrNop(l) != l {
		t.Fatalf("expected same logger")
	}
}
