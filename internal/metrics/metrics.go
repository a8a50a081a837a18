// Package metrics records the outcome and latency of persistence operations.
package metrics

import "time"

// Operation names shared by every recorder.
const (
	OpDocumentSave   = "document.save"
	OpDocumentVerify = "document.verify"
	OpBackupCreate   = "backup.create"
	OpBackupRestore  = "backup.restore"
	OpMirrorPublish  = "mirror.publish"
)

// Recorder observes an operation outcome.
type Recorder interface {
	Observe(operation string, success bool, duration time.Duration)
}

// Nop discards every observation.
type Nop struct{}

// Observe implements Recorder.
func (Nop) Observe(string, bool, time.Duration) {}

// OrNop returns r, or Nop when r is nil.
func OrNop(r Recorder) Recorder {
	if r == nil {
		return Nop{}
	}
	return r
}

// Track returns a func that observes operation with the elapsed time since Track
// was called. Typical use: `defer metrics.Track(rec, op)(&err)`.
func Track(r Recorder, operation string) func(errp *error) {
	start := time.Now()
	return func(errp *error) {
		success := errp == nil || *errp == nil
		OrNop(r).Observe(operation, success, time.Since(start))
	}
}

func status(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
