package metrics

import (
	"errors"
	"expvar"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestPrometheusObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewPrometheus(reg)
	rec.Observe(OpDocumentSave, true, 2*time.Millisecond)
	rec.Observe(OpDocumentSave, false, time.Millisecond)
	rec.Observe(OpDocumentSave, true, time.Millisecond)
	rec.Observe("", true, time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	counts := map[string]float64{}
	for _, mf := range families {
		if mf.GetName() != "scenariokeeper_operations_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			var op, st string
			for _, lp := range m.GetLabel() {
				switch lp.GetName() {
				case "operation":
					op = lp.GetValue()
				case "status":
					st = lp.GetValue()
				}
			}
			counts[op+"/"+st] = m.GetCounter().GetValue()
		}
	}
	if counts["document.save/success"] != 2 || counts["document.save/error"] != 1 {
		t.Fatalf("unexpected counters %v", counts)
	}
}

func TestPrometheusTextfileExport(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheus(reg).Observe(OpBackupCreate, true, time.Millisecond)
	path := filepath.Join(t.TempDir(), "scenariokeeper.prom")
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		t.Fatalf("write textfile: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(b), `scenariokeeper_operations_total{operation="backup.create",status="success"} 1`) {
		t.Fatalf("unexpected textfile:\n%s", b)
	}
}

func TestExpvarRecorder(t *testing.T) {
	rec := NewExpvar("")
	rec.Observe(OpBackupRestore, true, 3*time.Millisecond)
	rec.Observe(OpBackupRestore, false, time.Millisecond)
	rec.Observe("", false, time.Millisecond)
	snap := rec.Snapshot()
	if snap.Results[OpBackupRestore]["success"] != 1 || snap.Results[OpBackupRestore]["error"] != 1 {
		t.Fatalf("unexpected results %+v", snap.Results)
	}
	if snap.DurationsMS[OpBackupRestore] < 4 {
		t.Fatalf("unexpected durations %+v", snap.DurationsMS)
	}
	if expvar.Get(rec.Name()) == nil {
		t.Fatalf("recorder not published")
	}
}

type captured struct {
	op      string
	success bool
}

type captureRecorder struct{ got []captured }

func (c *captureRecorder) Observe(op string, success bool, _ time.Duration) {
	c.got = append(c.got, captured{op, success})
}

func TestTrack(t *testing.T) {
	rec := &captureRecorder{}
	run := func(fail bool) (err error) {
		defer Track(rec, OpMirrorPublish)(&err)
		if fail {
			return errors.New("boom")
		}
		return nil
	}
	_ = run(false)
	_ = run(true)
	if len(rec.got) != 2 || !rec.got[0].success || rec.got[1].success {
		t.Fatalf("unexpected observations %+v", rec.got)
	}
	Track(nil, OpMirrorPublish)(nil)
}
