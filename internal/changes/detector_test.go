package changes

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"scenariokeeper/internal/document"
	"scenariokeeper/pkg/scenario"
)

func savedDocument(t *testing.T) (string, *document.Store, scenario.Document) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.json")
	store := document.NewStore()
	doc := scenario.Document{"flood": scenario.DefaultTemplate{}.NewRecord("Flood")}
	if err := store.Save(path, doc); err != nil {
		t.Fatalf("save: %v", err)
	}
	return path, store, doc
}

func TestHasChangedFalseAfterSave(t *testing.T) {
	path, store, doc := savedDocument(t)
	if NewDetector(store, nil).HasChanged(path, doc) {
		t.Fatalf("expected unchanged right after save")
	}
}

func TestHasChangedSingleField(t *testing.T) {
	path, store, doc := savedDocument(t)
	d := NewDetector(store, nil)

	doc["flood"].ActionCards[1].SafeguardReduction = 0.71
	if !d.HasChanged(path, doc) {
		t.Fatalf("expected change on card field")
	}
	doc["flood"].ActionCards[1].SafeguardReduction = 0.7
	if d.HasChanged(path, doc) {
		t.Fatalf("edit reverted, expected unchanged")
	}

	doc["flood"].Advisors[0].Text = "other"
	if !d.HasChanged(path, doc) {
		t.Fatalf("expected change on advisor text")
	}
}

func TestHasChangedMissingOrMalformedFile(t *testing.T) {
	dir := t.TempDir()
	d := NewDetector(document.NewStore(), nil)
	missing := filepath.Join(dir, "missing.json")
	if d.HasChanged(missing, scenario.Document{}) {
		t.Fatalf("empty document matches a missing file")
	}
	if !d.HasChanged(missing, scenario.Document{"a": {Title: "A"}}) {
		t.Fatalf("non-empty document differs from a missing file")
	}
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !d.HasChanged(bad, scenario.Document{"a": {Title: "A"}}) {
		t.Fatalf("expected malformed file to read as empty")
	}
}

type countingStore struct {
	*document.Store
	saves int
	fail  error
}

func (c *countingStore) SaveAndVerify(path string, doc scenario.Document) (bool, error) {
	c.saves++
	if c.fail != nil {
		return false, c.fail
	}
	return c.Store.SaveAndVerify(path, doc)
}

func TestAutosaverGate(t *testing.T) {
	path, store, doc := savedDocument(t)
	cs := &countingStore{Store: store}
	a := NewAutosaver(cs, nil)

	res, err := a.Tick(path, doc)
	if err != nil || res.Saved || cs.saves != 0 {
		t.Fatalf("expected no write for unchanged doc, got %+v err=%v saves=%d", res, err, cs.saves)
	}

	doc["flood"].Title = "Flood (revised)"
	res, err = a.Tick(path, doc)
	if err != nil || !res.Saved || !res.Verified || cs.saves != 1 {
		t.Fatalf("expected one verified write, got %+v err=%v saves=%d", res, err, cs.saves)
	}

	if res, _ = a.Tick(path, doc); res.Saved || cs.saves != 1 {
		t.Fatalf("expected write frequency bounded to one per state, saves=%d", cs.saves)
	}
}

func TestAutosaverReportsFailure(t *testing.T) {
	path, store, doc := savedDocument(t)
	cs := &countingStore{Store: store, fail: document.ErrWriteVerifyFailed}
	doc["flood"].Icon = "🔥"
	res, err := NewAutosaver(cs, nil).Tick(path, doc)
	if !errors.Is(err, document.ErrWriteVerifyFailed) || !res.Saved || res.Verified {
		t.Fatalf("expected surfaced verify failure, got %+v err=%v", res, err)
	}
}
