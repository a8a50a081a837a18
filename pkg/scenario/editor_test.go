package scenario

import (
	"errors"
	"fmt"
	"testing"
)

func TestCreateRecordRejectsDuplicate(t *testing.T) {
	ed := NewEditor()
	doc := Document{}
	first, err := ed.CreateRecord(doc, "x", "T")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	first.Story = "edited"
	if _, err := ed.CreateRecord(doc, "x", "T"); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
	if doc["x"] != first || doc["x"].Story != "edited" {
		t.Fatalf("first record was replaced")
	}
}

func TestCreateRecordUsesTemplate(t *testing.T) {
	ed := NewEditor()
	doc := Document{}
	rec, err := ed.CreateRecord(doc, "flood", "Flood")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Title != "Flood" || len(rec.Advisors) != 2 || len(rec.ActionCards) != 2 {
		t.Fatalf("unexpected template shape %+v", rec)
	}
	if _, err := ed.CreateRecord(doc, "", "x"); !errors.Is(err, ErrEmptyID) {
		t.Fatalf("expected empty id error, got %v", err)
	}
	if _, err := ed.CreateRecord(doc, "y", ""); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected empty title error, got %v", err)
	}
	if _, err := ed.CreateRecord(nil, "y", "Y"); err == nil {
		t.Fatalf("expected nil document error")
	}
}

func TestDeleteRecordIsNoopWhenAbsent(t *testing.T) {
	ed := NewEditor()
	doc := Document{}
	if _, err := ed.CreateRecord(doc, "a", "A"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if ed.DeleteRecord(doc, "missing") {
		t.Fatalf("delete of missing id reported true")
	}
	if !ed.DeleteRecord(doc, "a") || len(doc) != 0 {
		t.Fatalf("expected record removed")
	}
	if _, err := ed.Record(doc, "a"); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAdvisorAppendRemove(t *testing.T) {
	ed := NewEditor()
	rec := &Record{}
	if ed.RemoveLastAdvisor(rec) {
		t.Fatalf("remove on empty sequence should be a no-op")
	}
	ed.AppendAdvisor(rec)
	ed.AppendAdvisor(rec)
	rec.Advisors[0].Name = "keep"
	if !ed.RemoveLastAdvisor(rec) || len(rec.Advisors) != 1 || rec.Advisors[0].Name != "keep" {
		t.Fatalf("unexpected advisors %+v", rec.Advisors)
	}
}

func TestCardIDAllocation(t *testing.T) {
	ed := NewEditor()
	rec := &Record{}
	for i := 0; i < 27; i++ {
		ed.AppendActionCard(rec)
	}
	for i := 0; i < 26; i++ {
		if want := string(rune('A' + i)); rec.ActionCards[i].ID != want {
			t.Fatalf("card %d: want %s got %s", i, want, rec.ActionCards[i].ID)
		}
	}
	if rec.ActionCards[26].ID != "X26" {
		t.Fatalf("expected X26, got %s", rec.ActionCards[26].ID)
	}
	if err := ValidateCardIDs(rec); err != nil {
		t.Fatalf("ids should be unique: %v", err)
	}
}

func TestCardIDAllocationReusesGaps(t *testing.T) {
	rec := &Record{ActionCards: []ActionCard{{ID: "A"}, {ID: "C"}}}
	if got := LetterCardIDs(rec.ActionCards); got != "B" {
		t.Fatalf("expected B, got %s", got)
	}
	full := make([]ActionCard, 0, 27)
	for i := 0; i < 26; i++ {
		full = append(full, ActionCard{ID: fmt.Sprintf("X%d", i+26)})
	}
	if got := LetterCardIDs(full); got != "X52" {
		t.Fatalf("expected X52, got %s", got)
	}
}

func TestRemoveLastActionCard(t *testing.T) {
	ed := NewEditor()
	rec := &Record{}
	if ed.RemoveLastActionCard(rec) {
		t.Fatalf("remove on empty sequence should be a no-op")
	}
	card := ed.AppendActionCard(rec)
	if card.Speed != SpeedMedium || card.Cost != 20 || card.SafeguardReduction != 0.7 {
		t.Fatalf("unexpected defaults %+v", card)
	}
	if !ed.RemoveLastActionCard(rec) || len(rec.ActionCards) != 0 {
		t.Fatalf("expected card removed")
	}
}

func TestUUIDStrategy(t *testing.T) {
	ed := NewEditor(WithCardIDStrategy(UUIDCardIDs))
	rec := &Record{}
	a := ed.AppendActionCard(rec)
	b := ed.AppendActionCard(rec)
	if len(a.ID) != 36 || a.ID == b.ID {
		t.Fatalf("expected distinct uuids, got %s %s", a.ID, b.ID)
	}
}

func TestValidateCardIDsDuplicate(t *testing.T) {
	rec := &Record{ActionCards: []ActionCard{{ID: "A"}, {ID: "A"}}}
	if err := ValidateCardIDs(rec); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected duplicate, got %v", err)
	}
}

func TestNormalizeRecordID(t *testing.T) {
	if got := NormalizeRecordID("  Earth Quake 2 "); got != "earth_quake_2" {
		t.Fatalf("unexpected id %q", got)
	}
}
