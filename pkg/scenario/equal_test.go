package scenario

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func sampleDocument() Document {
	return Document{
		"flood": DefaultTemplate{}.NewRecord("Flood"),
		"fire":  DefaultTemplate{}.NewRecord("Fire"),
	}
}

func TestEqualDetectsSingleFieldChange(t *testing.T) {
	a := sampleDocument()
	b := a.Clone()
	if !Equal(a, b) {
		t.Fatalf("clone should be equal")
	}
	b["fire"].ActionCards[1].SideEffectRisk = 0.21
	if Equal(a, b) {
		t.Fatalf("expected difference in nested float")
	}
	b["fire"].ActionCards[1].SideEffectRisk = 0.2
	if !Equal(a, b) {
		t.Fatalf("value changed back should compare equal")
	}
	b["fire"].Advisors = append(b["fire"].Advisors, Advisor{})
	if Equal(a, b) {
		t.Fatalf("expected difference in advisor count")
	}
}

func TestEqualKeysAndNilCollections(t *testing.T) {
	if !Equal(nil, Document{}) {
		t.Fatalf("nil and empty documents should be equal")
	}
	a := Document{"x": {Title: "x"}}
	b := Document{"x": {Title: "x", Advisors: []Advisor{}, ActionCards: []ActionCard{}}}
	if !Equal(a, b) {
		t.Fatalf("nil and empty sequences should be equal")
	}
	c := Document{"y": {Title: "x"}}
	if Equal(a, c) {
		t.Fatalf("different keys should not be equal")
	}
	if RecordsEqual(a["x"], nil) || !RecordsEqual(nil, nil) {
		t.Fatalf("nil record comparison wrong")
	}
}

func TestCloneIsDeep(t *testing.T) {
	a := sampleDocument()
	b := a.Clone()
	b["flood"].ActionCards[0].Cost = 99
	b["flood"].Advisors[0].Name = "changed"
	if a["flood"].ActionCards[0].Cost == 99 || a["flood"].Advisors[0].Name == "changed" {
		t.Fatalf("clone shares backing arrays")
	}
	if ids := a.IDs(); len(ids) != 2 || ids[0] != "fire" {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestRecordMarshalWritesEmptySequences(t *testing.T) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(&Record{Title: "a & <b>"}); err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := buf.String()
	if !strings.Contains(got, `"advisors":[]`) || !strings.Contains(got, `"action_cards":[]`) {
		t.Fatalf("expected empty arrays, got %s", got)
	}
	if !strings.Contains(got, `"a & <b>"`) {
		t.Fatalf("expected unescaped text, got %s", got)
	}
}
