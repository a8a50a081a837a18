// Package scenario defines the scenario document model shared by the editor,
// the persistence layers and any presentation collaborator.
package scenario

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Speed classifies how quickly an action card takes effect.
type Speed string

const (
	SpeedFast   Speed = "fast"
	SpeedMedium Speed = "medium"
	SpeedSlow   Speed = "slow"
)

// Speeds lists the accepted Speed values in display order.
var Speeds = []Speed{SpeedFast, SpeedMedium, SpeedSlow}

// Document maps record ids to scenario records. One Document is persisted per file.
type Document map[string]*Record

// Record is a single scenario definition.
type Record struct {
	Title         string       `json:"title"`
	Icon          string       `json:"icon"`
	Story         string       `json:"story"`
	Advisors      []Advisor    `json:"advisors"`
	ActionCards   []ActionCard `json:"action_cards"`
	ImmediateText string       `json:"immediate_text"`
	DelayedText   string       `json:"delayed_text"`
}

// Advisor is one advisor opinion shown before the decision phase.
type Advisor struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// ActionCard is one selectable response option. Ranges are enforced by the
// validate tags whenever a field is changed through the Editor.
type ActionCard struct {
	ID                 string  `json:"id" validate:"required"`
	Name               string  `json:"name"`
	Cost               int     `json:"cost" validate:"min=0"`
	HRCost             int     `json:"hr_cost" validate:"min=0"`
	Speed              Speed   `json:"speed" validate:"oneof=fast medium slow"`
	SecurityEffect     int     `json:"security_effect" validate:"min=0,max=100"`
	FreedomCost        int     `json:"freedom_cost" validate:"min=0,max=100"`
	SideEffectRisk     float64 `json:"side_effect_risk" validate:"min=0,max=1"`
	SafeguardReduction float64 `json:"safeguard_reduction" validate:"min=0,max=1"`
	Tooltip            string  `json:"tooltip"`
}

// IDs returns the record ids in ascending order.
func (d Document) IDs() []string {
	ids := make([]string, 0, len(d))
	for id := range d {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for id, rec := range d {
		out[id] = rec.Clone()
	}
	return out
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	cp := *r
	if r.Advisors != nil {
		cp.Advisors = make([]Advisor, len(r.Advisors))
		copy(cp.Advisors, r.Advisors)
	}
	if r.ActionCards != nil {
		cp.ActionCards = make([]ActionCard, len(r.ActionCards))
		copy(cp.ActionCards, r.ActionCards)
	}
	return &cp
}

// Normalize replaces nil advisor and card sequences with empty ones.
func (r *Record) Normalize() {
	if r.Advisors == nil {
		r.Advisors = []Advisor{}
	}
	if r.ActionCards == nil {
		r.ActionCards = []ActionCard{}
	}
}

// MarshalJSON always writes advisors and action_cards as arrays, never null.
// Text is not HTML-escaped.
func (r Record) MarshalJSON() ([]byte, error) {
	type plain Record
	r.Normalize()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(plain(r)); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
