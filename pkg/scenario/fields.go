package scenario

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	collectionAdvisors    = "advisors"
	collectionActionCards = "action_cards"
)

// FieldPath addresses one editable field: a top-level record field, or a field
// of the Index-th element of Collection.
type FieldPath struct {
	Collection string
	Index      int
	Field      string
}

func (p FieldPath) String() string {
	if p.Collection == "" {
		return p.Field
	}
	return fmt.Sprintf("%s[%d].%s", p.Collection, p.Index, p.Field)
}

// ParseFieldPath parses "title", "advisors[0].name" or "action_cards[2].cost".
func ParseFieldPath(path string) (FieldPath, error) {
	path = strings.TrimSpace(path)
	open := strings.IndexByte(path, '[')
	if open < 0 {
		if path == "" {
			return FieldPath{}, ErrUnknownField
		}
		return FieldPath{Field: path}, nil
	}
	closeIdx := strings.IndexByte(path, ']')
	if closeIdx < open {
		return FieldPath{}, ErrUnknownField
	}
	coll := path[:open]
	if coll != collectionAdvisors && coll != collectionActionCards {
		return FieldPath{}, ErrUnknownField
	}
	idx, err := strconv.Atoi(path[open+1 : closeIdx])
	if err != nil {
		return FieldPath{}, ErrUnknownField
	}
	rest := path[closeIdx+1:]
	if !strings.HasPrefix(rest, ".") || len(rest) < 2 {
		return FieldPath{}, ErrUnknownField
	}
	return FieldPath{Collection: coll, Index: idx, Field: rest[1:]}, nil
}

var recordFields = map[string]func(*Record, string){
	"title":          func(r *Record, v string) { r.Title = v },
	"icon":           func(r *Record, v string) { r.Icon = v },
	"story":          func(r *Record, v string) { r.Story = v },
	"immediate_text": func(r *Record, v string) { r.ImmediateText = v },
	"delayed_text":   func(r *Record, v string) { r.DelayedText = v },
}

var advisorFields = map[string]func(*Advisor, string){
	"name": func(a *Advisor, v string) { a.Name = v },
	"text": func(a *Advisor, v string) { a.Text = v },
}

type cardField struct {
	structField string
	set         func(*ActionCard, any) error
}

var cardFields = map[string]cardField{
	"id":                  {"ID", stringSetter(func(c *ActionCard, v string) { c.ID = v })},
	"name":                {"Name", stringSetter(func(c *ActionCard, v string) { c.Name = v })},
	"tooltip":             {"Tooltip", stringSetter(func(c *ActionCard, v string) { c.Tooltip = v })},
	"speed":               {"Speed", stringSetter(func(c *ActionCard, v string) { c.Speed = Speed(v) })},
	"cost":                {"Cost", intSetter(func(c *ActionCard, v int) { c.Cost = v })},
	"hr_cost":             {"HRCost", intSetter(func(c *ActionCard, v int) { c.HRCost = v })},
	"security_effect":     {"SecurityEffect", intSetter(func(c *ActionCard, v int) { c.SecurityEffect = v })},
	"freedom_cost":        {"FreedomCost", intSetter(func(c *ActionCard, v int) { c.FreedomCost = v })},
	"side_effect_risk":    {"SideEffectRisk", floatSetter(func(c *ActionCard, v float64) { c.SideEffectRisk = v })},
	"safeguard_reduction": {"SafeguardReduction", floatSetter(func(c *ActionCard, v float64) { c.SafeguardReduction = v })},
}

func stringSetter(fn func(*ActionCard, string)) func(*ActionCard, any) error {
	return func(c *ActionCard, v any) error {
		s, err := toString(v)
		if err != nil {
			return err
		}
		fn(c, s)
		return nil
	}
}

func intSetter(fn func(*ActionCard, int)) func(*ActionCard, any) error {
	return func(c *ActionCard, v any) error {
		n, err := toInt(v)
		if err != nil {
			return err
		}
		fn(c, n)
		return nil
	}
}

func floatSetter(fn func(*ActionCard, float64)) func(*ActionCard, any) error {
	return func(c *ActionCard, v any) error {
		f, err := toFloat(v)
		if err != nil {
			return err
		}
		fn(c, f)
		return nil
	}
}

func toString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case Speed:
		return string(x), nil
	default:
		return "", ErrFieldType
	}
}

func toInt(v any) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case int32:
		return int(x), nil
	case int64:
		return int(x), nil
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) {
			return 0, ErrFieldType
		}
		return int(x), nil
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return 0, ErrFieldType
		}
		return int(n), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, ErrFieldType
		}
		return n, nil
	default:
		return 0, ErrFieldType
	}
}

func toFloat(v any) (float64, error) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return 0, ErrFieldType
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, ErrFieldType
		}
		f = n
	default:
		return 0, ErrFieldType
	}
	if math.IsNaN(f) {
		return 0, ErrOutOfRange
	}
	return f, nil
}
