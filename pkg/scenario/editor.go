package scenario

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Editor applies record-level mutations to an in-memory Document. It holds no
// document state; callers persist the document themselves.
type Editor struct {
	template Template
	nextID   CardIDStrategy
	validate *validator.Validate
}

// EditorOption customises an Editor.
type EditorOption func(*Editor)

// WithTemplate replaces the default record/advisor/card template.
func WithTemplate(t Template) EditorOption {
	return func(e *Editor) {
		if t != nil {
			e.template = t
		}
	}
}

// WithCardIDStrategy replaces the letter-based card id allocator.
func WithCardIDStrategy(s CardIDStrategy) EditorOption {
	return func(e *Editor) {
		if s != nil {
			e.nextID = s
		}
	}
}

// NewEditor constructs an Editor using DefaultTemplate and LetterCardIDs unless overridden.
func NewEditor(opts ...EditorOption) *Editor {
	e := &Editor{
		template: DefaultTemplate{},
		nextID:   LetterCardIDs,
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreateRecord inserts a templated record under id. Existing records are never replaced.
func (e *Editor) CreateRecord(doc Document, id, title string) (*Record, error) {
	if doc == nil {
		return nil, errors.New("scenario: nil document")
	}
	if id == "" {
		return nil, ErrEmptyID
	}
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if _, exists := doc[id]; exists {
		return nil, fmt.Errorf("record %q: %w", id, ErrDuplicateID)
	}
	rec := e.template.NewRecord(title)
	doc[id] = rec
	return rec, nil
}

// DeleteRecord removes id from doc and reports whether it was present.
func (e *Editor) DeleteRecord(doc Document, id string) bool {
	if _, ok := doc[id]; !ok {
		return false
	}
	delete(doc, id)
	return true
}

// Record looks up id in doc.
func (e *Editor) Record(doc Document, id string) (*Record, error) {
	rec, ok := doc[id]
	if !ok || rec == nil {
		return nil, fmt.Errorf("record %q: %w", id, ErrRecordNotFound)
	}
	return rec, nil
}

// AppendAdvisor appends a template advisor.
func (e *Editor) AppendAdvisor(rec *Record) Advisor {
	adv := e.template.NewAdvisor()
	rec.Advisors = append(rec.Advisors, adv)
	return adv
}

// RemoveLastAdvisor drops the last advisor; it is a no-op on an empty sequence.
func (e *Editor) RemoveLastAdvisor(rec *Record) bool {
	if len(rec.Advisors) == 0 {
		return false
	}
	rec.Advisors = rec.Advisors[:len(rec.Advisors)-1]
	return true
}

// AppendActionCard appends a template card whose id comes from the configured strategy.
func (e *Editor) AppendActionCard(rec *Record) ActionCard {
	card := e.template.NewActionCard(e.nextID(rec.ActionCards))
	rec.ActionCards = append(rec.ActionCards, card)
	return card
}

// RemoveLastActionCard drops the last card; it is a no-op on an empty sequence.
func (e *Editor) RemoveLastActionCard(rec *Record) bool {
	if len(rec.ActionCards) == 0 {
		return false
	}
	rec.ActionCards = rec.ActionCards[:len(rec.ActionCards)-1]
	return true
}

// UpdateField validates value against the field addressed by path and assigns
// it. On any error the record is left untouched.
func (e *Editor) UpdateField(rec *Record, path string, value any) error {
	fp, err := ParseFieldPath(path)
	if err != nil {
		return &FieldError{Path: path, Value: value, Err: err}
	}
	if err := e.apply(rec, fp, value); err != nil {
		return &FieldError{Path: path, Value: value, Err: err}
	}
	return nil
}

func (e *Editor) apply(rec *Record, fp FieldPath, value any) error {
	switch fp.Collection {
	case "":
		setter, ok := recordFields[fp.Field]
		if !ok {
			return ErrUnknownField
		}
		s, err := toString(value)
		if err != nil {
			return err
		}
		setter(rec, s)
		return nil
	case collectionAdvisors:
		if fp.Index < 0 || fp.Index >= len(rec.Advisors) {
			return ErrUnknownField
		}
		setter, ok := advisorFields[fp.Field]
		if !ok {
			return ErrUnknownField
		}
		s, err := toString(value)
		if err != nil {
			return err
		}
		setter(&rec.Advisors[fp.Index], s)
		return nil
	case collectionActionCards:
		if fp.Index < 0 || fp.Index >= len(rec.ActionCards) {
			return ErrUnknownField
		}
		field, ok := cardFields[fp.Field]
		if !ok {
			return ErrUnknownField
		}
		card := rec.ActionCards[fp.Index]
		if err := field.set(&card, value); err != nil {
			return err
		}
		if err := e.checkCard(card, field.structField); err != nil {
			return err
		}
		rec.ActionCards[fp.Index] = card
		return nil
	default:
		return ErrUnknownField
	}
}

func (e *Editor) checkCard(card ActionCard, structField string) error {
	err := e.validate.StructPartial(card, structField)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	switch verrs[0].Tag() {
	case "oneof":
		return ErrInvalidEnum
	case "required":
		return ErrEmptyID
	default:
		return ErrOutOfRange
	}
}
