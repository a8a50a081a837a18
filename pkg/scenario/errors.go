package scenario

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateID is returned when a record id is already present in the document.
	ErrDuplicateID = errors.New("scenario: duplicate id")
	// ErrEmptyID is returned when a record is created without an id.
	ErrEmptyID = errors.New("scenario: id must not be empty")
	// ErrEmptyTitle is returned when a record is created without a title.
	ErrEmptyTitle = errors.New("scenario: title must not be empty")
	// ErrRecordNotFound is returned by lookups of absent record ids.
	ErrRecordNotFound = errors.New("scenario: record not found")
	// ErrOutOfRange is returned when a numeric value falls outside its declared range.
	ErrOutOfRange = errors.New("scenario: value out of range")
	// ErrInvalidEnum is returned when a value is not one of the allowed enum members.
	ErrInvalidEnum = errors.New("scenario: invalid enum value")
	// ErrUnknownField is returned for field paths that do not address an existing field.
	ErrUnknownField = errors.New("scenario: unknown field")
	// ErrFieldType is returned when a value cannot be converted to the field's type.
	ErrFieldType = errors.New("scenario: wrong value type")
)

// FieldError describes a rejected field update.
type FieldError struct {
	Path  string
	Value any
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v (value %v)", e.Path, e.Err, e.Value)
}

func (e *FieldError) Unwrap() error { return e.Err }
