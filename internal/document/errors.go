package document

import (
	"errors"
	"fmt"
)

var (
	// ErrParse matches every *ParseError.
	ErrParse = errors.New("document: malformed file")
	// ErrWriteVerifyFailed is returned when the re-read document differs from the one written.
	ErrWriteVerifyFailed = errors.New("document: write verification failed")
)

// ParseError reports a document file that exists but does not decode into the
// expected shape.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrParse) match any ParseError.
func (e *ParseError) Is(target error) bool { return target == ErrParse }
