package document

import "fmt"

// WriteVerify writes v, reads the persisted value back and compares the two.
// It reports true only on equality; a failed read-back or a mismatch yields
// ErrWriteVerifyFailed, a failed write yields the write error.
func WriteVerify[T any](v T, write func(T) error, read func() (T, error), equal func(a, b T) bool) (bool, error) {
	if err := write(v); err != nil {
		return false, err
	}
	got, err := read()
	if err != nil {
		return false, fmt.Errorf("%w: read back: %w", ErrWriteVerifyFailed, err)
	}
	if !equal(v, got) {
		return false, ErrWriteVerifyFailed
	}
	return true, nil
}
