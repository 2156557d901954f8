package apperror

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the basket, order, catalog and shopper
// packages matches exactly one of these with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrEmptyState   = errors.New("empty state")
	ErrStorage      = errors.New("storage failure")
)

type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// New returns a sentinel error with its own message that unwraps to kind.
func New(kind error, msg string) error {
	return &kindError{msg: msg, kind: kind}
}

// Storage wraps a persistence error so it matches ErrStorage while keeping the
// driver error reachable through errors.As.
func Storage(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStorage) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStorage, err)
}

// Kind reports which taxonomy bucket err belongs to, or nil for unknown errors.
func Kind(err error) error {
	for _, k := range []error{ErrNotFound, ErrInvalidInput, ErrEmptyState, ErrStorage} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
