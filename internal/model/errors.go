package model

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInconsistentState = errors.New("inconsistent state")

	// ErrAlreadyReversed reports a second reversal of the same ledger entry.
	ErrAlreadyReversed = fmt.Errorf("%w: ledger entry already reversed", ErrInconsistentState)
)

// ValidationError names the input field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrValidation.
func (e ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError wraps ErrNotFound with the kind and id that were looked up.
func NotFoundError(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

// InconsistentError wraps ErrInconsistentState with a description of the broken invariant.
func InconsistentError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInconsistentState, fmt.Sprintf(format, args...))
}
