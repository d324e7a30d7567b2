package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation       = errors.New("validation error")
	ErrNotFound         = errors.New("not found")
	ErrInvalidTimestamp = fmt.Errorf("%w: invalid timestamp (too far in the future)", ErrValidation)
	ErrInvalidDate      = fmt.Errorf("%w: invalid date, use YYYY-MM-DD", ErrValidation)
)

// ValidationError names the offending field of a rejected input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError carries the missing key(s).
type NotFoundError struct {
	Kind string
	Keys []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %v", e.Kind, e.Keys)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }
