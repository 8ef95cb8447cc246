package quotes

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is wrapped by every ValidationError.
	ErrValidation = errors.New("invalid quote")
	// ErrNoSavedState is returned by Persistence.Load when nothing was saved yet.
	ErrNoSavedState = errors.New("no saved quotes")
	// ErrCorruptState is returned by Persistence.Load when the saved data cannot be used.
	ErrCorruptState = errors.New("saved quotes are corrupt")
)

// ValidationError describes a rejected quote. Without a Reason the named
// field was empty after trimming.
type ValidationError struct {
	Field string
	// Index is the element position for batch operations, -1 otherwise.
	Index int
	// Reason replaces the "must not be empty" wording when set.
	Reason string
}

func (e *ValidationError) Error() string {
	msg := e.Field + " must not be empty"
	if e.Reason != "" {
		msg = e.Reason
	}
	if e.Index >= 0 {
		return fmt.Sprintf("quote %d: %s", e.Index, msg)
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
