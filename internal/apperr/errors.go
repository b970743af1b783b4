// Package apperr defines the error taxonomy the store layer reports and
// the handlers translate into HTTP responses. Raw database errors never
// cross the store boundary.
package apperr

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound covers both a missing row and a row owned by someone
	// else. The two cases must stay indistinguishable to the caller.
	ErrNotFound = errors.New("record not found")

	// ErrEmailTaken signals a uniqueness conflict on the email column.
	ErrEmailTaken = errors.New("email already exists")

	// ErrOverdueTask rejects completing a task whose due date has passed.
	ErrOverdueTask = errors.New("overdue task cannot be completed")
)

// ValidationError carries one or more input problems the caller can fix
// and resubmit.
type ValidationError struct {
	Errs []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Errs, "; ")
}

// Validation builds a ValidationError from the given messages.
func Validation(errs ...string) *ValidationError {
	return &ValidationError{Errs: errs}
}
