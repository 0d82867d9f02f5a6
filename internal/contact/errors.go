package contact

import (
	"errors"
	"fmt"
)

// Sentinel errors. Typed errors below unwrap to these so callers can use
// errors.Is without caring about the details.
var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("not found")
	ErrInvalidDate = errors.New("not a calendar date")
)

// ValidationError reports a value that does not satisfy its field kind.
type ValidationError struct {
	Kind  Kind
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s format: %q", e.Kind, e.Value)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError reports an edit whose target value is absent from a record.
type NotFoundError struct {
	Kind  Kind
	Value string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found in the record", e.Kind, e.Value)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }
