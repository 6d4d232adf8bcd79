package feature

import (
	"errors"
	"fmt"
)

// ErrSchemaMismatch indicates an internal disagreement between a runtime
// vector and the trained artifact schema. It is never caused by user input
// and always signals a deployment or artifact problem.
var ErrSchemaMismatch = errors.New("feature schema mismatch")

// SchemaMismatchf wraps ErrSchemaMismatch with a formatted detail message.
func SchemaMismatchf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSchemaMismatch, fmt.Sprintf(format, args...))
}

// ValidationError describes a rejected user input field.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a ValidationError for a field.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
