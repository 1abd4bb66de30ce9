package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity or input fails validation.
	// It is usually wrapped by a ValidationError naming the offending field.
	ErrValidation = errors.New("validation failed")

	// ErrIllegalTransition is returned when a task status change does not follow
	// the single forward step PENDING -> IN_PROGRESS -> COMPLETED.
	ErrIllegalTransition = errors.New("status transition is not allowed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// ValidationError describes a single invalid field.
// It wraps ErrValidation so callers can match it with errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrValidation, e.Field, e.Message)
}

// Unwrap returns ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// FieldErrors collects messages for several invalid fields, keyed by field name.
// It wraps ErrValidation.
type FieldErrors map[string]string

// Error implements the error interface. Fields are listed in sorted order.
func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+" "+e[f])
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

// Unwrap returns ErrValidation.
func (e FieldErrors) Unwrap() error {
	return ErrValidation
}

// AsFieldErrors converts a validation error into a field message map.
// It returns false for errors that are not validation errors.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return FieldErrors{ve.Field: ve.Message}, true
	}
	return nil, false
}
