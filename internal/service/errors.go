package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check for them with errors.Is.
var (
	// ErrNotOwned indicates a resource is owned by a different user than the one making the request.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrProjectNotFound indicates the project does not exist or was deleted.
	ErrProjectNotFound = errors.New("project not found")

	// ErrTaskNotFound indicates the task does not exist or was deleted.
	ErrTaskNotFound = errors.New("task not found")

	// ErrUserNotFound indicates the user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned when email and password do not match a user.
	// It does not say which of the two was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ServiceError wraps unexpected errors with the operation that failed.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "create_task", "list_projects")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError returns err unchanged when it is an expected error the
// caller can act on, translates store not-found errors into the service
// sentinels, and wraps anything else in a ServiceError.
func NewServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, store.ErrProjectNotFound):
		return ErrProjectNotFound
	case errors.Is(err, store.ErrTaskNotFound):
		return ErrTaskNotFound
	case errors.Is(err, store.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, ErrNotOwned),
		errors.Is(err, ErrProjectNotFound),
		errors.Is(err, ErrTaskNotFound),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrIllegalTransition),
		errors.Is(err, store.ErrStatusConflict),
		errors.Is(err, store.ErrDuplicate):
		return err
	}

	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
