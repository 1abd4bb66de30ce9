package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/taskflow-api/internal/api/shared"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/service"
	"github.com/phrazzld/taskflow-api/internal/service/auth"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// IllegalTransitionMessage is the fixed response message for rejected status changes.
const IllegalTransitionMessage = "status transition is not allowed"

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrNotOwned):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, service.ErrProjectNotFound),
		errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, service.ErrUserNotFound),
		store.IsNotFoundError(err):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrStatusConflict),
		store.IsDuplicateError(err):
		return http.StatusConflict

	case errors.Is(err, domain.ErrIllegalTransition):
		return http.StatusUnprocessableEntity

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for err that never
// includes internal details.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return "An unexpected error occurred"

	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, service.ErrNotOwned):
		return "You do not have access to this resource"

	case errors.Is(err, service.ErrProjectNotFound):
		return "Project not found"
	case errors.Is(err, service.ErrTaskNotFound):
		return "Task not found"
	case errors.Is(err, service.ErrUserNotFound):
		return "User not found"
	case store.IsNotFoundError(err):
		return "Resource not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"
	case errors.Is(err, store.ErrStatusConflict):
		return "Task status was changed by another request"
	case store.IsDuplicateError(err):
		return "Resource already exists"

	case errors.Is(err, domain.ErrIllegalTransition):
		return IllegalTransitionMessage

	case errors.Is(err, domain.ErrValidation):
		return shared.ValidationErrorMessage
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the response for an error returned by the service layer.
// Validation errors carry their field messages; anything unexpected is logged
// in redacted form and answered with fallbackMessage when one is given.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string) {
	if fields, ok := domain.AsFieldErrors(err); ok {
		shared.RespondWithValidationError(w, r, fields)
		return
	}

	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallbackMessage != "" {
		message = fallbackMessage
	}

	var opts []shared.ResponseOption
	if status == http.StatusForbidden || status == http.StatusUnauthorized {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
