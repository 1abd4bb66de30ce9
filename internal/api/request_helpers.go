package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/api/shared"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
)

// Layouts accepted for date and timestamp fields.
const (
	dateLayout      = "2006-01-02"
	timestampLayout = time.RFC3339
)

// getUserIDFromContext extracts the authenticated user's UUID placed in the
// request context by the authentication middleware.
func getUserIDFromContext(r *http.Request) (uuid.UUID, bool) {
	return shared.UserIDFromContext(r.Context())
}

// getPathUUID parses a UUID path parameter.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required")
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "must be a valid UUID")
	}
	return id, nil
}

// requireUserID returns the authenticated user ID, writing a 401 when it is missing.
func requireUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		logger.FromContext(r.Context()).Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return uuid.Nil, false
	}
	return userID, true
}

// handleUserIDAndPathUUID extracts the user ID from context and a UUID from
// the path. It writes an error response if either extraction fails.
func handleUserIDAndPathUUID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	pathID, err := getPathUUID(r, paramName)
	if err != nil {
		logger.FromContext(r.Context()).Debug("invalid path parameter",
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		HandleAPIError(w, r, err, "")
		return uuid.Nil, uuid.Nil, false
	}

	return userID, pathID, true
}

// decodeAndValidate decodes the JSON body into req and validates it,
// writing the error response on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := shared.DecodeJSON(w, r, req); err != nil {
		logger.FromContext(r.Context()).Debug("failed to decode request body", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return false
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err, "")
		return false
	}
	return true
}

// parseDate parses an optional YYYY-MM-DD value already checked by the validator.
func parseDate(field string, value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *value)
	if err != nil {
		return nil, domain.NewValidationError(field, "must be a date in the form "+dateLayout)
	}
	return &t, nil
}

// parseTimestamp parses an optional RFC 3339 value.
func parseTimestamp(field string, value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.Parse(timestampLayout, *value)
	if err != nil {
		return nil, domain.NewValidationError(field, "must be an RFC 3339 timestamp")
	}
	return &t, nil
}

// queryInt reads a positive integer query parameter. Missing values yield 0.
func queryInt(r *http.Request, name string, fields domain.FieldErrors) int {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		fields[name] = "must be a positive integer"
		return 0
	}
	return n
}

// parseTaskFilter builds a TaskFilter from the query string. Enum values are
// matched case-insensitively.
func parseTaskFilter(r *http.Request) (domain.TaskFilter, error) {
	q := r.URL.Query()
	fields := domain.FieldErrors{}
	var filter domain.TaskFilter

	if raw := q.Get("status"); raw != "" {
		status, err := domain.ParseTaskStatus(strings.ToUpper(raw))
		if err != nil {
			fields["status"] = fieldMessage(err)
		} else {
			filter.Status = &status
		}
	}
	if raw := q.Get("priority"); raw != "" {
		priority, err := domain.ParseTaskPriority(strings.ToUpper(raw))
		if err != nil {
			fields["priority"] = fieldMessage(err)
		} else {
			filter.Priority = &priority
		}
	}

	filter.SortBy = domain.TaskSortField(strings.ToLower(q.Get("sort_by")))
	filter.SortOrder = domain.SortOrder(strings.ToLower(q.Get("sort_order")))
	filter.Page = queryInt(r, "page", fields)
	filter.PerPage = queryInt(r, "per_page", fields)

	if len(fields) > 0 {
		return domain.TaskFilter{}, fields
	}
	return filter, nil
}

// fieldMessage returns the message part of a single-field validation error.
func fieldMessage(err error) string {
	if fields, ok := domain.AsFieldErrors(err); ok {
		for _, msg := range fields {
			return msg
		}
	}
	return "is invalid"
}
