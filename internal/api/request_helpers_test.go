package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaskFilter(t *testing.T) {
	t.Run("all parameters", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet,
			"/api/tasks?status=in_progress&priority=HIGH&sort_by=Deadline&sort_order=ASC&page=2&per_page=10", nil)

		filter, err := parseTaskFilter(r)
		require.NoError(t, err)
		require.NotNil(t, filter.Status)
		assert.Equal(t, domain.TaskStatusInProgress, *filter.Status)
		require.NotNil(t, filter.Priority)
		assert.Equal(t, domain.TaskPriorityHigh, *filter.Priority)
		assert.Equal(t, domain.TaskSortDeadline, filter.SortBy)
		assert.Equal(t, domain.SortAsc, filter.SortOrder)
		assert.Equal(t, 2, filter.Page)
		assert.Equal(t, 10, filter.PerPage)
	})

	t.Run("no parameters", func(t *testing.T) {
		filter, err := parseTaskFilter(httptest.NewRequest(http.MethodGet, "/api/tasks", nil))
		require.NoError(t, err)
		assert.Equal(t, domain.TaskFilter{}, filter)
	})

	t.Run("invalid values are reported per field", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/tasks?status=DONE&priority=urgent&page=zero", nil)

		_, err := parseTaskFilter(r)
		fields, ok := domain.AsFieldErrors(err)
		require.True(t, ok)
		assert.Contains(t, fields, "status")
		assert.Contains(t, fields, "priority")
		assert.Equal(t, "must be a positive integer", fields["page"])
	})
}

func TestGetPathUUID(t *testing.T) {
	id := uuid.New()

	withParam := func(value string) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", value)
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		return r.WithContext(contextWithRoute(r, rctx))
	}

	got, err := getPathUUID(withParam(id.String()), "id")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = getPathUUID(withParam("not-a-uuid"), "id")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = getPathUUID(withParam(""), "id")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestParseDate(t *testing.T) {
	got, err := parseDate("deadline", nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	value := "2026-03-15"
	got, err = parseDate("deadline", &value)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-15", got.Format(dateLayout))

	bad := "15/03/2026"
	_, err = parseDate("deadline", &bad)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
