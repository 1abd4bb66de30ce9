//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/platform/postgres"
	"github.com/phrazzld/taskflow-api/internal/store"
	"github.com/phrazzld/taskflow-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func taskTitles(tasks []*domain.Task) []string {
	titles := make([]string, len(tasks))
	for i, task := range tasks {
		titles[i] = task.Title
	}
	return titles
}

func TestPostgresTaskStoreCRUD(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	ctx := context.Background()

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		tasks := postgres.NewPostgresTaskStore(tx, nil)
		user := createTestUser(t, tx)
		project := createTestProject(t, tx, user.ID)

		desc := "draft it"
		deadline := time.Date(2026, 12, 24, 15, 0, 0, 0, time.UTC)
		task, err := domain.NewTask(user.ID, project.ID, "Write report", &desc, domain.TaskPriorityHigh, &deadline, "")
		require.NoError(t, err)
		require.NoError(t, tasks.Create(ctx, task))

		got, err := tasks.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "Write report", got.Title)
		assert.Equal(t, domain.TaskStatusPending, got.Status)
		assert.Equal(t, domain.TaskPriorityHigh, got.Priority)
		require.NotNil(t, got.Deadline)
		assert.Equal(t, time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC), *got.Deadline)
		assert.Nil(t, got.CompletedAt)

		low := domain.TaskPriorityLow
		require.NoError(t, got.ApplyUpdate(domain.TaskUpdate{Title: "Write final report", Priority: &low}, time.Now()))
		require.NoError(t, tasks.Update(ctx, got))

		got, err = tasks.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "Write final report", got.Title)
		assert.Equal(t, domain.TaskPriorityLow, got.Priority)
		assert.Nil(t, got.Description)
		assert.Nil(t, got.Deadline)

		require.NoError(t, tasks.UpdatePriority(ctx, task.ID, domain.TaskPriorityMedium, time.Now()))
		got, err = tasks.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskPriorityMedium, got.Priority)

		require.NoError(t, tasks.SoftDelete(ctx, task.ID, time.Now()))
		_, err = tasks.GetByID(ctx, task.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
		assert.ErrorIs(t, tasks.SoftDelete(ctx, task.ID, time.Now()), store.ErrTaskNotFound)
		assert.ErrorIs(t, tasks.UpdatePriority(ctx, task.ID, domain.TaskPriorityHigh, time.Now()), store.ErrTaskNotFound)

		orphan, err := domain.NewTask(user.ID, uuid.New(), "orphan", nil, domain.TaskPriorityLow, nil, "")
		require.NoError(t, err)
		assert.ErrorIs(t, tasks.Create(ctx, orphan), store.ErrInvalidEntity)
	})
}

func TestPostgresTaskStoreUpdateStatus(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	ctx := context.Background()

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		tasks := postgres.NewPostgresTaskStore(tx, nil)
		user := createTestUser(t, tx)
		project := createTestProject(t, tx, user.ID)
		task := createTestTask(t, tx, project, "ship", domain.TaskStatusPending, domain.TaskPriorityLow, 0)

		stale := *task

		require.NoError(t, task.RequestTransition(domain.TaskStatusInProgress, time.Now()))
		require.NoError(t, tasks.UpdateStatus(ctx, task, domain.TaskStatusPending))

		require.NoError(t, stale.RequestTransition(domain.TaskStatusInProgress, time.Now()))
		assert.ErrorIs(t, tasks.UpdateStatus(ctx, &stale, domain.TaskStatusPending), store.ErrStatusConflict)

		require.NoError(t, task.RequestTransition(domain.TaskStatusCompleted, time.Now()))
		require.NoError(t, tasks.UpdateStatus(ctx, task, domain.TaskStatusInProgress))

		got, err := tasks.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusCompleted, got.Status)
		assert.NotNil(t, got.CompletedAt)

		missing := *task
		missing.ID = uuid.New()
		assert.ErrorIs(t, tasks.UpdateStatus(ctx, &missing, domain.TaskStatusInProgress), store.ErrTaskNotFound)
	})
}

func TestPostgresTaskStoreList(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	ctx := context.Background()

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		tasks := postgres.NewPostgresTaskStore(tx, nil)
		user := createTestUser(t, tx)
		project := createTestProject(t, tx, user.ID)

		createTestTask(t, tx, project, "a", domain.TaskStatusPending, domain.TaskPriorityHigh, 5*time.Hour)
		createTestTask(t, tx, project, "b", domain.TaskStatusInProgress, domain.TaskPriorityLow, 4*time.Hour)
		createTestTask(t, tx, project, "c", domain.TaskStatusCompleted, domain.TaskPriorityMedium, 3*time.Hour)
		createTestTask(t, tx, project, "d", domain.TaskStatusPending, domain.TaskPriorityLow, 2*time.Hour)
		createTestTask(t, tx, project, "e", domain.TaskStatusPending, domain.TaskPriorityMedium, 1*time.Hour)
		createTestTask(t, tx, project, "f", domain.TaskStatusInProgress, domain.TaskPriorityHigh, 30*time.Minute)
		createTestTask(t, tx, project, "g", domain.TaskStatusCompleted, domain.TaskPriorityLow, 0)

		other := createTestUser(t, tx)
		createTestTask(t, tx, createTestProject(t, tx, other.ID), "foreign", domain.TaskStatusPending, domain.TaskPriorityLow, 0)

		t.Run("default newest first, six per page", func(t *testing.T) {
			page, err := tasks.List(ctx, user.ID, domain.TaskFilter{})
			require.NoError(t, err)
			assert.Equal(t, []string{"g", "f", "e", "d", "c", "b"}, taskTitles(page.Items))
			assert.Equal(t, 7, page.Total)
			assert.Equal(t, 2, page.LastPage)
			assert.Equal(t, 1, page.CurrentPage)
		})

		t.Run("status filter", func(t *testing.T) {
			status := domain.TaskStatusPending
			page, err := tasks.List(ctx, user.ID, domain.TaskFilter{Status: &status, SortOrder: domain.SortAsc})
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "d", "e"}, taskTitles(page.Items))
		})

		t.Run("priority filter", func(t *testing.T) {
			priority := domain.TaskPriorityHigh
			page, err := tasks.List(ctx, user.ID, domain.TaskFilter{Priority: &priority})
			require.NoError(t, err)
			assert.Equal(t, []string{"f", "a"}, taskTitles(page.Items))
		})

		t.Run("priority sort uses rank", func(t *testing.T) {
			page, err := tasks.List(ctx, user.ID, domain.TaskFilter{
				SortBy: domain.TaskSortPriority, SortOrder: domain.SortDesc, PerPage: 10,
			})
			require.NoError(t, err)
			require.Len(t, page.Items, 7)
			assert.Equal(t, domain.TaskPriorityHigh, page.Items[0].Priority)
			assert.Equal(t, domain.TaskPriorityLow, page.Items[6].Priority)
		})

		t.Run("page past the end is clamped", func(t *testing.T) {
			page, err := tasks.List(ctx, user.ID, domain.TaskFilter{Page: 99, PerPage: 5})
			require.NoError(t, err)
			assert.Equal(t, 2, page.CurrentPage)
			assert.Equal(t, []string{"b", "a"}, taskTitles(page.Items))
		})

		t.Run("invalid sort field", func(t *testing.T) {
			_, err := tasks.List(ctx, user.ID, domain.TaskFilter{SortBy: "user_id; DROP TABLE tasks"})
			assert.ErrorIs(t, err, domain.ErrValidation)
		})

		t.Run("project listing", func(t *testing.T) {
			page, err := tasks.ListByProject(ctx, project.ID, 2, domain.ProjectTaskPageSize)
			require.NoError(t, err)
			assert.Equal(t, []string{"b", "a"}, taskTitles(page.Items))
			assert.Equal(t, 7, page.Total)
		})

		t.Run("dashboard queries", func(t *testing.T) {
			stats, err := tasks.CountByStatus(ctx, user.ID)
			require.NoError(t, err)
			assert.Equal(t, domain.TaskStats{Pending: 3, InProgress: 2, Completed: 2}, stats)

			empty, err := tasks.CountByStatus(ctx, uuid.New())
			require.NoError(t, err)
			assert.Equal(t, domain.TaskStats{}, empty)

			recent, err := tasks.ListRecent(ctx, user.ID, domain.RecentTaskLimit)
			require.NoError(t, err)
			assert.Equal(t, []string{"g", "f", "e", "d", "c"}, taskTitles(recent))
		})
	})
}
