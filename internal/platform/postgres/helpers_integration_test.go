//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/platform/postgres"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func createTestUser(t *testing.T, tx *sql.Tx) *domain.User {
	t.Helper()
	user, err := domain.NewUser("Test User", fmt.Sprintf("user-%s@example.com", uuid.NewString()[:8]), "correct horse battery")
	require.NoError(t, err)
	require.NoError(t, postgres.NewPostgresUserStore(tx, bcrypt.MinCost).Create(context.Background(), user))
	return user
}

func createTestProject(t *testing.T, tx *sql.Tx, userID uuid.UUID) *domain.Project {
	t.Helper()
	project, err := domain.NewProject(userID, "Test Project", nil, "")
	require.NoError(t, err)
	require.NoError(t, postgres.NewPostgresProjectStore(tx, nil).Create(context.Background(), project))
	return project
}

// createTestTask inserts a task whose created_at is offset by age into the past.
func createTestTask(
	t *testing.T,
	tx *sql.Tx,
	project *domain.Project,
	title string,
	status domain.TaskStatus,
	priority domain.TaskPriority,
	age time.Duration,
) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(project.UserID, project.ID, title, nil, priority, nil, status)
	require.NoError(t, err)
	task.CreatedAt = task.CreatedAt.Add(-age).Truncate(time.Microsecond)
	task.UpdatedAt = task.CreatedAt
	require.NoError(t, postgres.NewPostgresTaskStore(tx, nil).Create(context.Background(), task))
	return task
}
