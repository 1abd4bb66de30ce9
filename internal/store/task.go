package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
// Soft-deleted tasks are invisible to every read.
type TaskStore interface {
	// Create saves a new task.
	// Returns ErrInvalidEntity if the project or user does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task.
	// Returns ErrTaskNotFound if the task does not exist or was deleted.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update saves the editable fields of a task: title, description,
	// deadline, priority and completed_at.
	Update(ctx context.Context, task *domain.Task) error

	// UpdateStatus persists task.Status and task.CompletedAt, but only while the
	// stored status still equals expected.
	// Returns ErrStatusConflict when the stored status moved on, and
	// ErrTaskNotFound when the task is gone.
	UpdateStatus(ctx context.Context, task *domain.Task, expected domain.TaskStatus) error

	// UpdatePriority saves a new priority.
	UpdatePriority(ctx context.Context, id uuid.UUID, priority domain.TaskPriority, updatedAt time.Time) error

	// SoftDelete marks the task as deleted.
	SoftDelete(ctx context.Context, id uuid.UUID, deletedAt time.Time) error

	// List returns one page of the user's tasks, filtered and ordered as the
	// normalized filter says. A page past the end is clamped to the last page.
	List(ctx context.Context, userID uuid.UUID, filter domain.TaskFilter) (domain.Page[*domain.Task], error)

	// ListByProject returns one page of a project's tasks, newest first,
	// with the same clamping as List.
	ListByProject(ctx context.Context, projectID uuid.UUID, page, perPage int) (domain.Page[*domain.Task], error)

	// CountByStatus counts the user's tasks per status.
	CountByStatus(ctx context.Context, userID uuid.UUID) (domain.TaskStats, error)

	// ListRecent returns the user's newest tasks, newest first.
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Task, error)
}
