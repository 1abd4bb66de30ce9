package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

var _ store.TaskStore = (*PostgresTaskStore)(nil)

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO tasks (id, project_id, user_id, title, description, status, priority,
			deadline, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.ProjectID,
		task.UserID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.Deadline,
		task.CompletedAt,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during task creation",
				slog.String("task_id", task.ID.String()),
				slog.String("project_id", task.ProjectID.String()),
				slog.String("user_id", task.UserID.String()))
			return fmt.Errorf("%w: project %s or user %s not found",
				store.ErrInvalidEntity, task.ProjectID, task.UserID)
		}
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err, store.ErrTaskNotFound)
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("project_id", task.ProjectID.String()),
		slog.String("status", string(task.Status)))
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM tasks t
		WHERE t.id = $1 AND t.deleted_at IS NULL
	`
	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		mapped := MapError(err, store.ErrTaskNotFound)
		if !store.IsNotFoundError(mapped) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to get task",
				slog.String("error", err.Error()),
				slog.String("task_id", id.String()))
		}
		return nil, mapped
	}
	return task, nil
}

// Update implements store.TaskStore.Update
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE tasks
		SET title = $2, description = $3, deadline = $4, priority = $5,
			completed_at = $6, updated_at = $7
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.Deadline,
		task.Priority,
		task.CompletedAt,
		task.UpdatedAt,
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err, store.ErrTaskNotFound)
	}
	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// UpdateStatus implements store.TaskStore.UpdateStatus
func (s *PostgresTaskStore) UpdateStatus(ctx context.Context, task *domain.Task, expected domain.TaskStatus) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE tasks
		SET status = $2, completed_at = $3, updated_at = $4
		WHERE id = $1 AND status = $5 AND deleted_at IS NULL
	`
	result, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.Status,
		task.CompletedAt,
		task.UpdatedAt,
		expected,
	)
	if err != nil {
		log.Error("failed to update task status",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err, store.ErrTaskNotFound)
	}

	err = CheckRowsAffected(result, store.ErrStatusConflict)
	if !errors.Is(err, store.ErrStatusConflict) {
		return err
	}

	// Nothing matched: either the task is gone or its status moved on.
	var exists bool
	existsQuery := `SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1 AND deleted_at IS NULL)`
	if qErr := s.db.QueryRowContext(ctx, existsQuery, task.ID).Scan(&exists); qErr != nil {
		return MapError(qErr, store.ErrTaskNotFound)
	}
	if !exists {
		return store.ErrTaskNotFound
	}

	log.Warn("task status changed concurrently",
		slog.String("task_id", task.ID.String()),
		slog.String("expected_status", string(expected)),
		slog.String("target_status", string(task.Status)))
	return store.ErrStatusConflict
}

// UpdatePriority implements store.TaskStore.UpdatePriority
func (s *PostgresTaskStore) UpdatePriority(
	ctx context.Context,
	id uuid.UUID,
	priority domain.TaskPriority,
	updatedAt time.Time,
) error {
	if !priority.IsValid() {
		return domain.NewValidationError("priority", fmt.Sprintf("must be one of %v", domain.TaskPriorityValues()))
	}

	query := `
		UPDATE tasks
		SET priority = $2, updated_at = $3
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := s.db.ExecContext(ctx, query, id, priority, updatedAt.UTC())
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update task priority",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return MapError(err, store.ErrTaskNotFound)
	}
	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// SoftDelete implements store.TaskStore.SoftDelete
func (s *PostgresTaskStore) SoftDelete(ctx context.Context, id uuid.UUID, deletedAt time.Time) error {
	query := `
		UPDATE tasks
		SET deleted_at = $2, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := s.db.ExecContext(ctx, query, id, deletedAt.UTC())
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return MapError(err, store.ErrTaskNotFound)
	}
	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// List implements store.TaskStore.List
func (s *PostgresTaskStore) List(
	ctx context.Context,
	userID uuid.UUID,
	filter domain.TaskFilter,
) (domain.Page[*domain.Task], error) {
	filter = filter.Normalize()
	if err := filter.Validate(); err != nil {
		return domain.Page[*domain.Task]{}, err
	}

	return s.listPage(ctx, buildTaskQuery(userID, filter), filter.Page, filter.PerPage)
}

// ListByProject implements store.TaskStore.ListByProject
func (s *PostgresTaskStore) ListByProject(
	ctx context.Context,
	projectID uuid.UUID,
	page, perPage int,
) (domain.Page[*domain.Task], error) {
	if perPage < 1 {
		perPage = domain.ProjectTaskPageSize
	}
	q := taskQuery{
		where:   "t.project_id = $1 AND t.deleted_at IS NULL",
		args:    []any{projectID},
		orderBy: taskOrderBy(domain.TaskSortCreatedAt, domain.SortDesc),
	}
	return s.listPage(ctx, q, page, perPage)
}

// listPage counts the matches, clamps the requested page and loads it.
func (s *PostgresTaskStore) listPage(
	ctx context.Context,
	q taskQuery,
	page, perPage int,
) (domain.Page[*domain.Task], error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var total int
	if err := s.db.QueryRowContext(ctx, q.countSQL(), q.args...).Scan(&total); err != nil {
		log.Error("failed to count tasks", slog.String("error", err.Error()))
		return domain.Page[*domain.Task]{}, MapError(err, nil)
	}

	page = domain.ClampPage(page, total, perPage)
	query, args := q.pageSQL(perPage, domain.Offset(page, perPage))

	tasks, err := s.queryTasks(ctx, query, args...)
	if err != nil {
		return domain.Page[*domain.Task]{}, err
	}

	log.Debug("listed tasks",
		slog.Int("page", page),
		slog.Int("per_page", perPage),
		slog.Int("total", total))
	return domain.NewPage(tasks, page, total, perPage), nil
}

// CountByStatus implements store.TaskStore.CountByStatus
func (s *PostgresTaskStore) CountByStatus(ctx context.Context, userID uuid.UUID) (domain.TaskStats, error) {
	query := `
		SELECT status, COUNT(*)
		FROM tasks
		WHERE user_id = $1 AND deleted_at IS NULL
		GROUP BY status
	`
	var stats domain.TaskStats

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count tasks by status",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return stats, MapError(err, nil)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return stats, fmt.Errorf("failed to scan status count: %w", err)
		}
		stats.Add(domain.TaskStatus(status), count)
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("failed to iterate status counts: %w", err)
	}
	return stats, nil
}

// ListRecent implements store.TaskStore.ListRecent
func (s *PostgresTaskStore) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM tasks t
		WHERE t.user_id = $1 AND t.deleted_at IS NULL
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT $2
	`
	return s.queryTasks(ctx, query, userID, limit)
}

func (s *PostgresTaskStore) queryTasks(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to query tasks",
			slog.String("error", err.Error()))
		return nil, MapError(err, nil)
	}
	defer func() { _ = rows.Close() }()

	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}
	return tasks, nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		t           domain.Task
		description sql.NullString
		status      string
		priority    string
		deadline    sql.NullTime
		completedAt sql.NullTime
	)
	err := row.Scan(
		&t.ID,
		&t.ProjectID,
		&t.UserID,
		&t.Title,
		&description,
		&status,
		&priority,
		&deadline,
		&completedAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Status = domain.TaskStatus(status)
	t.Priority = domain.TaskPriority(priority)
	if description.Valid {
		t.Description = &description.String
	}
	if deadline.Valid {
		t.Deadline = domain.TruncateDate(&deadline.Time)
	}
	if completedAt.Valid {
		c := completedAt.Time.UTC()
		t.CompletedAt = &c
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return &t, nil
}
