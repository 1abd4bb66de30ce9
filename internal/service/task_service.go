package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/events"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// CreateTaskParams holds the user-supplied fields of a new task.
// An empty Status creates the task as PENDING.
type CreateTaskParams struct {
	Title       string
	Description *string
	Priority    domain.TaskPriority
	Deadline    *time.Time
	Status      domain.TaskStatus
}

// TaskService provides task operations scoped to the requesting user.
type TaskService interface {
	// CreateTask creates a task in a project owned by userID and announces it
	// with a task.created event. Event delivery failures are logged only.
	CreateTask(ctx context.Context, userID, projectID uuid.UUID, params CreateTaskParams) (*domain.Task, error)

	// GetTask returns a task owned by userID.
	GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)

	// UpdateTask changes the editable fields of a task owned by userID.
	UpdateTask(ctx context.Context, userID, taskID uuid.UUID, update domain.TaskUpdate) (*domain.Task, error)

	// UpdateTaskStatus moves a task one step along its lifecycle.
	// Returns domain.ErrIllegalTransition for any other target and
	// store.ErrStatusConflict when the task changed status concurrently.
	UpdateTaskStatus(ctx context.Context, userID, taskID uuid.UUID, target domain.TaskStatus) (*domain.Task, error)

	// UpdateTaskPriority sets the priority of a task owned by userID.
	UpdateTaskPriority(
		ctx context.Context,
		userID, taskID uuid.UUID,
		priority domain.TaskPriority,
	) (*domain.Task, error)

	// DeleteTask soft-deletes a task owned by userID.
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error

	// ListTasks returns one page of userID's tasks.
	ListTasks(ctx context.Context, userID uuid.UUID, filter domain.TaskFilter) (domain.Page[*domain.Task], error)

	// ListProjectTasks returns one page of a project's tasks, newest first,
	// domain.ProjectTaskPageSize per page.
	ListProjectTasks(ctx context.Context, userID, projectID uuid.UUID, page int) (domain.Page[*domain.Task], error)
}

type taskServiceImpl struct {
	tasks    store.TaskStore
	projects store.ProjectStore
	users    store.UserStore
	emitter  events.EventEmitter
	logger   *slog.Logger
}

// NewTaskService creates a TaskService.
func NewTaskService(
	tasks store.TaskStore,
	projects store.ProjectStore,
	users store.UserStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (TaskService, error) {
	switch {
	case tasks == nil:
		return nil, fmt.Errorf("tasks store cannot be nil")
	case projects == nil:
		return nil, fmt.Errorf("projects store cannot be nil")
	case users == nil:
		return nil, fmt.Errorf("users store cannot be nil")
	case emitter == nil:
		return nil, fmt.Errorf("event emitter cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &taskServiceImpl{
		tasks:    tasks,
		projects: projects,
		users:    users,
		emitter:  emitter,
		logger:   logger.With(slog.String("component", "task_service")),
	}, nil
}

// CreateTask implements TaskService.
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	userID, projectID uuid.UUID,
	params CreateTaskParams,
) (*domain.Task, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, NewServiceError("create_task", "failed to load project", err)
	}
	if !project.OwnedBy(userID) {
		return nil, ErrNotOwned
	}

	task, err := domain.NewTask(
		userID,
		projectID,
		params.Title,
		params.Description,
		params.Priority,
		params.Deadline,
		params.Status,
	)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, NewServiceError("create_task", "failed to save task", err)
	}

	s.announceTaskCreated(ctx, task, project)
	return task, nil
}

// announceTaskCreated emits task.created. The task is already saved, so
// failures are logged and never returned.
func (s *taskServiceImpl) announceTaskCreated(ctx context.Context, task *domain.Task, project *domain.Project) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("task_id", task.ID.String()))

	owner, err := s.users.GetByID(ctx, task.UserID)
	if err != nil {
		log.Error("failed to load task owner for notification", slog.String("error", err.Error()))
		return
	}

	event, err := events.NewEvent(events.TypeTaskCreated, domain.TaskDetails{
		Task:        *task,
		OwnerName:   owner.Name,
		OwnerEmail:  owner.Email,
		ProjectName: project.Name,
	})
	if err != nil {
		log.Error("failed to build task.created event", slog.String("error", err.Error()))
		return
	}

	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		log.Error("failed to emit task.created event",
			slog.String("event_id", event.ID.String()),
			slog.String("error", err.Error()))
		return
	}
	log.Debug("task.created event emitted", slog.String("event_id", event.ID.String()))
}

// GetTask implements TaskService.
func (s *taskServiceImpl) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	return s.ownedTask(ctx, "get_task", userID, taskID)
}

// UpdateTask implements TaskService.
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	userID, taskID uuid.UUID,
	update domain.TaskUpdate,
) (*domain.Task, error) {
	task, err := s.ownedTask(ctx, "update_task", userID, taskID)
	if err != nil {
		return nil, err
	}

	if err := task.ApplyUpdate(update, time.Now()); err != nil {
		return nil, err
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, NewServiceError("update_task", "failed to save task", err)
	}
	return task, nil
}

// UpdateTaskStatus implements TaskService.
func (s *taskServiceImpl) UpdateTaskStatus(
	ctx context.Context,
	userID, taskID uuid.UUID,
	target domain.TaskStatus,
) (*domain.Task, error) {
	task, err := s.ownedTask(ctx, "update_task_status", userID, taskID)
	if err != nil {
		return nil, err
	}

	previous := task.Status
	if err := task.RequestTransition(target, time.Now()); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Debug("status transition rejected",
			slog.String("task_id", taskID.String()),
			slog.String("from", string(previous)),
			slog.String("to", string(target)))
		return nil, err
	}

	if err := s.tasks.UpdateStatus(ctx, task, previous); err != nil {
		return nil, NewServiceError("update_task_status", "failed to save task status", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task status changed",
		slog.String("task_id", taskID.String()),
		slog.String("from", string(previous)),
		slog.String("to", string(task.Status)))
	return task, nil
}

// UpdateTaskPriority implements TaskService.
func (s *taskServiceImpl) UpdateTaskPriority(
	ctx context.Context,
	userID, taskID uuid.UUID,
	priority domain.TaskPriority,
) (*domain.Task, error) {
	task, err := s.ownedTask(ctx, "update_task_priority", userID, taskID)
	if err != nil {
		return nil, err
	}

	if err := task.ChangePriority(priority, time.Now()); err != nil {
		return nil, err
	}

	if err := s.tasks.UpdatePriority(ctx, task.ID, task.Priority, task.UpdatedAt); err != nil {
		return nil, NewServiceError("update_task_priority", "failed to save task priority", err)
	}
	return task, nil
}

// DeleteTask implements TaskService.
func (s *taskServiceImpl) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	if _, err := s.ownedTask(ctx, "delete_task", userID, taskID); err != nil {
		return err
	}

	if err := s.tasks.SoftDelete(ctx, taskID, time.Now()); err != nil {
		return NewServiceError("delete_task", "failed to delete task", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task deleted",
		slog.String("task_id", taskID.String()),
		slog.String("user_id", userID.String()))
	return nil
}

// ListTasks implements TaskService.
func (s *taskServiceImpl) ListTasks(
	ctx context.Context,
	userID uuid.UUID,
	filter domain.TaskFilter,
) (domain.Page[*domain.Task], error) {
	filter = filter.Normalize()
	if err := filter.Validate(); err != nil {
		return domain.Page[*domain.Task]{}, err
	}

	page, err := s.tasks.List(ctx, userID, filter)
	if err != nil {
		return domain.Page[*domain.Task]{}, NewServiceError("list_tasks", "failed to list tasks", err)
	}
	return page, nil
}

// ListProjectTasks implements TaskService.
func (s *taskServiceImpl) ListProjectTasks(
	ctx context.Context,
	userID, projectID uuid.UUID,
	page int,
) (domain.Page[*domain.Task], error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return domain.Page[*domain.Task]{}, NewServiceError("list_project_tasks", "failed to load project", err)
	}
	if !project.OwnedBy(userID) {
		return domain.Page[*domain.Task]{}, ErrNotOwned
	}

	result, err := s.tasks.ListByProject(ctx, projectID, page, domain.ProjectTaskPageSize)
	if err != nil {
		return domain.Page[*domain.Task]{}, NewServiceError("list_project_tasks", "failed to list tasks", err)
	}
	return result, nil
}

// ownedTask loads a task and checks that userID owns it.
func (s *taskServiceImpl) ownedTask(
	ctx context.Context,
	operation string,
	userID, taskID uuid.UUID,
) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, NewServiceError(operation, "failed to load task", err)
	}
	if !task.OwnedBy(userID) {
		logger.FromContextOrDefault(ctx, s.logger).Warn("task access denied",
			slog.String("task_id", taskID.String()),
			slog.String("user_id", userID.String()))
		return nil, ErrNotOwned
	}
	return task, nil
}
