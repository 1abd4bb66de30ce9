package job

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/platform/mailer"
)

// TypeTaskNotification is the job type that emails a task's owner about a new task.
const TypeTaskNotification = "task_notification"

// TaskNotificationJob emails the owner of a newly created task.
type TaskNotificationJob struct {
	id      uuid.UUID
	status  Status
	details domain.TaskDetails
	payload []byte
	mailer  mailer.Mailer
	logger  *slog.Logger
}

var _ Job = (*TaskNotificationJob)(nil)

// NewTaskNotificationJob creates a pending notification job for details.
func NewTaskNotificationJob(details domain.TaskDetails, m mailer.Mailer, logger *slog.Logger) (*TaskNotificationJob, error) {
	payload, err := json.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("failed to encode task notification payload: %w", err)
	}
	return newTaskNotificationJob(uuid.New(), StatusPending, details, payload, m, logger)
}

func newTaskNotificationJob(
	id uuid.UUID,
	status Status,
	details domain.TaskDetails,
	payload []byte,
	m mailer.Mailer,
	logger *slog.Logger,
) (*TaskNotificationJob, error) {
	if m == nil {
		return nil, fmt.Errorf("mailer cannot be nil")
	}
	if details.OwnerEmail == "" {
		return nil, fmt.Errorf("task %s has no owner email", details.Task.ID)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskNotificationJob{
		id:      id,
		status:  status,
		details: details,
		payload: payload,
		mailer:  m,
		logger:  logger.With("component", "task_notification_job"),
	}, nil
}

// TaskNotificationFactory rebuilds persisted notification jobs.
func TaskNotificationFactory(m mailer.Mailer, logger *slog.Logger) Factory {
	return func(rec Record) (Job, error) {
		var details domain.TaskDetails
		if err := json.Unmarshal(rec.Payload, &details); err != nil {
			return nil, fmt.Errorf("invalid task notification payload: %w", err)
		}
		return newTaskNotificationJob(rec.ID, rec.Status, details, rec.Payload, m, logger)
	}
}

// ID implements Job.
func (j *TaskNotificationJob) ID() uuid.UUID { return j.id }

// Type implements Job.
func (j *TaskNotificationJob) Type() string { return TypeTaskNotification }

// Payload implements Job.
func (j *TaskNotificationJob) Payload() []byte { return j.payload }

// Status implements Job.
func (j *TaskNotificationJob) Status() Status { return j.status }

// Details returns the task the notification is about.
func (j *TaskNotificationJob) Details() domain.TaskDetails { return j.details }

// Execute renders and sends the notification.
func (j *TaskNotificationJob) Execute(ctx context.Context) error {
	msg, err := mailer.RenderTaskCreated(j.details)
	if err != nil {
		return fmt.Errorf("failed to render notification: %w", err)
	}
	if err := j.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}

	j.logger.Debug("task notification sent",
		"job_id", j.id,
		"task_id", j.details.Task.ID)
	return nil
}
