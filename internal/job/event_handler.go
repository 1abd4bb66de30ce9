package job

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/events"
	"github.com/phrazzld/taskflow-api/internal/platform/mailer"
)

// Submitter accepts jobs for background execution.
type Submitter interface {
	Submit(ctx context.Context, job Job) error
}

// TaskCreatedHandler turns task.created events into notification jobs.
type TaskCreatedHandler struct {
	submitter Submitter
	mailer    mailer.Mailer
	logger    *slog.Logger
}

var _ events.EventHandler = (*TaskCreatedHandler)(nil)

// NewTaskCreatedHandler creates a handler submitting jobs to submitter.
func NewTaskCreatedHandler(submitter Submitter, m mailer.Mailer, logger *slog.Logger) *TaskCreatedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskCreatedHandler{
		submitter: submitter,
		mailer:    m,
		logger:    logger.With("component", "task_created_handler"),
	}
}

// HandleEvent implements events.EventHandler. Events of other types are ignored.
func (h *TaskCreatedHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Type != events.TypeTaskCreated {
		h.logger.Debug("ignoring event with unsupported type",
			"event_type", event.Type,
			"event_id", event.ID)
		return nil
	}

	var details domain.TaskDetails
	if err := event.UnmarshalPayload(&details); err != nil {
		return fmt.Errorf("failed to unmarshal task.created payload: %w", err)
	}

	job, err := NewTaskNotificationJob(details, h.mailer, h.logger)
	if err != nil {
		return fmt.Errorf("failed to create notification job: %w", err)
	}

	if err := h.submitter.Submit(ctx, job); err != nil {
		return fmt.Errorf("failed to submit notification job: %w", err)
	}

	h.logger.Info("task notification queued",
		"job_id", job.ID(),
		"task_id", details.Task.ID,
		"event_id", event.ID)
	return nil
}
