package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Field limits for tasks.
const (
	MaxTaskTitleLength       = 255
	MaxTaskDescriptionLength = 1000
)

// Task is a unit of work inside a project, owned by a single user.
//
// CompletedAt is set if and only if Status is TaskStatusCompleted.
type Task struct {
	ID          uuid.UUID    `json:"id"`
	ProjectID   uuid.UUID    `json:"project_id"`
	UserID      uuid.UUID    `json:"user_id"`
	Title       string       `json:"title"`
	Description *string      `json:"description,omitempty"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	Deadline    *time.Time   `json:"deadline,omitempty"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	DeletedAt   *time.Time   `json:"-"`
}

// NewTask creates a task in the given project for the given user.
// An empty initial status defaults to PENDING; a task created as COMPLETED gets
// its completion time stamped immediately. Deadlines are truncated to a date.
func NewTask(
	userID, projectID uuid.UUID,
	title string,
	description *string,
	priority TaskPriority,
	deadline *time.Time,
	status TaskStatus,
) (*Task, error) {
	now := time.Now().UTC()
	if status == "" {
		status = TaskStatusPending
	}

	task := &Task{
		ID:          uuid.New(),
		ProjectID:   projectID,
		UserID:      userID,
		Title:       strings.TrimSpace(title),
		Description: description,
		Status:      status,
		Priority:    priority,
		Deadline:    TruncateDate(deadline),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if status == TaskStatusCompleted {
		task.CompletedAt = &now
	}

	if description != nil && utf8.RuneCountInString(*description) > MaxTaskDescriptionLength {
		return nil, NewValidationError("description",
			fmt.Sprintf("must be at most %d characters", MaxTaskDescriptionLength))
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty")
	}
	if t.ProjectID == uuid.Nil {
		return NewValidationError("project_id", "cannot be empty")
	}
	if t.UserID == uuid.Nil {
		return NewValidationError("user_id", "cannot be empty")
	}
	if err := validateTaskTitle(t.Title); err != nil {
		return err
	}
	if !t.Status.IsValid() {
		return NewValidationError("status", fmt.Sprintf("must be one of %v", TaskStatusValues()))
	}
	if !t.Priority.IsValid() {
		return NewValidationError("priority", fmt.Sprintf("must be one of %v", TaskPriorityValues()))
	}
	if (t.CompletedAt != nil) != (t.Status == TaskStatusCompleted) {
		return NewValidationError("completed_at", "must be set exactly when the task is completed")
	}
	return nil
}

// OwnedBy reports whether userID owns the task.
func (t *Task) OwnedBy(userID uuid.UUID) bool {
	return t.UserID == userID
}

// RequestTransition moves the task to target if target is the next status in
// the lifecycle. Entering COMPLETED stamps CompletedAt with now.
// Any other target, including the current status, fails with ErrIllegalTransition
// and leaves the task untouched.
func (t *Task) RequestTransition(target TaskStatus, now time.Time) error {
	if !target.IsValid() {
		return NewValidationError("status", fmt.Sprintf("must be one of %v", TaskStatusValues()))
	}
	if !t.Status.CanTransitionTo(target) {
		return ErrIllegalTransition
	}

	now = now.UTC()
	t.Status = target
	if target == TaskStatusCompleted {
		t.CompletedAt = &now
	}
	t.UpdatedAt = now
	return nil
}

// TaskUpdate holds the editable fields of a task.
// A nil Priority or CompletedAt keeps the current value; Description and
// Deadline are replaced as given.
type TaskUpdate struct {
	Title       string
	Description *string
	Deadline    *time.Time
	Priority    *TaskPriority
	CompletedAt *time.Time
}

// ApplyUpdate replaces the task's editable fields with u after validating it.
// A nil Description or Deadline clears the value; a nil Priority or CompletedAt
// keeps it. CompletedAt may only be adjusted on a completed task.
func (t *Task) ApplyUpdate(u TaskUpdate, now time.Time) error {
	title := strings.TrimSpace(u.Title)
	if err := validateTaskTitle(title); err != nil {
		return err
	}
	if u.Priority != nil && !u.Priority.IsValid() {
		return NewValidationError("priority", fmt.Sprintf("must be one of %v", TaskPriorityValues()))
	}
	if u.CompletedAt != nil && t.Status != TaskStatusCompleted {
		return NewValidationError("completed_at", "can only be set on completed tasks")
	}

	t.Title = title
	t.Description = u.Description
	t.Deadline = TruncateDate(u.Deadline)
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	if u.CompletedAt != nil {
		completedAt := u.CompletedAt.UTC()
		t.CompletedAt = &completedAt
	}
	t.UpdatedAt = now.UTC()
	return nil
}

// ChangePriority sets a new priority.
func (t *Task) ChangePriority(priority TaskPriority, now time.Time) error {
	if !priority.IsValid() {
		return NewValidationError("priority", fmt.Sprintf("must be one of %v", TaskPriorityValues()))
	}
	t.Priority = priority
	t.UpdatedAt = now.UTC()
	return nil
}

// IsOverdue reports whether the deadline day has fully passed without the
// task being completed.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.Deadline == nil || t.Status == TaskStatusCompleted {
		return false
	}
	endOfDeadline := TruncateDate(t.Deadline).AddDate(0, 0, 1)
	return !now.UTC().Before(endOfDeadline)
}

// TruncateDate drops the time-of-day part of d, keeping its calendar date in UTC.
func TruncateDate(d *time.Time) *time.Time {
	if d == nil {
		return nil
	}
	u := d.UTC()
	date := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return &date
}

func validateTaskTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return NewValidationError("title", "is required")
	}
	if utf8.RuneCountInString(title) > MaxTaskTitleLength {
		return NewValidationError("title", fmt.Sprintf("must be at most %d characters", MaxTaskTitleLength))
	}
	return nil
}
