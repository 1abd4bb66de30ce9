package domain

import "fmt"

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

// Possible task status values. COMPLETED is terminal.
const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

// taskStatusNext is the complete transition table: each status maps to the only
// status it may move to.
var taskStatusNext = map[TaskStatus]TaskStatus{
	TaskStatusPending:    TaskStatusInProgress,
	TaskStatusInProgress: TaskStatusCompleted,
}

// TaskStatusValues returns every status in lifecycle order.
func TaskStatusValues() []TaskStatus {
	return []TaskStatus{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted}
}

// ParseTaskStatus converts a raw value into a TaskStatus.
func ParseTaskStatus(value string) (TaskStatus, error) {
	status := TaskStatus(value)
	if !status.IsValid() {
		return "", NewValidationError("status", fmt.Sprintf("must be one of %v", TaskStatusValues()))
	}
	return status, nil
}

// IsValid reports whether s is one of the defined statuses.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

// Next returns the status that follows s. The second value is false for the
// terminal status and for unknown values.
func (s TaskStatus) Next() (TaskStatus, bool) {
	next, ok := taskStatusNext[s]
	return next, ok
}

// CanTransition reports whether s has any outgoing transition.
func (s TaskStatus) CanTransition() bool {
	_, ok := s.Next()
	return ok
}

// CanTransitionTo reports whether moving from s to target is the legal forward step.
func (s TaskStatus) CanTransitionTo(target TaskStatus) bool {
	next, ok := s.Next()
	return ok && next == target
}

// Label returns the human readable name of the status.
func (s TaskStatus) Label() string {
	switch s {
	case TaskStatusPending:
		return "Pending"
	case TaskStatusInProgress:
		return "In Progress"
	case TaskStatusCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

// Rank orders statuses along the lifecycle, starting at 1.
func (s TaskStatus) Rank() int {
	for i, v := range TaskStatusValues() {
		if v == s {
			return i + 1
		}
	}
	return 0
}
