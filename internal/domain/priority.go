package domain

import "fmt"

// TaskPriority expresses how urgent a task is.
type TaskPriority string

// Possible task priority values.
const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
)

// TaskPriorityValues returns every priority from lowest to highest.
func TaskPriorityValues() []TaskPriority {
	return []TaskPriority{TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh}
}

// ParseTaskPriority converts a raw value into a TaskPriority.
func ParseTaskPriority(value string) (TaskPriority, error) {
	priority := TaskPriority(value)
	if !priority.IsValid() {
		return "", NewValidationError("priority", fmt.Sprintf("must be one of %v", TaskPriorityValues()))
	}
	return priority, nil
}

// IsValid reports whether p is one of the defined priorities.
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	default:
		return false
	}
}

// Label returns the human readable name of the priority.
func (p TaskPriority) Label() string {
	switch p {
	case TaskPriorityLow:
		return "Low"
	case TaskPriorityMedium:
		return "Medium"
	case TaskPriorityHigh:
		return "High"
	default:
		return string(p)
	}
}

// Color returns the display color associated with the priority.
func (p TaskPriority) Color() string {
	switch p {
	case TaskPriorityLow:
		return "green"
	case TaskPriorityMedium:
		return "yellow"
	case TaskPriorityHigh:
		return "red"
	default:
		return "gray"
	}
}

// Rank orders priorities from LOW (1) to HIGH (3).
func (p TaskPriority) Rank() int {
	for i, v := range TaskPriorityValues() {
		if v == p {
			return i + 1
		}
	}
	return 0
}
