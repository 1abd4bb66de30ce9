package domain

// RecentTaskLimit is the number of tasks shown on the dashboard.
const RecentTaskLimit = 5

// TaskStats counts a user's tasks per status. Statuses without tasks count zero.
type TaskStats struct {
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
}

// Add records count tasks for status. Unknown statuses are ignored.
func (s *TaskStats) Add(status TaskStatus, count int) {
	switch status {
	case TaskStatusPending:
		s.Pending += count
	case TaskStatusInProgress:
		s.InProgress += count
	case TaskStatusCompleted:
		s.Completed += count
	}
}

// Total returns the number of counted tasks.
func (s TaskStats) Total() int {
	return s.Pending + s.InProgress + s.Completed
}

// Dashboard is the per-user overview.
type Dashboard struct {
	Stats       TaskStats
	RecentTasks []*Task
}

// TaskDetails is a task together with the owner and project it belongs to.
// It is what task notifications are rendered from.
type TaskDetails struct {
	Task        Task   `json:"task"`
	OwnerName   string `json:"owner_name"`
	OwnerEmail  string `json:"owner_email"`
	ProjectName string `json:"project_name"`
}
