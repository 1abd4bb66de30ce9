package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/domain"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,max=255"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// Token is the JWT used in the Authorization header of later requests
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	User      UserResponse `json:"user"`
}

// ProjectRequest defines the payload for creating and updating a project.
// An omitted color means the default on create and no change on update.
// On update an omitted description is kept and an empty one clears it.
type ProjectRequest struct {
	Name        string  `json:"name"                  validate:"required,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Color       string  `json:"color,omitempty"       validate:"omitempty,hexcolor3or6"`
}

// ProjectResponse is the API view of a project.
type ProjectResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Color       string    `json:"color"`
	TaskCount   int       `json:"task_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateTaskRequest defines the payload for creating a task in a project.
type CreateTaskRequest struct {
	Title       string  `json:"title"                 validate:"required,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Priority    string  `json:"priority"              validate:"required,taskpriority"`
	Deadline    *string `json:"deadline,omitempty"    validate:"omitempty,datetime=2006-01-02"`
	Status      *string `json:"status,omitempty"      validate:"omitempty,taskstatus"`
}

// UpdateTaskRequest defines the payload for PUT /tasks/{id}, which replaces a
// task's editable fields. An omitted description or deadline clears the stored
// value. An omitted priority or completed_at keeps the current value.
type UpdateTaskRequest struct {
	Title       string  `json:"title"                  validate:"required,max=255"`
	Description *string `json:"description,omitempty"  validate:"omitempty,max=1000"`
	Deadline    *string `json:"deadline,omitempty"     validate:"omitempty,datetime=2006-01-02"`
	Priority    *string `json:"priority,omitempty"     validate:"omitempty,taskpriority"`
	CompletedAt *string `json:"completed_at,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// UpdateTaskStatusRequest defines the payload for moving a task along its lifecycle.
type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required,taskstatus"`
}

// UpdateTaskPriorityRequest defines the payload for changing a task's priority.
type UpdateTaskPriorityRequest struct {
	Priority string `json:"priority" validate:"required,taskpriority"`
}

// TaskResponse is the API view of a task.
type TaskResponse struct {
	ID            uuid.UUID  `json:"id"`
	ProjectID     uuid.UUID  `json:"project_id"`
	Title         string     `json:"title"`
	Description   *string    `json:"description"`
	Status        string     `json:"status"`
	StatusLabel   string     `json:"status_label"`
	Priority      string     `json:"priority"`
	PriorityLabel string     `json:"priority_label"`
	PriorityColor string     `json:"priority_color"`
	Deadline      *string    `json:"deadline"`
	IsOverdue     bool       `json:"is_overdue"`
	CompletedAt   *time.Time `json:"completed_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// PaginationMeta describes where a page sits in the full listing.
type PaginationMeta struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	Total       int `json:"total"`
	PerPage     int `json:"per_page"`
}

// TaskListResponse is one page of tasks.
type TaskListResponse struct {
	Data []TaskResponse `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// DashboardResponse is the per-user overview.
type DashboardResponse struct {
	Stats       domain.TaskStats `json:"stats"`
	Total       int              `json:"total"`
	RecentTasks []TaskResponse   `json:"recent_tasks"`
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

func projectToResponse(project *domain.Project) ProjectResponse {
	return ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Color:       project.Color,
		TaskCount:   project.TaskCount,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

func taskToResponse(task *domain.Task, now time.Time) TaskResponse {
	resp := TaskResponse{
		ID:            task.ID,
		ProjectID:     task.ProjectID,
		Title:         task.Title,
		Description:   task.Description,
		Status:        string(task.Status),
		StatusLabel:   task.Status.Label(),
		Priority:      string(task.Priority),
		PriorityLabel: task.Priority.Label(),
		PriorityColor: task.Priority.Color(),
		IsOverdue:     task.IsOverdue(now),
		CompletedAt:   task.CompletedAt,
		CreatedAt:     task.CreatedAt,
		UpdatedAt:     task.UpdatedAt,
	}
	if task.Deadline != nil {
		deadline := task.Deadline.Format(dateLayout)
		resp.Deadline = &deadline
	}
	return resp
}

func tasksToResponse(tasks []*domain.Task, now time.Time) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, taskToResponse(task, now))
	}
	return out
}

func pageToResponse(page domain.Page[*domain.Task], now time.Time) TaskListResponse {
	return TaskListResponse{
		Data: tasksToResponse(page.Items, now),
		Meta: PaginationMeta{
			CurrentPage: page.CurrentPage,
			LastPage:    page.LastPage,
			Total:       page.Total,
			PerPage:     page.PerPage,
		},
	}
}
