package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/taskflow-api/internal/api/shared"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/service"
)

// TaskHandler handles task-related HTTP requests.
type TaskHandler struct {
	tasks  service.TaskService
	logger *slog.Logger
	now    func() time.Time
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "task_handler")),
		now:    time.Now,
	}
}

// ListTasks handles GET /tasks.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	filter, err := parseTaskFilter(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	page, err := h.tasks.ListTasks(r.Context(), userID, filter)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, pageToResponse(page, h.now()))
}

// ListProjectTasks handles GET /projects/{id}/tasks.
func (h *TaskHandler) ListProjectTasks(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	fields := domain.FieldErrors{}
	pageNum := queryInt(r, "page", fields)
	if len(fields) > 0 {
		HandleAPIError(w, r, fields, "")
		return
	}

	page, err := h.tasks.ListProjectTasks(r.Context(), userID, projectID, max(pageNum, 1))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list project tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, pageToResponse(page, h.now()))
}

// CreateTask handles POST /projects/{id}/tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req CreateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	deadline, err := parseDate("deadline", req.Deadline)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	params := service.CreateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.TaskPriority(req.Priority),
		Deadline:    deadline,
	}
	if req.Status != nil {
		params.Status = domain.TaskStatus(*req.Status)
	}

	task, err := h.tasks.CreateTask(r.Context(), userID, projectID, params)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("project_id", projectID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task, h.now()))
}

// GetTask handles GET /tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task, h.now()))
}

// UpdateTask handles PUT /tasks/{id}.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	update := domain.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
	}
	var err error
	if update.Deadline, err = parseDate("deadline", req.Deadline); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if update.CompletedAt, err = parseTimestamp("completed_at", req.CompletedAt); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		update.Priority = &priority
	}

	task, err := h.tasks.UpdateTask(r.Context(), userID, taskID, update)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task, h.now()))
}

// UpdateTaskStatus handles PATCH /tasks/{id}/status.
func (h *TaskHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateTaskStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.tasks.UpdateTaskStatus(r.Context(), userID, taskID, domain.TaskStatus(req.Status))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task status")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task, h.now()))
}

// UpdateTaskPriority handles PATCH /tasks/{id}/priority.
func (h *TaskHandler) UpdateTaskPriority(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateTaskPriorityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.tasks.UpdateTaskPriority(r.Context(), userID, taskID, domain.TaskPriority(req.Priority))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task priority")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task, h.now()))
}

// DeleteTask handles DELETE /tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.tasks.DeleteTask(r.Context(), userID, taskID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
