package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskflow-api/internal/api/shared"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/service"
)

// ProjectHandler handles project-related HTTP requests.
type ProjectHandler struct {
	projects service.ProjectService
	logger   *slog.Logger
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projects service.ProjectService, logger *slog.Logger) *ProjectHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProjectHandler{
		projects: projects,
		logger:   logger.With(slog.String("component", "project_handler")),
	}
}

// ListProjects handles GET /projects.
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	projects, err := h.projects.ListProjects(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list projects")
		return
	}

	resp := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		resp = append(resp, projectToResponse(p))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// CreateProject handles POST /projects.
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req ProjectRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	project, err := h.projects.CreateProject(r.Context(), userID, service.ProjectParams{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create project")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, projectToResponse(project))
}

// GetProject handles GET /projects/{id}.
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	project, err := h.projects.GetProject(r.Context(), userID, projectID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get project")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, projectToResponse(project))
}

// UpdateProject handles PATCH /projects/{id}.
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req ProjectRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	project, err := h.projects.UpdateProject(r.Context(), userID, projectID, service.ProjectParams{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update project")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, projectToResponse(project))
}

// DeleteProject handles DELETE /projects/{id}.
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.projects.DeleteProject(r.Context(), userID, projectID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete project")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("project deleted",
		slog.String("project_id", projectID.String()))
	w.WriteHeader(http.StatusNoContent)
}
