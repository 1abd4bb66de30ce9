package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// ProjectParams holds the user-supplied fields of a project.
// An empty Color means the default on create and no change on update.
// On update a nil Description is kept and an empty one clears it.
type ProjectParams struct {
	Name        string
	Description *string
	Color       string
}

// ProjectService provides project operations scoped to the requesting user.
type ProjectService interface {
	// CreateProject creates a project owned by userID.
	CreateProject(ctx context.Context, userID uuid.UUID, params ProjectParams) (*domain.Project, error)

	// GetProject returns a project owned by userID.
	GetProject(ctx context.Context, userID, projectID uuid.UUID) (*domain.Project, error)

	// ListProjects returns userID's projects, newest first.
	ListProjects(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error)

	// UpdateProject changes name, description and color of a project owned by userID.
	UpdateProject(ctx context.Context, userID, projectID uuid.UUID, params ProjectParams) (*domain.Project, error)

	// DeleteProject soft-deletes a project owned by userID.
	DeleteProject(ctx context.Context, userID, projectID uuid.UUID) error
}

type projectServiceImpl struct {
	projects store.ProjectStore
	logger   *slog.Logger
}

// NewProjectService creates a ProjectService.
func NewProjectService(projects store.ProjectStore, logger *slog.Logger) (ProjectService, error) {
	if projects == nil {
		return nil, fmt.Errorf("projects store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &projectServiceImpl{
		projects: projects,
		logger:   logger.With(slog.String("component", "project_service")),
	}, nil
}

// CreateProject implements ProjectService.
func (s *projectServiceImpl) CreateProject(
	ctx context.Context,
	userID uuid.UUID,
	params ProjectParams,
) (*domain.Project, error) {
	project, err := domain.NewProject(userID, params.Name, params.Description, params.Color)
	if err != nil {
		return nil, err
	}

	if err := s.projects.Create(ctx, project); err != nil {
		return nil, NewServiceError("create_project", "failed to save project", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("project created",
		slog.String("project_id", project.ID.String()),
		slog.String("user_id", userID.String()))
	return project, nil
}

// GetProject implements ProjectService.
func (s *projectServiceImpl) GetProject(ctx context.Context, userID, projectID uuid.UUID) (*domain.Project, error) {
	return s.ownedProject(ctx, "get_project", userID, projectID)
}

// ListProjects implements ProjectService.
func (s *projectServiceImpl) ListProjects(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error) {
	projects, err := s.projects.ListByUser(ctx, userID)
	if err != nil {
		return nil, NewServiceError("list_projects", "failed to list projects", err)
	}
	return projects, nil
}

// UpdateProject implements ProjectService.
func (s *projectServiceImpl) UpdateProject(
	ctx context.Context,
	userID, projectID uuid.UUID,
	params ProjectParams,
) (*domain.Project, error) {
	project, err := s.ownedProject(ctx, "update_project", userID, projectID)
	if err != nil {
		return nil, err
	}

	if err := project.ApplyUpdate(params.Name, params.Description, params.Color, time.Now()); err != nil {
		return nil, err
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, NewServiceError("update_project", "failed to save project", err)
	}
	return project, nil
}

// DeleteProject implements ProjectService.
func (s *projectServiceImpl) DeleteProject(ctx context.Context, userID, projectID uuid.UUID) error {
	if _, err := s.ownedProject(ctx, "delete_project", userID, projectID); err != nil {
		return err
	}

	if err := s.projects.SoftDelete(ctx, projectID, time.Now()); err != nil {
		return NewServiceError("delete_project", "failed to delete project", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("project deleted",
		slog.String("project_id", projectID.String()),
		slog.String("user_id", userID.String()))
	return nil
}

// ownedProject loads a project and checks that userID owns it.
func (s *projectServiceImpl) ownedProject(
	ctx context.Context,
	operation string,
	userID, projectID uuid.UUID,
) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, NewServiceError(operation, "failed to load project", err)
	}
	if !project.OwnedBy(userID) {
		logger.FromContextOrDefault(ctx, s.logger).Warn("project access denied",
			slog.String("project_id", projectID.String()),
			slog.String("user_id", userID.String()))
		return nil, ErrNotOwned
	}
	return project, nil
}
