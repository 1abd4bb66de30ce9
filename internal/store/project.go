package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/domain"
)

// ProjectStore defines the interface for project data persistence.
// Soft-deleted projects are invisible to every read.
type ProjectStore interface {
	// Create saves a new project.
	Create(ctx context.Context, project *domain.Project) error

	// GetByID retrieves a project including its live task count.
	// Returns ErrProjectNotFound if the project does not exist or was deleted.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)

	// ListByUser returns the user's projects, newest first, with task counts.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error)

	// Update saves name, description and color of an existing project.
	// Returns ErrProjectNotFound if the project does not exist or was deleted.
	Update(ctx context.Context, project *domain.Project) error

	// SoftDelete marks the project as deleted.
	// Returns ErrProjectNotFound if the project does not exist or was already deleted.
	SoftDelete(ctx context.Context, id uuid.UUID, deletedAt time.Time) error
}
