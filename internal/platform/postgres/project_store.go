package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// projectColumns selects a project together with the number of its live tasks.
const projectColumns = `
	p.id, p.user_id, p.name, p.description, p.color, p.created_at, p.updated_at,
	(SELECT COUNT(*) FROM tasks t WHERE t.project_id = p.id AND t.deleted_at IS NULL)
`

// PostgresProjectStore implements the store.ProjectStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProjectStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProjectStore creates a new PostgreSQL implementation of the ProjectStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresProjectStore(db store.DBTX, logger *slog.Logger) *PostgresProjectStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresProjectStore{
		db:     db,
		logger: logger.With(slog.String("component", "project_store")),
	}
}

var _ store.ProjectStore = (*PostgresProjectStore)(nil)

// Create implements store.ProjectStore.Create.
// Returns store.ErrInvalidEntity if the owner does not exist.
func (s *PostgresProjectStore) Create(ctx context.Context, project *domain.Project) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := project.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO projects (id, user_id, name, description, color, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		project.ID,
		project.UserID,
		project.Name,
		project.Description,
		project.Color,
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create project",
			slog.String("error", err.Error()),
			slog.String("project_id", project.ID.String()),
			slog.String("user_id", project.UserID.String()))
		return MapError(err, store.ErrProjectNotFound)
	}

	log.Info("project created",
		slog.String("project_id", project.ID.String()),
		slog.String("user_id", project.UserID.String()))
	return nil
}

// GetByID implements store.ProjectStore.GetByID
func (s *PostgresProjectStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + `
		FROM projects p
		WHERE p.id = $1 AND p.deleted_at IS NULL
	`
	project, err := scanProject(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		mapped := MapError(err, store.ErrProjectNotFound)
		if !store.IsNotFoundError(mapped) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to get project",
				slog.String("error", err.Error()),
				slog.String("project_id", id.String()))
		}
		return nil, mapped
	}
	return project, nil
}

// ListByUser implements store.ProjectStore.ListByUser
func (s *PostgresProjectStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + projectColumns + `
		FROM projects p
		WHERE p.user_id = $1 AND p.deleted_at IS NULL
		ORDER BY p.created_at DESC, p.id DESC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list projects",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err, nil)
	}
	defer func() { _ = rows.Close() }()

	projects := []*domain.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}
	return projects, nil
}

// Update implements store.ProjectStore.Update
func (s *PostgresProjectStore) Update(ctx context.Context, project *domain.Project) error {
	if err := project.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE projects
		SET name = $2, description = $3, color = $4, updated_at = $5
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := s.db.ExecContext(ctx, query,
		project.ID,
		project.Name,
		project.Description,
		project.Color,
		project.UpdatedAt,
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update project",
			slog.String("error", err.Error()),
			slog.String("project_id", project.ID.String()))
		return MapError(err, store.ErrProjectNotFound)
	}
	return CheckRowsAffected(result, store.ErrProjectNotFound)
}

// SoftDelete implements store.ProjectStore.SoftDelete.
// The project's tasks are left untouched.
func (s *PostgresProjectStore) SoftDelete(ctx context.Context, id uuid.UUID, deletedAt time.Time) error {
	query := `
		UPDATE projects
		SET deleted_at = $2, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := s.db.ExecContext(ctx, query, id, deletedAt.UTC())
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete project",
			slog.String("error", err.Error()),
			slog.String("project_id", id.String()))
		return MapError(err, store.ErrProjectNotFound)
	}
	return CheckRowsAffected(result, store.ErrProjectNotFound)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var (
		p           domain.Project
		description sql.NullString
	)
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&description,
		&p.Color,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.TaskCount,
	)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		p.Description = &description.String
	}
	return &p, nil
}
