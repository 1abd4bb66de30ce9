package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/job"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// PostgresJobStore implements the job.Store interface using PostgreSQL.
type PostgresJobStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresJobStore creates a new PostgresJobStore.
func NewPostgresJobStore(db store.DBTX, logger *slog.Logger) *PostgresJobStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresJobStore{
		db:     db,
		logger: logger.With(slog.String("component", "job_store")),
	}
}

var _ job.Store = (*PostgresJobStore)(nil)

// SaveJob persists a job to the database
func (s *PostgresJobStore) SaveJob(ctx context.Context, j job.Job) error {
	query := `
		INSERT INTO jobs (id, type, payload, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		j.ID(),
		j.Type(),
		j.Payload(),
		string(j.Status()),
		time.Now().UTC(),
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to save job",
			slog.String("error", err.Error()),
			slog.String("job_id", j.ID().String()),
			slog.String("job_type", j.Type()))
		return fmt.Errorf("failed to save job to database: %w", MapError(err, store.ErrJobNotFound))
	}
	return nil
}

// UpdateJobStatus updates the status of a job in the database.
// An empty errorMsg clears the stored message.
func (s *PostgresJobStore) UpdateJobStatus(ctx context.Context, id uuid.UUID, status job.Status, errorMsg string) error {
	query := `
		UPDATE jobs
		SET status = $2, error_message = NULLIF($3, ''), updated_at = $4
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, id, string(status), errorMsg, time.Now().UTC())
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update job status",
			slog.String("error", err.Error()),
			slog.String("job_id", id.String()),
			slog.String("status", string(status)))
		return fmt.Errorf("failed to update job status: %w", err)
	}
	return CheckRowsAffected(result, store.ErrJobNotFound)
}

// GetPendingJobs retrieves all jobs with "pending" status
func (s *PostgresJobStore) GetPendingJobs(ctx context.Context) ([]job.Record, error) {
	return s.getJobsByStatus(ctx, job.StatusPending, 0)
}

// GetProcessingJobs retrieves jobs with "processing" status
func (s *PostgresJobStore) GetProcessingJobs(ctx context.Context, olderThan time.Duration) ([]job.Record, error) {
	return s.getJobsByStatus(ctx, job.StatusProcessing, olderThan)
}

func (s *PostgresJobStore) getJobsByStatus(
	ctx context.Context,
	status job.Status,
	olderThan time.Duration,
) ([]job.Record, error) {
	query := `
		SELECT id, type, payload, status, error_message, created_at, updated_at
		FROM jobs
		WHERE status = $1
	`
	args := []any{string(status)}
	if olderThan > 0 {
		query += ` AND updated_at < $2`
		args = append(args, time.Now().UTC().Add(-olderThan))
	}
	query += ` ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to query jobs",
			slog.String("error", err.Error()),
			slog.String("status", string(status)))
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []job.Record
	for rows.Next() {
		var (
			rec      job.Record
			recState string
			errMsg   sql.NullString
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.Type,
			&rec.Payload,
			&recState,
			&errMsg,
			&rec.CreatedAt,
			&rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		rec.Status = job.Status(recState)
		rec.ErrorMessage = errMsg.String
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}
	return records, nil
}
