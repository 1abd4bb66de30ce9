package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/taskflow-api/internal/config"
	"github.com/phrazzld/taskflow-api/internal/events"
	"github.com/phrazzld/taskflow-api/internal/job"
	"github.com/phrazzld/taskflow-api/internal/platform/mailer"
	"github.com/phrazzld/taskflow-api/internal/platform/postgres"
	"github.com/phrazzld/taskflow-api/internal/service"
	"github.com/phrazzld/taskflow-api/internal/service/auth"
)

// application holds the shared dependencies and owns their shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService       auth.JWTService
	userService      service.UserService
	projectService   service.ProjectService
	taskService      service.TaskService
	dashboardService service.DashboardService

	jobRunner *job.Runner
}

// newApplication wires stores, services and the background job runner.
// The database connection must already be established.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	hasher := auth.NewBcryptHasher(cfg.Auth.BCryptCost)

	userStore := postgres.NewPostgresUserStore(db, cfg.Auth.BCryptCost)
	projectStore := postgres.NewPostgresProjectStore(db, logger)
	taskStore := postgres.NewPostgresTaskStore(db, logger)
	jobStore := postgres.NewPostgresJobStore(db, logger)

	m, err := mailer.New(cfg.Mail, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mailer: %w", err)
	}

	registry := job.NewRegistry()
	registry.Register(job.TypeTaskNotification, job.TaskNotificationFactory(m, logger))
	app.jobRunner = job.NewRunner(jobStore, registry, runnerConfig(cfg.Jobs), logger)

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(events.TypeTaskCreated, job.NewTaskCreatedHandler(app.jobRunner, m, logger))

	if app.userService, err = service.NewUserService(userStore, hasher, logger); err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}
	if app.projectService, err = service.NewProjectService(projectStore, logger); err != nil {
		return nil, fmt.Errorf("failed to create project service: %w", err)
	}
	app.taskService, err = service.NewTaskService(taskStore, projectStore, userStore, emitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}
	if app.dashboardService, err = service.NewDashboardService(taskStore, logger); err != nil {
		return nil, fmt.Errorf("failed to create dashboard service: %w", err)
	}

	logger.Info("application initialized")
	return app, nil
}

func runnerConfig(cfg config.JobsConfig) job.RunnerConfig {
	rc := job.DefaultRunnerConfig()
	rc.WorkerCount = cfg.WorkerCount
	rc.QueueSize = cfg.QueueSize
	rc.StuckJobAge = time.Duration(cfg.StuckJobAgeMinutes) * time.Minute
	rc.StuckJobCheckInterval = time.Duration(cfg.StuckJobCheckIntervalMinutes) * time.Minute
	rc.PendingJobGrace = time.Duration(cfg.PendingJobGraceSeconds) * time.Second
	return rc
}

// Run starts the job runner and the HTTP server, then blocks until shutdown.
func (app *application) Run(ctx context.Context) error {
	if err := app.jobRunner.Start(ctx); err != nil {
		app.cleanup(ctx)
		return fmt.Errorf("failed to start job runner: %w", err)
	}

	if code := app.serve(ctx, app.setupRouter()); code != 0 {
		return fmt.Errorf("shutdown finished with exit code %d", code)
	}
	return nil
}

// cleanup releases resources when the server never started.
func (app *application) cleanup(ctx context.Context) {
	if err := app.jobRunner.Stop(ctx); err != nil {
		app.logger.Error("error stopping job runner", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database connection", "error", err)
	}
}
