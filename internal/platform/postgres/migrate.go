package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	migrationsDir       = "migrations"
	migrationsTableName = "schema_migrations"
)

// MigrationCommands lists the goose commands accepted by Migrate.
var MigrationCommands = []string{"up", "down", "status", "version", "reset", "redo"}

// goose keeps its settings in package globals.
var gooseMu sync.Mutex

// gooseLogger forwards goose output to slog. Fatalf does not exit so the
// caller decides how to handle a failed migration.
type gooseLogger struct {
	logger *slog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

// Migrate runs a goose command against the embedded migrations.
func Migrate(ctx context.Context, db *sql.DB, command string, logger *slog.Logger) error {
	if !isMigrationCommand(command) {
		return fmt.Errorf("unsupported migration command %q, expected one of %v", command, MigrationCommands)
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "migrations", "command", command)

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationsFS)
	goose.SetTableName(migrationsTableName)
	goose.SetLogger(gooseLogger{logger: logger})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	logger.Info("running migrations")
	if err := goose.RunContext(ctx, command, db, migrationsDir); err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}
	logger.Info("migrations finished")
	return nil
}

func isMigrationCommand(command string) bool {
	for _, c := range MigrationCommands {
		if c == command {
			return true
		}
	}
	return false
}
