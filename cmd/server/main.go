// Package main implements the entry point for the TaskFlow API server,
// which manages users' projects and tasks.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/phrazzld/taskflow-api/internal/config"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/platform/postgres"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("taskflow-api: %v", err)
	}
}

// options holds the parsed command line flags.
type options struct {
	migrate string
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("taskflow-api", flag.ContinueOnError)
	fs.StringVar(&opts.migrate, "migrate", "",
		fmt.Sprintf("run a migration command and exit (%s)", strings.Join(postgres.MigrationCommands, ", ")))
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

func run(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	l.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	ctx := context.Background()

	db, err := postgres.Open(ctx, cfg.Database, l)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if opts.migrate != "" {
		defer closeDB(db, l)
		if err := postgres.Migrate(ctx, db, opts.migrate, l); err != nil {
			return fmt.Errorf("migration %q failed: %w", opts.migrate, err)
		}
		return nil
	}

	app, err := newApplication(cfg, l, db)
	if err != nil {
		closeDB(db, l)
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}

func closeDB(db interface{ Close() error }, l *slog.Logger) {
	if err := db.Close(); err != nil {
		l.Error("failed to close database connection", "error", err)
	}
}
