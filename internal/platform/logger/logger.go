package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/phrazzld/taskflow-api/internal/config"
)

// ParseLevel converts a configured level name into a slog.Level.
// Level names are case-insensitive.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// New creates a JSON logger writing to w at the given level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Setup initializes the application's logger from the server configuration,
// installs it as the slog default and returns it.
//
// An unknown level falls back to info and is reported through the new logger
// rather than failing startup.
func Setup(cfg config.ServerConfig) (*slog.Logger, error) {
	return setup(os.Stdout, cfg)
}

func setup(w io.Writer, cfg config.ServerConfig) (*slog.Logger, error) {
	if w == nil {
		return nil, fmt.Errorf("log output cannot be nil")
	}

	level, err := ParseLevel(cfg.LogLevel)
	logger := New(w, level)
	if err != nil {
		logger.Warn("invalid log level configured, using default level",
			slog.String("configured_level", cfg.LogLevel),
			slog.String("default_level", "info"))
	}

	slog.SetDefault(logger)
	return logger, nil
}
