package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
)

const readHeaderTimeout = 10 * time.Second

// serve listens on the configured port and blocks until SIGINT or SIGTERM,
// then drains HTTP requests and running jobs before closing the database.
// It returns the shutdown exit code.
func (app *application) serve(ctx context.Context, router http.Handler) int {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		app.logger.Error("failed to listen", "addr", server.Addr, "error", err)
		app.cleanup(ctx)
		return 1
	}

	go func() {
		app.logger.Info("starting server", "addr", ln.Addr().String())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error("server failed", "error", err)
		}
	}()

	timeout := time.Duration(app.config.Server.ShutdownTimeoutSeconds) * time.Second
	wait := gfshutdown.GracefulShutdown(ctx, timeout, map[string]gfshutdown.Operation{
		"http-server": func(ctx context.Context) error {
			app.logger.Info("shutting down http server")
			return server.Shutdown(ctx)
		},
		"job-runner": func(ctx context.Context) error {
			app.logger.Info("stopping job runner")
			return app.jobRunner.Stop(ctx)
		},
	})

	exitCode := <-wait

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database connection", "error", err)
		exitCode = 1
	}
	app.logger.Info("server shutdown completed", "exit_code", exitCode)
	return exitCode
}
