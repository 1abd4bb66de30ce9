package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/taskflow-api/internal/api"
	apiMiddleware "github.com/phrazzld/taskflow-api/internal/api/middleware"
)

// setupRouter creates the router with middleware and all API routes.
func (app *application) setupRouter() http.Handler {
	return newRouter(routerDeps{
		auth:      api.NewAuthHandler(app.userService, app.jwtService, app.logger),
		projects:  api.NewProjectHandler(app.projectService, app.logger),
		tasks:     api.NewTaskHandler(app.taskService, app.logger),
		dashboard: api.NewDashboardHandler(app.dashboardService, app.logger),
		authn:     apiMiddleware.NewAuthMiddleware(app.jwtService),
		logger:    app.logger,
	})
}

type routerDeps struct {
	auth      *api.AuthHandler
	projects  *api.ProjectHandler
	tasks     *api.TaskHandler
	dashboard *api.DashboardHandler
	authn     *apiMiddleware.AuthMiddleware
	logger    *slog.Logger
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(d.logger))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", d.auth.Register)
		r.Post("/auth/login", d.auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(d.authn.Authenticate)

			r.Get("/dashboard", d.dashboard.GetDashboard)

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", d.projects.ListProjects)
				r.Post("/", d.projects.CreateProject)
				r.Get("/{id}", d.projects.GetProject)
				r.Patch("/{id}", d.projects.UpdateProject)
				r.Delete("/{id}", d.projects.DeleteProject)
				r.Get("/{id}/tasks", d.tasks.ListProjectTasks)
				r.Post("/{id}/tasks", d.tasks.CreateTask)
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", d.tasks.ListTasks)
				r.Get("/{id}", d.tasks.GetTask)
				r.Put("/{id}", d.tasks.UpdateTask)
				r.Delete("/{id}", d.tasks.DeleteTask)
				r.Patch("/{id}/status", d.tasks.UpdateTaskStatus)
				r.Patch("/{id}/priority", d.tasks.UpdateTaskPriority)
			})
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			d.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
