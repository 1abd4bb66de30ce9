package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/taskflow-api/internal/api/shared"
	"github.com/phrazzld/taskflow-api/internal/service"
)

// DashboardHandler serves the per-user overview.
type DashboardHandler struct {
	dashboard service.DashboardService
	logger    *slog.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboard service.DashboardService, logger *slog.Logger) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardHandler{
		dashboard: dashboard,
		logger:    logger.With(slog.String("component", "dashboard_handler")),
	}
}

// GetDashboard handles GET /dashboard.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	dashboard, err := h.dashboard.GetDashboard(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load dashboard")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DashboardResponse{
		Stats:       dashboard.Stats,
		Total:       dashboard.Stats.Total(),
		RecentTasks: tasksToResponse(dashboard.RecentTasks, time.Now()),
	})
}
