package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// DashboardService builds the per-user overview.
type DashboardService interface {
	// GetDashboard returns task counts per status and the newest tasks of userID.
	GetDashboard(ctx context.Context, userID uuid.UUID) (*domain.Dashboard, error)
}

type dashboardServiceImpl struct {
	tasks  store.TaskStore
	logger *slog.Logger
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(tasks store.TaskStore, logger *slog.Logger) (DashboardService, error) {
	if tasks == nil {
		return nil, fmt.Errorf("tasks store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &dashboardServiceImpl{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "dashboard_service")),
	}, nil
}

// GetDashboard implements DashboardService.
func (s *dashboardServiceImpl) GetDashboard(ctx context.Context, userID uuid.UUID) (*domain.Dashboard, error) {
	stats, err := s.tasks.CountByStatus(ctx, userID)
	if err != nil {
		return nil, NewServiceError("get_dashboard", "failed to count tasks", err)
	}

	recent, err := s.tasks.ListRecent(ctx, userID, domain.RecentTaskLimit)
	if err != nil {
		return nil, NewServiceError("get_dashboard", "failed to load recent tasks", err)
	}
	if recent == nil {
		recent = []*domain.Task{}
	}

	return &domain.Dashboard{Stats: stats, RecentTasks: recent}, nil
}
