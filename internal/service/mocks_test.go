package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/events"
	"github.com/stretchr/testify/mock"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockTaskStore mocks the store.TaskStore interface
type MockTaskStore struct {
	mock.Mock
}

func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *MockTaskStore) UpdateStatus(ctx context.Context, task *domain.Task, expected domain.TaskStatus) error {
	return m.Called(ctx, task, expected).Error(0)
}

func (m *MockTaskStore) UpdatePriority(
	ctx context.Context,
	id uuid.UUID,
	priority domain.TaskPriority,
	updatedAt time.Time,
) error {
	return m.Called(ctx, id, priority, updatedAt).Error(0)
}

func (m *MockTaskStore) SoftDelete(ctx context.Context, id uuid.UUID, deletedAt time.Time) error {
	return m.Called(ctx, id, deletedAt).Error(0)
}

func (m *MockTaskStore) List(
	ctx context.Context,
	userID uuid.UUID,
	filter domain.TaskFilter,
) (domain.Page[*domain.Task], error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).(domain.Page[*domain.Task]), args.Error(1)
}

func (m *MockTaskStore) ListByProject(
	ctx context.Context,
	projectID uuid.UUID,
	page, perPage int,
) (domain.Page[*domain.Task], error) {
	args := m.Called(ctx, projectID, page, perPage)
	return args.Get(0).(domain.Page[*domain.Task]), args.Error(1)
}

func (m *MockTaskStore) CountByStatus(ctx context.Context, userID uuid.UUID) (domain.TaskStats, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.TaskStats), args.Error(1)
}

func (m *MockTaskStore) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Task, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Task), args.Error(1)
}

// MockProjectStore mocks the store.ProjectStore interface
type MockProjectStore struct {
	mock.Mock
}

func (m *MockProjectStore) Create(ctx context.Context, project *domain.Project) error {
	return m.Called(ctx, project).Error(0)
}

func (m *MockProjectStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Project), args.Error(1)
}

func (m *MockProjectStore) Update(ctx context.Context, project *domain.Project) error {
	return m.Called(ctx, project).Error(0)
}

func (m *MockProjectStore) SoftDelete(ctx context.Context, id uuid.UUID, deletedAt time.Time) error {
	return m.Called(ctx, id, deletedAt).Error(0)
}

// MockUserStore mocks the store.UserStore interface
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockEventEmitter mocks the events.EventEmitter interface
type MockEventEmitter struct {
	mock.Mock
}

func (m *MockEventEmitter) EmitEvent(ctx context.Context, event *events.Event) error {
	return m.Called(ctx, event).Error(0)
}
