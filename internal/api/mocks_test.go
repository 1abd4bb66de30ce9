package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/api/shared"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/service"
	"github.com/phrazzld/taskflow-api/internal/service/auth"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newJSONRequest builds a request authenticated as userID. A nil userID leaves it anonymous.
func newJSONRequest(t *testing.T, method, path string, body any, userID *uuid.UUID) *http.Request {
	t.Helper()
	var reader io.Reader = http.NoBody
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != nil {
		req = req.WithContext(shared.WithUserID(req.Context(), *userID))
	}
	return req
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// MockTaskService mocks service.TaskService
type MockTaskService struct {
	mock.Mock
}

var _ service.TaskService = (*MockTaskService)(nil)

func (m *MockTaskService) CreateTask(
	ctx context.Context,
	userID, projectID uuid.UUID,
	params service.CreateTaskParams,
) (*domain.Task, error) {
	args := m.Called(ctx, userID, projectID, params)
	return taskOrNil(args.Get(0)), args.Error(1)
}

func (m *MockTaskService) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, userID, taskID)
	return taskOrNil(args.Get(0)), args.Error(1)
}

func (m *MockTaskService) UpdateTask(
	ctx context.Context,
	userID, taskID uuid.UUID,
	update domain.TaskUpdate,
) (*domain.Task, error) {
	args := m.Called(ctx, userID, taskID, update)
	return taskOrNil(args.Get(0)), args.Error(1)
}

func (m *MockTaskService) UpdateTaskStatus(
	ctx context.Context,
	userID, taskID uuid.UUID,
	target domain.TaskStatus,
) (*domain.Task, error) {
	args := m.Called(ctx, userID, taskID, target)
	return taskOrNil(args.Get(0)), args.Error(1)
}

func (m *MockTaskService) UpdateTaskPriority(
	ctx context.Context,
	userID, taskID uuid.UUID,
	priority domain.TaskPriority,
) (*domain.Task, error) {
	args := m.Called(ctx, userID, taskID, priority)
	return taskOrNil(args.Get(0)), args.Error(1)
}

func (m *MockTaskService) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	return m.Called(ctx, userID, taskID).Error(0)
}

func (m *MockTaskService) ListTasks(
	ctx context.Context,
	userID uuid.UUID,
	filter domain.TaskFilter,
) (domain.Page[*domain.Task], error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).(domain.Page[*domain.Task]), args.Error(1)
}

func (m *MockTaskService) ListProjectTasks(
	ctx context.Context,
	userID, projectID uuid.UUID,
	page int,
) (domain.Page[*domain.Task], error) {
	args := m.Called(ctx, userID, projectID, page)
	return args.Get(0).(domain.Page[*domain.Task]), args.Error(1)
}

func taskOrNil(v any) *domain.Task {
	if v == nil {
		return nil
	}
	return v.(*domain.Task)
}

// MockProjectService mocks service.ProjectService
type MockProjectService struct {
	mock.Mock
}

var _ service.ProjectService = (*MockProjectService)(nil)

func (m *MockProjectService) CreateProject(
	ctx context.Context,
	userID uuid.UUID,
	params service.ProjectParams,
) (*domain.Project, error) {
	args := m.Called(ctx, userID, params)
	return projectOrNil(args.Get(0)), args.Error(1)
}

func (m *MockProjectService) GetProject(ctx context.Context, userID, projectID uuid.UUID) (*domain.Project, error) {
	args := m.Called(ctx, userID, projectID)
	return projectOrNil(args.Get(0)), args.Error(1)
}

func (m *MockProjectService) ListProjects(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Project), args.Error(1)
}

func (m *MockProjectService) UpdateProject(
	ctx context.Context,
	userID, projectID uuid.UUID,
	params service.ProjectParams,
) (*domain.Project, error) {
	args := m.Called(ctx, userID, projectID, params)
	return projectOrNil(args.Get(0)), args.Error(1)
}

func (m *MockProjectService) DeleteProject(ctx context.Context, userID, projectID uuid.UUID) error {
	return m.Called(ctx, userID, projectID).Error(0)
}

func projectOrNil(v any) *domain.Project {
	if v == nil {
		return nil
	}
	return v.(*domain.Project)
}

// MockUserService mocks service.UserService
type MockUserService struct {
	mock.Mock
}

var _ service.UserService = (*MockUserService)(nil)

func (m *MockUserService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	args := m.Called(ctx, name, email, password)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, userID)
	return userOrNil(args.Get(0)), args.Error(1)
}

func userOrNil(v any) *domain.User {
	if v == nil {
		return nil
	}
	return v.(*domain.User)
}

// MockDashboardService mocks service.DashboardService
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) GetDashboard(ctx context.Context, userID uuid.UUID) (*domain.Dashboard, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dashboard), args.Error(1)
}

// MockJWTService mocks auth.JWTService
type MockJWTService struct {
	mock.Mock
}

var _ auth.JWTService = (*MockJWTService)(nil)

func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Claims), args.Error(1)
}

func contextWithRoute(r *http.Request, rctx *chi.Context) context.Context {
	return context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
}
