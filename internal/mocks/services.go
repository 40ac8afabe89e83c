package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/service/auth"
	"github.com/phrazzld/tasks-api/internal/store"
)

// MockUserDirectory implements auth.UserDirectory for testing
type MockUserDirectory struct {
	GetUserByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	CreateUserFn     func(ctx context.Context, email, name, password string) (*domain.User, error)
}

var _ auth.UserDirectory = (*MockUserDirectory)(nil)

// GetUserByEmail implements auth.UserDirectory
func (m *MockUserDirectory) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetUserByEmailFn != nil {
		return m.GetUserByEmailFn(ctx, email)
	}
	return nil, store.ErrUserNotFound
}

// CreateUser implements auth.UserDirectory
func (m *MockUserDirectory) CreateUser(ctx context.Context, email, name, password string) (*domain.User, error) {
	if m.CreateUserFn != nil {
		return m.CreateUserFn(ctx, email, name, password)
	}
	return domain.NewUser(email, name, "hashed:"+password)
}

// MockAuthService provides Login and Register for handler tests.
type MockAuthService struct {
	LoginFn    func(ctx context.Context, email, password string) (*auth.AuthResult, error)
	RegisterFn func(ctx context.Context, email, name, password string) (*auth.AuthResult, error)
}

// Login mirrors auth.AuthService.Login
func (m *MockAuthService) Login(ctx context.Context, email, password string) (*auth.AuthResult, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, email, password)
	}
	return &auth.AuthResult{AccessToken: "mock-token", ExpiresIn: auth.ExpiresIn}, nil
}

// Register mirrors auth.AuthService.Register
func (m *MockAuthService) Register(ctx context.Context, email, name, password string) (*auth.AuthResult, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, email, name, password)
	}
	return &auth.AuthResult{AccessToken: "mock-token", ExpiresIn: auth.ExpiresIn}, nil
}

// MockTaskService implements service.TaskService for testing
type MockTaskService struct {
	CreateTaskFn func(ctx context.Context, userID uuid.UUID, input service.CreateTaskInput) (*domain.Task, error)
	ListTasksFn  func(ctx context.Context, userID uuid.UUID, filter store.TaskFilter) (*service.TaskPage, error)
	GetTaskFn    func(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)
	UpdateTaskFn func(ctx context.Context, userID, taskID uuid.UUID, update domain.TaskUpdate) (*domain.Task, error)
	DeleteTaskFn func(ctx context.Context, userID, taskID uuid.UUID) error
}

var _ service.TaskService = (*MockTaskService)(nil)

// CreateTask implements service.TaskService
func (m *MockTaskService) CreateTask(
	ctx context.Context,
	userID uuid.UUID,
	input service.CreateTaskInput,
) (*domain.Task, error) {
	if m.CreateTaskFn != nil {
		return m.CreateTaskFn(ctx, userID, input)
	}
	return domain.NewTask(userID, input.Title, input.Description, input.Status)
}

// ListTasks implements service.TaskService
func (m *MockTaskService) ListTasks(
	ctx context.Context,
	userID uuid.UUID,
	filter store.TaskFilter,
) (*service.TaskPage, error) {
	if m.ListTasksFn != nil {
		return m.ListTasksFn(ctx, userID, filter)
	}
	filter = filter.Normalize()
	return &service.TaskPage{Data: []*domain.Task{}, Offset: filter.Offset, Limit: filter.Limit}, nil
}

// GetTask implements service.TaskService
func (m *MockTaskService) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	if m.GetTaskFn != nil {
		return m.GetTaskFn(ctx, userID, taskID)
	}
	return nil, store.ErrTaskNotFound
}

// UpdateTask implements service.TaskService
func (m *MockTaskService) UpdateTask(
	ctx context.Context,
	userID, taskID uuid.UUID,
	update domain.TaskUpdate,
) (*domain.Task, error) {
	if m.UpdateTaskFn != nil {
		return m.UpdateTaskFn(ctx, userID, taskID, update)
	}
	return nil, store.ErrTaskNotFound
}

// DeleteTask implements service.TaskService
func (m *MockTaskService) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	if m.DeleteTaskFn != nil {
		return m.DeleteTaskFn(ctx, userID, taskID)
	}
	return store.ErrTaskNotFound
}

// MockHealthChecker provides Check for handler tests.
type MockHealthChecker struct {
	Err error
}

// Check returns the configured error.
func (m *MockHealthChecker) Check(ctx context.Context) error {
	return m.Err
}
