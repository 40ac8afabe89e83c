package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/platform/tracing"
	"github.com/phrazzld/tasks-api/internal/store"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// CreateTaskInput holds the caller-supplied fields of a new task.
// An empty Status defaults to TODO.
type CreateTaskInput struct {
	Title       string
	Description *string
	Status      domain.TaskStatus
}

// TaskPage is one page of a user's tasks. Total counts every task matching
// the filter, ignoring Offset and Limit.
type TaskPage struct {
	Data   []*domain.Task `json:"data"`
	Total  int            `json:"total"`
	Offset int            `json:"offset"`
	Limit  int            `json:"limit"`
}

// TaskService manages tasks on behalf of their owner. Every method is scoped
// by userID and reports tasks owned by someone else as store.ErrTaskNotFound.
type TaskService interface {
	CreateTask(ctx context.Context, userID uuid.UUID, input CreateTaskInput) (*domain.Task, error)
	ListTasks(ctx context.Context, userID uuid.UUID, filter store.TaskFilter) (*TaskPage, error)
	GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)
	UpdateTask(ctx context.Context, userID, taskID uuid.UUID, update domain.TaskUpdate) (*domain.Task, error)
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	taskStore store.TaskStore
	db        store.Beginner
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(taskStore store.TaskStore, db store.Beginner, logger *slog.Logger) (TaskService, error) {
	if taskStore == nil {
		return nil, errors.New("taskStore cannot be nil")
	}
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		taskStore: taskStore,
		db:        db,
		logger:    logger.With(slog.String("component", "task_service")),
	}, nil
}

func (s *taskServiceImpl) startSpan(ctx context.Context, name string, userID uuid.UUID) (context.Context, trace.Span) {
	return tracing.Tracer().Start(ctx, "TaskService."+name,
		trace.WithAttributes(attribute.String("user.id", userID.String())))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// CreateTask stores a new task owned by userID.
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	userID uuid.UUID,
	input CreateTaskInput,
) (task *domain.Task, err error) {
	ctx, span := s.startSpan(ctx, "CreateTask", userID)
	defer func() { endSpan(span, err) }()

	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err = domain.NewTask(userID, input.Title, input.Description, input.Status)
	if err != nil {
		log.Debug("invalid task data", "error", err, "user_id", userID)
		return nil, err
	}

	if err = s.taskStore.Create(ctx, task); err != nil {
		log.Error("failed to create task", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	log.Info("task created", "task_id", task.ID, "user_id", userID)
	return task, nil
}

// ListTasks returns a page of the user's tasks, newest first, with the total
// number of tasks matching filter.Status.
func (s *taskServiceImpl) ListTasks(
	ctx context.Context,
	userID uuid.UUID,
	filter store.TaskFilter,
) (page *TaskPage, err error) {
	ctx, span := s.startSpan(ctx, "ListTasks", userID)
	defer func() { endSpan(span, err) }()

	log := logger.FromContextOrDefault(ctx, s.logger)
	filter = filter.Normalize()
	span.SetAttributes(
		attribute.Int("page.offset", filter.Offset),
		attribute.Int("page.limit", filter.Limit),
	)

	tasks, err := s.taskStore.List(ctx, userID, filter)
	if err != nil {
		log.Error("failed to list tasks", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	total, err := s.taskStore.Count(ctx, userID, filter.Status)
	if err != nil {
		log.Error("failed to count tasks", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	if tasks == nil {
		tasks = []*domain.Task{}
	}

	return &TaskPage{
		Data:   tasks,
		Total:  total,
		Offset: filter.Offset,
		Limit:  filter.Limit,
	}, nil
}

// GetTask returns the task if userID owns it.
func (s *taskServiceImpl) GetTask(ctx context.Context, userID, taskID uuid.UUID) (task *domain.Task, err error) {
	ctx, span := s.startSpan(ctx, "GetTask", userID)
	defer func() { endSpan(span, err) }()

	task, err = s.taskStore.GetByID(ctx, taskID, userID)
	if err != nil {
		s.logStoreError(ctx, "failed to get task", err, userID, taskID)
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// UpdateTask applies a partial update to a task owned by userID. The read and
// the write share one transaction.
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	userID, taskID uuid.UUID,
	update domain.TaskUpdate,
) (task *domain.Task, err error) {
	ctx, span := s.startSpan(ctx, "UpdateTask", userID)
	defer func() { endSpan(span, err) }()

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.taskStore.WithTx(tx)

		current, err := txStore.GetByID(ctx, taskID, userID)
		if err != nil {
			return err
		}

		if err := current.ApplyUpdate(update); err != nil {
			return err
		}

		if err := txStore.Update(ctx, current); err != nil {
			return err
		}

		task = current
		return nil
	})
	if err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			return nil, err
		}
		s.logStoreError(ctx, "failed to update task", err, userID, taskID)
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task updated", "task_id", taskID, "user_id", userID)
	return task, nil
}

// DeleteTask removes a task owned by userID.
func (s *taskServiceImpl) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteTask", userID)
	defer func() { endSpan(span, err) }()

	if err = s.taskStore.Delete(ctx, taskID, userID); err != nil {
		s.logStoreError(ctx, "failed to delete task", err, userID, taskID)
		return fmt.Errorf("failed to delete task: %w", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task deleted", "task_id", taskID, "user_id", userID)
	return nil
}

// logStoreError logs not-found at debug level and everything else as an error.
func (s *taskServiceImpl) logStoreError(ctx context.Context, msg string, err error, userID, taskID uuid.UUID) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if errors.Is(err, store.ErrTaskNotFound) {
		log.Debug("task not found", "task_id", taskID, "user_id", userID)
		return
	}
	log.Error(msg, "error", err, "task_id", taskID, "user_id", userID)
}
