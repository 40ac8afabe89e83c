package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
)

// Pagination bounds applied by TaskFilter.Normalize.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// TaskFilter narrows and pages a task listing.
// Offset is the number of tasks to skip; Limit is the page size.
type TaskFilter struct {
	Status *domain.TaskStatus
	Offset int
	Limit  int
}

// Normalize clamps the pagination fields into range.
func (f TaskFilter) Normalize() TaskFilter {
	if f.Offset < 0 {
		f.Offset = 0
	}
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	return f
}

// TaskStore defines the interface for task data persistence.
// Every read and write is scoped by owner: a task belonging to another user
// behaves exactly like a task that does not exist.
type TaskStore interface {
	// Create saves a new task.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves the task with id owned by userID.
	// Returns ErrTaskNotFound if there is no such task.
	GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Task, error)

	// List returns userID's tasks ordered newest first.
	List(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]*domain.Task, error)

	// Count returns the number of userID's tasks matching the filter's status,
	// ignoring pagination.
	Count(ctx context.Context, userID uuid.UUID, status *domain.TaskStatus) (int, error)

	// Update persists title, description, status and updated_at of an
	// existing task. Returns ErrTaskNotFound if no row matched.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes the task with id owned by userID.
	// Returns ErrTaskNotFound if no row matched.
	Delete(ctx context.Context, id, userID uuid.UUID) error

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
