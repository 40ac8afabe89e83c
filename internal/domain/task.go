package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the progress state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

// Task validation errors
var (
	ErrEmptyTaskID     = NewValidationError("id", "Task ID cannot be empty", nil)
	ErrEmptyTaskUserID = NewValidationError("userId", "Task user ID cannot be empty", nil)
	ErrEmptyTaskTitle  = NewValidationError("title", "Title is required", nil)
	ErrInvalidStatus   = NewValidationError(
		"status",
		"Status must be a valid TaskStatus (TODO, IN_PROGRESS, DONE)",
		nil,
	)
)

// Task is a unit of work owned by exactly one user.
// The owner is never serialized; ownership is implied by the caller's identity.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"-"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TaskUpdate carries a partial update. Nil fields are left unchanged.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *TaskStatus
}

// NewTask creates a new Task for userID. An empty status defaults to TODO.
func NewTask(userID uuid.UUID, title string, description *string, status TaskStatus) (*Task, error) {
	if status == "" {
		status = TaskStatusTodo
	}

	now := Now()
	task := &Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if t.UserID == uuid.Nil {
		return ErrEmptyTaskUserID
	}
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTaskTitle
	}
	if !IsValidTaskStatus(t.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// ApplyUpdate merges the non-nil fields of u into the task, validates the
// result and bumps UpdatedAt. The task is left untouched on validation failure.
func (t *Task) ApplyUpdate(u TaskUpdate) error {
	next := *t
	if u.Title != nil {
		next.Title = *u.Title
	}
	if u.Description != nil {
		desc := *u.Description
		next.Description = &desc
	}
	if u.Status != nil {
		next.Status = *u.Status
	}

	if err := next.Validate(); err != nil {
		return err
	}

	next.UpdatedAt = Now()
	*t = next
	return nil
}

// IsValidTaskStatus reports whether s is one of the known task statuses.
func IsValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}
