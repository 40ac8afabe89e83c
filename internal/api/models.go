package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/service"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email           string `json:"email"           validate:"required,email"`
	Name            string `json:"name"            validate:"required,max=100"`
	Password        string `json:"password"        validate:"required,min=8,max=100,password"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=100,password"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// AccessToken is the JWT used for API authorization
	AccessToken string `json:"accessToken"`

	// ExpiresIn is the token lifetime, e.g. "3d"
	ExpiresIn string `json:"expiresIn"`
}

// CreateTaskRequest defines the payload for creating a task.
type CreateTaskRequest struct {
	Title       string            `json:"title"       validate:"required"`
	Description *string           `json:"description"`
	Status      domain.TaskStatus `json:"status"      validate:"omitempty,taskstatus"`
}

// UpdateTaskRequest defines the payload for a partial task update.
// Absent fields are left unchanged.
type UpdateTaskRequest struct {
	Title       *string            `json:"title"       validate:"omitempty,min=1"`
	Description *string            `json:"description"`
	Status      *domain.TaskStatus `json:"status"      validate:"omitempty,taskstatus"`
}

// TaskResponse is the public projection of a task. The owner is never exposed.
type TaskResponse struct {
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	Description *string           `json:"description"`
	Status      domain.TaskStatus `json:"status"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// TaskListResponse is one page of tasks.
type TaskListResponse struct {
	Data   []TaskResponse `json:"data"`
	Total  int            `json:"total"`
	Offset int            `json:"offset"`
	Limit  int            `json:"limit"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Message string `json:"message"`
}

func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func pageToResponse(page *service.TaskPage) TaskListResponse {
	data := make([]TaskResponse, 0, len(page.Data))
	for _, task := range page.Data {
		data = append(data, taskToResponse(task))
	}
	return TaskListResponse{
		Data:   data,
		Total:  page.Total,
		Offset: page.Offset,
		Limit:  page.Limit,
	}
}
