package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/mocks"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTask(t *testing.T, owner uuid.UUID) *domain.Task {
	t.Helper()
	desc := "Buy milk"
	task, err := domain.NewTask(owner, "Groceries", &desc, domain.TaskStatusTodo)
	require.NoError(t, err)
	return task
}

func serve(h http.Handler, method, target string, body interface{}, t *testing.T) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, jsonBody(t, body))
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestTaskHandler_RequiresUser(t *testing.T) {
	t.Parallel()

	router := taskRouter(NewTaskHandler(&mocks.MockTaskService{}), uuid.Nil)
	id := uuid.NewString()

	for _, tc := range []struct{ method, target string }{
		{http.MethodPost, "/tasks"},
		{http.MethodGet, "/tasks"},
		{http.MethodGet, "/tasks/" + id},
		{http.MethodPatch, "/tasks/" + id},
		{http.MethodDelete, "/tasks/" + id},
	} {
		w := serve(router, tc.method, tc.target, nil, t)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.target)
		assert.Equal(t, MsgLoginRequired, decodeError(t, w).Message)
	}
}

func TestTaskHandler_CreateTask(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("defaults status to TODO", func(t *testing.T) {
		var got service.CreateTaskInput
		svc := &mocks.MockTaskService{
			CreateTaskFn: func(ctx context.Context, owner uuid.UUID, input service.CreateTaskInput) (*domain.Task, error) {
				assert.Equal(t, userID, owner)
				got = input
				return domain.NewTask(owner, input.Title, input.Description, input.Status)
			},
		}

		w := serve(taskRouter(NewTaskHandler(svc), userID), http.MethodPost, "/tasks",
			map[string]string{"title": "Write tests"}, t)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		assert.Equal(t, "Write tests", got.Title)
		assert.Nil(t, got.Description)
		assert.Empty(t, got.Status)

		var resp map[string]interface{}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "TODO", resp["status"])
		assert.Nil(t, resp["description"])
		assert.Contains(t, resp, "createdAt")
		assert.Contains(t, resp, "updatedAt")
		assert.NotContains(t, resp, "userId")
	})

	t.Run("long title is accepted", func(t *testing.T) {
		title := strings.Repeat("x", 300)
		w := serve(taskRouter(NewTaskHandler(&mocks.MockTaskService{}), userID), http.MethodPost, "/tasks",
			map[string]string{"title": title}, t)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp TaskResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, title, resp.Title)
	})

	tests := []struct {
		name        string
		body        interface{}
		wantMessage string
	}{
		{name: "missing title", body: map[string]string{"description": "x"}, wantMessage: "Title is required"},
		{name: "title wrong type", body: `{"title": 7}`, wantMessage: "Title must be a string"},
		{name: "bad status", body: map[string]string{"title": "x", "status": "LATER"}, wantMessage: invalidStatusMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mocks.MockTaskService{
				CreateTaskFn: func(context.Context, uuid.UUID, service.CreateTaskInput) (*domain.Task, error) {
					t.Fatal("service must not be called")
					return nil, nil
				},
			}
			w := serve(taskRouter(NewTaskHandler(svc), userID), http.MethodPost, "/tasks", tt.body, t)
			require.Equal(t, http.StatusBadRequest, w.Code)
			body := decodeError(t, w)
			assert.Equal(t, tt.wantMessage, body.Message)
			require.NotEmpty(t, body.Details)
		})
	}
}

func TestTaskHandler_ListTasks(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("passes filter through and echoes the page", func(t *testing.T) {
		var got store.TaskFilter
		task := sampleTask(t, userID)
		svc := &mocks.MockTaskService{
			ListTasksFn: func(ctx context.Context, owner uuid.UUID, filter store.TaskFilter) (*service.TaskPage, error) {
				got = filter
				return &service.TaskPage{Data: []*domain.Task{task}, Total: 11, Offset: filter.Offset, Limit: filter.Limit}, nil
			},
		}

		w := serve(taskRouter(NewTaskHandler(svc), userID), http.MethodGet, "/tasks?status=DONE&offset=10&limit=1", nil, t)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		require.NotNil(t, got.Status)
		assert.Equal(t, domain.TaskStatusDone, *got.Status)
		assert.Equal(t, 10, got.Offset)
		assert.Equal(t, 1, got.Limit)

		var resp TaskListResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, 11, resp.Total)
		assert.Equal(t, 10, resp.Offset)
		assert.Equal(t, 1, resp.Limit)
		require.Len(t, resp.Data, 1)
		assert.Equal(t, task.ID, resp.Data[0].ID)
	})

	t.Run("limit above maximum is clamped", func(t *testing.T) {
		var got store.TaskFilter
		svc := &mocks.MockTaskService{
			ListTasksFn: func(ctx context.Context, owner uuid.UUID, filter store.TaskFilter) (*service.TaskPage, error) {
				got = filter
				return &service.TaskPage{Data: []*domain.Task{}, Offset: filter.Offset, Limit: filter.Limit}, nil
			},
		}

		w := serve(taskRouter(NewTaskHandler(svc), userID), http.MethodGet, "/tasks?limit=500", nil, t)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, store.MaxLimit, got.Limit)
		assert.JSONEq(t, `{"data":[],"total":0,"offset":0,"limit":100}`, w.Body.String())
	})

	t.Run("defaults", func(t *testing.T) {
		w := serve(taskRouter(NewTaskHandler(&mocks.MockTaskService{}), userID), http.MethodGet, "/tasks", nil, t)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":[],"total":0,"offset":0,"limit":10}`, w.Body.String())
	})

	for _, tc := range []struct {
		query   string
		message string
	}{
		{"status=LATER", invalidStatusMessage},
		{"offset=abc", "Offset must be an integer"},
		{"offset=-1", "Offset must not be negative"},
		{"limit=0", "Limit must be at least 1"},
		{"limit=1.5", "Limit must be an integer"},
	} {
		t.Run(tc.query, func(t *testing.T) {
			w := serve(taskRouter(NewTaskHandler(&mocks.MockTaskService{}), userID), http.MethodGet, "/tasks?"+tc.query, nil, t)
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.message, decodeError(t, w).Message)
		})
	}
}

func TestTaskHandler_GetTask(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	task := sampleTask(t, userID)
	svc := &mocks.MockTaskService{
		GetTaskFn: func(ctx context.Context, owner, id uuid.UUID) (*domain.Task, error) {
			if owner == userID && id == task.ID {
				return task, nil
			}
			return nil, store.ErrTaskNotFound
		},
	}
	router := taskRouter(NewTaskHandler(svc), userID)

	w := serve(router, http.MethodGet, "/tasks/"+task.ID.String(), nil, t)
	require.Equal(t, http.StatusOK, w.Code)
	var resp TaskResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, task.ID, resp.ID)
	assert.Equal(t, "Groceries", resp.Title)
	assert.WithinDuration(t, task.CreatedAt, resp.CreatedAt, time.Millisecond)

	for _, id := range []string{uuid.NewString(), "not-a-uuid"} {
		w = serve(router, http.MethodGet, "/tasks/"+id, nil, t)
		assert.Equal(t, http.StatusNotFound, w.Code, id)
		assert.Equal(t, MsgTaskNotFound, decodeError(t, w).Message)
	}
}

func TestTaskHandler_UpdateTask(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("partial update", func(t *testing.T) {
		task := sampleTask(t, userID)
		var got domain.TaskUpdate
		svc := &mocks.MockTaskService{
			UpdateTaskFn: func(ctx context.Context, owner, id uuid.UUID, update domain.TaskUpdate) (*domain.Task, error) {
				got = update
				return task, task.ApplyUpdate(update)
			},
		}

		w := serve(taskRouter(NewTaskHandler(svc), userID), http.MethodPatch, "/tasks/"+task.ID.String(),
			map[string]string{"status": "IN_PROGRESS"}, t)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		assert.Nil(t, got.Title)
		assert.Nil(t, got.Description)
		require.NotNil(t, got.Status)
		assert.Equal(t, domain.TaskStatusInProgress, *got.Status)

		var resp TaskResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, domain.TaskStatusInProgress, resp.Status)
		assert.Equal(t, "Groceries", resp.Title)
	})

	t.Run("empty title rejected", func(t *testing.T) {
		w := serve(taskRouter(NewTaskHandler(&mocks.MockTaskService{}), userID), http.MethodPatch,
			"/tasks/"+uuid.NewString(), map[string]string{"title": ""}, t)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Title is required", decodeError(t, w).Message)
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		w := serve(taskRouter(NewTaskHandler(&mocks.MockTaskService{}), userID), http.MethodPatch,
			"/tasks/"+uuid.NewString(), map[string]string{"status": "todo"}, t)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, invalidStatusMessage, decodeError(t, w).Message)
	})

	t.Run("domain validation error surfaces with details", func(t *testing.T) {
		svc := &mocks.MockTaskService{
			UpdateTaskFn: func(context.Context, uuid.UUID, uuid.UUID, domain.TaskUpdate) (*domain.Task, error) {
				return nil, domain.ErrEmptyTaskTitle
			},
		}
		w := serve(taskRouter(NewTaskHandler(svc), userID), http.MethodPatch,
			"/tasks/"+uuid.NewString(), map[string]string{"title": "   "}, t)
		require.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, "Title is required", body.Message)
		require.Len(t, body.Details, 1)
		assert.Equal(t, "title", body.Details[0].Field)
	})

	t.Run("other owner", func(t *testing.T) {
		w := serve(taskRouter(NewTaskHandler(&mocks.MockTaskService{}), userID), http.MethodPatch,
			"/tasks/"+uuid.NewString(), map[string]string{"title": "x"}, t)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTaskHandler_DeleteTask(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	taskID := uuid.New()
	svc := &mocks.MockTaskService{
		DeleteTaskFn: func(ctx context.Context, owner, id uuid.UUID) error {
			switch {
			case id == taskID:
				return nil
			case id == uuid.Nil:
				return errors.New("unreachable")
			default:
				return store.ErrTaskNotFound
			}
		},
	}
	router := taskRouter(NewTaskHandler(svc), userID)

	w := serve(router, http.MethodDelete, "/tasks/"+taskID.String(), nil, t)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = serve(router, http.MethodDelete, "/tasks/"+uuid.NewString(), nil, t)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(router, http.MethodDelete, "/tasks/"+uuid.Nil.String(), nil, t)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, MsgUnexpected, decodeError(t, w).Message)
}
