// Package storetest holds a behavioral test suite shared by every
// store.UserStore and store.TaskStore implementation.
package storetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Stores is what a backend hands to the suite for a single subtest.
type Stores struct {
	Users store.UserStore
	Tasks store.TaskStore
}

// Factory returns isolated stores for one subtest.
type Factory func(t *testing.T) Stores

// Run exercises the full store contract against the backend built by newStores.
func Run(t *testing.T, newStores Factory) {
	t.Run("UserCreateAndGet", func(t *testing.T) { testUserCreateAndGet(t, newStores(t)) })
	t.Run("UserDuplicateEmail", func(t *testing.T) { testUserDuplicateEmail(t, newStores(t)) })
	t.Run("UserNotFound", func(t *testing.T) { testUserNotFound(t, newStores(t)) })
	t.Run("TaskCreateAndGet", func(t *testing.T) { testTaskCreateAndGet(t, newStores(t)) })
	t.Run("TaskOwnership", func(t *testing.T) { testTaskOwnership(t, newStores(t)) })
	t.Run("TaskListAndCount", func(t *testing.T) { testTaskListAndCount(t, newStores(t)) })
	t.Run("TaskUpdate", func(t *testing.T) { testTaskUpdate(t, newStores(t)) })
	t.Run("TaskDelete", func(t *testing.T) { testTaskDelete(t, newStores(t)) })
}

func mustUser(t *testing.T, s Stores, email string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(email, "Test User", "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA")
	require.NoError(t, err)
	require.NoError(t, s.Users.Create(context.Background(), user))
	return user
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%s@example.com", prefix, uuid.NewString()[:8])
}

func testUserCreateAndGet(t *testing.T, s Stores) {
	ctx := context.Background()
	user := mustUser(t, s, uniqueEmail("create"))

	byID, err := s.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, byID.Email)
	assert.Equal(t, user.Name, byID.Name)
	assert.Equal(t, user.PasswordHash, byID.PasswordHash)
	assert.True(t, user.CreatedAt.Equal(byID.CreatedAt), "created_at round trip")

	byEmail, err := s.Users.GetByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
}

func testUserDuplicateEmail(t *testing.T, s Stores) {
	email := uniqueEmail("dup")
	mustUser(t, s, email)

	again, err := domain.NewUser(email, "Other", "hash")
	require.NoError(t, err)
	err = s.Users.Create(context.Background(), again)
	assert.ErrorIs(t, err, store.ErrEmailExists)
}

func testUserNotFound(t *testing.T, s Stores) {
	ctx := context.Background()

	_, err := s.Users.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	_, err = s.Users.GetByEmail(ctx, uniqueEmail("ghost"))
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func testTaskCreateAndGet(t *testing.T, s Stores) {
	ctx := context.Background()
	owner := mustUser(t, s, uniqueEmail("task"))
	desc := "with a description"

	task, err := domain.NewTask(owner.ID, "First", &desc, "")
	require.NoError(t, err)
	require.NoError(t, s.Tasks.Create(ctx, task))

	got, err := s.Tasks.GetByID(ctx, task.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Title, got.Title)
	assert.Equal(t, domain.TaskStatusTodo, got.Status)
	require.NotNil(t, got.Description)
	assert.Equal(t, desc, *got.Description)
	assert.True(t, task.CreatedAt.Equal(got.CreatedAt))

	bare, err := domain.NewTask(owner.ID, "No description", nil, domain.TaskStatusDone)
	require.NoError(t, err)
	require.NoError(t, s.Tasks.Create(ctx, bare))

	got, err = s.Tasks.GetByID(ctx, bare.ID, owner.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Description)
	assert.Equal(t, domain.TaskStatusDone, got.Status)
}

func testTaskOwnership(t *testing.T, s Stores) {
	ctx := context.Background()
	alice := mustUser(t, s, uniqueEmail("alice"))
	bob := mustUser(t, s, uniqueEmail("bob"))

	task, err := domain.NewTask(alice.ID, "Alice's", nil, "")
	require.NoError(t, err)
	require.NoError(t, s.Tasks.Create(ctx, task))

	_, err = s.Tasks.GetByID(ctx, task.ID, bob.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	hijack := *task
	hijack.UserID = bob.ID
	hijack.Title = "Bob's now"
	assert.ErrorIs(t, s.Tasks.Update(ctx, &hijack), store.ErrTaskNotFound)

	assert.ErrorIs(t, s.Tasks.Delete(ctx, task.ID, bob.ID), store.ErrTaskNotFound)

	bobs, err := s.Tasks.List(ctx, bob.ID, store.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, bobs)

	still, err := s.Tasks.GetByID(ctx, task.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice's", still.Title)
}

func testTaskListAndCount(t *testing.T, s Stores) {
	ctx := context.Background()
	owner := mustUser(t, s, uniqueEmail("list"))
	base := domain.Now().Add(-time.Hour)

	statuses := []domain.TaskStatus{
		domain.TaskStatusTodo,
		domain.TaskStatusDone,
		domain.TaskStatusTodo,
		domain.TaskStatusInProgress,
		domain.TaskStatusTodo,
	}
	ids := make([]uuid.UUID, len(statuses))
	for i, status := range statuses {
		task, err := domain.NewTask(owner.ID, fmt.Sprintf("Task %d", i), nil, status)
		require.NoError(t, err)
		task.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		task.UpdatedAt = task.CreatedAt
		require.NoError(t, s.Tasks.Create(ctx, task))
		ids[i] = task.ID
	}

	all, err := s.Tasks.List(ctx, owner.ID, store.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, ids[4], all[0].ID, "newest first")
	assert.Equal(t, ids[0], all[4].ID)

	page, err := s.Tasks.List(ctx, owner.ID, store.TaskFilter{Offset: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[3], page[0].ID)
	assert.Equal(t, ids[2], page[1].ID)

	past, err := s.Tasks.List(ctx, owner.ID, store.TaskFilter{Offset: 10, Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, past)

	todo := domain.TaskStatusTodo
	todos, err := s.Tasks.List(ctx, owner.ID, store.TaskFilter{Status: &todo})
	require.NoError(t, err)
	require.Len(t, todos, 3)
	for _, task := range todos {
		assert.Equal(t, domain.TaskStatusTodo, task.Status)
	}

	n, err := s.Tasks.Count(ctx, owner.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = s.Tasks.Count(ctx, owner.ID, &todo)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func testTaskUpdate(t *testing.T, s Stores) {
	ctx := context.Background()
	owner := mustUser(t, s, uniqueEmail("update"))

	task, err := domain.NewTask(owner.ID, "Before", nil, "")
	require.NoError(t, err)
	require.NoError(t, s.Tasks.Create(ctx, task))

	title, desc, status := "After", "now described", domain.TaskStatusInProgress
	require.NoError(t, task.ApplyUpdate(domain.TaskUpdate{Title: &title, Description: &desc, Status: &status}))
	require.NoError(t, s.Tasks.Update(ctx, task))

	got, err := s.Tasks.GetByID(ctx, task.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", got.Title)
	require.NotNil(t, got.Description)
	assert.Equal(t, desc, *got.Description)
	assert.Equal(t, status, got.Status)
	assert.True(t, task.UpdatedAt.Equal(got.UpdatedAt))
	assert.True(t, task.CreatedAt.Equal(got.CreatedAt))

	missing := *task
	missing.ID = uuid.New()
	assert.ErrorIs(t, s.Tasks.Update(ctx, &missing), store.ErrTaskNotFound)
}

func testTaskDelete(t *testing.T, s Stores) {
	ctx := context.Background()
	owner := mustUser(t, s, uniqueEmail("delete"))

	task, err := domain.NewTask(owner.ID, "Doomed", nil, "")
	require.NoError(t, err)
	require.NoError(t, s.Tasks.Create(ctx, task))

	require.NoError(t, s.Tasks.Delete(ctx, task.ID, owner.ID))

	_, err = s.Tasks.GetByID(ctx, task.ID, owner.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	assert.ErrorIs(t, s.Tasks.Delete(ctx, task.ID, owner.ID), store.ErrTaskNotFound)
}
