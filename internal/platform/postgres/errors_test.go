package postgres_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/tasks-api/internal/platform/postgres"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/stretchr/testify/assert"
)

// Mock PgError creation helper
func newPgError(code, constraint string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           code,
		Message:        "error message",
		SchemaName:     "public",
		TableName:      "test_table",
		ColumnName:     "test_column",
		ConstraintName: constraint,
	}
}

// MockResult implements sql.Result for testing
type MockResult struct {
	rowsAffected int64
	err          error
}

func (m MockResult) LastInsertId() (int64, error) { return 0, m.err }
func (m MockResult) RowsAffected() (int64, error) { return m.rowsAffected, m.err }

func TestViolationPredicates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		unique     bool
		foreignKey bool
		check      bool
	}{
		{name: "nil error"},
		{name: "non-postgres error", err: errors.New("generic error")},
		{name: "unique violation", err: newPgError("23505", "users_email_key"), unique: true},
		{name: "wrapped unique violation", err: fmt.Errorf("insert: %w", newPgError("23505", "")), unique: true},
		{name: "foreign key violation", err: newPgError("23503", "tasks_user_id_fkey"), foreignKey: true},
		{name: "check violation", err: newPgError("23514", "tasks_status_check"), check: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.unique, postgres.IsUniqueViolation(tt.err))
			assert.Equal(t, tt.foreignKey, postgres.IsForeignKeyViolation(tt.err))
			assert.Equal(t, tt.check, postgres.IsCheckConstraintViolation(tt.err))
		})
	}
}

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	assert.True(t, postgres.IsNotFoundError(sql.ErrNoRows))
	assert.True(t, postgres.IsNotFoundError(store.ErrTaskNotFound))
	assert.True(t, postgres.IsNotFoundError(fmt.Errorf("wrapped: %w", sql.ErrNoRows)))
	assert.False(t, postgres.IsNotFoundError(errors.New("other")))
	assert.False(t, postgres.IsNotFoundError(nil))
}

// TestCheckRowsAffected tests the CheckRowsAffected function
func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		result   sql.Result
		notFound error
		wantErr  error
		wantMsg  string
	}{
		{name: "one row", result: MockResult{rowsAffected: 1}},
		{name: "zero rows with sentinel", result: MockResult{}, notFound: store.ErrTaskNotFound, wantErr: store.ErrTaskNotFound},
		{name: "zero rows default", result: MockResult{}, wantErr: store.ErrNotFound},
		{name: "rows affected error", result: MockResult{err: errors.New("driver")}, wantMsg: "failed to get rows affected"},
		{name: "nil result", result: nil, wantMsg: "nil result"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := postgres.CheckRowsAffected(tt.result, tt.notFound)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantMsg != "":
				assert.ErrorContains(t, err, tt.wantMsg)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestMapError(t *testing.T) {
	t.Parallel()

	plain := errors.New("plain")

	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{name: "no rows", err: sql.ErrNoRows, wantErr: store.ErrNotFound},
		{name: "unique", err: newPgError("23505", "users_email_key"), wantErr: store.ErrDuplicate},
		{name: "foreign key", err: newPgError("23503", "fk"), wantErr: store.ErrInvalidEntity},
		{name: "check", err: newPgError("23514", "chk"), wantErr: store.ErrInvalidEntity},
		{name: "not null", err: newPgError("23502", ""), wantErr: store.ErrInvalidEntity},
		{name: "invalid text representation", err: newPgError("22P02", ""), wantErr: store.ErrInvalidEntity},
		{name: "unmapped", err: plain, wantErr: plain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.ErrorIs(t, postgres.MapError(tt.err), tt.wantErr)
		})
	}

	assert.NoError(t, postgres.MapError(nil))
}

// TestMapUniqueViolation tests the MapUniqueViolation function
func TestMapUniqueViolation(t *testing.T) {
	t.Parallel()

	t.Run("matching constraint maps to specific error", func(t *testing.T) {
		err := postgres.MapUniqueViolation(newPgError("23505", "users_email_key"), "users_email_key", store.ErrEmailExists)
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("other constraint maps to generic duplicate", func(t *testing.T) {
		err := postgres.MapUniqueViolation(newPgError("23505", "users_pkey"), "users_email_key", store.ErrEmailExists)
		assert.ErrorIs(t, err, store.ErrDuplicate)
		assert.NotErrorIs(t, err, store.ErrEmailExists)
		assert.Contains(t, err.Error(), "users_pkey")
	})

	t.Run("non unique error passes through", func(t *testing.T) {
		orig := newPgError("23503", "fk")
		assert.Same(t, orig, postgres.MapUniqueViolation(orig, "users_email_key", store.ErrEmailExists))
	})
}
