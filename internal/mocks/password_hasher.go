package mocks

import (
	"strings"

	"github.com/phrazzld/tasks-api/internal/service/auth"
)

// MockPasswordHasher implements auth.PasswordHasher for testing.
// By default Hash returns "hashed:" + password and Verify checks for that form.
type MockPasswordHasher struct {
	HashFn   func(password string) (string, error)
	VerifyFn func(password, encoded string) (bool, error)

	// VerifyCallCount tracks how many times Verify was called
	VerifyCallCount int
}

var _ auth.PasswordHasher = (*MockPasswordHasher)(nil)

// Hash implements the auth.PasswordHasher interface
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return "hashed:" + password, nil
}

// Verify implements the auth.PasswordHasher interface
func (m *MockPasswordHasher) Verify(password, encoded string) (bool, error) {
	m.VerifyCallCount++
	if m.VerifyFn != nil {
		return m.VerifyFn(password, encoded)
	}
	if !strings.HasPrefix(encoded, "hashed:") {
		return false, auth.ErrInvalidHash
	}
	return encoded == "hashed:"+password, nil
}
