package domain

import (
	"net/mail"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Password and name length limits.
const (
	PasswordMinLength = 8
	PasswordMaxLength = 100
	NameMaxLength     = 100
)

// User validation errors
var (
	ErrEmptyUserID       = NewValidationError("id", "User ID cannot be empty", nil)
	ErrEmptyEmail        = NewValidationError("email", "Email is required", nil)
	ErrInvalidEmail      = NewValidationError("email", "Please provide a valid email address", nil)
	ErrEmptyName         = NewValidationError("name", "Name is required", nil)
	ErrNameTooLong       = NewValidationError("name", "Name must not exceed 100 characters", nil)
	ErrEmptyPasswordHash = NewValidationError("passwordHash", "Password hash cannot be empty", nil)

	ErrPasswordTooShort = NewValidationError("password", "Password must be at least 8 characters long", nil)
	ErrPasswordTooLong  = NewValidationError("password", "Password must not exceed 100 characters", nil)
	ErrPasswordTooWeak  = NewValidationError(
		"password",
		"Password must contain at least one uppercase letter, one lowercase letter, and one number",
		nil,
	)
)

// User represents a registered account.
// PasswordHash is an opaque digest and is never serialized.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewUser creates a new User with a fresh ID and timestamps.
// The caller supplies an already computed password hash; raw passwords never
// reach the domain entity.
func NewUser(email, name, passwordHash string) (*User, error) {
	now := Now()
	user := &User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}
	if u.Email == "" {
		return ErrEmptyEmail
	}
	if !IsValidEmail(u.Email) {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(u.Name) > NameMaxLength {
		return ErrNameTooLong
	}
	if u.PasswordHash == "" {
		return ErrEmptyPasswordHash
	}
	return nil
}

// IsValidEmail reports whether email is a bare RFC 5322 address
// (no display name).
func IsValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email && strings.Contains(email[strings.LastIndex(email, "@"):], ".")
}

// ValidatePassword enforces the password policy: 8-100 characters with at
// least one uppercase letter, one lowercase letter and one digit.
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < PasswordMinLength {
		return ErrPasswordTooShort
	}
	if n > PasswordMaxLength {
		return ErrPasswordTooLong
	}

	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return ErrPasswordTooWeak
	}
	return nil
}

// Now returns the current UTC time truncated to the microsecond precision
// that the databases store.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
