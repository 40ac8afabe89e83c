package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

// UserDirectory is the slice of the user service the auth flow needs.
type UserDirectory interface {
	// GetUserByEmail returns store.ErrUserNotFound when no user has email.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// CreateUser hashes password and persists a new user. Returns
	// store.ErrEmailExists when email is already registered.
	CreateUser(ctx context.Context, email, name, password string) (*domain.User, error)
}

// AuthResult is returned by a successful login or registration.
type AuthResult struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   string `json:"expiresIn"`
}

// AuthService issues access tokens for registered users.
type AuthService struct {
	users  UserDirectory
	hasher PasswordHasher
	tokens JWTService
	logger *slog.Logger

	// dummyHash is verified against when the email is unknown so both
	// failure paths cost one hash verification.
	dummyHash string
}

// NewAuthService creates an AuthService. If logger is nil, a default logger will be used.
func NewAuthService(users UserDirectory, hasher PasswordHasher, tokens JWTService, logger *slog.Logger) (*AuthService, error) {
	if users == nil || hasher == nil || tokens == nil {
		return nil, errors.New("auth service requires a user directory, hasher and token service")
	}
	if logger == nil {
		logger = slog.Default()
	}

	dummy, err := hasher.Hash("timing-equalizer-Password1")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}

	return &AuthService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		logger:    logger.With(slog.String("component", "auth_service")),
		dummyHash: dummy,
	}, nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			_, _ = s.hasher.Verify(password, s.dummyHash)
			log.Warn("login failed: unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		log.Error("stored password hash could not be verified",
			slog.String("user_id", user.ID.String()),
			slog.String("error", err.Error()))
		return nil, ErrInvalidCredentials
	}
	if !ok {
		log.Warn("login failed: wrong password", slog.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	return s.issue(ctx, user)
}

// Register creates a user and issues a token for them.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (*AuthResult, error) {
	user, err := s.users.CreateUser(ctx, email, name, password)
	if err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("user registered",
		slog.String("user_id", user.ID.String()))

	return s.issue(ctx, user)
}

func (s *AuthService) issue(ctx context.Context, user *domain.User) (*AuthResult, error) {
	token, err := s.tokens.GenerateToken(ctx, user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{AccessToken: token, ExpiresIn: ExpiresIn}, nil
}
