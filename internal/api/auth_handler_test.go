package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/tasks-api/internal/mocks"
	"github.com/phrazzld/tasks-api/internal/service/auth"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegistration() map[string]interface{} {
	return map[string]interface{}{
		"email":           "a@b.com",
		"name":            "A",
		"password":        "Password123",
		"confirmPassword": "Password123",
	}
}

func TestAuthHandler_Register(t *testing.T) {
	t.Parallel()

	with := func(key string, value interface{}) map[string]interface{} {
		body := validRegistration()
		if value == nil {
			delete(body, key)
		} else {
			body[key] = value
		}
		return body
	}

	tests := []struct {
		name        string
		body        interface{}
		registerErr error
		wantStatus  int
		wantMessage string
	}{
		{name: "success", body: validRegistration(), wantStatus: http.StatusCreated},
		{name: "missing email", body: with("email", nil), wantStatus: http.StatusBadRequest, wantMessage: "Email is required"},
		{name: "invalid email", body: with("email", "nope"), wantStatus: http.StatusBadRequest, wantMessage: "Please provide a valid email address"},
		{name: "missing name", body: with("name", nil), wantStatus: http.StatusBadRequest, wantMessage: "Name is required"},
		{name: "name not a string", body: with("name", 42), wantStatus: http.StatusBadRequest, wantMessage: "Name must be a string"},
		{
			name:        "short password",
			body:        with("password", "Pa1"),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Password must be at least 8 characters long",
		},
		{
			name:        "weak password",
			body:        map[string]interface{}{"email": "a@b.com", "name": "A", "password": "password123", "confirmPassword": "password123"},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Password must contain at least one uppercase letter, one lowercase letter, and one number",
		},
		{
			name:        "passwords do not match",
			body:        with("confirmPassword", "Password124"),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Passwords do not match",
		},
		{
			name:        "missing confirmation",
			body:        with("confirmPassword", nil),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Please confirm your password",
		},
		{name: "malformed json", body: `{"email":`, wantStatus: http.StatusBadRequest, wantMessage: "Invalid request format"},
		{name: "empty body", body: "", wantStatus: http.StatusBadRequest, wantMessage: "Email is required"},
		{
			name:        "email taken",
			body:        validRegistration(),
			registerErr: store.ErrEmailExists,
			wantStatus:  http.StatusConflict,
			wantMessage: "User with this email already exists",
		},
		{
			name:        "internal failure",
			body:        validRegistration(),
			registerErr: errors.New("db down"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var called bool
			h := NewAuthHandler(&mocks.MockAuthService{
				RegisterFn: func(ctx context.Context, email, name, password string) (*auth.AuthResult, error) {
					called = true
					if tt.registerErr != nil {
						return nil, tt.registerErr
					}
					return &auth.AuthResult{AccessToken: "token-for-" + email, ExpiresIn: auth.ExpiresIn}, nil
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/v1/auth/register", jsonBody(t, tt.body))
			w := httptest.NewRecorder()
			h.Register(w, req)

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus == http.StatusCreated {
				var resp AuthResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, AuthResponse{AccessToken: "token-for-a@b.com", ExpiresIn: "3d"}, resp)
				return
			}

			body := decodeError(t, w)
			assert.Equal(t, tt.wantMessage, body.Message)
			assert.Equal(t, tt.wantStatus, body.StatusCode)
			assert.Equal(t, http.StatusText(tt.wantStatus), body.Error)
			if tt.wantStatus == http.StatusBadRequest {
				assert.False(t, called, "validation failures never reach the service")
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	t.Parallel()

	h := NewAuthHandler(&mocks.MockAuthService{
		LoginFn: func(ctx context.Context, email, password string) (*auth.AuthResult, error) {
			if email == "a@b.com" && password == "Password123" {
				return &auth.AuthResult{AccessToken: "good", ExpiresIn: auth.ExpiresIn}, nil
			}
			return nil, auth.ErrInvalidCredentials
		},
	})

	login := func(body interface{}) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", jsonBody(t, body))
		w := httptest.NewRecorder()
		h.Login(w, req)
		return w
	}

	t.Run("success", func(t *testing.T) {
		w := login(map[string]string{"email": "a@b.com", "password": "Password123"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"accessToken":"good","expiresIn":"3d"}`, w.Body.String())
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		wrong := login(map[string]string{"email": "a@b.com", "password": "Password999"})
		unknown := login(map[string]string{"email": "ghost@b.com", "password": "Password123"})

		assert.Equal(t, http.StatusUnauthorized, wrong.Code)
		assert.Equal(t, http.StatusUnauthorized, unknown.Code)

		wrongBody, unknownBody := decodeError(t, wrong), decodeError(t, unknown)
		assert.Equal(t, "Invalid email or password", wrongBody.Message)
		assert.Equal(t, wrongBody.Message, unknownBody.Message)
	})

	t.Run("validation", func(t *testing.T) {
		w := login(map[string]string{"email": "a@b.com"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Password is required", decodeError(t, w).Message)
	})
}
