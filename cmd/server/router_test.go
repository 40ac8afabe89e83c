package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 3000, LogLevel: "error", CORSOrigins: "*"},
		Database: config.DatabaseConfig{
			Driver: driverSQLite,
			URL:    "unused",
		},
		Auth: config.AuthConfig{
			JWTSecret:      "test-jwt-secret-that-is-32-chars-long",
			HashSecret:     "test-hash-secret",
			PasswordHasher: "bcrypt",
		},
	}
}

// newTestServer runs the full router against a fresh SQLite database.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := newApplication(testConfig(), log, testdb.NewSQLite(t))
	require.NoError(t, err)

	srv := httptest.NewServer(app.setupRouter())
	t.Cleanup(srv.Close)
	return srv
}

type client struct {
	t     *testing.T
	base  string
	token string
}

func (c *client) do(method, path string, body interface{}) (int, map[string]interface{}) {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, c.base+path, reader)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)

	var out map[string]interface{}
	if len(raw) > 0 {
		require.NoError(c.t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func register(t *testing.T, base, email string) *client {
	t.Helper()
	c := &client{t: t, base: base}
	status, body := c.do(http.MethodPost, "/v1/auth/register", map[string]string{
		"email":           email,
		"name":            "Test User",
		"password":        "Password123",
		"confirmPassword": "Password123",
	})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "3d", body["expiresIn"])
	c.token = body["accessToken"].(string)
	return c
}

func TestRouter_AuthFlow(t *testing.T) {
	srv := newTestServer(t)
	register(t, srv.URL, "a@b.com")

	anon := &client{t: t, base: srv.URL}

	status, body := anon.do(http.MethodPost, "/v1/auth/register", map[string]string{
		"email": "a@b.com", "name": "Again", "password": "Password123", "confirmPassword": "Password123",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "User with this email already exists", body["message"])

	status, body = anon.do(http.MethodPost, "/v1/auth/login", map[string]string{
		"email": "a@b.com", "password": "Password123",
	})
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["accessToken"])

	_, wrong := anon.do(http.MethodPost, "/v1/auth/login", map[string]string{"email": "a@b.com", "password": "Password999"})
	_, unknown := anon.do(http.MethodPost, "/v1/auth/login", map[string]string{"email": "x@b.com", "password": "Password123"})
	assert.Equal(t, "Invalid email or password", wrong["message"])
	assert.Equal(t, wrong["message"], unknown["message"])
	assert.EqualValues(t, http.StatusUnauthorized, unknown["statusCode"])
}

func TestRouter_LongInputs(t *testing.T) {
	srv := newTestServer(t)
	anon := &client{t: t, base: srv.URL}

	password := "Aa1" + strings.Repeat("x", 77)
	status, body := anon.do(http.MethodPost, "/v1/auth/register", map[string]string{
		"email": "long@example.com", "name": "Long", "password": password, "confirmPassword": password,
	})
	require.Equal(t, http.StatusCreated, status, body)

	status, body = anon.do(http.MethodPost, "/v1/auth/login", map[string]string{
		"email": "long@example.com", "password": password,
	})
	require.Equal(t, http.StatusOK, status, body)

	user := &client{t: t, base: srv.URL, token: body["accessToken"].(string)}
	title := strings.Repeat("x", 300)
	status, body = user.do(http.MethodPost, "/v1/tasks", map[string]string{"title": title})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, title, body["title"])

	status, body = user.do(http.MethodGet, "/v1/tasks?limit=500", nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.EqualValues(t, 100, body["limit"])
	assert.EqualValues(t, 1, body["total"])
}

func TestRouter_TaskLifecycle(t *testing.T) {
	srv := newTestServer(t)
	alice := register(t, srv.URL, "alice@example.com")
	bob := register(t, srv.URL, "bob@example.com")

	status, created := alice.do(http.MethodPost, "/v1/tasks", map[string]string{"title": "Write report"})
	require.Equal(t, http.StatusCreated, status, created)
	assert.Equal(t, "TODO", created["status"])
	id := created["id"].(string)

	for i := 0; i < 3; i++ {
		status, _ = alice.do(http.MethodPost, "/v1/tasks", map[string]string{"title": "Filler", "status": "DONE"})
		require.Equal(t, http.StatusCreated, status)
	}

	status, page := alice.do(http.MethodGet, "/v1/tasks?status=DONE&limit=2", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 3, page["total"])
	assert.EqualValues(t, 2, page["limit"])
	assert.Len(t, page["data"], 2)

	status, page = bob.do(http.MethodGet, "/v1/tasks", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, page["total"])

	status, body := bob.do(http.MethodGet, "/v1/tasks/"+id, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Task not found", body["message"])

	status, _ = bob.do(http.MethodPatch, "/v1/tasks/"+id, map[string]string{"title": "Mine now"})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = bob.do(http.MethodDelete, "/v1/tasks/"+id, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, updated := alice.do(http.MethodPatch, "/v1/tasks/"+id, map[string]string{"status": "IN_PROGRESS"})
	require.Equal(t, http.StatusOK, status, updated)
	assert.Equal(t, "IN_PROGRESS", updated["status"])
	assert.Equal(t, "Write report", updated["title"])

	status, _ = alice.do(http.MethodDelete, "/v1/tasks/"+id, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = alice.do(http.MethodGet, "/v1/tasks/"+id, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRouter_Unauthenticated(t *testing.T) {
	srv := newTestServer(t)
	anon := &client{t: t, base: srv.URL}

	status, body := anon.do(http.MethodGet, "/v1/tasks", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "You must be logged in to access this resource", body["message"])

	forged := &client{t: t, base: srv.URL, token: "not.a.jwt"}
	status, body = forged.do(http.MethodGet, "/v1/tasks", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid token", body["message"])
}

func TestRouter_HealthAndFallbacks(t *testing.T) {
	srv := newTestServer(t)
	anon := &client{t: t, base: srv.URL}

	for _, path := range []string{"/health", "/v1/health"} {
		status, body := anon.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, status, path)
		assert.Equal(t, "OK", body["message"])
	}

	status, body := anon.do(http.MethodGet, "/v1/nope", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Cannot GET /v1/nope", body["message"])
	assert.NotEmpty(t, body["traceId"])
}

func TestRouter_CORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/v1/tasks", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestParseOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, parseOrigins(""))
	assert.Equal(t, []string{"*"}, parseOrigins(" , "))
	assert.Equal(t, []string{"https://a.example", "https://b.example"},
		parseOrigins("https://a.example, https://b.example"))
}
