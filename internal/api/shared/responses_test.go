package shared

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestWithLogger(buf *bytes.Buffer) *http.Request {
	log := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	req := httptest.NewRequest(http.MethodGet, "/v1/tasks", nil)
	ctx := logger.WithLogger(SetTraceID(req.Context()), log)
	return req.WithContext(ctx)
}

func TestRespondWithJSON(t *testing.T) {
	w := httptest.NewRecorder()
	RespondWithJSON(w, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusCreated, map[string]string{"message": "OK"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"OK"}`, w.Body.String())
}

func TestRespondWithError(t *testing.T) {
	var logs bytes.Buffer
	req := requestWithLogger(&logs)
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusNotFound, "Task not found")

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "Task not found", body.Message)
	assert.Equal(t, "Not Found", body.Error)
	assert.Equal(t, http.StatusNotFound, body.StatusCode)
	assert.Equal(t, GetTraceID(req.Context()), body.TraceID)
	assert.Nil(t, body.Details)
	assert.Contains(t, logs.String(), `"level":"DEBUG"`)
}

func TestRespondWithErrorAndLog(t *testing.T) {
	t.Run("server errors log at error level without leaking", func(t *testing.T) {
		var logs bytes.Buffer
		w := httptest.NewRecorder()

		RespondWithErrorAndLog(w, requestWithLogger(&logs), http.StatusInternalServerError,
			"An unexpected error occurred", errors.New("dial tcp: password=hunter2"))

		assert.NotContains(t, w.Body.String(), "hunter2")
		assert.NotContains(t, logs.String(), "hunter2")
		assert.Contains(t, logs.String(), `"level":"ERROR"`)
	})

	t.Run("elevated client errors log at warn", func(t *testing.T) {
		var logs bytes.Buffer
		w := httptest.NewRecorder()

		RespondWithError(w, requestWithLogger(&logs), http.StatusUnauthorized, "Invalid email or password",
			WithElevatedLogLevel())

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, logs.String(), `"level":"WARN"`)
	})

	t.Run("details are serialized", func(t *testing.T) {
		w := httptest.NewRecorder()
		RespondWithError(w, httptest.NewRequest(http.MethodPost, "/", nil), http.StatusBadRequest, "Title is required",
			WithDetails([]FieldError{{Field: "title", Message: "Title is required"}}))

		assert.JSONEq(t, `{
			"message": "Title is required",
			"error": "Bad Request",
			"statusCode": 400,
			"details": [{"field": "title", "message": "Title is required"}]
		}`, w.Body.String())
	})
}

func TestRespondNoContent(t *testing.T) {
	w := httptest.NewRecorder()
	RespondNoContent(w)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}
