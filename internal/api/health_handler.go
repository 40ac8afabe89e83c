package api

import (
	"context"
	"net/http"

	"github.com/phrazzld/tasks-api/internal/api/shared"
)

// HealthChecker reports whether the service's dependencies are reachable.
type HealthChecker interface {
	Check(ctx context.Context) error
}

// HealthHandler serves GET /health.
type HealthHandler struct {
	checker HealthChecker
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(checker HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// Check responds 200 {"message":"OK"}, or 503 when the database is unreachable.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.checker.Check(r.Context()); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Message: "OK"})
}
