package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

// healthCheckTimeout bounds a single database probe.
const healthCheckTimeout = 2 * time.Second

// HealthService reports whether the service can reach its database.
type HealthService struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewHealthService creates a HealthService probing db.
func NewHealthService(db store.DBTX, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		db:     db,
		logger: logger.With(slog.String("component", "health_service")),
	}
}

// Check runs SELECT 1 against the database. Any failure is reported as
// ErrServiceUnavailable.
func (s *HealthService) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	var one int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("database health check failed", "error", err)
		return fmt.Errorf("%w: database unreachable: %v", ErrServiceUnavailable, err)
	}
	return nil
}
