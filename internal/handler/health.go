package handler

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/deppfellow/userstore/internal/database"
	"github.com/deppfellow/userstore/internal/middleware"
	"github.com/deppfellow/userstore/internal/server"
	"github.com/labstack/echo/v4"
)

// DatabaseChecker is satisfied by *database.Database.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
	Stats() database.PoolStats
}

type HealthHandler struct {
	Handler
	db DatabaseChecker
}

func NewHealthHandler(s *server.Server, db DatabaseChecker) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
		db:      db,
	}
}

type checkResult struct {
	Status       string              `json:"status"`
	ResponseTime string              `json:"response_time"`
	Error        string              `json:"error,omitempty"`
	Pool         *database.PoolStats `json:"pool,omitempty"`
}

type healthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]checkResult `json:"checks"`
}

// CheckHealth answers 200 when every configured check passes and 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	cfg := h.server.Config.Observability.HealthChecks

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := healthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks:      map[string]checkResult{},
	}

	if cfg.Enabled && slices.Contains(cfg.Checks, "database") {
		ctx, cancel := context.WithTimeout(c.Request().Context(), cfg.Timeout)
		defer cancel()

		dbStart := time.Now()
		err := h.db.Ping(ctx)
		stats := h.db.Stats()

		result := checkResult{
			Status:       "healthy",
			ResponseTime: time.Since(dbStart).String(),
			Pool:         &stats,
		}

		if err != nil {
			result.Status = "unhealthy"
			result.Error = "database unreachable"
			response.Status = "unhealthy"

			logger.Error().
				Err(err).
				Dur("response_time", time.Since(dbStart)).
				Msg("database health check failed")

			h.recordFailure("database", time.Since(dbStart))
		}

		response.Checks["database"] = result
	}

	if response.Status != "healthy" {
		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")
		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")
	return c.JSON(http.StatusOK, response)
}

func (h *HealthHandler) recordFailure(check string, elapsed time.Duration) {
	if app := h.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("HealthCheckError", map[string]any{
			"check_type":       check,
			"operation":        "health_check",
			"response_time_ms": elapsed.Milliseconds(),
		})
	}
}
