package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/muslimah-travel/internal/config"
	"github.com/deppfellow/muslimah-travel/internal/middleware"
	"github.com/deppfellow/muslimah-travel/internal/server"
	"github.com/labstack/echo/v4"
)

// HealthHandler serves the welcome and status endpoints used by uptime
// monitors and load balancers.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

func (h *HealthHandler) Welcome(c echo.Context) error {
	return c.JSON(http.StatusOK, Response{
		Message: "Welcome to the Muslimah Travel API",
		Data: map[string]string{
			"service": config.ServiceName,
			"docs":    "/docs",
			"status":  "/status",
		},
	})
}

type checkResult struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

// CheckHealth pings PostgreSQL and Redis. The database is required and
// fails the check with 503; Redis only degrades rate limiting and job
// delivery, so an outage is reported without failing the check.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	timeout := 5 * time.Second
	if obs := h.server.Config.Observability; obs != nil && obs.HealthChecks.Timeout > 0 {
		timeout = obs.HealthChecks.Timeout
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
	defer cancel()

	checks := map[string]checkResult{}
	healthy := true

	checks["database"] = h.probe(ctx, "database", func(ctx context.Context) error {
		return h.server.DB.Pool.Ping(ctx)
	})
	if checks["database"].Status != "healthy" {
		healthy = false
	}

	if h.server.Redis != nil {
		checks["redis"] = h.probe(ctx, "redis", func(ctx context.Context) error {
			return h.server.Redis.Ping(ctx).Err()
		})
	}

	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	if !healthy {
		response["status"] = "unhealthy"
		logger.Warn().Dur("total_duration", time.Since(start)).Msg("health check failed")
		h.recordFailure("overall", "overall_unhealthy", time.Since(start), "")
		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().Dur("total_duration", time.Since(start)).Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		return fmt.Errorf("failed to write JSON response: %w", err)
	}
	return nil
}

func (h *HealthHandler) probe(ctx context.Context, name string, ping func(context.Context) error) checkResult {
	start := time.Now()
	err := ping(ctx)
	elapsed := time.Since(start)

	if err != nil {
		h.server.Logger.Error().Err(err).Str("check", name).Dur("response_time", elapsed).Msg("health check failed")
		h.recordFailure(name, name+"_unhealthy", elapsed, err.Error())
		return checkResult{Status: "unhealthy", ResponseTime: elapsed.String(), Error: err.Error()}
	}
	return checkResult{Status: "healthy", ResponseTime: elapsed.String()}
}

func (h *HealthHandler) recordFailure(checkType, errorType string, elapsed time.Duration, message string) {
	if h.server.LoggerService == nil || h.server.LoggerService.GetApplication() == nil {
		return
	}
	h.server.LoggerService.GetApplication().RecordCustomEvent("HealthCheckError", map[string]interface{}{
		"check_type":       checkType,
		"operation":        "health_check",
		"error_type":       errorType,
		"response_time_ms": elapsed.Milliseconds(),
		"error_message":    message,
	})
}
