package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/deppfellow/travel-sync/internal/middleware"
	"github.com/deppfellow/travel-sync/internal/server"
	"github.com/labstack/echo/v4"
)

var errNoDatabase = errors.New("database not configured")

// Pinger is a dependency /status can probe. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness (/health) and readiness (/status) probes.
type HealthHandler struct {
	Handler
	db Pinger
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	h := &HealthHandler{
		Handler: NewHandler(s),
	}
	if s.DB != nil && s.DB.Pool != nil {
		h.db = s.DB.Pool
	}
	return h
}

// NewHealthHandlerWithPinger builds a HealthHandler probing db instead of the pool.
func NewHealthHandlerWithPinger(s *server.Server, db Pinger) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
		db:      db,
	}
}

// Live answers {"ok":true} without touching any dependency.
func (h *HealthHandler) Live(c echo.Context) error {
	return c.JSON(http.StatusOK, okResponse)
}

// CheckHealth pings the database and reports per-check details.
//
// It returns 200 when every check passes and 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      make(map[string]interface{}),
	}

	checks := response["checks"].(map[string]interface{})
	isHealthy := true

	timeout := 5 * time.Second
	if obs := h.server.Config.Observability; obs != nil && obs.HealthChecks.Timeout > 0 {
		timeout = time.Duration(obs.HealthChecks.Timeout) * time.Second
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
	defer cancel()

	dbStart := time.Now()

	var dbErr error
	if h.db == nil {
		dbErr = errNoDatabase
	} else {
		dbErr = h.db.Ping(ctx)
	}

	if dbErr != nil {
		checks["database"] = map[string]interface{}{
			"status":        "unhealthy",
			"response_time": time.Since(dbStart).String(),
			"error":         dbErr.Error(),
		}

		isHealthy = false

		logger.Error().
			Err(dbErr).
			Dur("response_time", time.Since(dbStart)).
			Msg("database health check failed")

		if app := h.server.LoggerService.GetApplication(); app != nil {
			app.RecordCustomEvent("HealthCheckError", map[string]interface{}{
				"check_type":       "database",
				"operation":        "health_check",
				"error_type":       "database_unhealthy",
				"response_time_ms": time.Since(dbStart).Milliseconds(),
				"error_message":    dbErr.Error(),
			})
		}
	} else {
		checks["database"] = map[string]interface{}{
			"status":        "healthy",
			"response_time": time.Since(dbStart).String(),
		}

		logger.Debug().
			Dur("response_time", time.Since(dbStart)).
			Msg("database health check passed")
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	return c.JSON(http.StatusOK, response)
}
