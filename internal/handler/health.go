package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/crm-api/internal/middleware"
	"github.com/deppfellow/crm-api/internal/server"
	"github.com/deppfellow/crm-api/internal/service"
)

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	Handler
	person *service.PersonService
}

func NewHealthHandler(s *server.Server, person *service.PersonService) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
		person:  person,
	}
}

// CheckHealth is the liveness probe. It never touches the store.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "CRM API",
	})
}

// CheckReady pings the store and answers 503 when it does not respond
// within the configured timeout.
func (h *HealthHandler) CheckReady(c echo.Context) error {
	logger := middleware.GetLogger(c).With().
		Str("operation", "readiness_check").
		Logger()

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.server.Config.Observability.HealthChecks.Timeout)
	defer cancel()

	start := time.Now()
	err := h.person.Ping(ctx)
	elapsed := time.Since(start)

	if err != nil {
		logger.Error().
			Err(err).
			Dur("response_time", elapsed).
			Msg("store readiness check failed")

		if app := h.server.LoggerService.GetApplication(); app != nil {
			app.RecordCustomEvent("HealthCheckError", map[string]interface{}{
				"check_type":       "store",
				"operation":        "readiness_check",
				"error_type":       "store_unhealthy",
				"response_time_ms": elapsed.Milliseconds(),
				"error_message":    err.Error(),
			})
		}

		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"status": "unavailable",
			"checks": map[string]interface{}{
				"store": map[string]interface{}{
					"status":        "unhealthy",
					"response_time": elapsed.String(),
					"error":         err.Error(),
				},
			},
		})
	}

	logger.Debug().Dur("response_time", elapsed).Msg("store readiness check passed")

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "ready",
		"checks": map[string]interface{}{
			"store": map[string]interface{}{
				"status":        "healthy",
				"response_time": elapsed.String(),
			},
		},
	})
}
