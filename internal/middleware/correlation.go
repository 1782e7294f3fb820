package middleware

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	CorrelationIDHeader = "X-Correlation-ID"

	CorrelationIDKey = "correlation_id"
)

// CorrelationID reuses the caller's X-Correlation-ID or generates a UUID v4,
// stores it on the echo context and echoes it in the response header.
func CorrelationID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			correlationID := strings.TrimSpace(c.Request().Header.Get(CorrelationIDHeader))
			if correlationID == "" {
				correlationID = uuid.New().String()
			}

			c.Set(CorrelationIDKey, correlationID)
			c.Response().Header().Set(CorrelationIDHeader, correlationID)

			return next(c)
		}
	}
}

func GetCorrelationID(c echo.Context) string {
	if correlationID, ok := c.Get(CorrelationIDKey).(string); ok {
		return correlationID
	}
	return ""
}
