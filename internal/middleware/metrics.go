package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/crm-api/internal/metrics"
	"github.com/deppfellow/crm-api/internal/server"
)

type MetricsMiddleware struct {
	server *server.Server
}

func NewMetricsMiddleware(s *server.Server) *MetricsMiddleware {
	return &MetricsMiddleware{server: s}
}

// Observe records count, latency and server errors for every request. It
// must run outermost so it sees the final status.
func (m *MetricsMiddleware) Observe() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			path := c.Path()
			if unmatched, _ := c.Get(UnmatchedRouteKey).(bool); unmatched {
				path = metrics.UnmatchedPath
			}

			m.server.Metrics.Observe(c.Request().Method, path, c.Response().Status, time.Since(start))
			return nil
		}
	}
}
