package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/crm-api/internal/server"
)

// MetricsHandler serves the Prometheus exposition.
type MetricsHandler struct {
	Handler
}

func NewMetricsHandler(s *server.Server) *MetricsHandler {
	return &MetricsHandler{Handler: NewHandler(s)}
}

func (h *MetricsHandler) Serve() echo.HandlerFunc {
	return echo.WrapHandler(h.server.Metrics.Handler())
}
