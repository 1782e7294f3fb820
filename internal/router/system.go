package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/crm-api/internal/handler"
)

func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	get(r, "/", h.Info.GetInfo)
	get(r, "/health", h.Health.CheckHealth)
	get(r, "/ready", h.Health.CheckReady)
	get(r, "/metrics", h.Metrics.Serve())
}
