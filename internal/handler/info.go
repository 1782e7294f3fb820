package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/crm-api/internal/config"
	"github.com/deppfellow/crm-api/internal/server"
)

// endpoints is the route catalogue advertised by GET /.
var endpoints = map[string]string{
	"GET /health":                 "Health check",
	"GET /ready":                  "Readiness check",
	"GET /metrics":                "Prometheus metrics",
	"GET /person":                 "Get all persons",
	"GET /person?id=<mongodb_id>": "Get person by MongoDB ObjectId",
	"GET /person/<custom_id>":     "Get person by custom ID",
	"POST /person/<custom_id>":    "Add person with custom ID",
	"PUT /person/<custom_id>":     "Update person by custom ID",
	"DELETE /person/<custom_id>":  "Delete person by custom ID",
}

type InfoResponse struct {
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

type InfoHandler struct {
	Handler
}

func NewInfoHandler(s *server.Server) *InfoHandler {
	return &InfoHandler{Handler: NewHandler(s)}
}

func (h *InfoHandler) GetInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, InfoResponse{
		Service:   "CRM REST API",
		Version:   config.Version,
		Endpoints: endpoints,
	})
}
