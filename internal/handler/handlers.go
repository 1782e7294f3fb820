package handler

import (
	"github.com/deppfellow/crm-api/internal/server"
	"github.com/deppfellow/crm-api/internal/service"
)

// Handlers is a container that groups all HTTP handlers.
type Handlers struct {
	Health  *HealthHandler
	Info    *InfoHandler
	Metrics *MetricsHandler
	Person  *PersonHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s, services.Person),
		Info:    NewInfoHandler(s),
		Metrics: NewMetricsHandler(s),
		Person:  NewPersonHandler(s, services.Person),
	}
}
