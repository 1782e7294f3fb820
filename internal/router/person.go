package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/crm-api/internal/handler"
)

func registerPersonRoutes(r *echo.Echo, h *handler.Handlers) {
	p := h.Person

	get(r, "/person", handler.Handle(p.Handler, p.ListPersons, http.StatusOK))
	r.POST("/person/:id", handler.Handle(p.Handler, p.CreatePerson, http.StatusCreated))
	get(r, "/person/:id", handler.Handle(p.Handler, p.GetPerson, http.StatusOK))
	r.PUT("/person/:id", handler.Handle(p.Handler, p.UpdatePerson, http.StatusOK))
	r.DELETE("/person/:id", handler.Handle(p.Handler, p.DeletePerson, http.StatusOK))
}
