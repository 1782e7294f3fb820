package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/crm-api/internal/model"
	"github.com/deppfellow/crm-api/internal/server"
	"github.com/deppfellow/crm-api/internal/service"
)

// PersonHandler serves the /person routes.
type PersonHandler struct {
	Handler
	person *service.PersonService
}

func NewPersonHandler(s *server.Server, person *service.PersonService) *PersonHandler {
	return &PersonHandler{
		Handler: NewHandler(s),
		person:  person,
	}
}

// ListPersons returns every person, or the one whose store id is ?id=.
func (h *PersonHandler) ListPersons(c echo.Context, req *ListPersonsRequest) (any, error) {
	ctx := c.Request().Context()
	if req.ID != "" {
		return h.person.GetByStoreID(ctx, req.ID)
	}
	return h.person.List(ctx)
}

func (h *PersonHandler) GetPerson(c echo.Context, req *PersonPathRequest) (model.Person, error) {
	return h.person.GetByPersonID(c.Request().Context(), req.PersonID)
}

func (h *PersonHandler) CreatePerson(c echo.Context, req *PersonBodyRequest) (*model.CreatePersonResponse, error) {
	return h.person.Create(c.Request().Context(), req.PersonID, req.Data)
}

func (h *PersonHandler) UpdatePerson(c echo.Context, req *PersonBodyRequest) (*model.UpdatePersonResponse, error) {
	return h.person.Update(c.Request().Context(), req.PersonID, req.Data)
}

func (h *PersonHandler) DeletePerson(c echo.Context, req *PersonPathRequest) (*model.DeletePersonResponse, error) {
	return h.person.Delete(c.Request().Context(), req.PersonID)
}
