package handler

import (
	"bytes"
	"errors"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/crm-api/internal/errs"
	"github.com/deppfellow/crm-api/internal/model"
	"github.com/deppfellow/crm-api/internal/validation"
)

const errNoData = "No data provided"

// ListPersonsRequest is GET /person. An empty id lists every person.
type ListPersonsRequest struct {
	ID string `query:"id"`
}

func (r *ListPersonsRequest) Validate() error {
	return nil
}

// PersonPathRequest addresses one person by person_id.
type PersonPathRequest struct {
	PersonID string `param:"id" validate:"required"`
}

func (r *PersonPathRequest) Validate() error {
	return validation.Struct(r)
}

// PersonBodyRequest addresses one person by person_id and carries a
// free-form JSON object.
type PersonBodyRequest struct {
	PersonID string `param:"id" validate:"required"`

	Data model.Person
}

// Bind reads the body as a JSON object. A missing or empty body, null and
// {} are all reported as "No data provided".
func (r *PersonBodyRequest) Bind(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return errs.NewBadRequestError("Failed to read request body")
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return errs.NewBadRequestError(errNoData)
	}

	data, err := model.DecodePerson(body)
	if err != nil {
		if errors.Is(err, model.ErrNotAnObject) {
			return errs.NewBadRequestError(err.Error())
		}
		return errs.NewBadRequestError("Invalid JSON: " + err.Error())
	}
	if len(data) == 0 {
		return errs.NewBadRequestError(errNoData)
	}

	r.Data = data
	return nil
}

func (r *PersonBodyRequest) Validate() error {
	return validation.Struct(r)
}
