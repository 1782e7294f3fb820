package validation

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/crm-api/internal/errs"
)

// validate is shared; validator caches struct metadata per type.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Validatable is implemented by request payload types that know how to validate themselves.
//
// Typical pattern:
// - Define a request struct with validator tags (`validate:"required"`)
// - Implement Validate() error that calls Struct(req)
type Validatable interface {
	Validate() error
}

// Bindable is implemented by requests that populate themselves from the
// raw request, for instance because their body is a free-form document
// that echo's struct binder cannot represent.
type Bindable interface {
	Bind(c echo.Context) error
}

// Struct validates s against its `validate` tags.
func Struct(s any) error {
	return validate.Struct(s)
}

// BindAndValidate binds request data into payload and validates it.
//
// Flow:
// 1) Path and query parameters are bound with echo's binder. Path
//    parameters are fully unescaped first.
// 2) If payload implements Bindable, its Bind reads the body.
// 3) payload.Validate() applies validation rules.
//
// Every failure is returned as a 400 *errs.HTTPError, except errors that
// already are an *errs.HTTPError, which pass through unchanged.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := unescapePathParams(c); err != nil {
		return bindError(err)
	}

	binder := &echo.DefaultBinder{}
	if err := binder.BindPathParams(c, payload); err != nil {
		return bindError(err)
	}
	if err := binder.BindQueryParams(c, payload); err != nil {
		return bindError(err)
	}

	if b, ok := payload.(Bindable); ok {
		if err := b.Bind(c); err != nil {
			return bindError(err)
		}
	}

	if err := payload.Validate(); err != nil {
		var httpErr *errs.HTTPError
		if errors.As(err, &httpErr) {
			return httpErr
		}
		return errs.NewBadRequestError(validationMessage(err))
	}

	return nil
}

// unescapePathParams decodes path parameter values when echo routed on the
// raw path. Go keeps URL.RawPath only when the path holds escapes such as
// %2F that do not survive decoding, and echo then leaves them in the
// parameter values. Otherwise the values are already decoded.
func unescapePathParams(c echo.Context) error {
	if c.Request().URL.RawPath == "" {
		return nil
	}

	values := c.ParamValues()
	decoded := make([]string, len(values))
	for i, v := range values {
		d, err := url.PathUnescape(v)
		if err != nil {
			return errs.NewBadRequestError("Invalid path parameter: " + v)
		}
		decoded[i] = d
	}
	c.SetParamValues(decoded...)
	return nil
}

func bindError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if msg, ok := echoErr.Message.(string); ok {
			return errs.NewBadRequestError(msg)
		}
		return errs.NewBadRequestError(http.StatusText(echoErr.Code))
	}

	return errs.NewBadRequestError(err.Error())
}

// validationMessage flattens validator errors into one readable line:
//
//	Validation failed: id is required
func validationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return errs.ValidationError(err).Message
	}

	parts := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		field := strings.ToLower(fe.Field())

		var msg string
		switch fe.Tag() {
		case "required":
			msg = "is required"
		case "max":
			msg = fmt.Sprintf("must not exceed %s characters", fe.Param())
		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", fe.Param())
		default:
			if fe.Param() != "" {
				msg = fmt.Sprintf("failed %s:%s", fe.Tag(), fe.Param())
			} else {
				msg = fmt.Sprintf("failed %s", fe.Tag())
			}
		}
		parts = append(parts, field+" "+msg)
	}

	return "Validation failed: " + strings.Join(parts, ", ")
}
