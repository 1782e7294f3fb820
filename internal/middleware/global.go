package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/deppfellow/crm-api/internal/errs"
	"github.com/deppfellow/crm-api/internal/logger"
	"github.com/deppfellow/crm-api/internal/server"
)

// UnmatchedRouteKey is set on the echo context when the router found no
// route (404) or no handler for the method (405).
const UnmatchedRouteKey = "unmatched_route"

type GlobalMiddlewares struct {
	server *server.Server
}

func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{
		server: s,
	}
}

func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  global.server.Config.Server.CORSAllowedOrigins,
		ExposeHeaders: []string{CorrelationIDHeader},
	})
}

// RequestLogger writes the start and completion records of every request
// with echo's request logger.
//
// HandleError renders errors from further down the chain before the
// completion record is written, so it carries the status the client got.
// The remote address comes from c.RealIP, which follows the router's
// IPExtractor.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		HandleError: true,
		LogStatus:   true,
		LogError:    true,
		LogLatency:  true,
		LogMethod:   true,
		LogURIPath:  true,
		LogRemoteIP: true,

		BeforeNextFunc: func(c echo.Context) {
			req := c.Request()
			GetLogger(c).Info().
				EmbedObject(logger.RequestEvent{
					CorrelationID: GetCorrelationID(c),
					Method:        req.Method,
					Path:          req.URL.Path,
					RemoteAddr:    c.RealIP(),
				}).
				Msgf("Incoming request: %s %s", req.Method, req.URL.Path)
		},

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log := GetLogger(c)

			var e *zerolog.Event
			switch {
			case v.Status >= http.StatusInternalServerError:
				e = log.Error().Err(v.Error)
			case v.Status >= http.StatusBadRequest:
				e = log.Warn()
			default:
				e = log.Info()
			}

			e.EmbedObject(logger.RequestEvent{
				CorrelationID: GetCorrelationID(c),
				Method:        v.Method,
				Path:          v.URIPath,
				RemoteAddr:    v.RemoteIP,
				StatusCode:    v.Status,
				Latency:       v.Latency,
			}).Msgf("Request completed: %s %s", v.Method, v.URIPath)

			return nil
		},
	})
}

func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisablePrintStack: true,
	})
}

func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// GlobalErrorHandler renders every error as {"error": message}.
//
//   - *errs.HTTPError keeps its status and message.
//   - *echo.HTTPError keeps its code; a router 404 becomes "Route not found".
//   - Anything else is a 500 carrying the error's own message.
//
// An error reaching it after the response was written has already been
// rendered and logged, so it is ignored.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	originalErr := err

	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) {
			httpErr = fromEchoError(c, echoErr)
		} else {
			httpErr = errs.NewInternalServerError(err)
		}
	}

	log := GetLogger(c)

	var e *zerolog.Event
	if httpErr.Status >= http.StatusInternalServerError {
		e = log.Error().Stack()
	} else {
		e = log.Warn()
	}
	e.Err(originalErr).
		Int("status", httpErr.Status).
		Str("error_code", httpErr.Code).
		Msg(httpErr.Message)

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(httpErr.Status)
	} else {
		err = c.JSON(httpErr.Status, httpErr)
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to write error response")
	}
}

func fromEchoError(c echo.Context, echoErr *echo.HTTPError) *errs.HTTPError {
	switch echoErr.Code {
	case http.StatusNotFound:
		c.Set(UnmatchedRouteKey, true)
		return errs.NewNotFoundError("Route not found")
	case http.StatusMethodNotAllowed:
		c.Set(UnmatchedRouteKey, true)
	}

	message := http.StatusText(echoErr.Code)
	if msg, ok := echoErr.Message.(string); ok {
		message = msg
	}

	return &errs.HTTPError{
		Code:    errs.MakeUpperCaseWithUnderscores(http.StatusText(echoErr.Code)),
		Message: message,
		Status:  echoErr.Code,
	}
}
