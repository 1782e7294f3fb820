// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/crm-api/internal/handler"
	"github.com/deppfellow/crm-api/internal/middleware"
	"github.com/deppfellow/crm-api/internal/server"
)

// NewRouter builds the echo instance with the full middleware chain.
//
// Order matters: metrics observe the final status, the New Relic
// transaction exists before the context logger reads its trace ids, and
// the request logger renders errors so it can log the real status.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	mw := middleware.NewMiddlewares(s)

	r := echo.New()
	r.HideBanner = true
	r.HidePort = true
	r.HTTPErrorHandler = mw.Global.GlobalErrorHandler
	// Client addresses come from the socket peer. Forwarding headers are
	// not trusted.
	r.IPExtractor = echo.ExtractIPDirect()

	r.Use(
		mw.Metrics.Observe(),
		mw.Tracing.NewRelicMiddleware(),
		middleware.CorrelationID(),
		mw.ContextEnhancer.EnhanceContext(),
		mw.Global.RequestLogger(),
		mw.Tracing.EnhanceTracing(),
		mw.Global.Recover(),
		mw.Global.Secure(),
		mw.Global.CORS(),
		mw.RateLimit.Limit(),
	)

	registerSystemRoutes(r, h)
	registerPersonRoutes(r, h)

	return r
}

var getMethods = []string{http.MethodGet, http.MethodHead}

// get registers h for GET and HEAD.
func get(r *echo.Echo, path string, h echo.HandlerFunc) {
	r.Match(getMethods, path, h)
}
