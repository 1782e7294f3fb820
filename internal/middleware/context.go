package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	"github.com/deppfellow/crm-api/internal/logger"
	"github.com/deppfellow/crm-api/internal/server"
)

const LoggerKey = "logger"

// ContextEnhancer derives the request-scoped logger.
type ContextEnhancer struct {
	server *server.Server
}

func NewContextEnhancer(s *server.Server) *ContextEnhancer {
	return &ContextEnhancer{server: s}
}

// EnhanceContext attaches a logger carrying correlation_id (and the New
// Relic trace ids when a transaction is active) to both the echo context
// and the request's Go context, where services read it with zerolog.Ctx.
func (ce *ContextEnhancer) EnhanceContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			contextLogger := ce.server.Logger.With().
				Str(CorrelationIDKey, GetCorrelationID(c)).
				Logger()

			if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
				contextLogger = logger.WithTraceContext(contextLogger, txn)
			}

			c.Set(LoggerKey, &contextLogger)

			ctx := contextLogger.WithContext(c.Request().Context())
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// GetLogger returns the request-scoped logger, or a no-op logger outside
// the middleware chain.
func GetLogger(c echo.Context) *zerolog.Logger {
	if l, ok := c.Get(LoggerKey).(*zerolog.Logger); ok {
		return l
	}

	nop := zerolog.Nop()
	return &nop
}
