// Package server defines the core Server struct that composes the app's main dependencies.
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - the document store connection
//   - the Prometheus registry
//   - http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/deppfellow/crm-api/internal/config"
	"github.com/deppfellow/crm-api/internal/database"
	loggerPkg "github.com/deppfellow/crm-api/internal/logger"
	"github.com/deppfellow/crm-api/internal/metrics"
)

// Server is the application container that holds shared resources.
//
// It is not the HTTP server itself; that one lives in httpServer and is
// configured by SetupHTTPServer.
type Server struct {
	Config *config.Config

	// Logger is the application's main structured logger.
	Logger *zerolog.Logger

	// LoggerService optionally holds the New Relic application instance.
	// If New Relic is disabled it contains a nil application.
	LoggerService *loggerPkg.LoggerService

	// DB is the document store connection.
	DB *database.Database

	Metrics *metrics.Metrics

	httpServer *http.Server
}

// New connects to the store and builds the Server. When
// cfg.Store.AutoMigrate is set the store's schema is prepared too.
//
// It does NOT start the HTTP server. That is done in SetupHTTPServer + Start.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	db, err := database.New(ctx, cfg, logger, loggerService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.Store.AutoMigrate {
		if err := database.Migrate(ctx, logger, cfg, db); err != nil {
			_ = db.Close(ctx)
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	return &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		DB:            db,
		Metrics:       metrics.New(config.Version, cfg.Primary.Env),
	}, nil
}

// SetupHTTPServer configures the internal net/http server around handler.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:    ":" + s.Config.Server.Port,
		Handler: handler,

		// Config stores int values, interpreted here as seconds.
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server and blocks until it stops.
// A server closed by Shutdown is not an error.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Str("store", s.Config.Store.Driver).
		Msg("Starting CRM API server")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones until ctx
// expires, then closes the store and flushes telemetry.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if s.DB != nil {
		if err := s.DB.Close(ctx); err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	s.LoggerService.Shutdown()
	return nil
}
