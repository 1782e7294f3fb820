package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/deppfellow/crm-api/internal/config"
	"github.com/deppfellow/crm-api/internal/handler"
	loggerPkg "github.com/deppfellow/crm-api/internal/logger"
	"github.com/deppfellow/crm-api/internal/repository"
	"github.com/deppfellow/crm-api/internal/router"
	"github.com/deppfellow/crm-api/internal/server"
	"github.com/deppfellow/crm-api/internal/service"
)

const shutdownTimeout = 30 * time.Second

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server (default)",
	Long: `Start the CRM API HTTP server.

Configuration comes from the environment (and a .env file when present).
Examples:
  crm-api serve
  PORT=8080 MONGO_URI=mongodb://mongo:27017/crm_db crm-api
  crm-api serve --port 9000`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "listen port (overrides PORT)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if servePort != "" {
		cfg.Server.Port = servePort
	}

	loggerService, err := loggerPkg.NewLoggerService(cfg.Observability)
	if err != nil {
		return fmt.Errorf("failed to initialize New Relic: %w", err)
	}
	logger := loggerPkg.NewLoggerWithService(cfg.Observability, loggerService)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Store.ConnectTimeout)
	srv, err := server.New(connectCtx, cfg, &logger, loggerService)
	cancel()
	if err != nil {
		logger.Error().Err(err).Msg("failed to initialize server")
		loggerService.Shutdown()
		return err
	}

	repos, err := repository.NewRepositories(srv)
	if err != nil {
		_ = srv.Shutdown(context.Background())
		return err
	}
	services := service.NewServices(repos)
	handlers := handler.NewHandlers(srv, services)
	srv.SetupHTTPServer(router.NewRouter(srv, handlers))

	return serveUntilDone(ctx, srv, &logger)
}

// lifecycle is the part of *server.Server that serveUntilDone drives.
type lifecycle interface {
	Start() error
	Shutdown(ctx context.Context) error
}

// serveUntilDone runs srv until it fails or ctx is cancelled. The server is
// shut down on both paths so the store and telemetry are always released.
func serveUntilDone(ctx context.Context, srv lifecycle, logger *zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	var startErr error
	select {
	case startErr = <-errCh:
		if startErr != nil {
			logger.Error().Err(startErr).Msg("server stopped unexpectedly")
		}
	case <-ctx.Done():
		logger.Info().Msg("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
		if startErr == nil {
			return err
		}
	}
	if startErr != nil {
		return startErr
	}

	logger.Info().Msg("server exited properly")
	return nil
}
