package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deppfellow/crm-api/internal/config"
	"github.com/deppfellow/crm-api/internal/database"
	loggerPkg "github.com/deppfellow/crm-api/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Prepare the store schema and exit",
	Long: `Prepare the configured store.

For MongoDB this creates the person_id lookup index. For PostgreSQL it
applies the embedded SQL migrations up to the latest version.`,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger := loggerPkg.NewLoggerWithService(cfg.Observability, nil)

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Store.ConnectTimeout)
	defer cancel()

	db, err := database.New(ctx, cfg, &logger, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to store: %w", err)
	}
	defer func() {
		_ = db.Close(context.Background())
	}()

	if err := database.Migrate(cmd.Context(), &logger, cfg, db); err != nil {
		return fmt.Errorf("failed to migrate store: %w", err)
	}

	logger.Info().Str("driver", cfg.Store.Driver).Msg("store migration finished")
	return nil
}
