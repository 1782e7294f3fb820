package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/rs/zerolog"

	"github.com/deppfellow/crm-api/internal/config"
)

// Embed all SQL files under migrations/ at compile time.
//
//go:embed migrations/*.sql
var migrations embed.FS

// Migrate prepares the store's schema.
//
// For MongoDB it ensures the person_id lookup index. For PostgreSQL it
// runs the embedded tern migrations up to the latest version.
func Migrate(ctx context.Context, logger *zerolog.Logger, cfg *config.Config, db *Database) error {
	switch db.Driver {
	case config.StoreDriverMongo:
		return migrateMongo(ctx, logger, db.Mongo, cfg.Store.Collection)
	case config.StoreDriverPostgres:
		return migratePostgres(ctx, logger, cfg)
	default:
		return fmt.Errorf("unsupported store driver %q", db.Driver)
	}
}

// TableName returns the quoted table identifier for a collection name.
func TableName(collection string) string {
	return pgx.Identifier{collection}.Sanitize()
}

// migratePostgres runs the embedded migrations using jackc/tern over a
// dedicated single connection.
func migratePostgres(ctx context.Context, logger *zerolog.Logger, cfg *config.Config) error {
	conn, err := pgx.Connect(ctx, cfg.Store.URI)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	m, err := tern.NewMigrator(ctx, conn, "schema_version")
	if err != nil {
		return fmt.Errorf("constructing database migrator: %w", err)
	}
	m.Data["table"] = TableName(cfg.Store.Collection)

	subtree, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("retrieving database migrations subtree: %w", err)
	}

	if err := m.LoadMigrations(subtree); err != nil {
		return fmt.Errorf("loading database migrations: %w", err)
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	if err := m.Migrate(ctx); err != nil {
		return err
	}

	if from == int32(len(m.Migrations)) {
		logger.Info().Msgf("database schema up to date, version %d", len(m.Migrations))
	} else {
		logger.Info().Msgf("migrated database schema, from %d to %d", from, len(m.Migrations))
	}
	return nil
}
