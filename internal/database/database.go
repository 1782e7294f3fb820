// Package database contains the logic for establishing
// connections to the document store that holds person records.
//
// Two backends are supported:
//   - MongoDB (default): one collection, documents keyed by ObjectID
//   - PostgreSQL: one table, each document stored as JSONB
//
// It handles:
//   - connecting with a bounded timeout and pinging so startup fails fast
//   - wiring query tracing/logging and optional New Relic instrumentation
//   - schema preparation (indexes / migrations)
package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/deppfellow/crm-api/internal/config"
	loggerPkg "github.com/deppfellow/crm-api/internal/logger"
)

// Database wraps the store client for the configured driver.
// Exactly one of Mongo and Pool is set.
type Database struct {
	Driver string

	// Mongo is the database handle when Driver is "mongo".
	Mongo *mongo.Database

	// Pool is the connection pool when Driver is "postgres".
	Pool *pgxpool.Pool

	log *zerolog.Logger
}

// New connects to the configured store.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Database, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMongo:
		return newMongo(ctx, cfg, logger, loggerService)
	case config.StoreDriverPostgres:
		return newPostgres(ctx, cfg, logger, loggerService)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}

// Ping checks that the store answers.
func (db *Database) Ping(ctx context.Context) error {
	if db.Pool != nil {
		return db.Pool.Ping(ctx)
	}
	return db.Mongo.Client().Ping(ctx, nil)
}

// Close releases the store's connections.
func (db *Database) Close(ctx context.Context) error {
	db.log.Info().Str("driver", db.Driver).Msg("closing database connection")

	if db.Pool != nil {
		db.Pool.Close()
		return nil
	}
	return db.Mongo.Client().Disconnect(ctx)
}
