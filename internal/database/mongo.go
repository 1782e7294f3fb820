package database

import (
	"context"
	"fmt"

	"github.com/newrelic/go-agent/v3/integrations/nrmongo"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/deppfellow/crm-api/internal/config"
	loggerPkg "github.com/deppfellow/crm-api/internal/logger"
	"github.com/deppfellow/crm-api/internal/model"
)

func newMongo(ctx context.Context, cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Database, error) {
	opts := options.Client().
		ApplyURI(cfg.Store.URI).
		SetAppName(cfg.Observability.ServiceName).
		SetConnectTimeout(cfg.Store.ConnectTimeout).
		SetServerSelectionTimeout(cfg.Store.ConnectTimeout)

	var monitor *event.CommandMonitor
	if threshold := cfg.Observability.Logging.SlowQueryThreshold; threshold > 0 {
		monitor = slowCommandMonitor(logger, threshold)
	}
	// Command monitoring makes every Mongo call show up as a datastore
	// segment. nrmongo forwards events to the wrapped monitor.
	if loggerService.GetApplication() != nil {
		monitor = nrmongo.NewCommandMonitor(monitor)
	}
	if monitor != nil {
		opts.SetMonitor(monitor)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Store.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	name := cfg.Store.DatabaseName()
	logger.Info().Str("database", name).Msg("connected to the database")

	return &Database{
		Driver: config.StoreDriverMongo,
		Mongo:  client.Database(name),
		log:    logger,
	}, nil
}

// migrateMongo ensures the lookup index on person_id exists.
//
// The index is deliberately not unique: person_id uniqueness is not part
// of the contract, and lookups act on the first match.
func migrateMongo(ctx context.Context, logger *zerolog.Logger, db *mongo.Database, collection string) error {
	name, err := db.Collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: model.FieldPersonID, Value: 1}},
		Options: options.Index().SetName("person_id_lookup"),
	})
	if err != nil {
		return fmt.Errorf("creating person_id index: %w", err)
	}

	logger.Info().Str("collection", collection).Str("index", name).Msg("mongo indexes up to date")
	return nil
}
