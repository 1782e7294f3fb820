package repository

import (
	"fmt"

	"github.com/deppfellow/crm-api/internal/config"
	"github.com/deppfellow/crm-api/internal/database"
	"github.com/deppfellow/crm-api/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Person PersonRepository
}

// NewRepositories builds the repositories for the store the server is connected to.
func NewRepositories(s *server.Server) (*Repositories, error) {
	if s.DB == nil {
		return nil, fmt.Errorf("server has no database")
	}

	switch s.DB.Driver {
	case config.StoreDriverMongo:
		return &Repositories{
			Person: NewMongoPersonRepository(s.DB.Mongo.Collection(s.Config.Store.Collection)),
		}, nil
	case config.StoreDriverPostgres:
		return &Repositories{
			Person: NewPostgresPersonRepository(s.DB.Pool, database.TableName(s.Config.Store.Collection)),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", s.DB.Driver)
	}
}
