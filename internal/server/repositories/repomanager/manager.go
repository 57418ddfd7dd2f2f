// Package repomanager vends the record repositories for the configured
// backend and owns the backing connections.
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/recipebox/internal/server/repositories/recipes"
	"github.com/dmitrijs2005/recipebox/internal/server/repositories/users"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

type RepositoryManager interface {
	// RunMigrations brings the schema (tables, indexes) up to date.
	RunMigrations(ctx context.Context) error
	Recipes() recipes.Repository
	Users() users.Repository
	// Ping reports whether the record store is reachable.
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Options selects and addresses a record store.
type Options struct {
	Driver   string
	DSN      string
	Database string
}

// New connects to the store named by opts.Driver.
func New(ctx context.Context, opts Options) (RepositoryManager, error) {
	switch opts.Driver {
	case DriverPostgres:
		db, err := OpenPostgres(ctx, opts.DSN)
		if err != nil {
			return nil, err
		}
		return NewPostgresRepositoryManager(db)
	case DriverMongo:
		client, err := ConnectMongo(ctx, opts.DSN)
		if err != nil {
			return nil, err
		}
		return NewMongoRepositoryManager(client, opts.Database)
	case DriverMemory:
		return NewMemoryRepositoryManager(), nil
	}
	return nil, fmt.Errorf("unknown database driver %q", opts.Driver)
}
