package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/recipebox/internal/server/repositories/recipes"
	"github.com/dmitrijs2005/recipebox/internal/server/repositories/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultMongoDatabase = "recipebox"

// MongoRepositoryManager vends MongoDB-backed repositories. Migrations amount
// to creating the unique indexes.
type MongoRepositoryManager struct {
	client  *mongo.Client
	recipes *recipes.MongoRepository
	users   *users.MongoRepository
}

// ConnectMongo dials the deployment named by uri and verifies it is reachable.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

func NewMongoRepositoryManager(client *mongo.Client, database string) (*MongoRepositoryManager, error) {
	if database == "" {
		database = defaultMongoDatabase
	}
	db := client.Database(database)
	return &MongoRepositoryManager{
		client:  client,
		recipes: recipes.NewMongoRepository(db.Collection(recipes.CollectionName)),
		users:   users.NewMongoRepository(db.Collection(users.CollectionName)),
	}, nil
}

func (m *MongoRepositoryManager) Recipes() recipes.Repository {
	return m.recipes
}

func (m *MongoRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *MongoRepositoryManager) RunMigrations(ctx context.Context) error {
	if err := m.recipes.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("recipes indexes: %w", err)
	}
	if err := m.users.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}
	return nil
}

func (m *MongoRepositoryManager) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *MongoRepositoryManager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
