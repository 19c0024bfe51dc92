package database

import (
	"context"
	"fmt"
	"time"

	"partforge/internal/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names
const (
	CollectionUsers          = "users"
	CollectionRefreshTokens  = "refresh_tokens"
	CollectionCategories     = "categories"
	CollectionComponents     = "components"
	CollectionPartners       = "partners"
	CollectionPrices         = "prices"
	CollectionConfigurations = "configurations"
)

// Service wraps the Mongo client and the application database handle
type Service struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a Mongo client and verifies the connection with a ping
func Connect(cfg config.MongoConfig) (*Service, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(25)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &Service{
		client: client,
		db:     client.Database(cfg.Database),
	}, nil
}

// DB returns the application database handle
func (s *Service) DB() *mongo.Database {
	return s.db
}

// Health reports basic connectivity status
func (s *Service) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return map[string]string{"status": "down", "error": err.Error()}
	}
	return map[string]string{"status": "up"}
}

// Close disconnects the underlying client
func (s *Service) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
