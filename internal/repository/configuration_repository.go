package repository

import (
	"context"
	"errors"
	"fmt"

	"partforge/internal/database"
	"partforge/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrConfigurationNotFound = errors.New("configuration not found")

// ConfigurationRepository defines the interface for configuration data access
type ConfigurationRepository interface {
	Create(ctx context.Context, configuration *domain.Configuration) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Configuration, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*domain.Configuration, error)
	List(ctx context.Context) ([]*domain.Configuration, error)
	Update(ctx context.Context, configuration *domain.Configuration) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type configurationRepository struct {
	col *mongo.Collection
}

// NewConfigurationRepository creates a new instance of ConfigurationRepository
func NewConfigurationRepository(db *mongo.Database) ConfigurationRepository {
	return &configurationRepository{col: db.Collection(database.CollectionConfigurations)}
}

// Create inserts a new configuration
func (r *configurationRepository) Create(ctx context.Context, configuration *domain.Configuration) error {
	res, err := r.col.InsertOne(ctx, configuration)
	if err != nil {
		return fmt.Errorf("failed to create configuration: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		configuration.ID = oid
	}
	return nil
}

// FindByID retrieves a configuration by id
func (r *configurationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Configuration, error) {
	configuration := &domain.Configuration{}
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(configuration)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrConfigurationNotFound
		}
		return nil, fmt.Errorf("failed to find configuration by ID: %w", err)
	}
	return configuration, nil
}

// ListByUser retrieves all configurations owned by a user, newest first
func (r *configurationRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*domain.Configuration, error) {
	cursor, err := r.col.Find(ctx, bson.M{"user": userID}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list configurations by user: %w", err)
	}
	defer cursor.Close(ctx)

	configurations := []*domain.Configuration{}
	if err := cursor.All(ctx, &configurations); err != nil {
		return nil, fmt.Errorf("failed to decode configurations: %w", err)
	}
	return configurations, nil
}

// List retrieves every configuration, newest first
func (r *configurationRepository) List(ctx context.Context) ([]*domain.Configuration, error) {
	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list configurations: %w", err)
	}
	defer cursor.Close(ctx)

	configurations := []*domain.Configuration{}
	if err := cursor.All(ctx, &configurations); err != nil {
		return nil, fmt.Errorf("failed to decode configurations: %w", err)
	}
	return configurations, nil
}

// Update replaces the stored document; the service merges partial fields
func (r *configurationRepository) Update(ctx context.Context, configuration *domain.Configuration) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": configuration.ID}, configuration)
	if err != nil {
		return fmt.Errorf("failed to update configuration: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrConfigurationNotFound
	}
	return nil
}

// Delete removes a configuration by id
func (r *configurationRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete configuration: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrConfigurationNotFound
	}
	return nil
}
