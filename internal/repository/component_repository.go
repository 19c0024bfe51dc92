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

var (
	ErrComponentNotFound      = errors.New("component not found")
	ErrComponentAlreadyExists = errors.New("component with this name already exists in the category")
)

// ComponentRepository defines the interface for component data access
type ComponentRepository interface {
	Create(ctx context.Context, component *domain.Component) error
	List(ctx context.Context) ([]*domain.Component, error)
	ListByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]*domain.Component, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Component, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*domain.Component, error)
	Update(ctx context.Context, component *domain.Component) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error)
}

type componentRepository struct {
	col *mongo.Collection
}

// NewComponentRepository creates a new instance of ComponentRepository
func NewComponentRepository(db *mongo.Database) ComponentRepository {
	return &componentRepository{col: db.Collection(database.CollectionComponents)}
}

// Create inserts a new component. The compound unique index on
// (name_normalized, category) rejects duplicate pairs.
func (r *componentRepository) Create(ctx context.Context, component *domain.Component) error {
	res, err := r.col.InsertOne(ctx, component)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrComponentAlreadyExists
		}
		return fmt.Errorf("failed to create component: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		component.ID = oid
	}
	return nil
}

// List retrieves all components ordered by name
func (r *componentRepository) List(ctx context.Context) ([]*domain.Component, error) {
	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list components: %w", err)
	}
	defer cursor.Close(ctx)

	components := []*domain.Component{}
	if err := cursor.All(ctx, &components); err != nil {
		return nil, fmt.Errorf("failed to decode components: %w", err)
	}
	return components, nil
}

// ListByCategory retrieves all components referencing the given category
func (r *componentRepository) ListByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]*domain.Component, error) {
	cursor, err := r.col.Find(ctx, bson.M{"category": categoryID}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list components by category: %w", err)
	}
	defer cursor.Close(ctx)

	components := []*domain.Component{}
	if err := cursor.All(ctx, &components); err != nil {
		return nil, fmt.Errorf("failed to decode components: %w", err)
	}
	return components, nil
}

// FindByID retrieves a component by id
func (r *componentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Component, error) {
	component := &domain.Component{}
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(component)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrComponentNotFound
		}
		return nil, fmt.Errorf("failed to find component by ID: %w", err)
	}
	return component, nil
}

// FindByIDs retrieves the components whose ids are in the given set.
// Missing ids are simply absent from the result; callers decide whether a
// dangling reference is an error or is skipped.
func (r *componentRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*domain.Component, error) {
	if len(ids) == 0 {
		return []*domain.Component{}, nil
	}

	cursor, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find components by IDs: %w", err)
	}
	defer cursor.Close(ctx)

	components := []*domain.Component{}
	if err := cursor.All(ctx, &components); err != nil {
		return nil, fmt.Errorf("failed to decode components: %w", err)
	}
	return components, nil
}

// Update replaces the stored document; the service merges partial fields
// before calling. The unique index still guards (name, category) collisions.
func (r *componentRepository) Update(ctx context.Context, component *domain.Component) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": component.ID}, component)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrComponentAlreadyExists
		}
		return fmt.Errorf("failed to update component: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrComponentNotFound
	}
	return nil
}

// Delete removes a component by id. Prices and configurations referencing it
// are left in place; joined reads tolerate the dangling reference.
func (r *componentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete component: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrComponentNotFound
	}
	return nil
}

// CountByCategory counts components referencing a category
func (r *componentRepository) CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"category": categoryID})
	if err != nil {
		return 0, fmt.Errorf("failed to count components by category: %w", err)
	}
	return count, nil
}
