package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"partforge/internal/database"
	"partforge/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrPriceNotFound      = errors.New("price not found")
	ErrPriceAlreadyExists = errors.New("price for this partner and component already exists")
)

// PriceRepository defines the interface for price data access
type PriceRepository interface {
	Create(ctx context.Context, price *domain.Price) error
	FindByPair(ctx context.Context, partnerID, componentID primitive.ObjectID) (*domain.Price, error)
	UpdateAmount(ctx context.Context, partnerID, componentID primitive.ObjectID, amount float64) error
	DeleteByPair(ctx context.Context, partnerID, componentID primitive.ObjectID) error
	ListByComponent(ctx context.Context, componentID primitive.ObjectID) ([]*domain.Price, error)
	List(ctx context.Context) ([]*domain.Price, error)
}

type priceRepository struct {
	col *mongo.Collection
}

// NewPriceRepository creates a new instance of PriceRepository
func NewPriceRepository(db *mongo.Database) PriceRepository {
	return &priceRepository{col: db.Collection(database.CollectionPrices)}
}

// Create inserts a new price row; the unique compound index on
// (partner, component) rejects duplicate pairs.
func (r *priceRepository) Create(ctx context.Context, price *domain.Price) error {
	res, err := r.col.InsertOne(ctx, price)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrPriceAlreadyExists
		}
		return fmt.Errorf("failed to create price: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		price.ID = oid
	}
	return nil
}

// FindByPair retrieves the price row for a (partner, component) pair
func (r *priceRepository) FindByPair(ctx context.Context, partnerID, componentID primitive.ObjectID) (*domain.Price, error) {
	price := &domain.Price{}
	err := r.col.FindOne(ctx, bson.M{"partner": partnerID, "component": componentID}).Decode(price)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPriceNotFound
		}
		return nil, fmt.Errorf("failed to find price by pair: %w", err)
	}
	return price, nil
}

// UpdateAmount overwrites the amount of an existing pair
func (r *priceRepository) UpdateAmount(ctx context.Context, partnerID, componentID primitive.ObjectID, amount float64) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"partner": partnerID, "component": componentID},
		bson.M{"$set": bson.M{"amount": amount, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update price: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrPriceNotFound
	}
	return nil
}

// DeleteByPair removes the price row for a (partner, component) pair
func (r *priceRepository) DeleteByPair(ctx context.Context, partnerID, componentID primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"partner": partnerID, "component": componentID})
	if err != nil {
		return fmt.Errorf("failed to delete price: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrPriceNotFound
	}
	return nil
}

// ListByComponent retrieves all price rows for a component in store order
func (r *priceRepository) ListByComponent(ctx context.Context, componentID primitive.ObjectID) ([]*domain.Price, error) {
	cursor, err := r.col.Find(ctx, bson.M{"component": componentID})
	if err != nil {
		return nil, fmt.Errorf("failed to list prices by component: %w", err)
	}
	defer cursor.Close(ctx)

	prices := []*domain.Price{}
	if err := cursor.All(ctx, &prices); err != nil {
		return nil, fmt.Errorf("failed to decode prices: %w", err)
	}
	return prices, nil
}

// List retrieves all price rows
func (r *priceRepository) List(ctx context.Context) ([]*domain.Price, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list prices: %w", err)
	}
	defer cursor.Close(ctx)

	prices := []*domain.Price{}
	if err := cursor.All(ctx, &prices); err != nil {
		return nil, fmt.Errorf("failed to decode prices: %w", err)
	}
	return prices, nil
}
