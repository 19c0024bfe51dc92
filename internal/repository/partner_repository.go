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
	ErrPartnerNotFound      = errors.New("partner not found")
	ErrPartnerAlreadyExists = errors.New("partner with this name already exists")
)

// PartnerRepository defines the interface for partner data access
type PartnerRepository interface {
	Create(ctx context.Context, partner *domain.Partner) error
	List(ctx context.Context) ([]*domain.Partner, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Partner, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*domain.Partner, error)
	Update(ctx context.Context, partner *domain.Partner) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type partnerRepository struct {
	col *mongo.Collection
}

// NewPartnerRepository creates a new instance of PartnerRepository
func NewPartnerRepository(db *mongo.Database) PartnerRepository {
	return &partnerRepository{col: db.Collection(database.CollectionPartners)}
}

// Create inserts a new partner; the unique index on name_normalized rejects
// case-insensitive duplicates.
func (r *partnerRepository) Create(ctx context.Context, partner *domain.Partner) error {
	res, err := r.col.InsertOne(ctx, partner)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrPartnerAlreadyExists
		}
		return fmt.Errorf("failed to create partner: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		partner.ID = oid
	}
	return nil
}

// List retrieves all partners ordered by name
func (r *partnerRepository) List(ctx context.Context) ([]*domain.Partner, error) {
	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list partners: %w", err)
	}
	defer cursor.Close(ctx)

	partners := []*domain.Partner{}
	if err := cursor.All(ctx, &partners); err != nil {
		return nil, fmt.Errorf("failed to decode partners: %w", err)
	}
	return partners, nil
}

// FindByID retrieves a partner by id
func (r *partnerRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Partner, error) {
	partner := &domain.Partner{}
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(partner)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPartnerNotFound
		}
		return nil, fmt.Errorf("failed to find partner by ID: %w", err)
	}
	return partner, nil
}

// FindByIDs retrieves partners in the given id set; missing ids are absent
// from the result.
func (r *partnerRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*domain.Partner, error) {
	if len(ids) == 0 {
		return []*domain.Partner{}, nil
	}

	cursor, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find partners by IDs: %w", err)
	}
	defer cursor.Close(ctx)

	partners := []*domain.Partner{}
	if err := cursor.All(ctx, &partners); err != nil {
		return nil, fmt.Errorf("failed to decode partners: %w", err)
	}
	return partners, nil
}

// Update replaces the stored document; the service merges partial fields
func (r *partnerRepository) Update(ctx context.Context, partner *domain.Partner) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": partner.ID}, partner)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrPartnerAlreadyExists
		}
		return fmt.Errorf("failed to update partner: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrPartnerNotFound
	}
	return nil
}

// Delete removes a partner by id
func (r *partnerRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete partner: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrPartnerNotFound
	}
	return nil
}
