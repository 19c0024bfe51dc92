package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type indexSpec struct {
	collection string
	model      mongo.IndexModel
}

// indexSpecs lists every index the service relies on. Uniqueness of names
// and of the (partner, component) pair is enforced here, on normalized
// lower-cased keys, rather than by application-level pre-checks alone.
func indexSpecs() []indexSpec {
	unique := options.Index().SetUnique(true)
	return []indexSpec{
		{CollectionUsers, mongo.IndexModel{
			Keys:    bson.D{{Key: "email_normalized", Value: 1}},
			Options: unique,
		}},
		{CollectionRefreshTokens, mongo.IndexModel{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: unique,
		}},
		{CollectionCategories, mongo.IndexModel{
			Keys:    bson.D{{Key: "name_normalized", Value: 1}},
			Options: unique,
		}},
		{CollectionComponents, mongo.IndexModel{
			Keys:    bson.D{{Key: "name_normalized", Value: 1}, {Key: "category", Value: 1}},
			Options: unique,
		}},
		{CollectionComponents, mongo.IndexModel{
			Keys: bson.D{{Key: "category", Value: 1}},
		}},
		{CollectionPartners, mongo.IndexModel{
			Keys:    bson.D{{Key: "name_normalized", Value: 1}},
			Options: unique,
		}},
		{CollectionPrices, mongo.IndexModel{
			Keys:    bson.D{{Key: "partner", Value: 1}, {Key: "component", Value: 1}},
			Options: unique,
		}},
		{CollectionPrices, mongo.IndexModel{
			Keys: bson.D{{Key: "component", Value: 1}},
		}},
		{CollectionConfigurations, mongo.IndexModel{
			Keys: bson.D{{Key: "user", Value: 1}},
		}},
	}
}

// EnsureIndexes creates all required indexes. It runs at boot and is
// idempotent; CreateOne on an existing identical index is a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	logger.Info("Ensuring database indexes")

	for _, spec := range indexSpecs() {
		name, err := db.Collection(spec.collection).Indexes().CreateOne(ctx, spec.model)
		if err != nil {
			logger.Error("Failed to create index",
				zap.String("collection", spec.collection),
				zap.Error(err),
			)
			return fmt.Errorf("failed to create index on %s: %w", spec.collection, err)
		}
		logger.Debug("Index ensured",
			zap.String("collection", spec.collection),
			zap.String("index", name),
		)
	}

	logger.Info("Database indexes ensured")
	return nil
}
