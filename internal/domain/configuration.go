package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Configuration is a named, user-owned list of components (a candidate build)
type Configuration struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID   `bson:"user" json:"user_id"`
	Name         string               `bson:"name" json:"name"`
	ComponentIDs []primitive.ObjectID `bson:"components" json:"component_ids"`
	CreatedAt    time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time            `bson:"updated_at" json:"updated_at"`
}
