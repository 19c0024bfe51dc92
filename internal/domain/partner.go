package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Partner is a merchant offering prices for components
type Partner struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	NameNormalized string             `bson:"name_normalized" json:"-"`
	Website        string             `bson:"website" json:"website"`
	Description    string             `bson:"description" json:"description"`
	IsActive       bool               `bson:"is_active" json:"is_active"`
	Image          *Image             `bson:"image,omitempty" json:"-"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

// Price maps a (partner, component) pair to an amount. The pair is unique.
type Price struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PartnerID   primitive.ObjectID `bson:"partner" json:"partner_id"`
	ComponentID primitive.ObjectID `bson:"component" json:"component_id"`
	Amount      float64            `bson:"amount" json:"amount"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
