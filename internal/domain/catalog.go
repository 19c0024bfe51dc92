package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category classifies components (e.g. "Processor")
type Category struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	NameNormalized string             `bson:"name_normalized" json:"-"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}

// Component is a purchasable hardware item belonging to one category
type Component struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	NameNormalized string             `bson:"name_normalized" json:"-"`
	CategoryID     primitive.ObjectID `bson:"category" json:"category_id"`
	Brand          string             `bson:"brand" json:"brand"`
	Specs          map[string]string  `bson:"specs" json:"specs"`
	Image          *Image             `bson:"image,omitempty" json:"-"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}
