package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Crop represents a farmer's product listing
type Crop struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Farmer            primitive.ObjectID `bson:"farmer" json:"farmer"`
	ProductName       string             `bson:"product_name" json:"productName"`
	Category          string             `bson:"category" json:"category"`
	Description       string             `bson:"description" json:"description"`
	Price             float64            `bson:"price" json:"price"`
	Unit              string             `bson:"unit" json:"unit"`
	QuantityAvailable int                `bson:"quantity_available" json:"quantityAvailable"`
	AvailableUntil    time.Time          `bson:"available_until" json:"availableUntil"`
	IsActive          bool               `bson:"is_active" json:"isActive"`
	ProductImages     []string           `bson:"product_images" json:"productImages"`
	CreatedAt         time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updatedAt"`

	// FarmerInfo is attached by handlers on read paths, never stored.
	FarmerInfo *UserSummary `bson:"-" json:"farmerInfo,omitempty"`
}

// CropSummary is the product slice embedded in order and message responses
type CropSummary struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	ProductName string             `bson:"product_name" json:"productName"`
	Unit        string             `bson:"unit" json:"unit,omitempty"`
	Price       float64            `bson:"price" json:"price,omitempty"`
}
