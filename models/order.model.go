package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses. An order starts out placed and moves along the
// transition graph below; delivered and cancelled are terminal.
const (
	StatusPlaced    = "placed"
	StatusAccepted  = "accepted"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

var statusTransitions = map[string][]string{
	StatusPlaced:   {StatusAccepted, StatusCancelled},
	StatusAccepted: {StatusShipped},
	StatusShipped:  {StatusDelivered},
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPlaced, StatusAccepted, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// OrderItem is a single line of an order. PricePerUnit is captured from
// the crop at checkout time so later price edits don't change the order.
type OrderItem struct {
	Product      primitive.ObjectID `bson:"product" json:"product"`
	Quantity     int                `bson:"quantity" json:"quantity"`
	PricePerUnit float64            `bson:"price_per_unit" json:"pricePerUnit"`

	ProductInfo *CropSummary `bson:"-" json:"productInfo,omitempty"`
}

// Order represents one buyer's purchase from a single farmer. A checkout
// spanning several farmers produces one Order per farmer; every item in an
// Order references a crop owned by its Farmer.
type Order struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Buyer       primitive.ObjectID `bson:"buyer" json:"buyer"`
	Farmer      primitive.ObjectID `bson:"farmer" json:"farmer"`
	Items       []OrderItem        `bson:"items" json:"items"`
	TotalAmount float64            `bson:"total_amount" json:"totalAmount"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`

	BuyerInfo  *UserSummary `bson:"-" json:"buyerInfo,omitempty"`
	FarmerInfo *UserSummary `bson:"-" json:"farmerInfo,omitempty"`
}
