package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a direct message between a buyer and a farmer, optionally
// tagged to the crop it is about.
type Message struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	Sender    primitive.ObjectID  `bson:"sender" json:"sender"`
	Receiver  primitive.ObjectID  `bson:"receiver" json:"receiver"`
	Product   *primitive.ObjectID `bson:"product,omitempty" json:"product,omitempty"`
	Text      string              `bson:"text" json:"text"`
	Read      bool                `bson:"read" json:"read"`
	CreatedAt time.Time           `bson:"created_at" json:"createdAt"`

	SenderInfo  *UserSummary `bson:"-" json:"senderInfo,omitempty"`
	ProductInfo *CropSummary `bson:"-" json:"productInfo,omitempty"`
}
