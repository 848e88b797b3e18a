package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles. Admin accounts are provisioned directly, never via registration.
const (
	RoleFarmer = "farmer"
	RoleBuyer  = "buyer"
	RoleAdmin  = "admin"
)

// Address represents a user's postal address
type Address struct {
	Street  string `bson:"street" json:"street"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	Zipcode string `bson:"zipcode" json:"zipcode"`
}

// User represents a farmer, buyer or admin account
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone" json:"phone"`
	Password  string             `bson:"password,omitempty" json:"-"`
	Role      string             `bson:"role" json:"role"`
	Address   Address            `bson:"address" json:"address"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// UserSummary is the public slice of a user embedded in listing responses
type UserSummary struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email,omitempty"`
	Phone string             `bson:"phone" json:"phone,omitempty"`
}
