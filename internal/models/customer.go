package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address represents a single saved address on a customer profile.
type Address struct {
	ID        string `bson:"id" json:"id"`
	Street    string `bson:"street" json:"street"`
	City      string `bson:"city" json:"city"`
	State     string `bson:"state" json:"state"`
	IsDefault bool   `bson:"isDefault" json:"isDefault"`
}

type Customer struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName     string             `bson:"firstName" json:"firstName"`
	LastName      string             `bson:"lastName" json:"lastName"`
	Email         string             `bson:"email" json:"email"`
	Phone         string             `bson:"phone,omitempty" json:"phone,omitempty"`
	PasswordHash  string             `bson:"passwordHash" json:"-"`
	Addresses     []Address          `bson:"addresses" json:"addresses"`
	Newsletter    bool               `bson:"newsletter" json:"newsletter"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Tags          StringList         `bson:"tags,omitempty" json:"tags,omitempty"`
	TotalOrders   int                `bson:"totalOrders" json:"totalOrders"`
	TotalSpent    float64            `bson:"totalSpent" json:"totalSpent"`
	LastOrderDate *time.Time         `bson:"lastOrderDate,omitempty" json:"lastOrderDate,omitempty"`
	IsActive      bool               `bson:"isActive" json:"isActive"`
	Role          string             `bson:"role" json:"role"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
