package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReviewResponse is an optional admin reply shown under a review.
type ReviewResponse struct {
	Text string    `bson:"text" json:"text"`
	Date time.Time `bson:"date" json:"date"`
}

type Review struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ProductID    primitive.ObjectID  `bson:"productId" json:"productId"`
	CustomerID   *primitive.ObjectID `bson:"customerId,omitempty" json:"customerId,omitempty"`
	CustomerName string              `bson:"customerName" json:"customerName"`
	Rating       int                 `bson:"rating" json:"rating"`
	Title        string              `bson:"title" json:"title"`
	Comment      string              `bson:"comment" json:"comment"`
	Images       StringList          `bson:"images,omitempty" json:"images,omitempty"`
	Status       string              `bson:"status" json:"status"`
	Verified     bool                `bson:"verified" json:"verified"`
	Response     *ReviewResponse     `bson:"response,omitempty" json:"response,omitempty"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt" json:"updatedAt"`
}
