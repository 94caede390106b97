package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is one line of a shopper's working cart. Lines are deduplicated
// by the (productId, color, size) triple; adding the same combination again
// increments the quantity instead of appending a row.
type CartItem struct {
	ID        string             `bson:"id" json:"id"`
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Color     string             `bson:"color,omitempty" json:"color,omitempty"`
	Size      string             `bson:"size,omitempty" json:"size,omitempty"`
}

// Cart is the persisted working set of intended purchases. The total is
// never stored; it is derived from the items on every read.
type Cart struct {
	ID        string              `bson:"_id" json:"id"`
	UserID    *primitive.ObjectID `bson:"userId" json:"userId"`
	Items     []CartItem          `bson:"items" json:"items"`
	Status    string              `bson:"status" json:"status"`
	EmailSent bool                `bson:"emailSent" json:"-"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// Total sums unit price times quantity across all lines.
func (c Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}
