package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderItem represents a single product entry within an order.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	SKU       string             `bson:"sku,omitempty" json:"sku,omitempty"`
	Price     float64            `bson:"price" json:"price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Color     string             `bson:"color,omitempty" json:"color,omitempty"`
	Size      string             `bson:"size,omitempty" json:"size,omitempty"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
}

// ShippingAddress captures the destination entered at checkout.
type ShippingAddress struct {
	FirstName      string `bson:"firstName" json:"firstName"`
	LastName       string `bson:"lastName" json:"lastName"`
	Address        string `bson:"address" json:"address"`
	City           string `bson:"city" json:"city"`
	State          string `bson:"state" json:"state"`
	AdditionalInfo string `bson:"additionalInfo,omitempty" json:"additionalInfo,omitempty"`
}

// OrderShipping holds the shipping selection plus fulfilment fields that
// are only filled in once the order advances (tracking, delivery estimate).
type OrderShipping struct {
	Address           ShippingAddress `bson:"address" json:"address"`
	Method            string          `bson:"method" json:"method"`
	Location          string          `bson:"location" json:"location"`
	Cost              float64         `bson:"cost" json:"cost"`
	TrackingNumber    string          `bson:"trackingNumber,omitempty" json:"trackingNumber,omitempty"`
	EstimatedDelivery *time.Time      `bson:"estimatedDelivery,omitempty" json:"estimatedDelivery,omitempty"`
}

// OrderPayment is the payment axis of an order. It moves independently of
// the lifecycle status: a cancelled order may still be paid or refunded.
type OrderPayment struct {
	Method    string `bson:"method" json:"method"`
	Status    string `bson:"status" json:"status"`
	Reference string `bson:"reference" json:"reference"`
}

// Refund is attached to an order when an administrator processes a refund.
type Refund struct {
	Amount float64   `bson:"amount" json:"amount"`
	Reason string    `bson:"reason" json:"reason"`
	Date   time.Time `bson:"date" json:"date"`
}

// Order defines the persisted order document. The checkout reference
// doubles as the document id and the externally visible order number.
type Order struct {
	Reference     string              `bson:"_id" json:"id"`
	UserID        *primitive.ObjectID `bson:"userId" json:"userId"`
	CustomerEmail string              `bson:"customerEmail" json:"customerEmail"`
	CustomerPhone string              `bson:"customerPhone" json:"customerPhone"`
	Items         []OrderItem         `bson:"items" json:"items"`
	Subtotal      float64             `bson:"subtotal" json:"subtotal"`
	Discount      float64             `bson:"discount,omitempty" json:"discount,omitempty"`
	Amount        float64             `bson:"amount" json:"amount"`
	Shipping      OrderShipping       `bson:"shipping" json:"shipping"`
	Payment       OrderPayment        `bson:"payment" json:"payment"`
	Refund        *Refund             `bson:"refund,omitempty" json:"refund,omitempty"`
	Status        string              `bson:"status" json:"status"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
}
