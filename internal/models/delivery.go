package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DeliveryZone struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Countries StringList         `bson:"countries" json:"countries"`
	Regions   StringList         `bson:"regions,omitempty" json:"regions,omitempty"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// EstimatedDays is the lead-time window quoted for a delivery method.
type EstimatedDays struct {
	Min int `bson:"min" json:"min"`
	Max int `bson:"max" json:"max"`
}

type DeliveryMethod struct {
	ID                    primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Key                   string               `bson:"key" json:"key"`
	Name                  string               `bson:"name" json:"name"`
	Description           string               `bson:"description,omitempty" json:"description,omitempty"`
	Type                  string               `bson:"type" json:"type"`
	Cost                  float64              `bson:"cost" json:"cost"`
	FreeShippingThreshold *float64             `bson:"freeShippingThreshold,omitempty" json:"freeShippingThreshold,omitempty"`
	EstimatedDays         EstimatedDays        `bson:"estimatedDays" json:"estimatedDays"`
	ZoneIDs               []primitive.ObjectID `bson:"zoneIds,omitempty" json:"zoneIds,omitempty"`
	Status                string               `bson:"status" json:"status"`
	CreatedAt             time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time            `bson:"updatedAt" json:"updatedAt"`
}
