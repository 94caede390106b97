package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VariantOption describes one configurable axis of a product, e.g.
// {Name: "Size", Values: ["S", "M", "L"]}.
type VariantOption struct {
	Name   string   `bson:"name" json:"name"`
	Values []string `bson:"values" json:"values"`
}

// ProductVariant is a concrete combination of option values with its own
// sku, price and stock.
type ProductVariant struct {
	SKU        string            `bson:"sku" json:"sku"`
	Price      float64           `bson:"price" json:"price"`
	Stock      int               `bson:"stock" json:"stock"`
	Attributes map[string]string `bson:"attributes" json:"attributes"`
}

type Product struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	Price          float64            `bson:"price" json:"price"`
	CompareAtPrice float64            `bson:"compareAtPrice,omitempty" json:"compareAtPrice,omitempty"`
	IsOnSale       bool               `bson:"-" json:"isOnSale"`
	Images         StringList         `bson:"images" json:"images"`
	CategoryID     primitive.ObjectID `bson:"categoryId" json:"categoryId"`
	CategoryName   string             `bson:"categoryName,omitempty" json:"categoryName,omitempty"`
	SKU            string             `bson:"sku,omitempty" json:"sku,omitempty"`
	Barcode        string             `bson:"barcode,omitempty" json:"barcode,omitempty"`
	Brand          string             `bson:"brand,omitempty" json:"brand,omitempty"`
	Tags           StringList         `bson:"tags,omitempty" json:"tags,omitempty"`
	Stock          int                `bson:"stock" json:"stock"`
	InStock        bool               `bson:"-" json:"inStock"`
	HasVariants    bool               `bson:"hasVariants" json:"hasVariants"`
	VariantOptions []VariantOption    `bson:"variantOptions,omitempty" json:"variantOptions,omitempty"`
	Variants       []ProductVariant   `bson:"variants,omitempty" json:"variants,omitempty"`
	Status         string             `bson:"status" json:"status"`
	Featured       bool               `bson:"featured" json:"featured"`
	IsNewArrival   bool               `bson:"isNewArrival" json:"isNewArrival"`
	IsDeleted      bool               `bson:"isDeleted" json:"isDeleted,omitempty"`
	DeletedAt      *time.Time         `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
