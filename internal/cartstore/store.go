// Package cartstore persists shopper carts. Handlers depend on the Store
// interface, with the Mongo implementation wired in at startup.
package cartstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"midessories/internal/models"
)

// Cart lifecycle states. A cart is active until checkout converts it or
// the shopper clears it.
const (
	StatusActive    = "active"
	StatusConverted = "converted"
	StatusCleared   = "cleared"
)

// NotFoundError reports a cart id with no matching document.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("cart not found: %s", e.ID)
}

type Store interface {
	Create(ctx context.Context, userID *primitive.ObjectID) (models.Cart, error)
	Get(ctx context.Context, id string) (models.Cart, error)
	ActiveByUser(ctx context.Context, userID primitive.ObjectID) (models.Cart, error)
	ReplaceItems(ctx context.Context, id string, items []models.CartItem) (models.Cart, error)
	SetStatus(ctx context.Context, id, status string) error
	AttachUser(ctx context.Context, id string, userID primitive.ObjectID) error
}

// MergeItem folds a new line into the existing lines. Lines are keyed by
// (productId, color, size); a match increments quantity, otherwise the
// line is appended with a fresh id.
func MergeItem(items []models.CartItem, item models.CartItem) []models.CartItem {
	for i, existing := range items {
		if sameLine(existing, item) {
			items[i].Quantity += item.Quantity
			return items
		}
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	return append(items, item)
}

// SetQuantity sets the quantity of the identified line. A quantity below 1
// removes the line. The second return reports whether the line was found.
func SetQuantity(items []models.CartItem, lineID string, quantity int) ([]models.CartItem, bool) {
	for i, existing := range items {
		if existing.ID != lineID {
			continue
		}
		if quantity < 1 {
			return append(items[:i], items[i+1:]...), true
		}
		items[i].Quantity = quantity
		return items, true
	}
	return items, false
}

// RemoveItem drops the identified line.
func RemoveItem(items []models.CartItem, lineID string) ([]models.CartItem, bool) {
	return SetQuantity(items, lineID, 0)
}

func sameLine(a, b models.CartItem) bool {
	return a.ProductID == b.ProductID &&
		strings.EqualFold(a.Color, b.Color) &&
		strings.EqualFold(a.Size, b.Size)
}

// Mongo is the production Store backed by the carts collection.
type Mongo struct {
	col *mongo.Collection
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{col: db.Collection("carts")}
}

func (s *Mongo) Create(ctx context.Context, userID *primitive.ObjectID) (models.Cart, error) {
	now := time.Now()
	cart := models.Cart{
		ID:        uuid.NewString(),
		UserID:    userID,
		Items:     []models.CartItem{},
		Status:    StatusActive,
		EmailSent: false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.col.InsertOne(ctx, cart); err != nil {
		return models.Cart{}, err
	}
	return cart, nil
}

func (s *Mongo) Get(ctx context.Context, id string) (models.Cart, error) {
	var cart models.Cart
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return models.Cart{}, &NotFoundError{ID: id}
	}
	if err != nil {
		return models.Cart{}, err
	}
	return cart, nil
}

func (s *Mongo) ActiveByUser(ctx context.Context, userID primitive.ObjectID) (models.Cart, error) {
	var cart models.Cart
	err := s.col.FindOne(ctx, bson.M{"userId": userID, "status": StatusActive}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return models.Cart{}, &NotFoundError{ID: userID.Hex()}
	}
	if err != nil {
		return models.Cart{}, err
	}
	return cart, nil
}

// ReplaceItems writes the new line set and resets the abandoned-cart email
// flag: any activity makes the cart fresh again.
func (s *Mongo) ReplaceItems(ctx context.Context, id string, items []models.CartItem) (models.Cart, error) {
	now := time.Now()
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"items":     items,
			"emailSent": false,
			"updatedAt": now,
		},
	})
	if err != nil {
		return models.Cart{}, err
	}
	if res.MatchedCount == 0 {
		return models.Cart{}, &NotFoundError{ID: id}
	}
	return s.Get(ctx, id)
}

func (s *Mongo) SetStatus(ctx context.Context, id, status string) error {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"status": status, "updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return &NotFoundError{ID: id}
	}
	return nil
}

// AttachUser claims a guest cart for a signed-in customer.
func (s *Mongo) AttachUser(ctx context.Context, id string, userID primitive.ObjectID) error {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"userId": userID, "updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return &NotFoundError{ID: id}
	}
	return nil
}
