package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"midessories/internal/cartstore"
	"midessories/internal/catalog"
	"midessories/internal/models"
)

type CartAddItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

type CartQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func respondCartError(c *gin.Context, err error) {
	var notFound *cartstore.NotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "cart not found"})
		return
	}
	log.Println("[CART] [ERROR]", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
}

func cartResponse(cart models.Cart) gin.H {
	return gin.H{
		"cart":  cart,
		"total": cart.Total(),
	}
}

/*
POST /cart
- guests get an anonymous cart; signed-in shoppers get it bound to them
*/
func CreateCart(store cartstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var userID *primitive.ObjectID
		if value, ok := c.Get("userId"); ok {
			id := value.(primitive.ObjectID)
			userID = &id
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cart, err := store.Create(ctx, userID)
		if err != nil {
			respondCartError(c, err)
			return
		}

		log.Println("[CART] [INFO] cart created:", cart.ID)
		c.JSON(http.StatusCreated, cartResponse(cart))
	}
}

/*
GET /cart/:id
*/
func GetCart(store cartstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cart, err := store.Get(ctx, c.Param("id"))
		if err != nil {
			respondCartError(c, err)
			return
		}

		c.JSON(http.StatusOK, cartResponse(cart))
	}
}

/*
GET /user/cart
- the signed-in shopper's active cart; created on demand
*/
func GetUserCart(store cartstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cart, err := store.ActiveByUser(ctx, userID)
		var notFound *cartstore.NotFoundError
		if errors.As(err, &notFound) {
			cart, err = store.Create(ctx, &userID)
		}
		if err != nil {
			respondCartError(c, err)
			return
		}

		c.JSON(http.StatusOK, cartResponse(cart))
	}
}

/*
POST /cart/:id/claim
- binds a guest cart to the shopper who just signed in
*/
func ClaimCart(store cartstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := store.AttachUser(ctx, c.Param("id"), userID); err != nil {
			respondCartError(c, err)
			return
		}

		cart, err := store.Get(ctx, c.Param("id"))
		if err != nil {
			respondCartError(c, err)
			return
		}

		c.JSON(http.StatusOK, cartResponse(cart))
	}
}

/*
POST /cart/:id/items
- the price snapshot comes from the product document, never the client
*/
func AddCartItem(db *mongo.Database, store cartstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CartAddItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.ProductID))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid productId"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		err = db.Collection("products").FindOne(ctx, bson.M{
			"_id":       productID,
			"status":    "active",
			"isDeleted": bson.M{"$ne": true},
		}).Decode(&product)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusBadRequest, gin.H{"error": "product not available"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if catalog.AvailableStock(product, req.Color, req.Size) < req.Quantity {
			c.JSON(http.StatusConflict, gin.H{"error": "not enough stock"})
			return
		}

		cart, err := store.Get(ctx, c.Param("id"))
		if err != nil {
			respondCartError(c, err)
			return
		}

		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}

		items := cartstore.MergeItem(cart.Items, models.CartItem{
			ProductID: productID,
			Name:      product.Name,
			Price:     catalog.EffectiveUnitPrice(product, req.Color, req.Size),
			Image:     image,
			Quantity:  req.Quantity,
			Color:     strings.TrimSpace(req.Color),
			Size:      strings.TrimSpace(req.Size),
		})

		updated, err := store.ReplaceItems(ctx, cart.ID, items)
		if err != nil {
			respondCartError(c, err)
			return
		}

		c.JSON(http.StatusOK, cartResponse(updated))
	}
}

/*
PUT /cart/:id/items/:itemId
- quantity below 1 removes the line
*/
func UpdateCartItemQuantity(store cartstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CartQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cart, err := store.Get(ctx, c.Param("id"))
		if err != nil {
			respondCartError(c, err)
			return
		}

		items, found := cartstore.SetQuantity(cart.Items, c.Param("itemId"), *req.Quantity)
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "cart item not found"})
			return
		}

		updated, err := store.ReplaceItems(ctx, cart.ID, items)
		if err != nil {
			respondCartError(c, err)
			return
		}

		c.JSON(http.StatusOK, cartResponse(updated))
	}
}

/*
DELETE /cart/:id/items/:itemId
*/
func RemoveCartItem(store cartstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cart, err := store.Get(ctx, c.Param("id"))
		if err != nil {
			respondCartError(c, err)
			return
		}

		items, found := cartstore.RemoveItem(cart.Items, c.Param("itemId"))
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "cart item not found"})
			return
		}

		updated, err := store.ReplaceItems(ctx, cart.ID, items)
		if err != nil {
			respondCartError(c, err)
			return
		}

		c.JSON(http.StatusOK, cartResponse(updated))
	}
}

/*
DELETE /cart/:id
- empties the cart and marks it cleared
*/
func ClearCart(store cartstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if _, err := store.ReplaceItems(ctx, c.Param("id"), []models.CartItem{}); err != nil {
			respondCartError(c, err)
			return
		}
		if err := store.SetStatus(ctx, c.Param("id"), cartstore.StatusCleared); err != nil {
			respondCartError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
	}
}
