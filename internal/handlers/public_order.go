package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"midessories/internal/models"
	"midessories/internal/notify"
	"midessories/internal/order"
)

/*
GET /orders/:reference
- the confirmation page re-queries by reference instead of carrying order
  state across the redirect
- transfer orders include the bank instructions until they are paid
*/
func GetOrderByReference(db *mongo.Database, bank notify.BankDetails) gin.HandlerFunc {
	return func(c *gin.Context) {
		reference := strings.TrimSpace(c.Param("reference"))
		if reference == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "reference required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var o models.Order
		err := db.Collection("orders").FindOne(ctx, bson.M{"_id": reference}).Decode(&o)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		response := gin.H{"order": o}
		if o.Payment.Method == order.MethodTransfer && o.Payment.Status != string(order.PaymentPaid) {
			response["transferInstructions"] = gin.H{
				"bankName":      bank.BankName,
				"accountNumber": bank.AccountNumber,
				"accountName":   bank.AccountName,
				"reference":     o.Reference,
			}
		}

		c.JSON(http.StatusOK, response)
	}
}

/*
GET /checkout/transfer/:reference
- the bank transfer page fetches instructions separately so a refresh
  never depends on client-held state
*/
func GetTransferInstructions(db *mongo.Database, bank notify.BankDetails) gin.HandlerFunc {
	return func(c *gin.Context) {
		reference := strings.TrimSpace(c.Param("reference"))
		if reference == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "reference required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var o models.Order
		err := db.Collection("orders").FindOne(ctx, bson.M{"_id": reference}).Decode(&o)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if o.Payment.Method != order.MethodTransfer {
			c.JSON(http.StatusConflict, gin.H{"error": "order is not a bank transfer order"})
			return
		}
		if o.Payment.Status == string(order.PaymentPaid) {
			c.JSON(http.StatusOK, gin.H{"reference": o.Reference, "paid": true})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"reference":     o.Reference,
			"amount":        o.Amount,
			"bankName":      bank.BankName,
			"accountNumber": bank.AccountNumber,
			"accountName":   bank.AccountName,
			"paid":          false,
		})
	}
}

/*
GET /user/orders
*/
func GetUserOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		filter := bson.M{"userId": userID}

		total, err := db.Collection("orders").CountDocuments(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		opts := options.Find().
			SetSkip((page - 1) * limit).
			SetLimit(limit).
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		cursor, err := db.Collection("orders").Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"data": orders,
			"pagination": gin.H{
				"page":  page,
				"limit": limit,
				"total": total,
			},
		})
	}
}
