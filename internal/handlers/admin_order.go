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
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"midessories/internal/metrics"
	"midessories/internal/models"
	"midessories/internal/notify"
	"midessories/internal/order"
	"midessories/internal/shipping"
)

type OrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

type RefundRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Reason string  `json:"reason" binding:"required"`
}

/*
GET /admin/api/orders
- filters: status, paymentStatus, search (reference or email), from/to dates
*/
func GetOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		filter := bson.M{}

		if status := strings.TrimSpace(c.Query("status")); status != "" {
			if !order.Status(status).IsValid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
				return
			}
			filter["status"] = status
		}

		if paymentStatus := strings.TrimSpace(c.Query("paymentStatus")); paymentStatus != "" {
			if !order.PaymentStatus(paymentStatus).IsValid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid paymentStatus filter"})
				return
			}
			filter["payment.status"] = paymentStatus
		}

		if search := strings.TrimSpace(c.Query("search")); search != "" {
			filter["$or"] = []bson.M{
				{"_id": bson.M{"$regex": search, "$options": "i"}},
				{"customerEmail": bson.M{"$regex": search, "$options": "i"}},
				{"shipping.address.firstName": bson.M{"$regex": search, "$options": "i"}},
				{"shipping.address.lastName": bson.M{"$regex": search, "$options": "i"}},
			}
		}

		createdRange := bson.M{}
		if from := strings.TrimSpace(c.Query("from")); from != "" {
			parsed, err := time.Parse("2006-01-02", from)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
				return
			}
			createdRange["$gte"] = parsed
		}
		if to := strings.TrimSpace(c.Query("to")); to != "" {
			parsed, err := time.Parse("2006-01-02", to)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
				return
			}
			createdRange["$lt"] = parsed.AddDate(0, 0, 1)
		}
		if len(createdRange) > 0 {
			filter["createdAt"] = createdRange
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

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

/*
GET /admin/api/orders/:reference
*/
func GetOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reference := strings.TrimSpace(c.Param("reference"))

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

		c.JSON(http.StatusOK, o)
	}
}

/*
PUT /admin/api/orders/:reference/status
- the transition table is the single authority on legal moves
- the update filter includes the status the decision was made against, so
  a concurrent change makes this request fail instead of double-applying
*/
func UpdateOrderStatus(db *mongo.Database, notifier *notify.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		reference := strings.TrimSpace(c.Param("reference"))

		var req OrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var current models.Order
		err := db.Collection("orders").FindOne(ctx, bson.M{"_id": reference}).Decode(&current)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		next, err := order.Transition(order.Status(current.Status), order.Status(req.Status))
		if err != nil {
			var illegal order.IllegalTransitionError
			if errors.As(err, &illegal) {
				c.JSON(http.StatusConflict, gin.H{"error": illegal.Error()})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		now := time.Now()
		updateSet := bson.M{
			"status":    string(next),
			"updatedAt": now,
		}

		trackingNumber := ""
		if next == order.StatusShipped {
			trackingNumber = current.Shipping.TrackingNumber
			if trackingNumber == "" {
				trackingNumber = order.NewTrackingNumber()
			}
			updateSet["shipping.trackingNumber"] = trackingNumber

			if estimate, err := shipping.EstimatedDelivery(now, current.Shipping.Method); err == nil {
				updateSet["shipping.estimatedDelivery"] = estimate
			}
		}

		var updated models.Order
		err = db.Collection("orders").FindOneAndUpdate(
			ctx,
			bson.M{"_id": reference, "status": current.Status},
			bson.M{"$set": updateSet},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusConflict, gin.H{"error": "order changed concurrently, retry"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		metrics.OrderTransitions.WithLabelValues(string(next)).Inc()
		log.Printf("[ORDER] [INFO] %s: %s -> %s", reference, current.Status, next)

		dispatchStatusNotification(notifier, updated, next, req.Reason, now)

		c.JSON(http.StatusOK, updated)
	}
}

func dispatchStatusNotification(notifier *notify.Dispatcher, o models.Order, next order.Status, reason string, now time.Time) {
	switch next {
	case order.StatusProcessing:
		shipDate, err := shipping.EstimatedShipDate(now, o.Shipping.Method)
		if err != nil {
			shipDate = now.AddDate(0, 0, 2)
		}
		notifier.Async("orderProcessing", func(ctx context.Context) error {
			return notifier.OrderProcessing(ctx, o, shipDate)
		})
	case order.StatusShipped:
		notifier.Async("shippingConfirmation", func(ctx context.Context) error {
			return notifier.OrderShipped(ctx, o)
		})
	case order.StatusDelivered:
		notifier.Async("orderDelivered", func(ctx context.Context) error {
			return notifier.OrderDelivered(ctx, o)
		})
	case order.StatusCancelled:
		notifier.Async("orderCanceled", func(ctx context.Context) error {
			return notifier.OrderCancelled(ctx, o, reason)
		})
	}
}

/*
POST /admin/api/orders/:reference/refund
- only paid orders can be refunded, never above the amount charged
- cancellation does not refund; this is the explicit refund action
*/
func RefundOrder(db *mongo.Database, notifier *notify.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		reference := strings.TrimSpace(c.Param("reference"))

		var req RefundRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var current models.Order
		err := db.Collection("orders").FindOne(ctx, bson.M{"_id": reference}).Decode(&current)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if current.Payment.Status != string(order.PaymentPaid) {
			c.JSON(http.StatusConflict, gin.H{"error": "only paid orders can be refunded"})
			return
		}
		if req.Amount > current.Amount {
			c.JSON(http.StatusBadRequest, gin.H{"error": "refund amount exceeds order amount"})
			return
		}

		refund := models.Refund{
			Amount: req.Amount,
			Reason: strings.TrimSpace(req.Reason),
			Date:   time.Now(),
		}

		var updated models.Order
		err = db.Collection("orders").FindOneAndUpdate(
			ctx,
			bson.M{"_id": reference, "payment.status": string(order.PaymentPaid)},
			bson.M{"$set": bson.M{
				"refund":         refund,
				"payment.status": string(order.PaymentRefunded),
				"updatedAt":      refund.Date,
			}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusConflict, gin.H{"error": "order changed concurrently, retry"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		log.Printf("[ORDER] [INFO] %s refunded: %.2f", reference, req.Amount)

		refunded := updated
		notifier.Async("refundProcessed", func(ctx context.Context) error {
			return notifier.RefundProcessed(ctx, refunded, refund)
		})

		c.JSON(http.StatusOK, updated)
	}
}
