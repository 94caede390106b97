package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"midessories/internal/currency"
	"midessories/internal/metrics"
	"midessories/internal/models"
	"midessories/internal/notify"
	"midessories/internal/order"
	"midessories/internal/paystack"
)

/*
POST /payments/paystack/verify
- called when the shopper returns from the Paystack page; the gateway is
  the only authority, client-reported success is never trusted
- idempotent: re-verifying a paid order is a no-op
*/
// verifySettleStates are the payment states a gateway verification may
// overwrite. Paid is final for verify and refunded orders only change
// through the refund flow; a failed charge may be retried on the
// Paystack page and re-verified.
var verifySettleStates = []string{
	string(order.PaymentPending),
	string(order.PaymentProcessing),
	string(order.PaymentFailed),
}

// transferConfirmStates are the only states an admin transfer
// confirmation may overwrite. Failed and refunded orders are never
// flipped back to paid from the back office.
var transferConfirmStates = []string{
	string(order.PaymentPending),
	string(order.PaymentProcessing),
}

func paymentStatusIn(status string, allowed []string) bool {
	for _, s := range allowed {
		if s == status {
			return true
		}
	}
	return false
}

func VerifyPayment(db *mongo.Database, gateway *paystack.Client, notifier *notify.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Reference string `json:"reference" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "reference is required"})
			return
		}
		reference := strings.TrimSpace(req.Reference)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 20*time.Second)
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

		if o.Payment.Method != order.MethodPaystack {
			c.JSON(http.StatusBadRequest, gin.H{"error": "order is not a paystack order"})
			return
		}

		if o.Payment.Status == string(order.PaymentPaid) {
			c.JSON(http.StatusOK, gin.H{"status": "paid", "order": o})
			return
		}
		if !paymentStatusIn(o.Payment.Status, verifySettleStates) {
			c.JSON(http.StatusConflict, gin.H{"error": "payment is " + o.Payment.Status})
			return
		}

		verification, err := gateway.Verify(ctx, o.Payment.Reference)
		if err != nil {
			log.Println("[PAYMENT] [ERROR] verification call failed:", err)
			metrics.PaymentVerifications.WithLabelValues("error").Inc()
			c.JSON(http.StatusBadGateway, gin.H{"error": "payment verification failed"})
			return
		}

		if !verification.Success() {
			markPaymentStatus(ctx, db, reference, order.PaymentFailed)
			metrics.PaymentVerifications.WithLabelValues("failed").Inc()
			c.JSON(http.StatusOK, gin.H{"status": "failed"})
			return
		}

		if verification.Amount != currency.ToKobo(o.Amount) {
			log.Printf("[PAYMENT] [ERROR] amount mismatch for %s: gateway %d, order %d",
				reference, verification.Amount, currency.ToKobo(o.Amount))
			markPaymentStatus(ctx, db, reference, order.PaymentFailed)
			metrics.PaymentVerifications.WithLabelValues("mismatch").Inc()
			c.JSON(http.StatusConflict, gin.H{"error": "payment amount mismatch"})
			return
		}

		// The filter restricts the write to states verify may settle, so
		// a concurrent verify cannot fire the confirmation email twice
		// and a refund landing between the read and this write survives.
		res, err := db.Collection("orders").UpdateOne(ctx, bson.M{
			"_id":            reference,
			"payment.status": bson.M{"$in": verifySettleStates},
		}, bson.M{
			"$set": bson.M{
				"payment.status": string(order.PaymentPaid),
				"updatedAt":      time.Now(),
			},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		metrics.PaymentVerifications.WithLabelValues("success").Inc()
		log.Println("[PAYMENT] [INFO] order paid:", reference)

		if res.ModifiedCount == 1 {
			o.Payment.Status = string(order.PaymentPaid)
			paid := o
			notifier.Async("orderConfirmation", func(ctx context.Context) error {
				return notifier.OrderConfirmation(ctx, paid)
			})
		}

		c.JSON(http.StatusOK, gin.H{"status": "paid", "order": o})
	}
}

/*
POST /admin/api/orders/:reference/payment/confirm
- manual confirmation for bank transfer orders
*/
func ConfirmTransferPayment(db *mongo.Database, notifier *notify.Dispatcher) gin.HandlerFunc {
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

		if o.Payment.Method != order.MethodTransfer {
			c.JSON(http.StatusBadRequest, gin.H{"error": "order is not a transfer order"})
			return
		}
		if o.Payment.Status == string(order.PaymentPaid) {
			c.JSON(http.StatusOK, gin.H{"status": "paid", "order": o})
			return
		}
		if !paymentStatusIn(o.Payment.Status, transferConfirmStates) {
			c.JSON(http.StatusConflict, gin.H{"error": "payment is " + o.Payment.Status})
			return
		}

		res, err := db.Collection("orders").UpdateOne(ctx, bson.M{
			"_id":            reference,
			"payment.status": bson.M{"$in": transferConfirmStates},
		}, bson.M{
			"$set": bson.M{
				"payment.status": string(order.PaymentPaid),
				"updatedAt":      time.Now(),
			},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		log.Println("[PAYMENT] [INFO] transfer confirmed:", reference)

		if res.ModifiedCount == 1 {
			o.Payment.Status = string(order.PaymentPaid)
			paid := o
			notifier.Async("orderConfirmation", func(ctx context.Context) error {
				return notifier.OrderConfirmation(ctx, paid)
			})
		}

		c.JSON(http.StatusOK, gin.H{"status": "paid", "order": o})
	}
}

func markPaymentStatus(ctx context.Context, db *mongo.Database, reference string, status order.PaymentStatus) {
	_, err := db.Collection("orders").UpdateOne(ctx, bson.M{
		"_id":            reference,
		"payment.status": bson.M{"$in": verifySettleStates},
	}, bson.M{
		"$set": bson.M{
			"payment.status": string(status),
			"updatedAt":      time.Now(),
		},
	})
	if err != nil {
		log.Println("[PAYMENT] [ERROR] payment status update failed:", err)
	}
}
