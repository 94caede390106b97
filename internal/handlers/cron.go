package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"midessories/internal/models"
	"midessories/internal/notify"
)

/*
GET /cron/abandoned-carts
- reminds owners of carts left untouched for 4 to 24 hours
- only carts tied to a known customer get an email; each cart is
  reminded at most once (emailSent flag)
*/
func SweepAbandonedCarts(db *mongo.Database, notifier *notify.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "GET /cron/abandoned-carts")

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		now := time.Now()
		filter := bson.M{
			"status":    "active",
			"emailSent": false,
			"userId":    bson.M{"$exists": true, "$ne": nil},
			"updatedAt": bson.M{
				"$gte": now.Add(-24 * time.Hour),
				"$lte": now.Add(-4 * time.Hour),
			},
			"items.0": bson.M{"$exists": true},
		}

		cursor, err := db.Collection("carts").Find(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		var carts []models.Cart
		if err := cursor.All(ctx, &carts); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
			return
		}

		sent := 0
		for _, cart := range carts {
			if cart.UserID == nil {
				continue
			}

			var customer models.Customer
			err := db.Collection("customers").
				FindOne(ctx, bson.M{"_id": *cart.UserID}).
				Decode(&customer)
			if err != nil {
				log.Printf("[CRON] [WARN] abandoned cart %s: owner lookup failed: %v", cart.ID, err)
				continue
			}

			if err := notifier.AbandonedCart(ctx, customer.Email, customer.FirstName, cart); err != nil {
				log.Printf("[CRON] [WARN] abandoned cart %s: reminder failed: %v", cart.ID, err)
				continue
			}

			if err := markCartReminded(ctx, db, cart.ID); err != nil {
				log.Printf("[CRON] [ERROR] abandoned cart %s: flag update failed: %v", cart.ID, err)
				continue
			}
			sent++
		}

		log.Printf("[CRON] [INFO] abandoned cart sweep: %d candidates, %d reminded", len(carts), sent)
		c.JSON(http.StatusOK, gin.H{"candidates": len(carts), "reminded": sent})
	}
}

func markCartReminded(ctx context.Context, db *mongo.Database, cartID string) error {
	_, err := db.Collection("carts").UpdateOne(ctx,
		bson.M{"_id": cartID},
		bson.M{"$set": bson.M{"emailSent": true, "updatedAt": time.Now()}},
	)
	return err
}
