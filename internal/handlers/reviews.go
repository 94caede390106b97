package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"midessories/internal/models"
	"midessories/internal/order"
)

type ReviewCreateRequest struct {
	CustomerName string   `json:"customerName" binding:"required"`
	Rating       int      `json:"rating" binding:"required,min=1,max=5"`
	Title        string   `json:"title"`
	Comment      string   `json:"comment" binding:"required"`
	Images       []string `json:"images"`
}

type ReviewStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected pending"`
}

type ReviewResponseRequest struct {
	Text string `json:"text" binding:"required"`
}

/*
POST /products/:id/reviews
- open to guests; submissions start pending and only show once approved
- signed-in reviewers with a delivered order for the product get the
  verified badge
*/
func CreateReview(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req ReviewCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		err = db.Collection("products").FindOne(ctx, bson.M{
			"_id":       productID,
			"isDeleted": bson.M{"$ne": true},
		}).Err()
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		var customerID *primitive.ObjectID
		verified := false
		if value, ok := c.Get("userId"); ok {
			id := value.(primitive.ObjectID)
			customerID = &id
			verified = hasDeliveredOrderWithProduct(ctx, db, id, productID)
		}

		now := time.Now()
		review := models.Review{
			ProductID:    productID,
			CustomerID:   customerID,
			CustomerName: strings.TrimSpace(req.CustomerName),
			Rating:       req.Rating,
			Title:        strings.TrimSpace(req.Title),
			Comment:      strings.TrimSpace(req.Comment),
			Images:       models.StringList(req.Images),
			Status:       "pending",
			Verified:     verified,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		res, err := db.Collection("reviews").InsertOne(ctx, review)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		review.ID = res.InsertedID.(primitive.ObjectID)
		log.Println("[REVIEW] [INFO] review submitted for product:", productID.Hex())
		c.JSON(http.StatusCreated, review)
	}
}

func hasDeliveredOrderWithProduct(ctx context.Context, db *mongo.Database, userID, productID primitive.ObjectID) bool {
	count, err := db.Collection("orders").CountDocuments(ctx, bson.M{
		"userId":          userID,
		"status":          string(order.StatusDelivered),
		"items.productId": productID,
	})
	if err != nil {
		log.Println("[REVIEW] [ERROR] verified purchase lookup failed:", err)
		return false
	}
	return count > 0
}

/*
GET /products/:id/reviews
- approved reviews only, newest first
*/
func GetProductReviews(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("reviews").Find(ctx, bson.M{
			"productId": productID,
			"status":    "approved",
		}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		reviews := make([]models.Review, 0)
		if err := cursor.All(ctx, &reviews); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
			return
		}

		rating, count, err := approvedReviewSummary(ctx, db, productID)
		if err != nil {
			log.Println("[REVIEW] [ERROR] summary failed:", err)
		}

		c.JSON(http.StatusOK, gin.H{
			"data":        reviews,
			"rating":      rating,
			"reviewCount": count,
		})
	}
}

/*
GET /admin/api/reviews
*/
func GetAllReviews(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		filter := bson.M{}
		if status := strings.TrimSpace(c.Query("status")); status != "" {
			filter["status"] = status
		}
		if raw := strings.TrimSpace(c.Query("productId")); raw != "" {
			productID, err := primitive.ObjectIDFromHex(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid productId"})
				return
			}
			filter["productId"] = productID
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		total, err := db.Collection("reviews").CountDocuments(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		opts := options.Find().
			SetSkip((page - 1) * limit).
			SetLimit(limit).
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		cursor, err := db.Collection("reviews").Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		reviews := make([]models.Review, 0)
		if err := cursor.All(ctx, &reviews); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"data": reviews,
			"pagination": gin.H{
				"page":  page,
				"limit": limit,
				"total": total,
			},
		})
	}
}

/*
PUT /admin/api/reviews/:id/status
*/
func UpdateReviewStatus(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req ReviewStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be approved, rejected or pending"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.Review
		err = db.Collection("reviews").FindOneAndUpdate(
			ctx,
			bson.M{"_id": id},
			bson.M{"$set": bson.M{"status": req.Status, "updatedAt": time.Now()}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

/*
POST /admin/api/reviews/:id/response
*/
func RespondToReview(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req ReviewResponseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		response := models.ReviewResponse{
			Text: strings.TrimSpace(req.Text),
			Date: time.Now(),
		}

		var updated models.Review
		err = db.Collection("reviews").FindOneAndUpdate(
			ctx,
			bson.M{"_id": id},
			bson.M{"$set": bson.M{"response": response, "updatedAt": response.Date}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

/*
DELETE /admin/api/reviews/:id
*/
func DeleteReview(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("reviews").DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "review deleted"})
	}
}
