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
)

// storefront visibility filter shared by the public product endpoints
func publicProductFilter() bson.M {
	return bson.M{
		"status":    "active",
		"isDeleted": bson.M{"$ne": true},
	}
}

/*
GET /products
- pagination is optional: without page+limit the full catalog is returned
- filters: category (slug), search, featured, newArrival, sale
*/
func GetProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products"
		defer handlePanic(c, route)

		log.Printf(
			"[%s] hit page=%s limit=%s category=%s search=%s",
			route,
			c.Query("page"),
			c.Query("limit"),
			c.Query("category"),
			c.Query("search"),
		)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		filter := publicProductFilter()

		if slug := strings.TrimSpace(c.Query("category")); slug != "" {
			var category models.Category
			err := db.Collection("categories").FindOne(ctx, bson.M{"slug": slug}).Decode(&category)
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusOK, []models.Product{})
				return
			}
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			filter["categoryId"] = category.ID
		}

		if search := strings.TrimSpace(c.Query("search")); search != "" {
			filter["$or"] = []bson.M{
				{"name": bson.M{"$regex": search, "$options": "i"}},
				{"tags": bson.M{"$regex": search, "$options": "i"}},
			}
		}

		if strings.EqualFold(c.Query("featured"), "true") {
			filter["featured"] = true
		}
		if strings.EqualFold(c.Query("newArrival"), "true") {
			filter["isNewArrival"] = true
		}
		if strings.EqualFold(c.Query("sale"), "true") {
			filter["$expr"] = bson.M{"$gt": []interface{}{"$compareAtPrice", "$price"}}
		}

		findOptions := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		pageStr := c.Query("page")
		limitStr := c.Query("limit")

		if pageStr != "" && limitStr != "" {
			page, limit, err := parsePaginationParams(pageStr, limitStr)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid pagination params")
				return
			}

			findOptions.
				SetSkip((page - 1) * limit).
				SetLimit(limit)
		}

		cursor, err := db.Collection("products").Find(ctx, filter, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		products, err := decodeProducts(ctx, cursor)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		log.Printf("[%s] returning %d products", route, len(products))
		c.JSON(http.StatusOK, products)
	}
}

/*
GET /products/:id
- single product with its approved review summary
*/
func GetProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		filter := publicProductFilter()
		filter["_id"] = id

		var raw bson.M
		err = db.Collection("products").FindOne(ctx, filter).Decode(&raw)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		product, err := normalizeProductDocument(raw)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		rating, count, err := approvedReviewSummary(ctx, db, id)
		if err != nil {
			log.Printf("[%s] review summary failed: %v", route, err)
		}

		c.JSON(http.StatusOK, gin.H{
			"product":     product,
			"rating":      rating,
			"reviewCount": count,
		})
	}
}

func approvedReviewSummary(ctx context.Context, db *mongo.Database, productID primitive.ObjectID) (float64, int64, error) {
	cursor, err := db.Collection("reviews").Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"productId": productID, "status": "approved"}}},
		{{Key: "$group", Value: bson.M{
			"_id":    nil,
			"rating": bson.M{"$avg": "$rating"},
			"count":  bson.M{"$sum": 1},
		}}},
	})
	if err != nil {
		return 0, 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Rating float64 `bson:"rating"`
		Count  int64   `bson:"count"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, 0, err
	}
	if len(results) == 0 {
		return 0, 0, nil
	}
	return results[0].Rating, results[0].Count, nil
}
