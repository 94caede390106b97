package handlers

import (
	"context"
	"fmt"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"midessories/internal/catalog"
	"midessories/internal/models"
)

type ProductCreateRequest struct {
	Name           string                 `json:"name" binding:"required"`
	Description    string                 `json:"description"`
	Price          float64                `json:"price" binding:"required,gt=0"`
	CompareAtPrice float64                `json:"compareAtPrice"`
	CategoryID     string                 `json:"categoryId" binding:"required"`
	SKU            string                 `json:"sku"`
	Barcode        string                 `json:"barcode"`
	Brand          string                 `json:"brand"`
	Tags           []string               `json:"tags"`
	Stock          *int                   `json:"stock" binding:"required"`
	Images         []string               `json:"images"`
	VariantOptions []models.VariantOption `json:"variantOptions"`
	Status         string                 `json:"status"`
	Featured       bool                   `json:"featured"`
	IsNewArrival   bool                   `json:"isNewArrival"`
}

type ProductUpdateRequest struct {
	Name           *string                 `json:"name"`
	Description    *string                 `json:"description"`
	Price          *float64                `json:"price"`
	CompareAtPrice *float64                `json:"compareAtPrice"`
	CategoryID     *string                 `json:"categoryId"`
	SKU            *string                 `json:"sku"`
	Barcode        *string                 `json:"barcode"`
	Brand          *string                 `json:"brand"`
	Tags           *[]string               `json:"tags"`
	Stock          *int                    `json:"stock"`
	Images         *[]string               `json:"images"`
	VariantOptions *[]models.VariantOption `json:"variantOptions"`
	Status         *string                 `json:"status"`
	Featured       *bool                   `json:"featured"`
	IsNewArrival   *bool                   `json:"isNewArrival"`
}

func validProductStatus(status string) bool {
	switch status {
	case "active", "draft", "archived":
		return true
	}
	return false
}

// resolveCategory validates the referenced category at write time so a
// product can never point at a category that does not exist.
func resolveCategory(ctx context.Context, db *mongo.Database, raw string) (models.Category, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
	if err != nil {
		return models.Category{}, fmt.Errorf("invalid categoryId: %s", raw)
	}

	var category models.Category
	err = db.Collection("categories").FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if err == mongo.ErrNoDocuments {
		return models.Category{}, fmt.Errorf("category not found: %s", raw)
	}
	if err != nil {
		return models.Category{}, err
	}
	return category, nil
}

/*
GET /admin/api/products
*/
func GetAllProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, err := parsePaginationParams(
			c.Query("page"),
			c.Query("limit"),
		)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		filter := bson.M{
			"isDeleted": bson.M{"$ne": true},
		}

		if search := strings.TrimSpace(c.Query("search")); search != "" {
			filter["$or"] = []bson.M{
				{"name": bson.M{"$regex": search, "$options": "i"}},
				{"brand": bson.M{"$regex": search, "$options": "i"}},
				{"sku": bson.M{"$regex": search, "$options": "i"}},
				{"barcode": bson.M{"$regex": search, "$options": "i"}},
			}
		}

		if status := strings.TrimSpace(c.Query("status")); status != "" {
			if !validProductStatus(status) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
				return
			}
			filter["status"] = status
		}

		if rawCategory := strings.TrimSpace(c.Query("categoryId")); rawCategory != "" {
			categoryID, err := primitive.ObjectIDFromHex(rawCategory)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid categoryId"})
				return
			}
			filter["categoryId"] = categoryID
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		total, err := db.Collection("products").CountDocuments(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		totalPages := int64(0)
		if total > 0 {
			totalPages = int64(math.Ceil(float64(total) / float64(limit)))
		}

		opts := options.Find().
			SetSkip((page - 1) * limit).
			SetLimit(limit).
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		cursor, err := db.Collection("products").Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		products, err := decodeProducts(ctx, cursor)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"data": products,
			"pagination": gin.H{
				"page":       page,
				"limit":      limit,
				"total":      total,
				"totalPages": totalPages,
			},
		})
	}
}

/*
POST /admin/api/products
*/
func CreateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ProductCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if err := validatePricing(req.Price, req.CompareAtPrice); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if *req.Stock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "stock must be zero or greater"})
			return
		}

		status := strings.TrimSpace(req.Status)
		if status == "" {
			status = "draft"
		}
		if !validProductStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		category, err := resolveCategory(ctx, db, req.CategoryID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		sku := strings.ToUpper(strings.TrimSpace(req.SKU))
		variants := catalog.GenerateVariants(sku, req.Price, req.VariantOptions)

		now := time.Now()
		product := models.Product{
			Name:           strings.TrimSpace(req.Name),
			Description:    strings.TrimSpace(req.Description),
			Price:          req.Price,
			CompareAtPrice: req.CompareAtPrice,
			Images:         models.StringList(req.Images),
			CategoryID:     category.ID,
			CategoryName:   category.Name,
			SKU:            sku,
			Barcode:        strings.TrimSpace(req.Barcode),
			Brand:          strings.TrimSpace(req.Brand),
			Tags:           models.StringList(req.Tags),
			Stock:          *req.Stock,
			HasVariants:    len(variants) > 0,
			VariantOptions: req.VariantOptions,
			Variants:       variants,
			Status:         status,
			Featured:       req.Featured,
			IsNewArrival:   req.IsNewArrival,
			IsDeleted:      false,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		res, err := db.Collection("products").InsertOne(ctx, product)
		if err != nil {
			log.Println("CreateProduct insert error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		product.ID = res.InsertedID.(primitive.ObjectID)
		finishProduct(&product)
		log.Println("CreateProduct insert success:", product.ID.Hex())
		c.JSON(http.StatusCreated, product)
	}
}

/*
PUT /admin/api/products/:id
*/
func UpdateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req ProductUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var existing models.Product
		err = db.Collection("products").FindOne(ctx, bson.M{
			"_id":       id,
			"isDeleted": bson.M{"$ne": true},
		}).Decode(&existing)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		updateSet := bson.M{}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
				return
			}
			updateSet["name"] = name
		}
		if req.Description != nil {
			updateSet["description"] = strings.TrimSpace(*req.Description)
		}

		if req.Price != nil || req.CompareAtPrice != nil {
			pricing, err := resolvePricingUpdate(existing.Price, existing.CompareAtPrice, pricingUpdateInput{
				Price:          req.Price,
				CompareAtPrice: req.CompareAtPrice,
			})
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if req.Price != nil {
				updateSet["price"] = pricing.Price
			}
			if pricing.SetCompareAtPrice {
				updateSet["compareAtPrice"] = pricing.CompareAtPrice
			}
		}

		if req.CategoryID != nil {
			category, err := resolveCategory(ctx, db, *req.CategoryID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			updateSet["categoryId"] = category.ID
			updateSet["categoryName"] = category.Name
		}

		if req.SKU != nil {
			updateSet["sku"] = strings.ToUpper(strings.TrimSpace(*req.SKU))
		}
		if req.Barcode != nil {
			updateSet["barcode"] = strings.TrimSpace(*req.Barcode)
		}
		if req.Brand != nil {
			updateSet["brand"] = strings.TrimSpace(*req.Brand)
		}
		if req.Tags != nil {
			updateSet["tags"] = models.StringList(*req.Tags)
		}
		if req.Images != nil {
			updateSet["images"] = models.StringList(*req.Images)
		}
		if req.Stock != nil {
			if *req.Stock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "stock must be zero or greater"})
				return
			}
			updateSet["stock"] = *req.Stock
		}

		if req.VariantOptions != nil {
			sku := existing.SKU
			if raw, ok := updateSet["sku"].(string); ok {
				sku = raw
			}
			price := existing.Price
			if raw, ok := updateSet["price"].(float64); ok {
				price = raw
			}
			variants := catalog.GenerateVariants(sku, price, *req.VariantOptions)
			updateSet["variantOptions"] = *req.VariantOptions
			updateSet["variants"] = variants
			updateSet["hasVariants"] = len(variants) > 0
		}

		if req.Status != nil {
			if !validProductStatus(*req.Status) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
				return
			}
			updateSet["status"] = *req.Status
		}
		if req.Featured != nil {
			updateSet["featured"] = *req.Featured
		}
		if req.IsNewArrival != nil {
			updateSet["isNewArrival"] = *req.IsNewArrival
		}

		if len(updateSet) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}
		updateSet["updatedAt"] = time.Now()

		var updated models.Product
		err = db.Collection("products").FindOneAndUpdate(
			ctx,
			bson.M{"_id": id, "isDeleted": bson.M{"$ne": true}},
			bson.M{"$set": updateSet},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		if err != nil {
			log.Println("UpdateProduct update error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		finishProduct(&updated)
		c.JSON(http.StatusOK, updated)
	}
}

/*
DELETE /admin/api/products/:id (soft)
*/
func DeleteProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		now := time.Now()
		res, err := db.Collection("products").UpdateOne(
			ctx,
			bson.M{
				"_id":       id,
				"isDeleted": bson.M{"$ne": true},
			},
			bson.M{"$set": bson.M{
				"isDeleted": true,
				"deletedAt": now,
				"status":    "archived",
				"updatedAt": now,
			}},
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
	}
}
