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
	"midessories/internal/shipping"
)

type DeliveryZoneRequest struct {
	Name      string   `json:"name" binding:"required"`
	Countries []string `json:"countries" binding:"required,min=1"`
	Regions   []string `json:"regions"`
	Status    string   `json:"status"`
}

type DeliveryMethodUpdateRequest struct {
	Name                  *string   `json:"name"`
	Description           *string   `json:"description"`
	Cost                  *float64  `json:"cost"`
	FreeShippingThreshold *float64  `json:"freeShippingThreshold"`
	EstimatedDaysMin      *int      `json:"estimatedDaysMin"`
	EstimatedDaysMax      *int      `json:"estimatedDaysMax"`
	ZoneIDs               *[]string `json:"zoneIds"`
	Status                *string   `json:"status"`
}

// SeedDeliveryMethods upserts the built-in rate table into the
// delivery_methods collection so admins can see and annotate it. Keys
// already present are left alone; admin edits survive restarts.
func SeedDeliveryMethods(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	col := db.Collection("delivery_methods")
	now := time.Now()

	for _, method := range shipping.Methods() {
		methodType := "shipping"
		if method.Key == "pickup" {
			methodType = "pickup"
		}

		doc := models.DeliveryMethod{
			Key:                   method.Key,
			Name:                  method.Name,
			Description:           method.Details,
			Type:                  methodType,
			Cost:                  method.Price,
			FreeShippingThreshold: method.FreeShippingThreshold,
			EstimatedDays: models.EstimatedDays{
				Min: method.MinDays,
				Max: method.MaxDays,
			},
			Status:    "active",
			CreatedAt: now,
			UpdatedAt: now,
		}

		_, err := col.UpdateOne(ctx,
			bson.M{"key": method.Key},
			bson.M{"$setOnInsert": doc},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return err
		}
	}

	log.Println("SeedDeliveryMethods: rate table seeded")
	return nil
}

/*
POST /admin/api/delivery/seed
- writes the built-in rate table into the collection without touching
  admin-edited entries
*/
func SeedDeliveryMethodsEndpoint(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := SeedDeliveryMethods(db); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "seed failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "delivery methods seeded"})
	}
}

/*
GET /delivery/methods
- active methods in display order, for the checkout shipping selector
*/
func GetDeliveryMethods(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("delivery_methods").Find(ctx,
			bson.M{"status": "active"},
			options.Find().SetSort(bson.D{{Key: "cost", Value: 1}, {Key: "key", Value: 1}}),
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		methods := make([]models.DeliveryMethod, 0)
		if err := cursor.All(ctx, &methods); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
			return
		}

		c.JSON(http.StatusOK, methods)
	}
}

/*
GET /admin/api/delivery/methods
*/
func GetAllDeliveryMethods(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("delivery_methods").Find(ctx, bson.M{},
			options.Find().SetSort(bson.D{{Key: "key", Value: 1}}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		methods := make([]models.DeliveryMethod, 0)
		if err := cursor.All(ctx, &methods); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": methods})
	}
}

/*
PUT /admin/api/delivery/methods/:id
*/
func UpdateDeliveryMethod(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req DeliveryMethodUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		update := bson.M{}
		if req.Name != nil {
			update["name"] = strings.TrimSpace(*req.Name)
		}
		if req.Description != nil {
			update["description"] = strings.TrimSpace(*req.Description)
		}
		if req.Cost != nil {
			if *req.Cost < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "cost must be zero or greater"})
				return
			}
			update["cost"] = *req.Cost
		}
		if req.FreeShippingThreshold != nil {
			if *req.FreeShippingThreshold <= 0 {
				update["freeShippingThreshold"] = nil
			} else {
				update["freeShippingThreshold"] = *req.FreeShippingThreshold
			}
		}
		if req.EstimatedDaysMin != nil {
			update["estimatedDays.min"] = *req.EstimatedDaysMin
		}
		if req.EstimatedDaysMax != nil {
			update["estimatedDays.max"] = *req.EstimatedDaysMax
		}
		if req.ZoneIDs != nil {
			zoneIDs := make([]primitive.ObjectID, 0, len(*req.ZoneIDs))
			for _, raw := range *req.ZoneIDs {
				zoneID, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
				if err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"error": "invalid zone id: " + raw})
					return
				}
				count, err := db.Collection("delivery_zones").CountDocuments(ctx, bson.M{"_id": zoneID})
				if err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
					return
				}
				if count == 0 {
					c.JSON(http.StatusBadRequest, gin.H{"error": "zone not found: " + raw})
					return
				}
				zoneIDs = append(zoneIDs, zoneID)
			}
			update["zoneIds"] = zoneIDs
		}
		if req.Status != nil {
			if *req.Status != "active" && *req.Status != "inactive" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
				return
			}
			update["status"] = *req.Status
		}

		if len(update) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}
		update["updatedAt"] = time.Now()

		var updated models.DeliveryMethod
		err = db.Collection("delivery_methods").FindOneAndUpdate(
			ctx,
			bson.M{"_id": id},
			bson.M{"$set": update},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "delivery method not found"})
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
GET /admin/api/delivery/zones
*/
func GetDeliveryZones(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("delivery_zones").Find(ctx, bson.M{},
			options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		zones := make([]models.DeliveryZone, 0)
		if err := cursor.All(ctx, &zones); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": zones})
	}
}

/*
POST /admin/api/delivery/zones
*/
func CreateDeliveryZone(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DeliveryZoneRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		status := strings.TrimSpace(req.Status)
		if status == "" {
			status = "active"
		}
		if status != "active" && status != "inactive" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		now := time.Now()
		zone := models.DeliveryZone{
			Name:      strings.TrimSpace(req.Name),
			Countries: models.StringList(req.Countries),
			Regions:   models.StringList(req.Regions),
			Status:    status,
			CreatedAt: now,
			UpdatedAt: now,
		}

		res, err := db.Collection("delivery_zones").InsertOne(ctx, zone)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		zone.ID = res.InsertedID.(primitive.ObjectID)
		c.JSON(http.StatusCreated, zone)
	}
}

/*
DELETE /admin/api/delivery/zones/:id
- refused while delivery methods still reference the zone
*/
func DeleteDeliveryZone(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		inUse, err := db.Collection("delivery_methods").CountDocuments(ctx, bson.M{"zoneIds": id})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if inUse > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "zone is in use by delivery methods"})
			return
		}

		res, err := db.Collection("delivery_zones").DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "zone not found"})
			return
		}

		c.Status(http.StatusNoContent)
	}
}
