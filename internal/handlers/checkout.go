package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"midessories/internal/catalog"
	"midessories/internal/currency"
	"midessories/internal/metrics"
	"midessories/internal/models"
	"midessories/internal/notify"
	"midessories/internal/order"
	"midessories/internal/shipping"
	"midessories/internal/validation"
)

type CheckoutItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

type CheckoutRequest struct {
	Email          string                `json:"email" binding:"required,email"`
	Phone          string                `json:"phone" binding:"required,ngphone"`
	FirstName      string                `json:"firstName" binding:"required"`
	LastName       string                `json:"lastName" binding:"required"`
	Address        string                `json:"address" binding:"required"`
	City           string                `json:"city" binding:"required"`
	State          string                `json:"state" binding:"required"`
	AdditionalInfo string                `json:"additionalInfo"`
	ShippingMethod string                `json:"shippingMethod" binding:"required"`
	PaymentMethod  string                `json:"paymentMethod" binding:"required,oneof=paystack transfer"`
	PromoCode      string                `json:"promoCode"`
	CartID         string                `json:"cartId"`
	CreateAccount  bool                  `json:"createAccount"`
	Password       string                `json:"password"`
	Items          []CheckoutItemRequest `json:"items" binding:"required,min=1,dive"`
}

type insufficientStockError struct {
	ProductID primitive.ObjectID
	Name      string
	Requested int
	Available int
}

func (e *insufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.Name, e.Requested, e.Available)
}

// pricedLine is an order line plus the variant sku it resolved to. The
// stock decrement uses VariantSKU to pick the pool it draws from; it is
// empty when the line sells from the product-level pool.
type pricedLine struct {
	models.OrderItem
	VariantSKU string
}

// resolveCheckoutLine prices one requested line against the stored product.
// Client-supplied prices are never trusted; the unit price comes from the
// product document (variant price when a variant matches).
func resolveCheckoutLine(p models.Product, req CheckoutItemRequest) (pricedLine, error) {
	available := catalog.AvailableStock(p, req.Color, req.Size)
	if available < req.Quantity {
		return pricedLine{}, &insufficientStockError{
			ProductID: p.ID,
			Name:      p.Name,
			Requested: req.Quantity,
			Available: available,
		}
	}

	sku := p.SKU
	variantSKU := ""
	if variant, ok := catalog.FindVariant(p, req.Color, req.Size); ok {
		sku = variant.SKU
		variantSKU = variant.SKU
	}

	image := ""
	if len(p.Images) > 0 {
		image = p.Images[0]
	}

	return pricedLine{
		OrderItem: models.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			SKU:       sku,
			Price:     catalog.EffectiveUnitPrice(p, req.Color, req.Size),
			Quantity:  req.Quantity,
			Color:     strings.TrimSpace(req.Color),
			Size:      strings.TrimSpace(req.Size),
			Image:     image,
		},
		VariantSKU: variantSKU,
	}, nil
}

func orderSubtotal(items []models.OrderItem) float64 {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
	}
	return subtotal
}

func promoDiscount(subtotal, percent float64) float64 {
	if percent <= 0 {
		return 0
	}
	discount := subtotal * percent / 100
	if discount > subtotal {
		return subtotal
	}
	return discount
}

func initialPaymentStatus(method string) order.PaymentStatus {
	if method == order.MethodTransfer {
		return order.PaymentPending
	}
	return order.PaymentProcessing
}

func CreateOrder(db *mongo.Database, notifier *notify.Dispatcher, paystackPublicKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if _, err := shipping.Lookup(req.ShippingMethod); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown shipping method: " + req.ShippingMethod})
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		phone := validation.Normalize(req.Phone)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
		defer cancel()

		var userID *primitive.ObjectID
		if value, ok := c.Get("userId"); ok {
			id := value.(primitive.ObjectID)
			userID = &id
		}

		// Account creation is part of the checkout contract: when requested
		// and it fails, the whole checkout fails rather than producing an
		// order the shopper cannot see in an account.
		if userID == nil && req.CreateAccount {
			id, err := provisionCustomer(ctx, db, req, email, phone)
			if err != nil {
				log.Println("[CHECKOUT] [ERROR] account provisioning failed:", err)
				status := http.StatusInternalServerError
				message := "account creation failed"
				if err == errEmailTaken {
					status = http.StatusConflict
					message = "email already registered"
				}
				c.JSON(status, gin.H{"error": message})
				return
			}
			userID = &id
			notifier.Async("welcomeEmail", func(ctx context.Context) error {
				return notifier.Welcome(ctx, email, strings.TrimSpace(req.FirstName))
			})
		}

		lines, priceErr := priceCheckoutItems(ctx, db, req.Items)
		if priceErr != nil {
			respondCheckoutPricingError(c, priceErr)
			return
		}

		items := make([]models.OrderItem, len(lines))
		for i, line := range lines {
			items[i] = line.OrderItem
		}
		subtotal := orderSubtotal(items)
		discount, promoErr := lookupPromoDiscount(ctx, db, req.PromoCode, subtotal)
		if promoErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": promoErr.Error()})
			return
		}

		shippingCost, err := shipping.Cost(req.ShippingMethod, subtotal-discount)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		now := time.Now()
		newOrder := models.Order{
			Reference:     order.NewReference(),
			UserID:        userID,
			CustomerEmail: email,
			CustomerPhone: phone,
			Items:         items,
			Subtotal:      subtotal,
			Discount:      discount,
			Amount:        subtotal - discount + shippingCost,
			Shipping: models.OrderShipping{
				Address: models.ShippingAddress{
					FirstName:      strings.TrimSpace(req.FirstName),
					LastName:       strings.TrimSpace(req.LastName),
					Address:        strings.TrimSpace(req.Address),
					City:           strings.TrimSpace(req.City),
					State:          strings.TrimSpace(req.State),
					AdditionalInfo: strings.TrimSpace(req.AdditionalInfo),
				},
				Method:   req.ShippingMethod,
				Location: req.State,
				Cost:     shippingCost,
			},
			Payment: models.OrderPayment{
				Method:    req.PaymentMethod,
				Status:    string(initialPaymentStatus(req.PaymentMethod)),
				Reference: "",
			},
			Status:    string(order.StatusPending),
			CreatedAt: now,
			UpdatedAt: now,
		}
		// Paystack transactions are initialised client side with the order
		// reference, so the payment reference is the order reference.
		newOrder.Payment.Reference = newOrder.Reference

		if err := insertOrderWithStockDecrement(ctx, db, newOrder, lines); err != nil {
			respondCheckoutPricingError(c, err)
			return
		}

		if cartID := strings.TrimSpace(req.CartID); cartID != "" {
			if _, err := db.Collection("carts").UpdateByID(ctx, cartID, bson.M{
				"$set": bson.M{"status": "converted", "updatedAt": now},
			}); err != nil {
				log.Println("[CHECKOUT] [ERROR] cart conversion update failed:", err)
			}
		}

		if userID != nil {
			if _, err := db.Collection("customers").UpdateByID(ctx, *userID, bson.M{
				"$inc": bson.M{"totalOrders": 1, "totalSpent": newOrder.Amount},
				"$set": bson.M{"lastOrderDate": now, "updatedAt": now},
			}); err != nil {
				log.Println("[CHECKOUT] [ERROR] customer stats update failed:", err)
			}
		}

		metrics.OrdersCreated.WithLabelValues(req.PaymentMethod).Inc()
		log.Printf("[CHECKOUT] [INFO] order %s created: %s via %s",
			newOrder.Reference, currency.FormatNaira(newOrder.Amount), req.PaymentMethod)

		if req.PaymentMethod == order.MethodTransfer {
			created := newOrder
			notifier.Async("transferOrder", func(ctx context.Context) error {
				return notifier.TransferOrder(ctx, created)
			})
		}

		response := gin.H{
			"reference":     newOrder.Reference,
			"amount":        newOrder.Amount,
			"amountKobo":    currency.ToKobo(newOrder.Amount),
			"email":         newOrder.CustomerEmail,
			"paymentMethod": newOrder.Payment.Method,
			"order":         newOrder,
		}
		if req.PaymentMethod == order.MethodPaystack {
			response["paystackPublicKey"] = paystackPublicKey
		}
		c.JSON(http.StatusCreated, response)
	}
}

var errEmailTaken = fmt.Errorf("email already registered")

func provisionCustomer(ctx context.Context, db *mongo.Database, req CheckoutRequest, email, phone string) (primitive.ObjectID, error) {
	if strings.TrimSpace(req.Password) == "" {
		return primitive.NilObjectID, fmt.Errorf("password is required to create an account")
	}

	count, err := db.Collection("customers").CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return primitive.NilObjectID, err
	}
	if count > 0 {
		return primitive.NilObjectID, errEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return primitive.NilObjectID, err
	}

	now := time.Now()
	customer := models.Customer{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hash),
		Addresses: []models.Address{{
			ID:        newRandomID(),
			Street:    strings.TrimSpace(req.Address),
			City:      strings.TrimSpace(req.City),
			State:     strings.TrimSpace(req.State),
			IsDefault: true,
		}},
		IsActive:  true,
		Role:      "user",
		CreatedAt: now,
		UpdatedAt: now,
	}

	res, err := db.Collection("customers").InsertOne(ctx, customer)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func priceCheckoutItems(ctx context.Context, db *mongo.Database, requested []CheckoutItemRequest) ([]pricedLine, error) {
	lines := make([]pricedLine, 0, len(requested))
	for _, line := range requested {
		productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(line.ProductID))
		if err != nil {
			return nil, fmt.Errorf("invalid productId: %s", line.ProductID)
		}

		var product models.Product
		err = db.Collection("products").FindOne(ctx, bson.M{
			"_id":       productID,
			"status":    "active",
			"isDeleted": bson.M{"$ne": true},
		}).Decode(&product)
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("product not available: %s", line.ProductID)
		}
		if err != nil {
			return nil, err
		}

		priced, err := resolveCheckoutLine(product, line)
		if err != nil {
			return nil, err
		}
		lines = append(lines, priced)
	}
	return lines, nil
}

func lookupPromoDiscount(ctx context.Context, db *mongo.Database, code string, subtotal float64) (float64, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return 0, nil
	}

	var promo models.Promo
	err := db.Collection("promos").FindOne(ctx, bson.M{
		"code":     code,
		"isActive": true,
	}).Decode(&promo)
	if err == mongo.ErrNoDocuments {
		return 0, fmt.Errorf("invalid promo code")
	}
	if err != nil {
		return 0, err
	}
	if promo.ExpiresAt != nil && time.Now().After(*promo.ExpiresAt) {
		return 0, fmt.Errorf("promo code expired")
	}

	return promoDiscount(subtotal, promo.Percent), nil
}

// insertOrderWithStockDecrement decrements stock for every line and inserts
// the order in one transaction. The decrement is conditional on the current
// stock so two concurrent checkouts cannot both take the last unit.
func insertOrderWithStockDecrement(ctx context.Context, db *mongo.Database, o models.Order, lines []pricedLine) error {
	session, err := db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		for _, line := range lines {
			if err := decrementStock(sessCtx, db, line); err != nil {
				return nil, err
			}
		}
		if _, err := db.Collection("orders").InsertOne(sessCtx, o); err != nil {
			return nil, err
		}
		return nil, nil
	}, options.Transaction())

	return err
}

// decrementStock draws the line's quantity from the pool it was priced
// against. A variant line decrements only its variant; it never falls
// back to the product-level pool, so two checkouts racing for the last
// unit of a variant cannot both succeed.
func decrementStock(ctx context.Context, db *mongo.Database, line pricedLine) error {
	products := db.Collection("products")

	if line.VariantSKU != "" {
		res, err := products.UpdateOne(ctx, bson.M{
			"_id":      line.ProductID,
			"variants": bson.M{"$elemMatch": bson.M{"sku": line.VariantSKU, "stock": bson.M{"$gte": line.Quantity}}},
		}, bson.M{
			"$inc": bson.M{"variants.$.stock": -line.Quantity, "stock": -line.Quantity},
		})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return &insufficientStockError{
				ProductID: line.ProductID,
				Name:      line.Name,
				Requested: line.Quantity,
			}
		}
		return nil
	}

	res, err := products.UpdateOne(ctx, bson.M{
		"_id":   line.ProductID,
		"stock": bson.M{"$gte": line.Quantity},
	}, bson.M{
		"$inc": bson.M{"stock": -line.Quantity},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return &insufficientStockError{
			ProductID: line.ProductID,
			Name:      line.Name,
			Requested: line.Quantity,
		}
	}
	return nil
}

func respondCheckoutPricingError(c *gin.Context, err error) {
	var stockErr *insufficientStockError
	if errors.As(err, &stockErr) {
		c.JSON(http.StatusConflict, gin.H{
			"error":     stockErr.Error(),
			"productId": stockErr.ProductID.Hex(),
		})
		return
	}
	log.Println("[CHECKOUT] [ERROR]", err)
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
