package handlers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"midessories/internal/models"
	"midessories/internal/order"
	"midessories/internal/shipping"
)

func checkoutProduct() models.Product {
	return models.Product{
		ID:     primitive.NewObjectID(),
		Name:   "Pearl Hair Clip",
		Price:  3000,
		SKU:    "PHC-001",
		Stock:  10,
		Status: "active",
		Images: models.StringList{"uploads/products/phc.jpg"},
	}
}

func TestResolveCheckoutLinePricesFromProduct(t *testing.T) {
	p := checkoutProduct()

	line, err := resolveCheckoutLine(p, CheckoutItemRequest{
		ProductID: p.ID.Hex(),
		Quantity:  2,
	})
	require.NoError(t, err)

	assert.Equal(t, p.ID, line.ProductID)
	assert.Equal(t, "PHC-001", line.SKU)
	assert.Equal(t, 3000.0, line.Price)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, "uploads/products/phc.jpg", line.Image)
}

func TestResolveCheckoutLineInsufficientStock(t *testing.T) {
	p := checkoutProduct()
	p.Stock = 1

	_, err := resolveCheckoutLine(p, CheckoutItemRequest{
		ProductID: p.ID.Hex(),
		Quantity:  3,
	})
	require.Error(t, err)

	var stockErr *insufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, p.ID, stockErr.ProductID)
	assert.Equal(t, 3, stockErr.Requested)
	assert.Equal(t, 1, stockErr.Available)
}

func TestResolveCheckoutLineUsesVariantPriceAndStock(t *testing.T) {
	p := checkoutProduct()
	p.HasVariants = true
	p.Variants = []models.ProductVariant{
		{
			SKU:        "PHC-001-GOLD-M",
			Price:      3500,
			Stock:      4,
			Attributes: map[string]string{"color": "Gold", "size": "M"},
		},
	}

	line, err := resolveCheckoutLine(p, CheckoutItemRequest{
		ProductID: p.ID.Hex(),
		Quantity:  2,
		Color:     "gold",
		Size:      "m",
	})
	require.NoError(t, err)

	assert.Equal(t, "PHC-001-GOLD-M", line.SKU)
	assert.Equal(t, 3500.0, line.Price)

	_, err = resolveCheckoutLine(p, CheckoutItemRequest{
		ProductID: p.ID.Hex(),
		Quantity:  5,
		Color:     "gold",
		Size:      "m",
	})
	var stockErr *insufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 4, stockErr.Available)
}

func TestResolveCheckoutLineBindsStockPool(t *testing.T) {
	p := checkoutProduct()
	p.HasVariants = true
	p.Variants = []models.ProductVariant{
		{
			SKU:        "PHC-001-GOLD-M",
			Price:      3500,
			Stock:      4,
			Attributes: map[string]string{"color": "Gold", "size": "M"},
		},
	}

	// A matched variant pins the decrement to that variant's pool, so a
	// sold-out variant never borrows from the product-level stock.
	line, err := resolveCheckoutLine(p, CheckoutItemRequest{
		ProductID: p.ID.Hex(),
		Quantity:  1,
		Color:     "Gold",
		Size:      "M",
	})
	require.NoError(t, err)
	assert.Equal(t, "PHC-001-GOLD-M", line.VariantSKU)

	// Without variants the line sells from the product-level pool.
	plain := checkoutProduct()
	base, err := resolveCheckoutLine(plain, CheckoutItemRequest{
		ProductID: plain.ID.Hex(),
		Quantity:  1,
	})
	require.NoError(t, err)
	assert.Empty(t, base.VariantSKU)
	assert.Equal(t, "PHC-001", base.SKU)
}

func TestOrderTotalWithShippingAndPromo(t *testing.T) {
	items := []models.OrderItem{
		{Price: 3000, Quantity: 2},
	}

	subtotal := orderSubtotal(items)
	assert.Equal(t, 6000.0, subtotal)

	cost, err := shipping.Cost("lagos-flat", subtotal)
	require.NoError(t, err)
	assert.Equal(t, 3100.0, cost)

	assert.Equal(t, 9100.0, subtotal+cost)

	discount := promoDiscount(subtotal, 10)
	assert.Equal(t, 600.0, discount)
}

func TestPromoDiscountBounds(t *testing.T) {
	assert.Equal(t, 0.0, promoDiscount(5000, 0))
	assert.Equal(t, 0.0, promoDiscount(5000, -10))
	assert.Equal(t, 5000.0, promoDiscount(5000, 150))
}

func TestInitialPaymentStatusByMethod(t *testing.T) {
	assert.Equal(t, order.PaymentPending, initialPaymentStatus(order.MethodTransfer))
	assert.Equal(t, order.PaymentProcessing, initialPaymentStatus(order.MethodPaystack))
}
