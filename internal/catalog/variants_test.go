package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"midessories/internal/models"
)

func TestGenerateVariantsCartesianProduct(t *testing.T) {
	options := []models.VariantOption{
		{Name: "Color", Values: []string{"Red", "Blue"}},
		{Name: "Size", Values: []string{"S", "M", "L"}},
	}

	variants := GenerateVariants("bag-01", 3000, options)
	require.Len(t, variants, 6)

	assert.Equal(t, "BAG-01-RED-S", variants[0].SKU)
	assert.Equal(t, map[string]string{"Color": "Red", "Size": "S"}, variants[0].Attributes)
	assert.Equal(t, "BAG-01-BLUE-L", variants[5].SKU)

	for _, v := range variants {
		assert.Equal(t, 3000.0, v.Price)
		assert.Zero(t, v.Stock)
	}
}

func TestGenerateVariantsSkipsEmptyOptions(t *testing.T) {
	options := []models.VariantOption{
		{Name: "", Values: []string{"x"}},
		{Name: "Size", Values: nil},
	}
	assert.Nil(t, GenerateVariants("sku", 100, options))
	assert.Nil(t, GenerateVariants("sku", 100, nil))
}

func TestFindVariantMatchesSelection(t *testing.T) {
	product := models.Product{
		Price:       3000,
		HasVariants: true,
		Variants: []models.ProductVariant{
			{SKU: "A-RED-S", Price: 3200, Stock: 4, Attributes: map[string]string{"Color": "Red", "Size": "S"}},
			{SKU: "A-RED-M", Price: 3400, Stock: 0, Attributes: map[string]string{"Color": "Red", "Size": "M"}},
		},
	}

	v, ok := FindVariant(product, "red", "m")
	require.True(t, ok)
	assert.Equal(t, "A-RED-M", v.SKU)

	assert.Equal(t, 3200.0, EffectiveUnitPrice(product, "Red", "S"))
	assert.Equal(t, 4, AvailableStock(product, "Red", "S"))

	// No matching variant falls back to the base price.
	assert.Equal(t, 3000.0, EffectiveUnitPrice(product, "Green", "XL"))
}

func TestIsOnSale(t *testing.T) {
	assert.True(t, IsOnSale(2500, 3000))
	assert.False(t, IsOnSale(3000, 3000))
	assert.False(t, IsOnSale(3000, 0))
}
