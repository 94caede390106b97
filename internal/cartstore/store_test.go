package cartstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"midessories/internal/models"
)

func line(id string, productID primitive.ObjectID, color, size string, qty int) models.CartItem {
	return models.CartItem{
		ID:        id,
		ProductID: productID,
		Name:      "Tote Bag",
		Price:     3000,
		Quantity:  qty,
		Color:     color,
		Size:      size,
	}
}

func TestMergeItemIncrementsMatchingLine(t *testing.T) {
	productID := primitive.NewObjectID()
	items := []models.CartItem{line("a", productID, "Pink", "M", 1)}

	items = MergeItem(items, line("", productID, "pink", "m", 2))

	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, "a", items[0].ID)
}

func TestMergeItemAppendsDifferentVariant(t *testing.T) {
	productID := primitive.NewObjectID()
	items := []models.CartItem{line("a", productID, "Pink", "M", 1)}

	items = MergeItem(items, line("", productID, "Pink", "L", 1))

	require.Len(t, items, 2)
	assert.NotEmpty(t, items[1].ID)
	assert.NotEqual(t, items[0].ID, items[1].ID)
}

func TestSetQuantityBelowOneRemovesLine(t *testing.T) {
	productID := primitive.NewObjectID()
	items := []models.CartItem{
		line("a", productID, "Pink", "M", 2),
		line("b", primitive.NewObjectID(), "", "", 1),
	}

	items, found := SetQuantity(items, "a", 0)
	require.True(t, found)
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].ID)
}

func TestSetQuantityUpdatesLine(t *testing.T) {
	items := []models.CartItem{line("a", primitive.NewObjectID(), "", "", 2)}

	items, found := SetQuantity(items, "a", 5)
	require.True(t, found)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestSetQuantityUnknownLine(t *testing.T) {
	items := []models.CartItem{line("a", primitive.NewObjectID(), "", "", 2)}

	_, found := SetQuantity(items, "missing", 1)
	assert.False(t, found)
}

func TestCartTotalDerivedFromLines(t *testing.T) {
	cart := models.Cart{Items: []models.CartItem{
		{Price: 3000, Quantity: 2},
		{Price: 1500, Quantity: 1},
	}}
	assert.Equal(t, 7500.0, cart.Total())
}
