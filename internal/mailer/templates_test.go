package mailer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderRejectsUnknownTemplate(t *testing.T) {
	_, _, err := Render("priceDrop", map[string]any{})

	var unknown UnknownTemplateError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "priceDrop", unknown.Name)
}

func TestRenderOrderConfirmation(t *testing.T) {
	subject, html, err := Render(TemplateOrderConfirmation, map[string]any{
		"orderId":         "MID-1700000000000-AB12C",
		"customerName":    "Ada Obi",
		"date":            "02/03/2026",
		"total":           "₦9,100",
		"items":           []map[string]any{{"name": "Tote Bag", "quantity": 2, "price": "₦6,000"}},
		"shippingName":    "Ada Obi",
		"shippingAddress": "12 Ago Palace Way",
		"shippingCity":    "Lagos",
		"shippingState":   "Lagos",
	})
	require.NoError(t, err)

	assert.Equal(t, "Order Confirmation #MID-1700000000000-AB12C", subject)
	assert.Contains(t, html, "Hello Ada Obi")
	assert.Contains(t, html, "Tote Bag")
	assert.Contains(t, html, "₦9,100")
	assert.Contains(t, html, "12 Ago Palace Way")
}

func TestRenderShippingConfirmationCarriesTracking(t *testing.T) {
	_, html, err := Render(TemplateShippingConfirmation, map[string]any{
		"orderId":           "MID-1",
		"customerName":      "Ada",
		"trackingNumber":    "TRK-1700000000000-XY12ZQ",
		"estimatedDelivery": "05/03/2026",
		"items":             []map[string]any{{"name": "Scarf", "quantity": 1, "price": "₦3,000"}},
	})
	require.NoError(t, err)
	assert.Contains(t, html, "TRK-1700000000000-XY12ZQ")
}

func TestRenderTransferOrderCarriesBankDetails(t *testing.T) {
	_, html, err := Render(TemplateTransferOrder, map[string]any{
		"orderId":       "MID-2",
		"customerName":  "Ada",
		"total":         "₦12,000",
		"bankName":      "First Bank",
		"accountNumber": "0123456789",
		"accountName":   "Midessories LTD",
		"items":         []map[string]any{},
	})
	require.NoError(t, err)
	assert.Contains(t, html, "First Bank")
	assert.Contains(t, html, "0123456789")
	assert.Contains(t, html, "Reference:")
}

func TestRenderEscapesHTMLInData(t *testing.T) {
	_, html, err := Render(TemplateWelcomeEmail, map[string]any{
		"firstName": "<script>alert(1)</script>",
		"shopUrl":   "https://midessories.com/shop",
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>alert(1)</script>")
}

func TestValidTemplatesCoversEnumeratedSet(t *testing.T) {
	names := ValidTemplates()
	assert.ElementsMatch(t, []string{
		TemplateOrderConfirmation,
		TemplateShippingConfirmation,
		TemplateOrderDelivered,
		TemplateOrderCanceled,
		TemplateRefundProcessed,
		TemplateTransferOrder,
		TemplateOrderProcessing,
		TemplateWelcomeEmail,
		TemplateAbandonedCart,
	}, names)
}
