package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"midessories/internal/mailer"
	"midessories/internal/models"
)

type recordedSend struct {
	to       string
	template string
	data     map[string]any
}

type fakeMailer struct {
	sends []recordedSend
	err   error
}

func (f *fakeMailer) Send(_ context.Context, to, templateName string, data map[string]any) (string, error) {
	if _, _, err := mailer.Render(templateName, data); err != nil {
		return "", err
	}
	f.sends = append(f.sends, recordedSend{to: to, template: templateName, data: data})
	if f.err != nil {
		return "", f.err
	}
	return "msg-1", nil
}

func testOrder() models.Order {
	created := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	return models.Order{
		Reference:     "MID-1700000000000-AB12C",
		CustomerEmail: "ada@example.com",
		Items: []models.OrderItem{
			{Name: "Tote Bag", Price: 3000, Quantity: 2},
		},
		Subtotal: 6000,
		Amount:   9100,
		Shipping: models.OrderShipping{
			Address: models.ShippingAddress{
				FirstName: "Ada", LastName: "Obi",
				Address: "12 Ago Palace Way", City: "Lagos", State: "Lagos",
			},
			Method: "lagos-flat",
			Cost:   3100,
		},
		Payment:   models.OrderPayment{Method: "paystack", Status: "paid", Reference: "MID-1700000000000-AB12C"},
		Status:    "pending",
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func newTestDispatcher(m mailer.Mailer) *Dispatcher {
	return NewDispatcher(m, "https://midessories.com", "support@midessories.com", BankDetails{
		BankName:      "First Bank",
		AccountNumber: "0123456789",
		AccountName:   "Midessories LTD",
	})
}

func TestOrderShippedSendsExactlyOneEmailWithTracking(t *testing.T) {
	fake := &fakeMailer{}
	d := newTestDispatcher(fake)

	o := testOrder()
	o.Shipping.TrackingNumber = "TRK-1-ABCDEF"

	require.NoError(t, d.OrderShipped(context.Background(), o))
	require.Len(t, fake.sends, 1)

	sent := fake.sends[0]
	assert.Equal(t, mailer.TemplateShippingConfirmation, sent.template)
	assert.Equal(t, "ada@example.com", sent.to)
	assert.Equal(t, "TRK-1-ABCDEF", sent.data["trackingNumber"])
}

func TestOrderCancelledRefundAmountTracksPaymentStatus(t *testing.T) {
	fake := &fakeMailer{}
	d := newTestDispatcher(fake)

	paid := testOrder()
	require.NoError(t, d.OrderCancelled(context.Background(), paid, "customer request"))
	assert.Equal(t, "₦9,100", fake.sends[0].data["refundAmount"])

	unpaid := testOrder()
	unpaid.Payment.Status = "pending"
	require.NoError(t, d.OrderCancelled(context.Background(), unpaid, ""))
	assert.Equal(t, "N/A", fake.sends[1].data["refundAmount"])
}

func TestRefundProcessedPayload(t *testing.T) {
	fake := &fakeMailer{}
	d := newTestDispatcher(fake)

	refund := models.Refund{Amount: 5000, Reason: "wrong size", Date: time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, d.RefundProcessed(context.Background(), testOrder(), refund))

	require.Len(t, fake.sends, 1)
	assert.Equal(t, mailer.TemplateRefundProcessed, fake.sends[0].template)
	assert.Equal(t, "₦5,000", fake.sends[0].data["refundAmount"])
	assert.Equal(t, "04/03/2026", fake.sends[0].data["refundDate"])
}

func TestTransferOrderIncludesBankDetails(t *testing.T) {
	fake := &fakeMailer{}
	d := newTestDispatcher(fake)

	require.NoError(t, d.TransferOrder(context.Background(), testOrder()))
	data := fake.sends[0].data
	assert.Equal(t, "First Bank", data["bankName"])
	assert.Equal(t, "0123456789", data["accountNumber"])
}

func TestSendFailureSurfacesError(t *testing.T) {
	fake := &fakeMailer{err: errors.New("relay down")}
	d := newTestDispatcher(fake)

	err := d.OrderDelivered(context.Background(), testOrder())
	assert.Error(t, err)
}

func TestOrderPayloadItemPricesAreLineTotals(t *testing.T) {
	fake := &fakeMailer{}
	d := newTestDispatcher(fake)

	require.NoError(t, d.OrderConfirmation(context.Background(), testOrder()))
	items := fake.sends[0].data["items"].([]map[string]any)
	require.Len(t, items, 1)
	assert.Equal(t, "₦6,000", items[0]["price"])
}
