// Package notify maps order and account events to email templates and hands
// them to the mail transport. Dispatch is best-effort: the state change that
// triggered a notification is persisted first and never rolled back when
// delivery fails.
package notify

import (
	"context"
	"log"
	"time"

	"midessories/internal/currency"
	"midessories/internal/mailer"
	"midessories/internal/metrics"
	"midessories/internal/models"
	"midessories/internal/order"
)

const dateLayout = "02/01/2006"

// BankDetails are included in transfer-order instructions.
type BankDetails struct {
	BankName      string
	AccountNumber string
	AccountName   string
}

// Dispatcher builds template payloads for order lifecycle events.
type Dispatcher struct {
	mailer       mailer.Mailer
	siteURL      string
	supportEmail string
	bank         BankDetails
}

func NewDispatcher(m mailer.Mailer, siteURL, supportEmail string, bank BankDetails) *Dispatcher {
	return &Dispatcher{
		mailer:       m,
		siteURL:      siteURL,
		supportEmail: supportEmail,
		bank:         bank,
	}
}

// Async runs a notification off the request path with its own deadline.
// Failures are logged and dropped; there is no retry or outbox.
func (d *Dispatcher) Async(event string, fn func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := fn(ctx); err != nil {
			log.Printf("[NOTIFY] [ERROR] %s notification failed: %v", event, err)
		}
	}()
}

// OrderConfirmation is sent once payment is confirmed (gateway verification
// or admin transfer confirmation).
func (d *Dispatcher) OrderConfirmation(ctx context.Context, o models.Order) error {
	data := d.orderPayload(o)
	data["date"] = o.CreatedAt.Format(dateLayout)
	return d.send(ctx, o.CustomerEmail, mailer.TemplateOrderConfirmation, data)
}

// TransferOrder carries the bank instructions for a manual transfer order.
func (d *Dispatcher) TransferOrder(ctx context.Context, o models.Order) error {
	data := d.orderPayload(o)
	data["date"] = o.CreatedAt.Format(dateLayout)
	data["bankName"] = d.bank.BankName
	data["accountNumber"] = d.bank.AccountNumber
	data["accountName"] = d.bank.AccountName
	return d.send(ctx, o.CustomerEmail, mailer.TemplateTransferOrder, data)
}

// OrderProcessing is sent when an order enters processing, with the ship
// date estimated from the selected shipping method's lead time.
func (d *Dispatcher) OrderProcessing(ctx context.Context, o models.Order, estimatedShipDate time.Time) error {
	data := d.orderPayload(o)
	data["estimatedShipDate"] = estimatedShipDate.Format(dateLayout)
	return d.send(ctx, o.CustomerEmail, mailer.TemplateOrderProcessing, data)
}

// OrderShipped carries the tracking metadata generated by the shipped
// transition.
func (d *Dispatcher) OrderShipped(ctx context.Context, o models.Order) error {
	data := d.orderPayload(o)
	data["trackingNumber"] = o.Shipping.TrackingNumber
	if o.Shipping.EstimatedDelivery != nil {
		data["estimatedDelivery"] = o.Shipping.EstimatedDelivery.Format(dateLayout)
	}
	return d.send(ctx, o.CustomerEmail, mailer.TemplateShippingConfirmation, data)
}

func (d *Dispatcher) OrderDelivered(ctx context.Context, o models.Order) error {
	return d.send(ctx, o.CustomerEmail, mailer.TemplateOrderDelivered, d.orderPayload(o))
}

// OrderCancelled includes the order's payment status implicitly: the refund
// amount is the formatted total when the order was paid, otherwise "N/A".
// No refund is created here; cancellation and refund are separate actions.
func (d *Dispatcher) OrderCancelled(ctx context.Context, o models.Order, reason string) error {
	data := d.orderPayload(o)
	data["cancellationReason"] = reason
	data["refundAmount"] = "N/A"
	if o.Payment.Status == string(order.PaymentPaid) {
		data["refundAmount"] = currency.FormatNaira(o.Amount)
	}
	return d.send(ctx, o.CustomerEmail, mailer.TemplateOrderCanceled, data)
}

func (d *Dispatcher) RefundProcessed(ctx context.Context, o models.Order, refund models.Refund) error {
	data := d.orderPayload(o)
	data["refundAmount"] = currency.FormatNaira(refund.Amount)
	data["refundDate"] = refund.Date.Format(dateLayout)
	return d.send(ctx, o.CustomerEmail, mailer.TemplateRefundProcessed, data)
}

// Welcome is sent after a customer account is created.
func (d *Dispatcher) Welcome(ctx context.Context, email, firstName string) error {
	return d.send(ctx, email, mailer.TemplateWelcomeEmail, map[string]any{
		"firstName": firstName,
		"shopUrl":   d.siteURL + "/shop",
	})
}

// AbandonedCart nudges a signed-in shopper whose cart went stale.
func (d *Dispatcher) AbandonedCart(ctx context.Context, email, firstName string, cart models.Cart) error {
	items := make([]map[string]any, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, map[string]any{
			"name":     item.Name,
			"quantity": item.Quantity,
			"price":    currency.FormatNaira(item.Price),
		})
	}
	return d.send(ctx, email, mailer.TemplateAbandonedCart, map[string]any{
		"customerName": firstName,
		"items":        items,
		"cartUrl":      d.siteURL + "/cart",
	})
}

func (d *Dispatcher) orderPayload(o models.Order) map[string]any {
	items := make([]map[string]any, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, map[string]any{
			"name":     item.Name,
			"quantity": item.Quantity,
			"price":    currency.FormatNaira(item.Price * float64(item.Quantity)),
		})
	}

	addr := o.Shipping.Address
	return map[string]any{
		"orderId":         o.Reference,
		"customerName":    addr.FirstName + " " + addr.LastName,
		"total":           currency.FormatNaira(o.Amount),
		"items":           items,
		"shippingName":    addr.FirstName + " " + addr.LastName,
		"shippingAddress": addr.Address,
		"shippingCity":    addr.City,
		"shippingState":   addr.State,
		"orderUrl":        d.siteURL + "/account?tab=orders&order=" + o.Reference,
		"supportEmail":    d.supportEmail,
	}
}

func (d *Dispatcher) send(ctx context.Context, to, template string, data map[string]any) error {
	messageID, err := d.mailer.Send(ctx, to, template, data)
	if err != nil {
		metrics.EmailsFailed.WithLabelValues(template).Inc()
		return err
	}
	metrics.EmailsSent.WithLabelValues(template).Inc()
	log.Printf("[NOTIFY] [INFO] %s sent to %s (message %s)", template, to, messageID)
	return nil
}
