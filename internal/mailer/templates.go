package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// Template names accepted by the dispatcher. Anything else is rejected
// before a transport connection is attempted.
const (
	TemplateOrderConfirmation    = "orderConfirmation"
	TemplateShippingConfirmation = "shippingConfirmation"
	TemplateOrderDelivered       = "orderDelivered"
	TemplateOrderCanceled        = "orderCanceled"
	TemplateRefundProcessed      = "refundProcessed"
	TemplateTransferOrder        = "transferOrder"
	TemplateOrderProcessing      = "orderProcessing"
	TemplateWelcomeEmail         = "welcomeEmail"
	TemplateAbandonedCart        = "abandonedCart"
)

// UnknownTemplateError reports a template name outside the known set.
type UnknownTemplateError struct {
	Name string
}

func (e UnknownTemplateError) Error() string {
	return fmt.Sprintf("unknown email template: %q", e.Name)
}

type emailTemplate struct {
	subject func(data map[string]any) string
	body    *template.Template
}

const layoutHeader = `<!DOCTYPE html>
<html>
  <body style="font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; margin: 0; padding: 0; color: #333333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
      <div style="background-color: #DA0988; padding: 20px; text-align: center; border-radius: 8px 8px 0 0;">
        <h1 style="color: white; margin: 0; font-size: 24px;">{{.heading}}</h1>
      </div>
      <div style="padding: 30px; border: 1px solid #eee; border-top: none; background-color: #fff;">`

const layoutFooter = `</div>
      <div style="text-align: center; padding: 20px; color: #666; font-size: 12px;">
        <p>&copy; Midessories. All rights reserved.</p>
        <p>If you have any questions, please contact our support team.</p>
      </div>
    </div>
  </body>
</html>`

const itemsTable = `<table style="width: 100%; border-collapse: collapse; margin-top: 15px;">
  <tr style="background-color: #f8f8f8;">
    <th style="padding: 12px; text-align: left; border: 1px solid #eee;">Product</th>
    <th style="padding: 12px; text-align: center; border: 1px solid #eee;">Quantity</th>
    <th style="padding: 12px; text-align: right; border: 1px solid #eee;">Price</th>
  </tr>
  {{range .items}}
  <tr>
    <td style="padding: 12px; border: 1px solid #eee;">{{.name}}</td>
    <td style="padding: 12px; text-align: center; border: 1px solid #eee;">{{.quantity}}</td>
    <td style="padding: 12px; text-align: right; border: 1px solid #eee;">{{.price}}</td>
  </tr>
  {{end}}
</table>`

const addressBlock = `<div style="margin-top: 30px; padding-top: 20px; border-top: 1px solid #eee;">
  <p style="margin-top: 0; font-weight: bold;">Shipping to:</p>
  <p style="margin-top: 5px;">
    {{.shippingName}}<br>
    {{.shippingAddress}}<br>
    {{.shippingCity}}, {{.shippingState}}
  </p>
</div>`

var templates = map[string]emailTemplate{
	TemplateOrderConfirmation: {
		subject: func(data map[string]any) string {
			return fmt.Sprintf("Order Confirmation #%v", data["orderId"])
		},
		body: mustTemplate(TemplateOrderConfirmation, layoutHeader+`
<p style="margin-top: 0;">Hello {{.customerName}},</p>
<p>Thank you for your order! We're processing it now and will ship it soon.</p>
<h2 style="color: #DA0988; font-size: 20px;">Order #{{.orderId}}</h2>
<p><strong>Date:</strong> {{.date}}</p>
<p><strong>Total:</strong> {{.total}}</p>
`+itemsTable+addressBlock+layoutFooter),
	},
	TemplateShippingConfirmation: {
		subject: func(data map[string]any) string {
			return fmt.Sprintf("Your Order #%v Has Shipped!", data["orderId"])
		},
		body: mustTemplate(TemplateShippingConfirmation, layoutHeader+`
<p style="margin-top: 0;">Hello {{.customerName}},</p>
<p>Good news! Your order is on its way.</p>
<p><strong>Tracking number:</strong> {{.trackingNumber}}</p>
<p><strong>Estimated delivery:</strong> {{.estimatedDelivery}}</p>
`+itemsTable+layoutFooter),
	},
	TemplateOrderDelivered: {
		subject: func(data map[string]any) string {
			return fmt.Sprintf("Your Order #%v Has Been Delivered", data["orderId"])
		},
		body: mustTemplate(TemplateOrderDelivered, layoutHeader+`
<p style="margin-top: 0;">Hello {{.customerName}},</p>
<p>Your order has been delivered. We hope you love it!</p>
<p>We'd really appreciate it if you left a review.</p>
`+itemsTable+layoutFooter),
	},
	TemplateOrderCanceled: {
		subject: func(data map[string]any) string {
			return fmt.Sprintf("Order #%v Cancelled", data["orderId"])
		},
		body: mustTemplate(TemplateOrderCanceled, layoutHeader+`
<p style="margin-top: 0;">Hello {{.customerName}},</p>
<p>Your order has been cancelled.</p>
{{if .cancellationReason}}<p><strong>Reason:</strong> {{.cancellationReason}}</p>{{end}}
<p><strong>Order total:</strong> {{.total}}</p>
<p><strong>Refund amount:</strong> {{.refundAmount}}</p>
`+itemsTable+`
<p style="margin-top: 20px;">Questions? Contact {{.supportEmail}}.</p>
`+layoutFooter),
	},
	TemplateRefundProcessed: {
		subject: func(data map[string]any) string {
			return fmt.Sprintf("Refund Processed for Order #%v", data["orderId"])
		},
		body: mustTemplate(TemplateRefundProcessed, layoutHeader+`
<p style="margin-top: 0;">Hello {{.customerName}},</p>
<p>We've processed a refund for your order.</p>
<p><strong>Refund amount:</strong> {{.refundAmount}}</p>
<p><strong>Date:</strong> {{.refundDate}}</p>
<p>Depending on your bank, it can take a few days to reflect.</p>
<p style="margin-top: 20px;">Questions? Contact {{.supportEmail}}.</p>
`+layoutFooter),
	},
	TemplateTransferOrder: {
		subject: func(data map[string]any) string {
			return fmt.Sprintf("Bank Transfer Details for Order #%v", data["orderId"])
		},
		body: mustTemplate(TemplateTransferOrder, layoutHeader+`
<p style="margin-top: 0;">Hello {{.customerName}},</p>
<p>Thanks for your order! Complete your payment by bank transfer using the
details below, with your order number as the transfer reference.</p>
<h2 style="color: #DA0988; font-size: 20px;">Order #{{.orderId}}</h2>
<p><strong>Total:</strong> {{.total}}</p>
<div style="background-color: #f8f8f8; padding: 15px; margin: 20px 0;">
  <p style="margin: 0;"><strong>Bank:</strong> {{.bankName}}</p>
  <p style="margin: 5px 0 0;"><strong>Account number:</strong> {{.accountNumber}}</p>
  <p style="margin: 5px 0 0;"><strong>Account name:</strong> {{.accountName}}</p>
  <p style="margin: 5px 0 0;"><strong>Reference:</strong> {{.orderId}}</p>
</div>
`+itemsTable+addressBlock+layoutFooter),
	},
	TemplateOrderProcessing: {
		subject: func(data map[string]any) string {
			return fmt.Sprintf("Your Order #%v Is Being Processed", data["orderId"])
		},
		body: mustTemplate(TemplateOrderProcessing, layoutHeader+`
<p style="margin-top: 0;">Hello {{.customerName}},</p>
<p>We're preparing your order for shipment.</p>
<p><strong>Estimated ship date:</strong> {{.estimatedShipDate}}</p>
`+itemsTable+layoutFooter),
	},
	TemplateWelcomeEmail: {
		subject: func(data map[string]any) string {
			return "Welcome to Midessories!"
		},
		body: mustTemplate(TemplateWelcomeEmail, layoutHeader+`
<p style="margin-top: 0;">Hello {{.firstName}},</p>
<p>Welcome! Your account is ready. Browse the latest arrivals in our shop.</p>
<div style="margin-top: 30px; text-align: center;">
  <a href="{{.shopUrl}}" style="background-color: #DA0988; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px; font-weight: bold; display: inline-block;">Start Shopping</a>
</div>
`+layoutFooter),
	},
	TemplateAbandonedCart: {
		subject: func(data map[string]any) string {
			return "You left something behind"
		},
		body: mustTemplate(TemplateAbandonedCart, layoutHeader+`
<p style="margin-top: 0;">Hello {{.customerName}},</p>
<p>Your cart is still waiting for you.</p>
`+itemsTable+`
<div style="margin-top: 30px; text-align: center;">
  <a href="{{.cartUrl}}" style="background-color: #DA0988; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px; font-weight: bold; display: inline-block;">Return to Cart</a>
</div>
`+layoutFooter),
	},
}

// headings shown in the pink banner per template.
var headings = map[string]string{
	TemplateOrderConfirmation:    "Order Confirmation",
	TemplateShippingConfirmation: "Your Order Has Shipped",
	TemplateOrderDelivered:       "Order Delivered",
	TemplateOrderCanceled:        "Order Cancelled",
	TemplateRefundProcessed:      "Refund Processed",
	TemplateTransferOrder:        "Complete Your Payment",
	TemplateOrderProcessing:      "Order Update",
	TemplateWelcomeEmail:         "Welcome to Midessories",
	TemplateAbandonedCart:        "Still Thinking It Over?",
}

// ValidTemplates lists every accepted template name.
func ValidTemplates() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	return names
}

// Render produces the subject and HTML body for a template. Unknown names
// return UnknownTemplateError without touching the data.
func Render(name string, data map[string]any) (subject, html string, err error) {
	tmpl, ok := templates[name]
	if !ok {
		return "", "", UnknownTemplateError{Name: name}
	}

	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["heading"]; !ok {
		data["heading"] = headings[name]
	}

	var buf bytes.Buffer
	if err := tmpl.body.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render %s: %w", name, err)
	}
	return tmpl.subject(data), buf.String(), nil
}

func mustTemplate(name, text string) *template.Template {
	return template.Must(template.New(name).Parse(text))
}
