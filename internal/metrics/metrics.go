// Package metrics exposes the service's Prometheus counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OrdersCreated counts persisted checkouts by payment method.
	OrdersCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "midessories_orders_created_total",
		Help: "Orders created at checkout, labelled by payment method.",
	}, []string{"method"})

	// OrderTransitions counts lifecycle changes by target status.
	OrderTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "midessories_order_transitions_total",
		Help: "Order status transitions applied by administrators.",
	}, []string{"status"})

	// PaymentVerifications counts Paystack verification outcomes.
	PaymentVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "midessories_payment_verifications_total",
		Help: "Server-side gateway verification results.",
	}, []string{"result"})

	// EmailsSent counts successful notification deliveries by template.
	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "midessories_emails_sent_total",
		Help: "Notification emails handed to the transport.",
	}, []string{"template"})

	// EmailsFailed counts notification deliveries that errored.
	EmailsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "midessories_emails_failed_total",
		Help: "Notification emails that failed to send.",
	}, []string{"template"})
)
