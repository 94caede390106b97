package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"midessories/internal/order"
)

func TestVerifyMaySettleOnlyOpenPayments(t *testing.T) {
	assert.True(t, paymentStatusIn(string(order.PaymentPending), verifySettleStates))
	assert.True(t, paymentStatusIn(string(order.PaymentProcessing), verifySettleStates))
	assert.True(t, paymentStatusIn(string(order.PaymentFailed), verifySettleStates),
		"a failed charge can be retried on the gateway and re-verified")

	assert.False(t, paymentStatusIn(string(order.PaymentPaid), verifySettleStates),
		"paid orders are handled by the idempotent early return, never rewritten")
	assert.False(t, paymentStatusIn(string(order.PaymentRefunded), verifySettleStates),
		"a refunded order must never move back to paid or failed")
}

func TestTransferConfirmRejectsSettledPayments(t *testing.T) {
	assert.True(t, paymentStatusIn(string(order.PaymentPending), transferConfirmStates))
	assert.True(t, paymentStatusIn(string(order.PaymentProcessing), transferConfirmStates))

	for _, settled := range []order.PaymentStatus{
		order.PaymentPaid,
		order.PaymentFailed,
		order.PaymentRefunded,
	} {
		assert.False(t, paymentStatusIn(string(settled), transferConfirmStates),
			"admin confirm must not overwrite %s", settled)
	}
}
