package order

import "fmt"

// Status is the order lifecycle state. It is a separate axis from the
// payment status: cancelling a paid order does not touch the payment.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// PaymentStatus tracks how far the money side of an order has progressed.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentPaid       PaymentStatus = "paid"
	PaymentFailed     PaymentStatus = "failed"
	PaymentRefunded   PaymentStatus = "refunded"
)

// Payment method selections offered at checkout.
const (
	MethodPaystack = "paystack"
	MethodTransfer = "transfer"
)

// transitions is the legal forward set. Terminal states map to nothing.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusCancelled},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// IllegalTransitionError reports a requested lifecycle change that the
// transition table does not allow.
type IllegalTransitionError struct {
	From Status
	To   Status
}

func (e IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal order status transition: %s -> %s", e.From, e.To)
}

// IsValid reports whether s is one of the five lifecycle states.
func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether no further transition is possible from s.
func (s Status) IsTerminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// Transition validates a requested lifecycle change and returns the new
// status. It never persists anything; callers apply the result themselves.
func Transition(current, requested Status) (Status, error) {
	if !requested.IsValid() {
		return "", IllegalTransitionError{From: current, To: requested}
	}
	for _, allowed := range transitions[current] {
		if allowed == requested {
			return requested, nil
		}
	}
	return "", IllegalTransitionError{From: current, To: requested}
}

// IsValid reports whether p is a known payment status.
func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentPending, PaymentProcessing, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}
