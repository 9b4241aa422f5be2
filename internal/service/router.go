package service

import (
	"encoding/json"
	"github.com/stripe/stripe-go/v79"
)

type Route int

const (
	RouteIgnored Route = iota
	RouteCompleted
)

func (r Route) String() string {
	if r == RouteCompleted {
		return "completed"
	}
	return "ignored"
}

// RouteEvent decides whether an event carries a paid checkout session. A
// completed session that is still unpaid belongs to a delayed payment method
// and is picked up again when the async success event arrives.
func RouteEvent(event *VerifiedEvent) Route {
	switch stripe.EventType(event.Type) {
	case stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded:
		return RouteCompleted
	case stripe.EventTypeCheckoutSessionCompleted:
		var session struct {
			PaymentStatus stripe.CheckoutSessionPaymentStatus `json:"payment_status"`
		}
		if err := json.Unmarshal(event.Payload, &session); err == nil &&
			session.PaymentStatus == stripe.CheckoutSessionPaymentStatusUnpaid {
			return RouteIgnored
		}
		return RouteCompleted
	default:
		return RouteIgnored
	}
}
