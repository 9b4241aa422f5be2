package messages

import (
	"github.com/go-openapi/strfmt"
)

// Response is the envelope every endpoint answers with. Retryable is only
// set on errors and tells the payment provider whether a redelivery can help.
type Response struct {
	OK        bool   `json:"ok"`
	Outcome   string `json:"outcome,omitempty"`
	Error     string `json:"error,omitempty"`
	Retryable *bool  `json:"retryable,omitempty"`
}

type PaymentStatusResponse struct {
	OK              bool            `json:"ok"`
	OrderID         string          `json:"orderId"`
	IsPaid          bool            `json:"isPaid"`
	CreatedAt       strfmt.DateTime `json:"createdAt"`
	ShippingAddress *Address        `json:"shippingAddress,omitempty"`
	BillingAddress  *Address        `json:"billingAddress,omitempty"`
}

type Address struct {
	Name        string  `json:"name"`
	Street      string  `json:"street"`
	City        string  `json:"city"`
	State       *string `json:"state"`
	PostalCode  string  `json:"postalCode"`
	Country     string  `json:"country"`
	PhoneNumber *string `json:"phoneNumber"`
}
