package service

import (
	"encoding/json"
	"fmt"
	"github.com/Koushikachar/phone-case-E-commerce/internal/db"
	"github.com/go-openapi/strfmt"
	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"
	"github.com/stripe/stripe-go/v79"
	"strings"
)

const (
	metadataOrderID = "orderId"
	metadataUserID  = "userId"
)

// OrderCompletionRequest is the validated field set taken from a paid
// checkout session.
type OrderCompletionRequest struct {
	EventID         string
	OrderID         string
	UserID          string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	BillingAddress  db.Address
	ShippingAddress db.Address
}

// ExtractOrderCompletion decodes a checkout session and checks every
// mandatory field. All failures are reported together.
func ExtractOrderCompletion(payload json.RawMessage) (*OrderCompletionRequest, error) {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	var result *multierror.Error

	orderID := strings.TrimSpace(session.Metadata[metadataOrderID])
	userID := strings.TrimSpace(session.Metadata[metadataUserID])
	if orderID == "" || userID == "" {
		result = multierror.Append(result, ErrMissingMetadata)
	}

	details := lo.FromPtr(session.CustomerDetails)

	name := strings.TrimSpace(details.Name)
	if name == "" {
		result = multierror.Append(result, ErrMissingCustomerName)
	}

	if details.Address == nil {
		result = multierror.Append(result, ErrMissingBillingAddress)
	}

	if result != nil {
		result.ErrorFormat = formatErrors
		return nil, result
	}

	billing := toAddress(name, details.Address, "")
	shipping := billing

	if shippingDetails := session.ShippingDetails; shippingDetails != nil && shippingDetails.Address != nil {
		shippingName := strings.TrimSpace(shippingDetails.Name)
		shipping = toAddress(lo.Ternary(shippingName != "", shippingName, name), shippingDetails.Address, shippingDetails.Phone)
	} else {
		shipping.State = cloneString(billing.State)
	}

	return &OrderCompletionRequest{
		OrderID:         orderID,
		UserID:          userID,
		CustomerName:    name,
		CustomerEmail:   normalizeEmail(details.Email),
		CustomerPhone:   strings.TrimSpace(details.Phone),
		BillingAddress:  billing,
		ShippingAddress: shipping,
	}, nil
}

func toAddress(name string, address *stripe.Address, phone string) db.Address {
	street := strings.TrimSpace(address.Line1)
	if line2 := strings.TrimSpace(address.Line2); line2 != "" {
		street = strings.Join(lo.Compact([]string{street, line2}), ", ")
	}

	return db.Address{
		Name:        name,
		Street:      street,
		City:        strings.TrimSpace(address.City),
		PostalCode:  strings.TrimSpace(address.PostalCode),
		Country:     strings.TrimSpace(address.Country),
		State:       optionalString(address.State),
		PhoneNumber: optionalString(phone),
	}
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return lo.ToPtr(value)
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	return lo.ToPtr(*value)
}

// normalizeEmail drops addresses the email service would refuse, so a bad
// contact field never blocks a paid order.
func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	if !strfmt.IsEmail(email) {
		return ""
	}
	return email
}

func formatErrors(errs []error) string {
	return strings.Join(lo.Map(errs, func(err error, _ int) string {
		return err.Error()
	}), "; ")
}
