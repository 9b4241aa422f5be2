package service

import (
	"context"
	"github.com/Koushikachar/phone-case-E-commerce/internal/service"
)

const ORDER_SERVICE = service.ORDER_SERVICE

type OrderService interface {
	// HandleWebhook verifies, routes and applies a raw payment provider event
	HandleWebhook(ctx context.Context, body []byte, signature string) (*WebhookResult, error)

	// ApplyPayment marks an order paid and stores its addresses, at most once per order
	ApplyPayment(ctx context.Context, req *OrderCompletionRequest) (*UpdatedOrder, error)

	// GetPaymentStatus returns the payment state of an order owned by userID
	GetPaymentStatus(ctx context.Context, orderID, userID string) (*PaymentStatus, error)
}

type (
	WebhookResult          = service.WebhookResult
	Outcome                = service.Outcome
	OrderCompletionRequest = service.OrderCompletionRequest
	UpdatedOrder           = service.UpdatedOrder
	PaymentStatus          = service.PaymentStatus
	OrderConfirmation      = service.OrderConfirmation
	Notifier               = service.Notifier
)

const (
	OutcomeCompleted = service.OutcomeCompleted
	OutcomeDuplicate = service.OutcomeDuplicate
	OutcomeIgnored   = service.OutcomeIgnored
)

var _ OrderService = (*service.OrderServiceDefault)(nil)

var (
	ErrMissingSignature      = service.ErrMissingSignature
	ErrInvalidSignature      = service.ErrInvalidSignature
	ErrMissingMetadata       = service.ErrMissingMetadata
	ErrMissingCustomerName   = service.ErrMissingCustomerName
	ErrMissingBillingAddress = service.ErrMissingBillingAddress
	ErrMalformedPayload      = service.ErrMalformedPayload
	ErrOrderNotFound         = service.ErrOrderNotFound
	ErrPersistence           = service.ErrPersistence
)

var (
	IsSignatureError  = service.IsSignatureError
	IsValidationError = service.IsValidationError
	IsRetryable       = service.IsRetryable
)
