package service

import "errors"

var (
	ErrMissingSignature      = errors.New("missing webhook signature")
	ErrInvalidSignature      = errors.New("invalid webhook signature")
	ErrMissingMetadata       = errors.New("missing metadata: userId or orderId")
	ErrMissingCustomerName   = errors.New("missing customer name")
	ErrMissingBillingAddress = errors.New("missing billing address")
	ErrMalformedPayload      = errors.New("malformed event payload")
	ErrOrderNotFound         = errors.New("order not found")
	ErrPersistence           = errors.New("failed to persist payment")
	ErrNotification          = errors.New("failed to send order confirmation")
)

// IsSignatureError reports whether the event was rejected before its payload
// was trusted.
func IsSignatureError(err error) bool {
	return errors.Is(err, ErrMissingSignature) || errors.Is(err, ErrInvalidSignature)
}

// IsValidationError reports whether the payload was authentic but unusable.
func IsValidationError(err error) bool {
	for _, target := range []error{ErrMissingMetadata, ErrMissingCustomerName, ErrMissingBillingAddress, ErrMalformedPayload} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

// IsRetryable reports whether redelivering the same event may succeed.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrPersistence)
}
