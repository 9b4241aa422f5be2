package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/stripe/stripe-go/v79/webhook"
	"time"
)

// VerifiedEvent is an event whose signature has been checked against the
// webhook secret. Only Verify produces one.
type VerifiedEvent struct {
	ID      string
	Type    string
	Created time.Time
	Payload json.RawMessage
}

type Verifier interface {
	Verify(body []byte, signature string) (*VerifiedEvent, error)
}

var _ Verifier = (*SignatureVerifier)(nil)

type SignatureVerifier struct {
	secret    string
	tolerance time.Duration
}

func NewSignatureVerifier(secret string, tolerance time.Duration) *SignatureVerifier {
	if tolerance <= 0 {
		tolerance = webhook.DefaultTolerance
	}

	return &SignatureVerifier{secret: secret, tolerance: tolerance}
}

func (v *SignatureVerifier) Verify(body []byte, signature string) (*VerifiedEvent, error) {
	if signature == "" {
		return nil, ErrMissingSignature
	}

	event, err := webhook.ConstructEventWithOptions(body, signature, v.secret, webhook.ConstructEventOptions{
		Tolerance:                v.tolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		if isSignatureFailure(err) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	if event.Data == nil || len(event.Data.Raw) == 0 {
		return nil, fmt.Errorf("%w: event %s has no data object", ErrMalformedPayload, event.ID)
	}

	return &VerifiedEvent{
		ID:      event.ID,
		Type:    string(event.Type),
		Created: time.Unix(event.Created, 0),
		Payload: event.Data.Raw,
	}, nil
}

func isSignatureFailure(err error) bool {
	for _, target := range []error{webhook.ErrNotSigned, webhook.ErrNoValidSignature, webhook.ErrTooOld, webhook.ErrInvalidHeader} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
