package service

import (
	"encoding/json"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestExtractOrderCompletionCopiesBillingIntoShipping(t *testing.T) {
	req, err := ExtractOrderCompletion(mustJSON(t, sessionObject()))
	require.NoError(t, err)

	assert.Equal(t, "ord_1", req.OrderID)
	assert.Equal(t, "usr_1", req.UserID)
	assert.Equal(t, "Jane Doe", req.CustomerName)
	assert.Equal(t, "jane@example.com", req.CustomerEmail)
	assert.Equal(t, req.BillingAddress, req.ShippingAddress)

	require.NotNil(t, req.ShippingAddress.State)
	assert.NotSame(t, req.BillingAddress.State, req.ShippingAddress.State)
}

func TestExtractOrderCompletionNormalizesMissingFields(t *testing.T) {
	session := sessionObject()
	session["customer_details"] = map[string]any{
		"name":    " Jane Doe ",
		"address": map[string]any{"line1": "1 Main St"},
	}

	req, err := ExtractOrderCompletion(mustJSON(t, session))
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", req.BillingAddress.Name)
	assert.Equal(t, "1 Main St", req.BillingAddress.Street)
	assert.Empty(t, req.BillingAddress.City)
	assert.Empty(t, req.BillingAddress.PostalCode)
	assert.Empty(t, req.BillingAddress.Country)
	assert.Nil(t, req.BillingAddress.State)
	assert.Nil(t, req.BillingAddress.PhoneNumber)
	assert.Empty(t, req.CustomerEmail)
}

func TestExtractOrderCompletionShippingNameFallsBack(t *testing.T) {
	session := sessionObject()
	session["shipping_details"] = map[string]any{
		"address": map[string]any{"line1": "9 Side Rd", "country": "US"},
	}

	req, err := ExtractOrderCompletion(mustJSON(t, session))
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", req.ShippingAddress.Name)
	assert.Equal(t, "9 Side Rd", req.ShippingAddress.Street)
	assert.Nil(t, req.ShippingAddress.State)
}

func TestExtractOrderCompletionMalformed(t *testing.T) {
	_, err := ExtractOrderCompletion(json.RawMessage(`{"metadata": "not-a-map"}`))
	require.ErrorIs(t, err, ErrMalformedPayload)
	assert.True(t, IsValidationError(err))
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		err        error
		signature  bool
		validation bool
		retryable  bool
	}{
		{ErrMissingSignature, true, false, false},
		{ErrInvalidSignature, true, false, false},
		{ErrMissingMetadata, false, true, false},
		{ErrMalformedPayload, false, true, false},
		{ErrOrderNotFound, false, false, false},
		{ErrPersistence, false, false, true},
		{errors.Join(errors.New("disk full"), ErrPersistence), false, false, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.signature, IsSignatureError(tt.err), "%v", tt.err)
		assert.Equal(t, tt.validation, IsValidationError(tt.err), "%v", tt.err)
		assert.Equal(t, tt.retryable, IsRetryable(tt.err), "%v", tt.err)
	}
}
