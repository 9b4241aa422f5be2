package fulfillment

import (
	"bytes"
	"context"
	"encoding/json"
	"github.com/Koushikachar/phone-case-E-commerce/internal/client/resend"
	"github.com/Koushikachar/phone-case-E-commerce/internal/config"
	"github.com/Koushikachar/phone-case-E-commerce/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79/webhook"
	"go.uber.org/zap/zaptest"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type fakeResend struct {
	mu       sync.Mutex
	requests []resend.SendEmailRequest
}

func (f *fakeResend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req resend.SendEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	_, _ = w.Write([]byte(`{"id":"email_e2e"}`))
}

func testConfig(t *testing.T, resendURL string) *config.Config {
	t.Helper()

	return &config.Config{
		HTTP:     config.HTTPConfig{Listen: "127.0.0.1:0", MaxBodyBytes: 64 * 1024},
		Database: config.DatabaseConfig{Driver: db.DriverSQLite, DSN: filepath.Join(t.TempDir(), "e2e.db")},
		Stripe:   config.StripeConfig{WebhookSecret: "whsec_e2e", Tolerance: 5 * time.Minute},
		Email: config.EmailConfig{
			Enabled:    true,
			APIKey:     "re_e2e",
			BaseURL:    resendURL,
			From:       "CaseCobra <hello@casecobra.dev>",
			Subject:    "Thanks for your order!",
			MaxRetries: 1,
			RetryDelay: time.Millisecond,
			Timeout:    5 * time.Second,
		},
		Log: config.LogConfig{Level: "debug"},
	}
}

func TestOrderCompletionEndToEnd(t *testing.T) {
	mailer := &fakeResend{}
	resendServer := httptest.NewServer(mailer)
	t.Cleanup(resendServer.Close)

	app, err := New(testConfig(t, resendServer.URL), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	ctx := context.Background()
	require.NoError(t, app.Migrate(ctx))
	require.NoError(t, app.db.Create(&db.Order{ID: "ord_1", UserID: "usr_1", Amount: 14}).Error)

	payload, err := json.Marshal(map[string]any{
		"id":      "evt_e2e",
		"object":  "event",
		"type":    "checkout.session.completed",
		"created": time.Now().Unix(),
		"data": map[string]any{
			"object": map[string]any{
				"id":             "cs_e2e",
				"object":         "checkout.session",
				"payment_status": "paid",
				"metadata":       map[string]any{"orderId": "ord_1", "userId": "usr_1"},
				"customer_details": map[string]any{
					"name":  "Jane Doe",
					"email": "jane@example.com",
					"address": map[string]any{
						"line1":       "1 Main St",
						"city":        "Springfield",
						"postal_code": "00001",
						"country":     "US",
						"state":       "IL",
					},
				},
			},
		},
	})
	require.NoError(t, err)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    "whsec_e2e",
		Timestamp: time.Now(),
	})

	handler := app.Handler()

	for range 2 {
		req := httptest.NewRequest(http.MethodPost, "/api/webhooks", bytes.NewReader(signed.Payload))
		req.Header.Set("Stripe-Signature", signed.Header)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	}

	var order db.Order
	require.NoError(t, app.db.Preload("ShippingAddress").Preload("BillingAddress").First(&order, "id = ?", "ord_1").Error)
	assert.True(t, order.IsPaid)
	assert.Equal(t, order.ShippingAddress.Address, order.BillingAddress.Address)
	assert.Equal(t, "Jane Doe", order.ShippingAddress.Address.Name)

	var addresses int64
	require.NoError(t, app.db.Model(&db.ShippingAddress{}).Count(&addresses).Error)
	assert.EqualValues(t, 1, addresses)

	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	require.Len(t, mailer.requests, 1)
	assert.Equal(t, []string{"jane@example.com"}, mailer.requests[0].To)
	assert.Equal(t, "Thanks for your order!", mailer.requests[0].Subject)
	assert.Contains(t, mailer.requests[0].Html, "ord_1")
}

func TestServeShutsDownOnCancel(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.Email.Enabled = false

	app, err := New(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
