package service

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/Koushikachar/phone-case-E-commerce/internal/db"
	"github.com/Koushikachar/phone-case-E-commerce/internal/repository"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79/webhook"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

const testWebhookSecret = "whsec_test_secret"

type fakeNotifier struct {
	mu   sync.Mutex
	sent []OrderConfirmation
	err  error
}

func (n *fakeNotifier) SendOrderConfirmation(_ context.Context, confirmation OrderConfirmation) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.err != nil {
		return "", n.err
	}

	n.sent = append(n.sent, confirmation)
	return "email_1", nil
}

func (n *fakeNotifier) Sent() []OrderConfirmation {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]OrderConfirmation(nil), n.sent...)
}

type testEnv struct {
	conn     *gorm.DB
	notifier *fakeNotifier
	service  *OrderServiceDefault
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn, err := db.Open(db.DriverSQLite, filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background(), conn))

	require.NoError(t, conn.Create(&db.Order{
		ID:              "ord_1",
		UserID:          "usr_1",
		ConfigurationID: "cfg_1",
		Amount:          14,
	}).Error)

	logger := zaptest.NewLogger(t)
	notifier := &fakeNotifier{}
	store := repository.NewGormOrderStore(conn, logger)

	return &testEnv{
		conn:     conn,
		notifier: notifier,
		service: NewOrderService(
			NewSignatureVerifier(testWebhookSecret, 5*time.Minute),
			store,
			notifier,
			nil,
			logger,
		),
	}
}

func (e *testEnv) order(t *testing.T) db.Order {
	t.Helper()

	var order db.Order
	require.NoError(t, e.conn.Preload("ShippingAddress").Preload("BillingAddress").First(&order, "id = ?", "ord_1").Error)
	return order
}

func (e *testEnv) addressCounts(t *testing.T) (shipping, billing int64) {
	t.Helper()

	require.NoError(t, e.conn.Model(&db.ShippingAddress{}).Count(&shipping).Error)
	require.NoError(t, e.conn.Model(&db.BillingAddress{}).Count(&billing).Error)
	return shipping, billing
}

// sessionObject returns a paid checkout session for ord_1 with only a billing
// address.
func sessionObject() map[string]any {
	return map[string]any{
		"id":             "cs_test_1",
		"object":         "checkout.session",
		"payment_status": "paid",
		"metadata": map[string]any{
			"orderId": "ord_1",
			"userId":  "usr_1",
		},
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
	}
}

func eventPayload(t *testing.T, eventType string, object map[string]any) []byte {
	t.Helper()

	payload, err := json.Marshal(map[string]any{
		"id":      "evt_test_1",
		"object":  "event",
		"type":    eventType,
		"created": time.Now().Unix(),
		"data":    map[string]any{"object": object},
	})
	require.NoError(t, err)
	return payload
}

func signPayload(payload []byte, secret string, timestamp time.Time) (body []byte, header string) {
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: timestamp,
	})
	return signed.Payload, signed.Header
}

func signedEvent(t *testing.T, eventType string, object map[string]any) (body []byte, header string) {
	t.Helper()
	return signPayload(eventPayload(t, eventType, object), testWebhookSecret, time.Now())
}

var errDelivery = errors.New("smtp unavailable")
