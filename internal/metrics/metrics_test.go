package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestObserve(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveWebhookEvent("checkout.session.completed", "completed")
	m.ObserveWebhookEvent("checkout.session.completed", "completed")
	m.ObserveWebhookEvent("", "invalid_signature")
	m.ObserveNotification(NotificationSent)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.WebhookEventsTotal.WithLabelValues("checkout.session.completed", "completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WebhookEventsTotal.WithLabelValues("unknown", "invalid_signature")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsTotal.WithLabelValues(NotificationSent)))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	m.ObserveWebhookEvent("x", "y")
	m.ObserveNotification(NotificationFailed)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	assert.NotNil(t, m.InstrumentHandler("noop", handler))
}

func TestInstrumentHandler(t *testing.T) {
	m := New(prometheus.NewRegistry())

	handler := m.InstrumentHandler("teapot", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("teapot", "GET", "418")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPRequestDuration))
}
