package api

import (
	"context"
	"github.com/Koushikachar/phone-case-E-commerce/internal/api/messages"
	"github.com/Koushikachar/phone-case-E-commerce/internal/config"
	"github.com/Koushikachar/phone-case-E-commerce/internal/metrics"
	"github.com/Koushikachar/phone-case-E-commerce/service"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"net/http"
)

const stripeSignatureHeader = "Stripe-Signature"

// Pinger reports whether the order store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type API struct {
	orders   service.OrderService
	db       Pinger
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	cfg      config.HTTPConfig
	logger   *zap.Logger
}

// NewAPI builds the HTTP surface. gatherer may be nil, in which case
// /metrics is not mounted.
func NewAPI(orders service.OrderService, db Pinger, m *metrics.Metrics, gatherer prometheus.Gatherer, cfg config.HTTPConfig, logger *zap.Logger) *API {
	return &API{
		orders:   orders,
		db:       db,
		metrics:  m,
		gatherer: gatherer,
		cfg:      cfg,
		logger:   logger.Named("api"),
	}
}

func (a *API) Name() string {
	return service.ORDER_SERVICE
}

func (a *API) Configure(router *mux.Router) {
	statusCors := cors.New(cors.Options{
		AllowedOrigins: a.cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	})

	router.Handle("/api/webhooks", a.metrics.InstrumentHandler("webhook", http.HandlerFunc(a.handleWebhook))).Methods(http.MethodPost)
	router.Handle("/api/orders/{orderId}/payment-status", statusCors.Handler(a.metrics.InstrumentHandler("payment-status", http.HandlerFunc(a.getPaymentStatus)))).Methods(http.MethodGet, http.MethodOptions)
	router.Handle("/health", a.metrics.InstrumentHandler("health", http.HandlerFunc(a.health))).Methods(http.MethodGet)

	if a.gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(a.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
}

// Handler returns a router with every route mounted.
func (a *API) Handler() http.Handler {
	router := mux.NewRouter()
	a.Configure(router)
	return router
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	if err := a.db.PingContext(r.Context()); err != nil {
		a.logger.Error("database ping failed", zap.Error(err))
		a.encode(w, http.StatusServiceUnavailable, &messages.Response{OK: false, Error: "database unavailable"})
		return
	}

	a.encode(w, http.StatusOK, &messages.Response{OK: true})
}
