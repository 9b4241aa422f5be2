package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"github.com/Koushikachar/phone-case-E-commerce/internal/api"
	"github.com/Koushikachar/phone-case-E-commerce/internal/client/resend"
	"github.com/Koushikachar/phone-case-E-commerce/internal/config"
	"github.com/Koushikachar/phone-case-E-commerce/internal/db"
	"github.com/Koushikachar/phone-case-E-commerce/internal/email"
	"github.com/Koushikachar/phone-case-E-commerce/internal/metrics"
	"github.com/Koushikachar/phone-case-E-commerce/internal/repository"
	"github.com/Koushikachar/phone-case-E-commerce/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"net"
	"net/http"
	"time"
)

const shutdownTimeout = 30 * time.Second

// Models lists the tables owned by the fulfillment service.
var Models = db.Models

type App struct {
	cfg      *config.Config
	logger   *zap.Logger
	db       *gorm.DB
	registry *prometheus.Registry
	orders   *service.OrderServiceDefault
	api      *api.API
}

// New opens the database and wires every component from cfg. Nothing is
// served until Serve is called.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	conn, err := db.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	var notifier service.Notifier
	if cfg.Email.Enabled {
		renderer, err := email.NewRenderer()
		if err != nil {
			return nil, err
		}

		client, err := resend.NewClient(resend.ClientConfig{
			BaseURL:        cfg.Email.BaseURL,
			APIKey:         cfg.Email.APIKey,
			MaxRetries:     cfg.Email.MaxRetries,
			RetryDelay:     cfg.Email.RetryDelay,
			RequestTimeout: cfg.Email.Timeout,
		}, logger)
		if err != nil {
			return nil, err
		}

		notifier = email.NewDispatcher(client, renderer, cfg.Email.From, cfg.Email.Subject)
	} else {
		logger.Warn("email disabled, order confirmations will not be sent")
	}

	orders := service.NewOrderService(
		service.NewSignatureVerifier(cfg.Stripe.WebhookSecret, cfg.Stripe.Tolerance),
		repository.NewGormOrderStore(conn, logger.Named("store")),
		notifier,
		m,
		logger,
	)

	return &App{
		cfg:      cfg,
		logger:   logger,
		db:       conn,
		registry: registry,
		orders:   orders,
		api:      api.NewAPI(orders, sqlDB, m, registry, cfg.HTTP, logger),
	}, nil
}

func (a *App) Migrate(ctx context.Context) error {
	if err := db.Migrate(ctx, a.db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	a.logger.Info("database migrated", zap.Int("models", len(Models)))

	return nil
}

func (a *App) Handler() http.Handler {
	return a.api.Handler()
}

// Serve listens on the configured address until ctx is cancelled, then
// drains in-flight requests.
func (a *App) Serve(ctx context.Context) error {
	server := &http.Server{
		Addr:         a.cfg.HTTP.Listen,
		Handler:      a.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("starting HTTP server", zap.String("listen", a.cfg.HTTP.Listen))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.logger.Info("server shutdown complete")

	return nil
}

func (a *App) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
