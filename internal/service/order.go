package service

import (
	"context"
	"errors"
	"fmt"
	"github.com/Koushikachar/phone-case-E-commerce/internal/db"
	"github.com/Koushikachar/phone-case-E-commerce/internal/metrics"
	"github.com/Koushikachar/phone-case-E-commerce/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"time"
)

const ORDER_SERVICE = "orders"

type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeIgnored   Outcome = "ignored"
)

// WebhookResult describes how an authentic event was handled. HandleWebhook
// also returns it alongside errors raised after verification so callers can
// label the failure with the event type.
type WebhookResult struct {
	EventID   string
	EventType string
	Outcome   Outcome
	OrderID   string
	Notified  bool
}

// UpdatedOrder is the order state after ApplyPayment. AlreadyPaid is set when
// the call changed nothing because an earlier delivery had paid the order.
type UpdatedOrder struct {
	OrderID           string
	UserID            string
	CreatedAt         time.Time
	ShippingAddressID string
	BillingAddressID  string
	AlreadyPaid       bool
}

type PaymentStatus struct {
	OrderID         string
	IsPaid          bool
	CreatedAt       time.Time
	ShippingAddress *db.Address
	BillingAddress  *db.Address
}

type OrderConfirmation struct {
	OrderID         string
	OrderDate       time.Time
	To              string
	ShippingAddress db.Address
}

// Notifier delivers the order confirmation and returns the provider's
// delivery id.
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, confirmation OrderConfirmation) (string, error)
}

var errConcurrentPayment = errors.New("order was paid concurrently")

type OrderServiceDefault struct {
	verifier Verifier
	store    repository.OrderStore
	notifier Notifier
	metrics  *metrics.Metrics
	logger   *zap.Logger
	inflight singleflight.Group
}

// NewOrderService wires the pipeline. notifier may be nil when email is
// disabled, and metrics may be nil in tests.
func NewOrderService(verifier Verifier, store repository.OrderStore, notifier Notifier, m *metrics.Metrics, logger *zap.Logger) *OrderServiceDefault {
	return &OrderServiceDefault{
		verifier: verifier,
		store:    store,
		notifier: notifier,
		metrics:  m,
		logger:   logger.Named(ORDER_SERVICE),
	}
}

func (s *OrderServiceDefault) HandleWebhook(ctx context.Context, body []byte, signature string) (*WebhookResult, error) {
	event, err := s.verifier.Verify(body, signature)
	if err != nil {
		s.logger.Warn("rejected webhook", zap.Error(err))
		return nil, err
	}

	result := &WebhookResult{EventID: event.ID, EventType: event.Type}
	logger := s.logger.With(zap.String("event_id", event.ID), zap.String("event_type", event.Type))

	if RouteEvent(event) == RouteIgnored {
		logger.Debug("ignoring event")
		result.Outcome = OutcomeIgnored
		return result, nil
	}

	req, err := ExtractOrderCompletion(event.Payload)
	if err != nil {
		logger.Warn("invalid checkout session", zap.Error(err))
		return result, err
	}
	req.EventID = event.ID
	result.OrderID = req.OrderID

	logger = logger.With(zap.String("order_id", req.OrderID), zap.String("user_id", req.UserID))

	updated, err := s.ApplyPayment(ctx, req)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			logger.Warn("order not found")
		} else {
			logger.Error("failed to apply payment", zap.Error(err))
		}
		return result, err
	}

	if updated.AlreadyPaid {
		logger.Info("order already paid, skipping")
		result.Outcome = OutcomeDuplicate
		return result, nil
	}

	logger.Info("order marked paid")
	result.Outcome = OutcomeCompleted
	result.Notified = s.notify(ctx, logger, req, updated)

	return result, nil
}

// ApplyPayment stores both addresses and marks the order paid in one
// transaction. Concurrent calls for the same order share a single attempt and
// only the caller that ran it sees a state change. The shared attempt is not
// tied to the cancellation of whichever caller started it.
func (s *OrderServiceDefault) ApplyPayment(ctx context.Context, req *OrderCompletionRequest) (*UpdatedOrder, error) {
	leader := false

	v, err, _ := s.inflight.Do(req.OrderID, func() (any, error) {
		leader = true
		return s.applyPayment(context.WithoutCancel(ctx), req)
	})
	if err != nil {
		return nil, err
	}

	updated := *v.(*UpdatedOrder)
	if !leader {
		updated.AlreadyPaid = true
	}

	return &updated, nil
}

func (s *OrderServiceDefault) applyPayment(ctx context.Context, req *OrderCompletionRequest) (*UpdatedOrder, error) {
	var updated *UpdatedOrder

	err := s.store.Transaction(ctx, func(store repository.OrderStore) error {
		order, err := store.FindOrder(ctx, req.OrderID, req.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		updated = &UpdatedOrder{
			OrderID:   order.ID,
			UserID:    order.UserID,
			CreatedAt: order.CreatedAt,
		}

		if order.IsPaid {
			updated.AlreadyPaid = true
			return nil
		}

		shippingID, err := store.CreateAddress(ctx, repository.AddressKindShipping, req.ShippingAddress)
		if err != nil {
			return err
		}

		billingID, err := store.CreateAddress(ctx, repository.AddressKindBilling, req.BillingAddress)
		if err != nil {
			return err
		}

		changed, err := store.UpdateOrder(ctx, order.ID, repository.PaymentUpdate{
			ShippingAddressID: shippingID,
			BillingAddressID:  billingID,
		})
		if err != nil {
			return err
		}
		if !changed {
			return errConcurrentPayment
		}

		updated.ShippingAddressID = shippingID
		updated.BillingAddressID = billingID

		return nil
	})

	switch {
	case err == nil:
		return updated, nil
	case errors.Is(err, errConcurrentPayment):
		return &UpdatedOrder{
			OrderID:     updated.OrderID,
			UserID:      updated.UserID,
			CreatedAt:   updated.CreatedAt,
			AlreadyPaid: true,
		}, nil
	case errors.Is(err, ErrOrderNotFound):
		return nil, err
	default:
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
}

// notify sends the confirmation email. Failures are logged and counted but
// never change the outcome of the webhook.
func (s *OrderServiceDefault) notify(ctx context.Context, logger *zap.Logger, req *OrderCompletionRequest, updated *UpdatedOrder) bool {
	if s.notifier == nil {
		logger.Debug("email disabled, skipping order confirmation")
		s.metrics.ObserveNotification(metrics.NotificationSkipped)
		return false
	}

	if req.CustomerEmail == "" {
		logger.Info("no customer email, skipping order confirmation")
		s.metrics.ObserveNotification(metrics.NotificationSkipped)
		return false
	}

	deliveryID, err := s.notifier.SendOrderConfirmation(ctx, OrderConfirmation{
		OrderID:         updated.OrderID,
		OrderDate:       updated.CreatedAt,
		To:              req.CustomerEmail,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		logger.Error("order confirmation not delivered", zap.Error(fmt.Errorf("%w: %w", ErrNotification, err)))
		s.metrics.ObserveNotification(metrics.NotificationFailed)
		// Don't fail the webhook
		return false
	}

	logger.Info("order confirmation sent", zap.String("delivery_id", deliveryID))
	s.metrics.ObserveNotification(metrics.NotificationSent)

	return true
}

func (s *OrderServiceDefault) GetPaymentStatus(ctx context.Context, orderID, userID string) (*PaymentStatus, error) {
	if orderID == "" || userID == "" {
		return nil, ErrOrderNotFound
	}

	order, err := s.store.FindOrder(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	status := &PaymentStatus{
		OrderID:   order.ID,
		IsPaid:    order.IsPaid,
		CreatedAt: order.CreatedAt,
	}

	if order.ShippingAddress != nil {
		status.ShippingAddress = &order.ShippingAddress.Address
	}
	if order.BillingAddress != nil {
		status.BillingAddress = &order.BillingAddress.Address
	}

	return status, nil
}
