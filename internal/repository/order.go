package repository

import (
	"context"
	"errors"
	"fmt"
	"github.com/Koushikachar/phone-case-E-commerce/internal/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

type AddressKind string

const (
	AddressKindShipping AddressKind = "shipping"
	AddressKindBilling  AddressKind = "billing"
)

// PaymentUpdate is applied to an unpaid order once the provider confirms the
// payment.
type PaymentUpdate struct {
	ShippingAddressID string
	BillingAddressID  string
}

type OrderStore interface {
	// FindOrder returns the order owned by userID with both address
	// associations loaded. ErrNotFound is returned when no such order exists.
	FindOrder(ctx context.Context, orderID, userID string) (*db.Order, error)

	// CreateAddress inserts a new address row of the given kind and returns its id.
	CreateAddress(ctx context.Context, kind AddressKind, address db.Address) (string, error)

	// UpdateOrder marks the order paid and attaches the addresses, but only if
	// the order is still unpaid. The returned bool reports whether a row changed.
	UpdateOrder(ctx context.Context, orderID string, update PaymentUpdate) (bool, error)

	// Transaction runs fn against a store bound to a single database
	// transaction. Returning an error from fn rolls every write back.
	Transaction(ctx context.Context, fn func(store OrderStore) error) error
}

var _ OrderStore = (*GormOrderStore)(nil)

type GormOrderStore struct {
	conn   *gorm.DB
	logger *zap.Logger
}

func NewGormOrderStore(conn *gorm.DB, logger *zap.Logger) *GormOrderStore {
	return &GormOrderStore{conn: conn, logger: logger}
}

func (s *GormOrderStore) FindOrder(ctx context.Context, orderID, userID string) (*db.Order, error) {
	var order db.Order

	err := s.conn.WithContext(ctx).
		Preload("ShippingAddress").
		Preload("BillingAddress").
		Where(&db.Order{ID: orderID, UserID: userID}).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}

	return &order, nil
}

func (s *GormOrderStore) CreateAddress(ctx context.Context, kind AddressKind, address db.Address) (string, error) {
	var row interface {
		GetID() string
	}

	switch kind {
	case AddressKindShipping:
		row = &db.ShippingAddress{Address: address}
	case AddressKindBilling:
		row = &db.BillingAddress{Address: address}
	default:
		return "", fmt.Errorf("unknown address kind: %s", kind)
	}

	if err := s.conn.WithContext(ctx).Create(row).Error; err != nil {
		return "", fmt.Errorf("failed to create %s address: %w", kind, err)
	}

	return row.GetID(), nil
}

func (s *GormOrderStore) UpdateOrder(ctx context.Context, orderID string, update PaymentUpdate) (bool, error) {
	result := s.conn.WithContext(ctx).
		Model(&db.Order{}).
		Where("id = ? AND is_paid = ?", orderID, false).
		Updates(map[string]any{
			"is_paid":             true,
			"shipping_address_id": update.ShippingAddressID,
			"billing_address_id":  update.BillingAddressID,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to update order: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

func (s *GormOrderStore) Transaction(ctx context.Context, fn func(store OrderStore) error) error {
	return db.RetryableTransaction(ctx, s.logger, s.conn, func(tx *gorm.DB) error {
		return fn(&GormOrderStore{conn: tx, logger: s.logger})
	})
}
