package db

import (
	"time"
)

type OrderStatus string

const (
	OrderStatusAwaitingShipment OrderStatus = "awaiting_shipment"
	OrderStatusShipped          OrderStatus = "shipped"
	OrderStatusFulfilled        OrderStatus = "fulfilled"
)

// Order is created by the checkout flow before the customer is sent to the
// payment provider. The fulfillment pipeline only ever flips IsPaid and
// attaches the two address rows.
type Order struct {
	ID                string `gorm:"primaryKey;size:64"`
	UserID            string `gorm:"index;size:64;not null"`
	ConfigurationID   string `gorm:"size:64"`
	Amount            float64
	IsPaid            bool        `gorm:"not null;default:false"`
	Status            OrderStatus `gorm:"size:32;not null;default:awaiting_shipment"`
	ShippingAddressID *string     `gorm:"size:36"`
	ShippingAddress   *ShippingAddress
	BillingAddressID  *string `gorm:"size:36"`
	BillingAddress    *BillingAddress
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
