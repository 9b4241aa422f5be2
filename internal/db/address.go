package db

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
	"time"
)

var _ schema.Tabler = (*ShippingAddress)(nil)
var _ schema.Tabler = (*BillingAddress)(nil)

// Address holds the columns shared by shipping and billing rows. State and
// PhoneNumber are nullable, everything else is stored as an empty string when
// the provider did not collect it.
type Address struct {
	Name        string `gorm:"not null"`
	Street      string `gorm:"not null"`
	City        string `gorm:"not null"`
	PostalCode  string `gorm:"not null"`
	Country     string `gorm:"not null"`
	State       *string
	PhoneNumber *string
}

type ShippingAddress struct {
	ID        string  `gorm:"primaryKey;size:36"`
	Address   Address `gorm:"embedded"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a *ShippingAddress) TableName() string {
	return "shipping_addresses"
}

func (a *ShippingAddress) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

type BillingAddress struct {
	ID        string  `gorm:"primaryKey;size:36"`
	Address   Address `gorm:"embedded"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a *BillingAddress) TableName() string {
	return "billing_addresses"
}

func (a *BillingAddress) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

func (a *ShippingAddress) GetID() string {
	return a.ID
}

func (a *BillingAddress) GetID() string {
	return a.ID
}
