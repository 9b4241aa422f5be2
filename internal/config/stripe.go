package config

import (
	"errors"
	"time"
)

var _ Defaults = (*StripeConfig)(nil)
var _ Validator = (*StripeConfig)(nil)

type StripeConfig struct {
	WebhookSecret string        `config:"webhook_secret"`
	Tolerance     time.Duration `config:"tolerance"`
}

func (c StripeConfig) Defaults() map[string]any {
	return map[string]any{
		"tolerance": "5m",
	}
}

func (c StripeConfig) Validate() error {
	if c.WebhookSecret == "" {
		return errors.New("stripe.webhook_secret is required")
	}

	if c.Tolerance <= 0 {
		return errors.New("stripe.tolerance must be positive")
	}

	return nil
}
