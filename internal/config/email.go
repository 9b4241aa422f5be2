package config

import (
	"errors"
	"time"
)

var _ Defaults = (*EmailConfig)(nil)
var _ Validator = (*EmailConfig)(nil)

type EmailConfig struct {
	Enabled    bool          `config:"enabled"`
	APIKey     string        `config:"api_key"`
	BaseURL    string        `config:"base_url"`
	From       string        `config:"from"`
	Subject    string        `config:"subject"`
	MaxRetries int           `config:"max_retries"`
	RetryDelay time.Duration `config:"retry_delay"`
	Timeout    time.Duration `config:"timeout"`
}

func (c EmailConfig) Defaults() map[string]any {
	return map[string]any{
		"enabled":     true,
		"base_url":    "https://api.resend.com",
		"from":        "CaseCobra <hello@casecobra.dev>",
		"subject":     "Thanks for your order!",
		"max_retries": 3,
		"retry_delay": "1s",
		"timeout":     "10s",
	}
}

func (c EmailConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.APIKey == "" {
		return errors.New("email.api_key is required")
	}

	if c.BaseURL == "" {
		return errors.New("email.base_url is required")
	}

	if c.From == "" {
		return errors.New("email.from is required")
	}

	return nil
}
