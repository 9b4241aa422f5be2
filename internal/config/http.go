package config

import "errors"

var _ Defaults = (*HTTPConfig)(nil)
var _ Validator = (*HTTPConfig)(nil)

type HTTPConfig struct {
	Listen             string   `config:"listen"`
	MaxBodyBytes       int64    `config:"max_body_bytes"`
	CORSAllowedOrigins []string `config:"cors_allowed_origins"`
}

func (c HTTPConfig) Defaults() map[string]any {
	return map[string]any{
		"listen":               ":3000",
		"max_body_bytes":       64 * 1024,
		"cors_allowed_origins": []string{},
	}
}

func (c HTTPConfig) Validate() error {
	if c.Listen == "" {
		return errors.New("http.listen is required")
	}

	if c.MaxBodyBytes <= 0 {
		return errors.New("http.max_body_bytes must be positive")
	}

	return nil
}
