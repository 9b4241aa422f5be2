package config

import (
	"errors"
	"fmt"
)

var _ Defaults = (*DatabaseConfig)(nil)
var _ Validator = (*DatabaseConfig)(nil)

type DatabaseConfig struct {
	Driver string `config:"driver"`
	DSN    string `config:"dsn"`
}

func (c DatabaseConfig) Defaults() map[string]any {
	return map[string]any{
		"driver": "sqlite",
		"dsn":    "fulfillment.db",
	}
}

func (c DatabaseConfig) Validate() error {
	switch c.Driver {
	case "sqlite", "mysql":
	default:
		return fmt.Errorf("database.driver must be sqlite or mysql, got %q", c.Driver)
	}

	if c.DSN == "" {
		return errors.New("database.dsn is required")
	}

	return nil
}
