package config

import (
	"fmt"
	"github.com/hashicorp/go-multierror"
)

// Defaults is implemented by every config section so the loader can seed
// koanf before the file and environment layers are applied.
type Defaults interface {
	Defaults() map[string]any
}

type Validator interface {
	Validate() error
}

var _ Defaults = (*Config)(nil)
var _ Validator = (*Config)(nil)

type Config struct {
	HTTP     HTTPConfig     `config:"http"`
	Database DatabaseConfig `config:"database"`
	Stripe   StripeConfig   `config:"stripe"`
	Email    EmailConfig    `config:"email"`
	Log      LogConfig      `config:"log"`
}

func (c Config) Defaults() map[string]any {
	defaults := make(map[string]any)

	sections := map[string]Defaults{
		"http":     c.HTTP,
		"database": c.Database,
		"stripe":   c.Stripe,
		"email":    c.Email,
		"log":      c.Log,
	}

	for prefix, section := range sections {
		for key, value := range section.Defaults() {
			defaults[fmt.Sprintf("%s.%s", prefix, key)] = value
		}
	}

	return defaults
}

func (c Config) Validate() error {
	var result *multierror.Error

	for _, section := range []Validator{c.HTTP, c.Database, c.Stripe, c.Email, c.Log} {
		if err := section.Validate(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}
