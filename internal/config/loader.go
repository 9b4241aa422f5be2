package config

import (
	"fmt"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/samber/lo"
	"strings"
)

const delim = "."

// envKeys maps the conventional deployment variables onto config keys.
var envKeys = map[string]string{
	"STRIPE_WEBHOOK_SECRET": "stripe.webhook_secret",
	"STRIPE_TOLERANCE":      "stripe.tolerance",
	"RESEND_API_KEY":        "email.api_key",
	"EMAIL_ENABLED":         "email.enabled",
	"EMAIL_FROM":            "email.from",
	"DATABASE_DRIVER":       "database.driver",
	"DATABASE_DSN":          "database.dsn",
	"HTTP_LISTEN":           "http.listen",
	"CORS_ALLOWED_ORIGINS":  "http.cors_allowed_origins",
	"LOG_LEVEL":             "log.level",
}

// listKeys are config keys whose environment value is a comma separated list.
var listKeys = map[string]bool{
	"http.cors_allowed_origins": true,
}

func envValue(name, value string) (string, any) {
	key := envKeys[name]
	if !listKeys[key] {
		return key, value
	}

	return key, lo.Compact(lo.Map(strings.Split(value, ","), func(item string, _ int) string {
		return strings.TrimSpace(item)
	}))
}

// Load builds the configuration from defaults, then the optional YAML file at
// path, then the environment. The result is validated before it is returned.
func Load(path string) (*Config, error) {
	k := koanf.New(delim)

	if err := k.Load(confmap.Provider(Config{}.Defaults(), delim), nil); err != nil {
		return nil, fmt.Errorf("failed to load config defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", delim, envValue), nil); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "config"}); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
