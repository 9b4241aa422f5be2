package config

import (
	"errors"
	"fmt"
	"go.uber.org/zap/zapcore"
)

var _ Defaults = (*LogConfig)(nil)
var _ Validator = (*LogConfig)(nil)

type LogConfig struct {
	Level string `config:"level"`
}

func (c LogConfig) Defaults() map[string]any {
	return map[string]any{
		"level": "info",
	}
}

func (c LogConfig) Validate() error {
	if c.Level == "" {
		return errors.New("log.level is required")
	}

	if _, err := zapcore.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	return nil
}
