package main

import (
	"fmt"
	fulfillment "github.com/Koushikachar/phone-case-E-commerce"
	"github.com/Koushikachar/phone-case-E-commerce/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"os/signal"
	"syscall"
)

func serveCmd(configPath *string) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the webhook, payment status and metrics endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return withApp(*configPath, func(app *fulfillment.App) error {
				if migrate {
					if err := app.Migrate(ctx); err != nil {
						return err
					}
				}
				return app.Serve(ctx)
			})
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "run database migrations before serving")

	return cmd
}

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the order and address tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*configPath, func(app *fulfillment.App) error {
				return app.Migrate(cmd.Context())
			})
		},
	}
}

func withApp(configPath string, fn func(app *fulfillment.App) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	app, err := fulfillment.New(cfg, logger)
	if err != nil {
		logger.Error("failed to start", zap.Error(err))
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("failed to close database", zap.Error(err))
		}
	}()

	return fn(app)
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = level

	return zapCfg.Build()
}
