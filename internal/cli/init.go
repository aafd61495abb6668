// Package cli provides common CLI initialization utilities shared by the
// spese commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"speseledger/internal/config"
	applog "speseledger/internal/log"
)

// SetupLogger initializes structured logging at the given level and sets it
// as the default logger.
func SetupLogger(level string) *applog.Logger {
	cfg := applog.DefaultConfig()
	cfg.Level = applog.ParseLevel(level)
	cfg.Component = applog.ComponentCLI
	logger := applog.New(cfg)
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// A missing file is not an error.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration from the environment and
// validates it.
func LoadAndValidateConfig(logger *applog.Logger) (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed",
			applog.NewFields().WithError(err).WithErrorType(applog.ErrorTypeConfiguration).ToSlice()...)
		return nil, err
	}
	return cfg, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// Bootstrap runs the startup sequence shared by every command: .env, config,
// logger, then the application itself.
func Bootstrap(ctx context.Context) (*App, error) {
	LoadEnvFile()

	logger := SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg, err := LoadAndValidateConfig(logger)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.LogLevel != "" {
		logger = SetupLogger(cfg.LogLevel)
	}

	return Open(applog.WithContext(ctx, logger), cfg, logger)
}
