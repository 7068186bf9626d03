// Package cli consolidates the initialization shared by cmd/hisaab,
// cmd/hisaab-web and cmd/hisaab-worker.
package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"hisaab/internal/backend"
	"hisaab/internal/config"
	"hisaab/internal/events"
	"hisaab/internal/ledger"
	applog "hisaab/internal/log"
	"hisaab/internal/store"
)

// SetupLogger initializes structured logging and sets the default logger.
func SetupLogger() *slog.Logger {
	return applog.Setup()
}

// LoadEnvFile loads .env for local development. Missing files are fine.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration or exits on validation failure.
func LoadAndValidateConfig(logger *slog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// OpenLedger builds the configured store, the optional AMQP publisher and
// the ledger on top of them. The returned cleanup closes whatever was
// opened and is safe to defer immediately.
func OpenLedger(cfg *config.Config, logger *slog.Logger) (*ledger.Ledger, store.Store, func(), error) {
	st, err := backend.Open(cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	var publisher ledger.EventPublisher
	var eventsClient *events.Client
	if cfg.AMQPURL != "" {
		eventsClient, err = events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			// The ledger works fine without a broker; events are best effort.
			logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
		} else {
			logger.Info("Publishing ledger events", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
			publisher = eventsClient
		}
	}

	cleanup := func() {
		if eventsClient != nil {
			if err := eventsClient.Close(); err != nil {
				logger.Warn("Closing AMQP client", "error", err)
			}
		}
		if err := st.Close(); err != nil {
			logger.Warn("Closing store", "error", err)
		}
	}
	return ledger.New(st, publisher), st, cleanup, nil
}

// GracefulShutdown installs SIGINT/SIGTERM handling. The returned context
// is cancelled on signal after cleanup runs; done closes once shutdown
// finished.
func GracefulShutdown(logger *slog.Logger, timeout time.Duration, cleanup func()) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if cleanup != nil {
			cleanup()
		}
		cancel()

		select {
		case <-shutdownCtx.Done():
			logger.Warn("Shutdown timeout reached")
		case <-time.After(2 * time.Second):
			logger.Info("Shutdown complete")
		}
		close(done)
	}()

	return ctx, done
}
