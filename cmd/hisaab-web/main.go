package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"hisaab/internal/cli"
	apphttp "hisaab/internal/http"
	"hisaab/internal/taxonomy"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	lg, _, cleanup, err := cli.OpenLedger(cfg, logger)
	if err != nil {
		logger.Error("Failed to open the ledger store", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer cleanup()

	tax, err := taxonomy.Load(cfg.TaxonomyFile)
	if err != nil {
		logger.Error("Failed to load the category taxonomy", "error", err, "file", cfg.TaxonomyFile)
		os.Exit(1)
	}

	srv := apphttp.NewServer(":"+cfg.Port, lg, tax)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	logger.Info("Starting hisaab web server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	<-done
	logger.Info("Server stopped gracefully")
}
