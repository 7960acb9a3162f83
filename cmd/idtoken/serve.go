package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/axent-pl/idtoken/config"
	"github.com/axent-pl/idtoken/metrics"
	"github.com/axent-pl/idtoken/server"
)

type ServeCmd struct {
	Config string `short:"c" default:"config.yaml" env:"CONFIG_PATH" help:"Path to the YAML configuration"`
}

func (cmd *ServeCmd) Run(ctx context.Context) error {
	cfg, err := config.Load(cmd.Config)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := config.InitLogger(cfg.Logging, os.Stdout)

	m := metrics.New()
	keys := cfg.Google.KeyStore()
	keys.Recorder = m
	verifier := cfg.Google.Verifier(keys)
	verifier.Recorder = m

	// warm the key cache; a failure here is retried on the first verification
	if _, err := keys.Keys(ctx); err != nil {
		logger.Warn("Initial JWKS fetch failed", "url", keys.URL, "error", err)
	}

	srv := server.New(cfg.Server, verifier, cfg.Google.ClientIDs, keys, m.Handler(), logger)
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.Any("error", err))
	}
	logger.Info("Service stopped")
	return nil
}
