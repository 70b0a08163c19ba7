// cmd/api-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"krishisahay/internal/api"
	"krishisahay/internal/common/config"
	"krishisahay/internal/common/logger"
	"krishisahay/internal/common/observability"
	"krishisahay/internal/pipeline"
	"krishisahay/internal/store"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting api server...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New(cfg.App.Name, cfg.Tracing.JaegerEndpoint)
	defer obs.Shutdown()

	ctx := context.Background()

	// Storage probing already degrades gracefully; the retry only covers
	// the window where a configured backend is still booting.
	var stores *store.Stores
	err = retryWithBackoff(func() error {
		stores = store.Probe(ctx, cfg, log)
		if stores.Backend == "noop" && (cfg.Database.Postgres.Configured() || cfg.Database.Redis.Configured()) {
			stores.Close()
			return fmt.Errorf("configured backends unreachable")
		}
		return nil
	}, 5, 2*time.Second, zapLog, "storage probe")
	if err != nil {
		zapLog.Warn("no configured backend came up, continuing without persistence", zap.Error(err))
		stores = store.Probe(ctx, &config.Config{}, log)
	}
	defer stores.Close()

	p := pipeline.New(stores, cfg.Pipeline, log).WithObservability(obs)
	server := api.NewServer(cfg, p, log)

	// Debug server: prometheus metrics and pprof.
	go func() {
		http.Handle("/metrics", promhttp.Handler())

		addr := fmt.Sprintf(":%d", cfg.Server.DebugPort)
		zapLog.Info("Debug server listening", zap.String("addr", addr))
		if err := http.ListenAndServe(addr, nil); err != nil {
			zapLog.Error("debug server failed", zap.Error(err))
		}
	}()

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}

	zapLog.Info("Server stopped")
}
