package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avasant/legal-judgment-assistant/internal/bootstrap"
	"github.com/avasant/legal-judgment-assistant/internal/config"
	"github.com/avasant/legal-judgment-assistant/internal/observability/logging"
	"github.com/avasant/legal-judgment-assistant/internal/observability/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	slog.SetDefault(logging.NewJSONLogger("indexer", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	indexerMetrics := metrics.NewIndexerMetrics("indexer")
	metricsServer := &http.Server{
		Addr:    ":" + cfg.IndexerMetricsPort,
		Handler: indexerMetrics.Handler(),
	}
	go func() {
		slog.Info("indexer_metrics_listening", "port", cfg.IndexerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("indexer_metrics_server_error", "error", err)
		}
	}()

	slog.Info("indexer_subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeIndexRequested(ctx, func(handlerCtx context.Context, fileName string) error {
		indexCtx, cancel := context.WithTimeout(handlerCtx, 5*time.Minute)
		defer cancel()

		indexerMetrics.StartJudgment()
		start := time.Now()
		indexErr := app.Indexer.IndexByFileName(indexCtx, fileName)
		indexerMetrics.FinishJudgment("indexer", time.Since(start), indexErr)

		if judgment, getErr := app.Repo.GetByFileName(indexCtx, fileName); getErr == nil {
			indexerMetrics.ObserveQueueLag("indexer", start.Sub(judgment.IngestedAt))
		}
		return indexErr
	})
	if err != nil {
		log.Fatalf("indexer subscribe error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsServer.Shutdown(shutdownCtx)
}
