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

	httpadapter "github.com/avasant/legal-judgment-assistant/internal/adapters/http"
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
	slog.SetDefault(logging.NewJSONLogger("api", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	httpMetrics := metrics.NewHTTPServerMetrics("api")
	router := httpadapter.NewRouter(
		app.Assistant,
		app.Ingestor,
		app.Sessions,
		app.Archive,
		httpMetrics,
		httpadapter.RouterConfig{
			Service:             "api",
			RetrievalMode:       cfg.RetrievalMode,
			RateLimitRPS:        cfg.APIRateLimitRPS,
			RateLimitBurst:      cfg.APIRateLimitBurst,
			MaxInFlight:         cfg.APIMaxInFlight,
			BackpressureTimeout: time.Duration(cfg.APIBackpressureMs) * time.Millisecond,
		},
	).Handler()

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("api_listening", "port", cfg.APIPort, "retrieval_mode", cfg.RetrievalMode)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("api server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("api_shutdown_error", "error", err)
	}
}
