// Command ingestion starts the page ingestion HTTP service.
//
// The service accepts pages via POST /api/v1/pages, validates them, stores
// them in PostgreSQL when enabled, and publishes them to the Kafka page topic
// for the search service to index.
//
// Usage:
//
//	go run ./cmd/ingestion [-config configs/development.yaml]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Adithya-Monish-Kumar-K/radix-search/internal/ingestion/handler"
	"github.com/Adithya-Monish-Kumar-K/radix-search/internal/ingestion/publisher"
	"github.com/Adithya-Monish-Kumar-K/radix-search/internal/ingestion/store"
	"github.com/Adithya-Monish-Kumar-K/radix-search/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/radix-search/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/radix-search/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/radix-search/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/radix-search/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/radix-search/pkg/middleware"
	"github.com/Adithya-Monish-Kumar-K/radix-search/pkg/postgres"
)

func main() {
	configPath := flag.String("config", "", "path to config file; defaults and SP_* variables apply when empty")
	flag.Parse()
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting ingestion service", "port", cfg.Server.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New(prometheus.DefaultRegisterer)
	if cfg.Metrics.Enabled {
		shutdownMetrics := metrics.StartServer(cfg.Metrics.Port, prometheus.DefaultGatherer)
		defer shutdownMetrics(context.Background())
	}
	checker := health.NewChecker()

	var pageStore publisher.PageStore
	if cfg.Postgres.Enabled {
		db, err := postgres.New(ctx, cfg.Postgres)
		if err != nil {
			slog.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		pages := store.NewPages(db)
		if err := pages.Migrate(ctx); err != nil {
			slog.Error("failed to migrate page store", "error", err)
			os.Exit(1)
		}
		pageStore = pages
		checker.Register("postgres", health.Ping(db.Ping, health.StatusDown))
		slog.Info("connected to postgres")
	}

	producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.PageIngest)
	defer producer.Close()
	slog.Info("kafka producer initialized", "topic", cfg.Kafka.Topics.PageIngest)

	h := handler.New(publisher.New(pageStore, producer, m))
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/pages", h.Ingest)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	server := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: middleware.Chain(mux,
			middleware.RequestID,
			middleware.Metrics(m),
			middleware.Timeout(cfg.Server.RequestTimeout),
		),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()
	slog.Info("ingestion service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("ingestion service stopped")
}
