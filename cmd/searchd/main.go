// Command searchd runs the search service: it bootstraps the in-memory index
// from the configured page source, keeps it current from the Kafka page
// topic, and serves keyword searches over HTTP.
//
// Usage:
//
//	go run ./cmd/searchd [-config configs/development.yaml]
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

	"github.com/Adithya-Monish-Kumar-K/radix-search/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/radix-search/internal/indexer/consumer"
	"github.com/Adithya-Monish-Kumar-K/radix-search/internal/ingestion"
	ingesthandler "github.com/Adithya-Monish-Kumar-K/radix-search/internal/ingestion/handler"
	"github.com/Adithya-Monish-Kumar-K/radix-search/internal/ingestion/loader"
	"github.com/Adithya-Monish-Kumar-K/radix-search/internal/ingestion/store"
	"github.com/Adithya-Monish-Kumar-K/radix-search/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/radix-search/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/radix-search/internal/searcher/handler"
	"github.com/Adithya-Monish-Kumar-K/radix-search/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/radix-search/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/radix-search/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/radix-search/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/radix-search/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/radix-search/pkg/middleware"
	"github.com/Adithya-Monish-Kumar-K/radix-search/pkg/postgres"
	pkgredis "github.com/Adithya-Monish-Kumar-K/radix-search/pkg/redis"
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
	log := logger.WithComponent("searchd")
	log.Info("starting search service",
		"port", cfg.Server.Port,
		"source", cfg.Indexer.Source,
		"analyzer", cfg.Indexer.Analyzer,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New(prometheus.DefaultRegisterer)
	if cfg.Metrics.Enabled {
		shutdownMetrics := metrics.StartServer(cfg.Metrics.Port, prometheus.DefaultGatherer)
		defer shutdownMetrics(context.Background())
	}

	engine, err := indexer.NewEngine(cfg.Indexer, m)
	if err != nil {
		log.Error("failed to create index engine", "error", err)
		os.Exit(1)
	}
	checker := health.NewChecker()
	checker.Register("index_engine", func(context.Context) health.ComponentHealth {
		stats := engine.Stats()
		return health.ComponentHealth{
			Status:  health.StatusUp,
			Message: fmt.Sprintf("%d pages, %d terms", stats.Pages, stats.Terms),
		}
	})

	var db *postgres.Client
	if cfg.Postgres.Enabled {
		db, err = postgres.New(ctx, cfg.Postgres)
		if err != nil {
			log.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		checker.Register("postgres", health.Ping(db.Ping, health.StatusDegraded))
	}

	src, err := pageSource(ctx, cfg, db)
	if err != nil {
		log.Error("failed to open page source", "error", err)
		os.Exit(1)
	}
	if src != nil {
		n, err := engine.LoadSource(ctx, src)
		if err != nil {
			log.Warn("some pages could not be indexed", "error", err)
		}
		log.Info("index bootstrapped", "pages", n)
	}

	var queryCache *cache.QueryCache
	if cfg.Redis.Enabled {
		redisClient, err := pkgredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn("redis unavailable, search caching disabled", "error", err)
			checker.Register("redis", health.Static(health.StatusDegraded, err.Error()))
		} else {
			defer redisClient.Close()
			queryCache = cache.New(redisClient, cfg.Redis, m)
			checker.Register("redis", health.Ping(redisClient.Ping, health.StatusDegraded))
			log.Info("search cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
		}
	}

	mux := http.NewServeMux()
	if cfg.Kafka.Enabled {
		pageConsumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.PageIngest, consumer.HandleMessage(engine))
		defer pageConsumer.Close()
		go func() {
			if err := pageConsumer.Start(ctx); err != nil {
				log.Error("page consumer stopped", "error", err)
			}
		}()
		checker.Register("kafka", health.Static(health.StatusUp, "consuming "+cfg.Kafka.Topics.PageIngest))
	} else {
		// no ingestion pipeline: accept pages directly
		mux.HandleFunc("POST /api/v1/pages", ingesthandler.New(consumer.NewDirect(engine)).Ingest)
	}

	h := handler.New(executor.New(engine), queryCache, engine, m, cfg.Search.DefaultLimit, cfg.Search.MaxResults)
	h.Register(mux)
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

	log.Info("search service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("search service stopped")
}

func pageSource(ctx context.Context, cfg *config.Config, db *postgres.Client) (ingestion.Source, error) {
	switch cfg.Indexer.Source {
	case config.SourceDir:
		return loader.NewDir(cfg.Indexer.DataDir, cfg.Indexer.LoadConcurrency), nil
	case config.SourcePostgres:
		pages := store.NewPages(db)
		if err := pages.Migrate(ctx); err != nil {
			return nil, err
		}
		return pages, nil
	default:
		return nil, nil
	}
}
