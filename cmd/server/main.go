package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"watershed/internal/directory/cache"
	"watershed/internal/directory/handler"
	dirmetrics "watershed/internal/directory/metrics"
	"watershed/internal/directory/ranker"
	"watershed/internal/directory/resolver"
	"watershed/internal/directory/service"
	"watershed/internal/directory/store"
	"watershed/internal/platform/config"
	"watershed/internal/platform/httpserver"
	"watershed/internal/platform/logger"
	"watershed/internal/platform/metrics"
	"watershed/internal/platform/middleware"
	platformredis "watershed/internal/platform/redis"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Resolution logic lives in internal/directory.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	var st store.Store
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = db.PingContext(pingCtx)
		cancel()
		if err != nil {
			log.Error("ping postgres", "error", err)
			os.Exit(1)
		}
		st = store.NewPostgres(db)
	} else {
		log.Warn("DATABASE_URL not set, using empty in-memory store")
		st = store.NewMemoryStore()
	}

	var resultCache cache.Cache
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		resultCache = cache.NewRedis(redisClient.Client)
		log.Info("result cache backed by redis")
	} else {
		resultCache = cache.NewMemory()
		log.Info("result cache in memory")
	}

	dirMetrics := dirmetrics.New()
	svc := service.New(
		resolver.New(st, resolver.WithLogger(log)),
		ranker.New(st, ranker.WithLogger(log)),
		st,
		service.WithCache(resultCache, cfg.CacheTTL),
		service.WithLogger(log),
		service.WithMetrics(dirMetrics),
	)

	httpMetrics := metrics.New()
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Instrument(httpMetrics))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/v1", func(r chi.Router) {
		handler.New(svc, log).Register(r)
	})

	srv := httpserver.New(cfg.Addr, r)

	log.Info("starting watershed", "addr", cfg.Addr, "cache_ttl", cfg.CacheTTL.String())

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
