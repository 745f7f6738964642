package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/awaismughal2020/prodex/internal/config"
	dbRedis "github.com/awaismughal2020/prodex/internal/db/redis"
	domrec "github.com/awaismughal2020/prodex/internal/domain/recommend"
	logpkg "github.com/awaismughal2020/prodex/internal/logger"
	"github.com/awaismughal2020/prodex/internal/metrics"
	"github.com/awaismughal2020/prodex/internal/repository/index"
	chiTransport "github.com/awaismughal2020/prodex/internal/transport/chi"
	cataloguc "github.com/awaismughal2020/prodex/internal/usecase/catalog"
	healthuc "github.com/awaismughal2020/prodex/internal/usecase/health"
	recommenduc "github.com/awaismughal2020/prodex/internal/usecase/recommend"
	searchuc "github.com/awaismughal2020/prodex/internal/usecase/search"
	"github.com/awaismughal2020/prodex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting prodex API server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register service metrics explicitly (no init())
	metrics.RegisterServiceMetrics()

	table, err := cfg.WeightTable()
	if err != nil {
		logger.Fatal("Invalid search field config", zap.Error(err))
	}

	repo := index.New(store).
		WithKeyPrefix(cfg.Storage.KeyPrefix).
		WithCacheSize(cfg.Storage.CacheSize)

	if err := repo.EnsureSchema(ctx, table); err != nil {
		logger.Fatal("Failed to ensure search index", zap.Error(err))
	}
	logger.Info("Search index ready")

	// Create use case services
	searchSvc := searchuc.New(repo, table).
		WithFacets(cfg.Search.Facets).
		WithPriceBounds(cfg.Search.PriceBuckets)

	content := recommenduc.NewContentSimilarity(repo).WithWeights(
		cfg.Recommend.TagSimilarity,
		cfg.Recommend.CategoryBonus,
		cfg.Recommend.BrandBonus,
	)
	recommendSvc := recommenduc.New(repo, []recommenduc.Strategy{
		content,
		recommenduc.NewCategoryAffinity(repo),
		recommenduc.NewRatingPopularity(repo),
	}, logger).
		WithWeights(recommenduc.Weights{
			domrec.StrategyContent:    cfg.Recommend.ContentWeight,
			domrec.StrategyCategory:   cfg.Recommend.CategoryWeight,
			domrec.StrategyPopularity: cfg.Recommend.PopularityWeight,
		}).
		WithTimeout(time.Duration(cfg.Recommend.TimeoutMS) * time.Millisecond).
		WithLimits(cfg.Recommend.DefaultLimit, cfg.Recommend.MaxLimit)

	catalogSvc := cataloguc.New(repo, logger)
	healthSvc := healthuc.New(store)

	if cfg.Catalog.Seed {
		if err := catalogSvc.Seed(ctx); err != nil {
			logger.Fatal("Failed to seed catalog", zap.Error(err))
		}
		logger.Info("Catalog seeded")
	}

	server := chiTransport.NewServer(searchSvc, recommendSvc, catalogSvc, healthSvc, logger).
		WithPageSizes(cfg.Search.DefaultPageSize, cfg.Search.MaxPageSize)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
