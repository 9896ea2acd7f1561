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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/openregistry/prodex/internal/config"
	"github.com/openregistry/prodex/internal/ingest"
	logpkg "github.com/openregistry/prodex/internal/logger"
	"github.com/openregistry/prodex/internal/metrics"
	"github.com/openregistry/prodex/internal/repository/dataset"
	chiTransport "github.com/openregistry/prodex/internal/transport/chi"
	adminuc "github.com/openregistry/prodex/internal/usecase/admin"
	cataloguc "github.com/openregistry/prodex/internal/usecase/catalog"
	healthuc "github.com/openregistry/prodex/internal/usecase/health"
	searchuc "github.com/openregistry/prodex/internal/usecase/search"
	"github.com/openregistry/prodex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting prodex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("data_dir", cfg.Data.Dir),
		zap.Int("sources", len(cfg.Data.Sources)),
	)

	// Register ingest/dataset metrics explicitly (no init())
	metrics.RegisterIngestMetrics()

	// Build the ingestion pipeline and dataset cache.
	// Source order comes straight from config: slug stability depends on it.
	sources := sourcesFromConfig(cfg.Data.Sources)
	loader := ingest.NewLoader(cfg.Data.Dir, sources, cfg.Data.Enrichment, logger)
	cache := dataset.New(loader, cfg.SnapshotPath(), logger)

	// Create use case services
	searchSvc := searchuc.New(cache).
		WithPagination(cfg.Search.DefaultPageSize, cfg.Search.MaxPageSize)
	catalogSvc := cataloguc.New(cache)
	adminSvc := adminuc.New(cfg.Data.Dir, sources, cache, logger)
	healthSvc := healthuc.New(cache)

	server := chiTransport.NewServer(searchSvc, catalogSvc, adminSvc, healthSvc, cfg.Auth.APIKeys, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Routes(r)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

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

// sourcesFromConfig maps the config source list into pipeline sources,
// preserving order.
func sourcesFromConfig(cfgSources []config.SourceConfig) []ingest.Source {
	sources := make([]ingest.Source, len(cfgSources))
	for i, src := range cfgSources {
		sources[i] = ingest.Source{
			Name:         src.Name,
			Path:         src.Path,
			Shape:        ingest.Shape(src.Shape),
			IDPrefix:     src.IDPrefix,
			DefaultState: src.DefaultState,
			Enrich:       src.Enrich,
		}
	}
	return sources
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

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
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
