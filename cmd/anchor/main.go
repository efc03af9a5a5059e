package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/anchor/internal/config"
	dbRedis "github.com/kailas-cloud/anchor/internal/db/redis"
	logpkg "github.com/kailas-cloud/anchor/internal/logger"
	"github.com/kailas-cloud/anchor/internal/metrics"
	anchorrepo "github.com/kailas-cloud/anchor/internal/repository/anchor"
	approachrepo "github.com/kailas-cloud/anchor/internal/repository/approach"
	objectrepo "github.com/kailas-cloud/anchor/internal/repository/arobject"
	fingerprintrepo "github.com/kailas-cloud/anchor/internal/repository/fingerprint"
	magneticrepo "github.com/kailas-cloud/anchor/internal/repository/magnetic"
	chiTransport "github.com/kailas-cloud/anchor/internal/transport/chi"
	anchoruc "github.com/kailas-cloud/anchor/internal/usecase/anchor"
	approachuc "github.com/kailas-cloud/anchor/internal/usecase/approach"
	objectuc "github.com/kailas-cloud/anchor/internal/usecase/arobject"
	fingerprintuc "github.com/kailas-cloud/anchor/internal/usecase/fingerprint"
	guidanceuc "github.com/kailas-cloud/anchor/internal/usecase/guidance"
	healthuc "github.com/kailas-cloud/anchor/internal/usecase/health"
	magneticuc "github.com/kailas-cloud/anchor/internal/usecase/magnetic"
	"github.com/kailas-cloud/anchor/internal/version"
)

func main() {
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

	logger.Info("Starting anchor guidance server",
		zap.Stringer("build", version.Get()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	// Valkey and Redis share the rueidis store; Validate already rejected other drivers.
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

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	metrics.RegisterGuidanceMetrics()

	prefix := cfg.Storage.KeyPrefix
	anchorRepo := anchorrepo.New(store, prefix)
	objectRepo := objectrepo.New(store, prefix)
	fingerprintRepo := fingerprintrepo.New(store, prefix)
	vectorRepo := approachrepo.New(store, prefix)
	magneticRepo := magneticrepo.New(store, prefix)

	guidanceCfg := cfg.Guidance.Domain()
	tracker := guidanceuc.NewTracker(guidanceCfg.SessionIdleTTL, guidanceCfg.MaxSessions, logger)
	go tracker.Run(ctx, guidanceCfg.SessionSweepInterval)

	objectSvc := objectuc.New(objectRepo, anchorRepo, fingerprintRepo)
	server := chiTransport.NewServer(
		anchoruc.New(anchorRepo, objectRepo, fingerprintRepo, vectorRepo, magneticRepo, logger),
		objectSvc,
		fingerprintuc.New(fingerprintRepo, objectSvc),
		approachuc.New(vectorRepo, anchorRepo),
		magneticuc.New(magneticRepo, anchorRepo),
		guidanceuc.New(objectRepo, anchorRepo, fingerprintRepo, tracker, guidanceCfg, logger),
		healthuc.New(store, tracker),
		logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	// Stop the session sweeper before draining requests.
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully", zap.Int("sessions_dropped", tracker.Len()))
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    code,
		"message": message,
	})
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.String("path", r.URL.Path),
						zap.Stack("stacktrace"),
					)
					writeJSONError(w, http.StatusInternalServerError, "internal_error", "internal error")
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

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("route", chi.RouteContext(r.Context()).RoutePattern()),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
