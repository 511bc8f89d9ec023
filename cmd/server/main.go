package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benvon/healthcheck-api/internal/config"
	"github.com/benvon/healthcheck-api/internal/cors"
	"github.com/benvon/healthcheck-api/internal/handlers"
	"github.com/benvon/healthcheck-api/internal/logger"
	"github.com/benvon/healthcheck-api/internal/middleware"
	"github.com/benvon/healthcheck-api/internal/ratelimit"
	"github.com/benvon/healthcheck-api/internal/request"
	"github.com/benvon/healthcheck-api/internal/telemetry"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "1.0.0"

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	zapLogger, err := logger.New(cfg.Env, debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = logger.Sync(zapLogger)
	}()

	zapLogger.Info("starting_server",
		zap.String("version", version),
		zap.String("environment", cfg.Env.String()),
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.Bool("trust_proxy_headers", cfg.TrustProxyHeaders),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	report := cfg.CORSReport()
	zapLogger.Info("cors_policy_resolved",
		zap.Strings("origins", report.Origins),
		zap.Strings("methods", report.Methods),
		zap.Strings("headers", report.Headers),
		zap.Bool("allow_credentials", report.AllowCredentials),
		zap.Int("max_age", report.MaxAge),
	)
	if len(report.DroppedOrigins) > 0 {
		zapLogger.Warn("cors_origins_dropped", zap.Strings("origins", report.DroppedOrigins))
	}
	if len(report.InvalidTokens) > 0 {
		zapLogger.Warn("cors_invalid_header_tokens", zap.Strings("tokens", report.InvalidTokens))
	}
	if !report.Secure {
		zapLogger.Warn("cors_policy_insecure",
			zap.String("environment", report.Environment),
			zap.Strings("origins", report.Origins),
		)
	}
	if cors.HasWildcard(cfg.CORSOrigins) && cfg.Env.Kind() != cors.KindDevelopment {
		zapLogger.Warn("cors_wildcard_denied_outside_development",
			zap.String("environment", cfg.Env.String()),
		)
	}

	// OpenTelemetry
	var tracerProvider *sdktrace.TracerProvider
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), telemetry.Options{
				ServiceName:    telemetry.ServiceName,
				ServiceVersion: version,
				Endpoint:       cfg.OTELEndpoint,
			})
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				tracerProvider = tp
				zapLogger.Info("otel_tracer_initialized", zap.String("endpoint", cfg.OTELEndpoint))
			}
		}
	}

	// Rate limiting
	rates, err := ratelimit.ParseRates(cfg.RateLimit)
	if err != nil {
		zapLogger.Fatal("invalid_rate_limit", zap.Error(err))
	}
	storeCtx, storeCancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := ratelimit.NewStore(storeCtx, cfg.RateLimitStorageURL)
	storeCancel()
	if err != nil {
		zapLogger.Fatal("failed_to_open_rate_limit_store", zap.Error(err))
	}
	for _, rate := range rates {
		zapLogger.Info("rate_limiter_configured",
			zap.String("rate", rate.Formatted),
			zap.Int64("limit", rate.Limit),
			zap.Duration("period", rate.Period),
			zap.String("storage", store.Kind()),
		)
	}

	rateLimiter := middleware.NewRateLimiter(store, rates, request.KeyFunc(cfg.TrustProxyHeaders), zapLogger).
		Exempt("/api/v1/health", "/healthz")
	healthChecker := handlers.NewHealthChecker(store, zapLogger)

	r := mux.NewRouter()
	r.NotFoundHandler = middleware.NotFound(zapLogger)
	r.MethodNotAllowedHandler = middleware.MethodNotAllowed(zapLogger)

	// Middleware registered first wraps outermost.
	if tracerProvider != nil {
		r.Use(otelmux.Middleware(telemetry.ServiceName))
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	r.Use(middleware.CORS(cors.Resolve(cfg.CORS()), middleware.CORSOptions{
		AllowCredentials: cfg.CORSAllowCredentials,
		MaxAge:           cfg.CORSMaxAge,
		Debug:            debugMode,
	}, zapLogger))
	r.Use(rateLimiter.Middleware())
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.Timeout(middleware.DefaultRequestTimeout))
	r.Use(middleware.ErrorHandler(zapLogger))
	r.Use(middleware.Audit(zapLogger, request.KeyFunc(cfg.TrustProxyHeaders)))
	r.Use(middleware.Logging(zapLogger))

	r.HandleFunc("/api/v1/health", healthChecker.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")
	r.HandleFunc("/version", handlers.Version(version, zapLogger)).Methods("GET")

	if cfg.Env.Kind() == cors.KindDevelopment {
		handlers.NewOpenAPIHandler().RegisterRoutes(r)
		zapLogger.Info("api_docs_enabled")
	}

	// Preflight for any path; the CORS middleware has already written its headers.
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		zapLogger.Info("server_starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("server_forced_to_shutdown", zap.Error(err))
	}
	if err := store.Close(); err != nil {
		zapLogger.Warn("failed_to_close_rate_limit_store", zap.Error(err))
	}
	if err := telemetry.Shutdown(ctx, tracerProvider); err != nil {
		zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}
