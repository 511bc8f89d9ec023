package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	logpkg "github.com/benvon/healthcheck-api/internal/logger"
	"github.com/benvon/healthcheck-api/internal/models"
	"github.com/benvon/healthcheck-api/internal/request"
	"go.uber.org/zap"
)

// Pinger is a dependency the extended health check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker handles health check requests
type HealthChecker struct {
	store Pinger
	log   *zap.Logger
	now   func() time.Time
}

// NewHealthChecker creates a new health checker. store may be nil.
func NewHealthChecker(store Pinger, log *zap.Logger) *HealthChecker {
	return &HealthChecker{store: store, log: log, now: time.Now}
}

// HealthCheck reports liveness. With ?mode=extended it also probes the rate
// limit store and answers 503 if that fails.
func (h *HealthChecker) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.log.Info("health_check_request",
		zap.String("client_host", logpkg.SanitizeHost(request.RemoteHost(r))),
	)

	response := models.HealthResponse{
		Status:    models.HealthStatusHealthy,
		Timestamp: h.now().UTC().Format(time.RFC3339),
	}
	statusCode := http.StatusOK

	if r.URL.Query().Get("mode") == "extended" {
		checks := make(map[string]string)
		if h.store == nil {
			checks["rate_limit_store"] = "not configured"
		} else if err := h.ping(r.Context()); err != nil {
			h.log.Warn("health_check_failed",
				zap.String("check", "rate_limit_store"),
				zap.Error(err),
			)
			response.Status = models.HealthStatusUnhealthy
			checks["rate_limit_store"] = models.HealthStatusUnhealthy
			statusCode = http.StatusServiceUnavailable
		} else {
			checks["rate_limit_store"] = models.HealthStatusHealthy
		}
		response.Checks = checks
	}

	writeJSON(w, statusCode, response, h.log)
}

func (h *HealthChecker) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return h.store.Ping(ctx)
}

// VersionResponse is returned by /version.
type VersionResponse struct {
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// Version returns a handler reporting version.
func Version(version string, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, VersionResponse{
			Version:   version,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}, log)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any, log *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed_to_encode_response", zap.Error(err), zap.Int("status_code", status))
	}
}
