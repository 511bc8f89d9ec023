package middleware

import (
	"net/http"

	logpkg "github.com/benvon/healthcheck-api/internal/logger"
	"go.uber.org/zap"
)

// Audit logs policy decisions worth monitoring: rate limit violations and
// cross-origin requests the CORS policy refused.
func Audit(logger *zap.Logger, clientKey func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			if wrapped.statusCode == http.StatusTooManyRequests {
				logger.Warn("rate_limit_violation",
					zap.String("method", r.Method),
					zap.String("path", logpkg.SanitizePath(r.URL.Path)),
					zap.String("ip", logpkg.SanitizeHost(clientKey(r))),
				)
			}

			origin := r.Header.Get("Origin")
			if origin != "" && w.Header().Get("Access-Control-Allow-Origin") == "" {
				logger.Warn("cors_origin_rejected",
					zap.String("origin", logpkg.SanitizeHost(origin)),
					zap.String("method", r.Method),
					zap.String("path", logpkg.SanitizePath(r.URL.Path)),
					zap.String("ip", logpkg.SanitizeHost(clientKey(r))),
				)
			}
		})
	}
}
