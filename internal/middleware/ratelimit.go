package middleware

import (
	"encoding/json"
	"net/http"
	"strconv"

	logpkg "github.com/benvon/healthcheck-api/internal/logger"
	"github.com/benvon/healthcheck-api/internal/models"
	"github.com/benvon/healthcheck-api/internal/ratelimit"
	"github.com/ulule/limiter/v3"
	stdlibmw "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"go.uber.org/zap"
)

// RateLimiter limits requests per client key with ulule/limiter. Every
// configured rate applies; a request must fit within all of them.
type RateLimiter struct {
	limiters []*limiter.Limiter
	rates    []limiter.Rate
	keyFunc  func(*http.Request) string
	exempt   map[string]bool
	log      *zap.Logger
}

// NewRateLimiter creates a rate limiter over store. keyFunc identifies the
// client, usually request.KeyFunc.
func NewRateLimiter(store limiter.Store, rates []limiter.Rate, keyFunc func(*http.Request) string, log *zap.Logger) *RateLimiter {
	limiters := make([]*limiter.Limiter, len(rates))
	for i, rate := range rates {
		limiters[i] = limiter.New(store, rate)
	}
	return &RateLimiter{
		limiters: limiters,
		rates:    rates,
		keyFunc:  keyFunc,
		exempt:   make(map[string]bool),
		log:      log,
	}
}

// Exempt excludes exact request paths from limiting. Call before Middleware.
func (rl *RateLimiter) Exempt(paths ...string) *RateLimiter {
	for _, p := range paths {
		rl.exempt[p] = true
	}
	return rl
}

// Rates returns the configured rates.
func (rl *RateLimiter) Rates() []limiter.Rate {
	return rl.rates
}

// Middleware returns the rate limiting middleware.
func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		limited := next
		for i := len(rl.limiters) - 1; i >= 0; i-- {
			limited = rl.wrap(i, limited)
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rl.exempt[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			limited.ServeHTTP(w, r)
		})
	}
}

// wrap applies the i-th rate in front of inner.
func (rl *RateLimiter) wrap(i int, inner http.Handler) http.Handler {
	rate := rl.rates[i]
	return stdlibmw.NewMiddleware(rl.limiters[i],
		stdlibmw.WithKeyGetter(rl.keyFor(i)),
		stdlibmw.WithLimitReachedHandler(rl.limitReached(rate)),
		stdlibmw.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			// Fail open: an unavailable store must not take the API down.
			rl.log.Warn("rate_limit_store_error",
				zap.Error(err),
				zap.String("path", logpkg.SanitizePath(r.URL.Path)),
			)
			inner.ServeHTTP(w, r)
		}),
	).Handler(inner)
}

// keyFor keeps counters of different rates apart in a shared store.
func (rl *RateLimiter) keyFor(i int) func(*http.Request) string {
	if len(rl.rates) == 1 {
		return rl.keyFunc
	}
	suffix := ":" + strconv.Itoa(i)
	return func(r *http.Request) string {
		return rl.keyFunc(r) + suffix
	}
}

func (rl *RateLimiter) limitReached(rate limiter.Rate) stdlibmw.LimitReachedHandler {
	retryAfter := ratelimit.RetryAfterSeconds(rate)
	return func(w http.ResponseWriter, r *http.Request) {
		rl.log.Info("rate_limit_exceeded",
			zap.String("client", logpkg.SanitizeHost(rl.keyFunc(r))),
			zap.String("method", r.Method),
			zap.String("path", logpkg.SanitizePath(r.URL.Path)),
			zap.String("rate", rate.Formatted),
			zap.Int("retry_after_seconds", retryAfter),
		)

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		w.WriteHeader(http.StatusTooManyRequests)
		if err := json.NewEncoder(w).Encode(models.NewRateLimitExceededResponse(retryAfter)); err != nil {
			rl.log.Error("failed_to_encode_rate_limit_response", zap.Error(err))
		}
	}
}
