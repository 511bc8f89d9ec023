package middleware

import (
	"net/http"

	"github.com/benvon/healthcheck-api/internal/cors"
	rscors "github.com/rs/cors"
	"go.uber.org/zap"
)

// standardMethods stands in for a wildcard method list; rs/cors has no
// method wildcard.
var standardMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodConnect,
	http.MethodOptions,
	http.MethodTrace,
}

// CORSOptions are the settings that sit beside the resolved policy.
type CORSOptions struct {
	AllowCredentials bool
	MaxAge           int
	Debug            bool
}

// CORSHandlerOptions maps a resolved policy onto rs/cors options.
func CORSHandlerOptions(policy cors.Policy, opts CORSOptions) rscors.Options {
	o := rscors.Options{
		AllowCredentials: opts.AllowCredentials,
		MaxAge:           opts.MaxAge,
		AllowedHeaders:   policy.Headers,
		ExposedHeaders:   []string{"Retry-After", "X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
	}

	switch {
	case policy.DeniesAllOrigins():
		// rs/cors treats an empty origin list as "allow all".
		o.AllowOriginFunc = func(string) bool { return false }
	case policy.AllowsAnyOrigin() && opts.AllowCredentials:
		// Credentialed responses may not carry "*"; reflect the origin instead.
		o.AllowOriginFunc = func(string) bool { return true }
	case policy.AllowsAnyOrigin():
		o.AllowedOrigins = []string{cors.Wildcard}
	default:
		o.AllowedOrigins = policy.Origins
	}

	if policy.AllowsAnyMethod() {
		o.AllowedMethods = standardMethods
	} else {
		o.AllowedMethods = policy.Methods
	}

	return o
}

// CORS applies the resolved policy to every request. Preflight requests are
// answered here and never reach the router.
func CORS(policy cors.Policy, opts CORSOptions, logger *zap.Logger) func(http.Handler) http.Handler {
	o := CORSHandlerOptions(policy, opts)
	if opts.Debug {
		o.Debug = true
		o.Logger = corsLogger{logger.Sugar()}
	}
	c := rscors.New(o)

	logger.Info("cors_middleware_initialized",
		zap.Strings("origins", policy.Origins),
		zap.Strings("methods", o.AllowedMethods),
		zap.Strings("headers", policy.Headers),
		zap.Bool("allow_credentials", opts.AllowCredentials),
		zap.Int("max_age", opts.MaxAge),
	)

	return c.Handler
}

type corsLogger struct {
	s *zap.SugaredLogger
}

func (l corsLogger) Printf(format string, v ...interface{}) {
	l.s.Debugf(format, v...)
}
