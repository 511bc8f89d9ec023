package config

import (
	"github.com/benvon/healthcheck-api/internal/cors"
	"github.com/benvon/healthcheck-api/internal/models"
	"github.com/benvon/healthcheck-api/internal/validation"
)

// CORSReport resolves the CORS settings and collects everything worth
// warning about: origins the resolver drops, method or header names that are
// not HTTP tokens, and the security verdict for the environment.
func (c *Config) CORSReport() models.CorsPolicyReport {
	policy := cors.Resolve(c.CORS())
	invalid := validation.InvalidTokens(policy.Methods)
	invalid = append(invalid, validation.InvalidTokens(policy.Headers)...)
	return models.CorsPolicyReport{
		Environment:      c.Env.String(),
		Origins:          policy.Origins,
		Methods:          policy.Methods,
		Headers:          policy.Headers,
		AllowCredentials: c.CORSAllowCredentials,
		MaxAge:           c.CORSMaxAge,
		Secure:           policy.Secure(c.Env),
		DroppedOrigins:   cors.DroppedOrigins(c.CORSOrigins),
		InvalidTokens:    invalid,
	}
}
