package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/benvon/healthcheck-api/internal/cors"
	"github.com/benvon/healthcheck-api/internal/ratelimit"
	"github.com/benvon/healthcheck-api/internal/validation"
	"github.com/spf13/viper"
)

// DefaultEnvFile is read when ENV_FILE is not set. A missing file is fine.
const DefaultEnvFile = ".env"

// Config holds application configuration
type Config struct {
	Env                  cors.Environment `validate:"required"`
	ServerPort           string           `validate:"required,numeric"`
	ServerDebugMode      bool
	EnableHSTS           bool
	TrustProxyHeaders    bool
	RateLimit            string `validate:"required,rate_spec"`
	RateLimitStorageURL  string `validate:"required,storage_url"`
	CORSOrigins          string `validate:"cors_origins"`
	CORSAllowCredentials bool
	CORSAllowMethods     string `validate:"required"`
	CORSAllowHeaders     string `validate:"required"`
	CORSMaxAge           int    `validate:"gte=0"`
	OTELEnabled          bool
	OTELEndpoint         string
}

var defaults = map[string]any{
	"env":                         string(cors.Development),
	"server_port":                 "8080",
	"server_debug_mode":           false,
	"enable_hsts":                 false,
	"trust_proxy_headers":         false,
	"rate_limiter":                ratelimit.DefaultRate,
	"rate_limit_storage_url":      ratelimit.DefaultStorageURL,
	"cors_origins":                cors.Wildcard,
	"cors_allow_credentials":      true,
	"cors_allow_methods":          "GET,POST,PUT,DELETE,OPTIONS,PATCH",
	"cors_allow_headers":          cors.Wildcard,
	"cors_max_age":                86400,
	"otel_enabled":                false,
	"otel_exporter_otlp_endpoint": "",
}

// Load loads configuration from the env file named by ENV_FILE (default
// .env) and the process environment. Environment variables win.
func Load() (*Config, error) {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = DefaultEnvFile
	}
	return LoadFile(path)
}

// LoadFile is Load with an explicit env file path.
func LoadFile(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
			return nil, fmt.Errorf("read env file %s: %w", path, err)
		}
	}
	return fromViper(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	// A variable set to "" overrides the default, so CORS_ORIGINS= denies
	// every origin instead of falling back to the wildcard.
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()
	return v
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Env:                  cors.Environment(v.GetString("env")),
		ServerPort:           v.GetString("server_port"),
		ServerDebugMode:      v.GetBool("server_debug_mode"),
		EnableHSTS:           v.GetBool("enable_hsts"),
		TrustProxyHeaders:    v.GetBool("trust_proxy_headers"),
		RateLimit:            v.GetString("rate_limiter"),
		RateLimitStorageURL:  v.GetString("rate_limit_storage_url"),
		CORSOrigins:          v.GetString("cors_origins"),
		CORSAllowCredentials: v.GetBool("cors_allow_credentials"),
		CORSAllowMethods:     v.GetString("cors_allow_methods"),
		CORSAllowHeaders:     v.GetString("cors_allow_headers"),
		CORSMaxAge:           v.GetInt("cors_max_age"),
		OTELEnabled:          v.GetBool("otel_enabled"),
		OTELEndpoint:         v.GetString("otel_exporter_otlp_endpoint"),
	}

	if err := validation.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// CORS returns the raw CORS settings for the resolver.
func (c *Config) CORS() cors.RawConfig {
	return cors.RawConfig{
		Origins:      c.CORSOrigins,
		AllowMethods: c.CORSAllowMethods,
		AllowHeaders: c.CORSAllowHeaders,
		Environment:  c.Env,
	}
}
