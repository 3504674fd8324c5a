// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Metric provider names accepted by METRICS_PROVIDER.
const (
	ProviderMock   = "mock"
	ProviderRandom = "random"
	ProviderAPI    = "api"
)

// Email validator names accepted by EMAIL_VALIDATOR.
const (
	EmailValidatorFormat = "format"
	EmailValidatorAPI    = "api"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// RateLimitConfig provides per-IP rate limit settings.
type RateLimitConfig interface {
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// ProviderConfig selects and configures the raw metrics source.
type ProviderConfig interface {
	GetMetricsProvider() string
	GetScrapeAPIURL() string
	GetScrapeAPIKey() string
	GetUpstreamTimeout() time.Duration
}

// EmailConfig selects and configures email verification.
type EmailConfig interface {
	GetEmailValidator() string
	GetEmailValidationAPIURL() string
	GetEmailValidationAPIKey() string
	GetUpstreamTimeout() time.Duration
}

// CacheConfig provides settings for the Redis metrics cache.
type CacheConfig interface {
	GetRedisURL() string
	GetMetricsCacheTTL() time.Duration
	IsCacheEnabled() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                   string
	HTTPAddr              string
	CORSAllowAll          bool
	CORSOrigins           []string
	CORSAllowCreds        bool
	RateLimitRPS          float64
	RateLimitBurst        int
	MetricsProvider       string
	ScrapeAPIURL          string
	ScrapeAPIKey          string
	EmailValidator        string
	EmailValidationAPIURL string
	EmailValidationAPIKey string
	UpstreamTimeout       time.Duration
	RedisURL              string
	MetricsCacheTTL       time.Duration
}

// =============================================================================
// Interface Implementations
// =============================================================================

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// RateLimitConfig implementation
func (c *Config) GetRateLimitRPS() float64 { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int   { return c.RateLimitBurst }

// ProviderConfig implementation
func (c *Config) GetMetricsProvider() string        { return c.MetricsProvider }
func (c *Config) GetScrapeAPIURL() string           { return c.ScrapeAPIURL }
func (c *Config) GetScrapeAPIKey() string           { return c.ScrapeAPIKey }
func (c *Config) GetUpstreamTimeout() time.Duration { return c.UpstreamTimeout }

// EmailConfig implementation
func (c *Config) GetEmailValidator() string        { return c.EmailValidator }
func (c *Config) GetEmailValidationAPIURL() string { return c.EmailValidationAPIURL }
func (c *Config) GetEmailValidationAPIKey() string { return c.EmailValidationAPIKey }

// CacheConfig implementation
func (c *Config) GetRedisURL() string               { return c.RedisURL }
func (c *Config) GetMetricsCacheTTL() time.Duration { return c.MetricsCacheTTL }
func (c *Config) IsCacheEnabled() bool              { return c.RedisURL != "" && c.MetricsCacheTTL > 0 }

// Load reads configuration from environment variables, after loading a
// .env file when one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() (*Config, error) {
	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "*"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                   getEnv("APP_ENV", "development"),
		HTTPAddr:              getEnv("HTTP_ADDR", ":5000"),
		CORSAllowAll:          corsAllowAll,
		CORSOrigins:           corsOrigins,
		CORSAllowCreds:        strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		RateLimitRPS:          mustFloat(getEnv("RATE_LIMIT_RPS", "5")),
		RateLimitBurst:        mustInt(getEnv("RATE_LIMIT_BURST", "10")),
		MetricsProvider:       strings.ToLower(strings.TrimSpace(getEnv("METRICS_PROVIDER", ProviderMock))),
		ScrapeAPIURL:          getEnv("SCRAPE_API_URL", ""),
		ScrapeAPIKey:          getEnv("SCRAPE_API_KEY", ""),
		EmailValidator:        strings.ToLower(strings.TrimSpace(getEnv("EMAIL_VALIDATOR", EmailValidatorFormat))),
		EmailValidationAPIURL: getEnv("EMAIL_VALIDATION_API_URL", ""),
		EmailValidationAPIKey: getEnv("EMAIL_VALIDATION_API_KEY", ""),
		UpstreamTimeout:       mustDuration(getEnv("UPSTREAM_TIMEOUT", "10s")),
		RedisURL:              getEnv("REDIS_URL", ""),
		MetricsCacheTTL:       mustDuration(getEnv("METRICS_CACHE_TTL", "1h")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.MetricsProvider {
	case ProviderMock, ProviderRandom:
	case ProviderAPI:
		if c.ScrapeAPIURL == "" {
			return fmt.Errorf("SCRAPE_API_URL is required when METRICS_PROVIDER is %q", ProviderAPI)
		}
	default:
		return fmt.Errorf("unknown METRICS_PROVIDER %q", c.MetricsProvider)
	}

	switch c.EmailValidator {
	case EmailValidatorFormat:
	case EmailValidatorAPI:
		if c.EmailValidationAPIURL == "" {
			return fmt.Errorf("EMAIL_VALIDATION_API_URL is required when EMAIL_VALIDATOR is %q", EmailValidatorAPI)
		}
	default:
		return fmt.Errorf("unknown EMAIL_VALIDATOR %q", c.EmailValidator)
	}

	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be a positive duration")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	if c.CORSAllowAll && c.CORSAllowCreds {
		return fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
