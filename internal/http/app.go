// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"lead_analyzer_backend/platform/config"
	"lead_analyzer_backend/platform/logger"

	"github.com/prometheus/client_golang/prometheus"
)

// RouterConfig combines the config interfaces needed by the HTTP router.
type RouterConfig interface {
	config.HTTPConfig
	config.RateLimitConfig
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration (HTTP and rate limit settings only).
	Config RouterConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Metrics is exposed on /metrics through the router's metrics module.
	// Nil disables the endpoint.
	Metrics prometheus.Gatherer
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
