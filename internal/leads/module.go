// Package leads provides the lead analysis bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"fmt"

	"lead_analyzer_backend/internal/events"
	apphttp "lead_analyzer_backend/internal/http"
	"lead_analyzer_backend/internal/leads/email"
	"lead_analyzer_backend/internal/leads/handler"
	"lead_analyzer_backend/internal/leads/metrics"
	"lead_analyzer_backend/internal/leads/ports"
	"lead_analyzer_backend/internal/leads/provider"
	"lead_analyzer_backend/internal/leads/service"
	"lead_analyzer_backend/platform/config"
	"lead_analyzer_backend/platform/logger"
	"lead_analyzer_backend/platform/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// Config combines the config interfaces the leads module reads.
type Config interface {
	config.ProviderConfig
	config.EmailConfig
	config.CacheConfig
}

// Deps carries optional infrastructure. A nil Redis disables the metrics
// cache; a nil Registerer disables Prometheus collectors.
type Deps struct {
	Redis    redis.Cmdable
	EventBus events.Bus
	Metrics  prometheus.Registerer
}

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(cfg Config, deps Deps, val *validator.Validator, log *logger.Logger) (*Module, error) {
	metricsProvider, err := provider.New(cfg, log)
	if err != nil {
		return nil, err
	}
	if deps.Redis != nil && cfg.IsCacheEnabled() {
		metricsProvider = provider.NewCached(metricsProvider, deps.Redis, cfg.GetMetricsCacheTTL(), log)
		log.Info("lead metrics cache enabled", "ttl", cfg.GetMetricsCacheTTL().String())
	}

	verifier, err := email.New(cfg, log)
	if err != nil {
		return nil, err
	}

	if deps.Metrics != nil {
		recorder, err := metrics.NewRecorder(deps.Metrics)
		if err != nil {
			return nil, fmt.Errorf("register lead metrics: %w", err)
		}
		recorder.Subscribe(deps.EventBus)
	}

	svc := service.New(metricsProvider, verifier, val, deps.EventBus, log)
	log.Info("leads module initialized", "provider", svc.ProviderName(), "emailValidator", cfg.GetEmailValidator())

	return &Module{
		handler: handler.New(svc),
		service: svc,
	}, nil
}

// NewModuleWith builds the module around an explicit provider and verifier.
func NewModuleWith(metricsProvider ports.MetricsProvider, verifier ports.EmailVerifier, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(metricsProvider, verifier, val, bus, log)
	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the analysis service for non-HTTP callers.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterHealthRoutes(ctx.API)
	m.handler.RegisterRoutes(ctx.Limited)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
