package provider

import (
	"fmt"

	"lead_analyzer_backend/internal/leads/ports"
	"lead_analyzer_backend/platform/config"
	"lead_analyzer_backend/platform/logger"
)

// New builds the provider selected by METRICS_PROVIDER.
func New(cfg config.ProviderConfig, log *logger.Logger) (ports.MetricsProvider, error) {
	switch cfg.GetMetricsProvider() {
	case config.ProviderMock, "":
		return NewMock(), nil
	case config.ProviderRandom:
		return NewRandom(nil), nil
	case config.ProviderAPI:
		return NewAPI(cfg.GetScrapeAPIURL(), cfg.GetScrapeAPIKey(), cfg.GetUpstreamTimeout(), log), nil
	default:
		return nil, fmt.Errorf("unknown metrics provider %q", cfg.GetMetricsProvider())
	}
}

var (
	_ ports.MetricsProvider = (*Mock)(nil)
	_ ports.MetricsProvider = (*Random)(nil)
	_ ports.MetricsProvider = (*API)(nil)
	_ ports.MetricsProvider = (*Cached)(nil)
)
