// Package ports defines the external collaborators the leads module consumes.
package ports

import (
	"context"

	"lead_analyzer_backend/internal/leads/transport"
	"lead_analyzer_backend/internal/scoring"
)

// MetricsProvider produces raw lead quality metrics for a URL.
// Implementations may return invalid or missing values; the scoring engine
// defaults them.
type MetricsProvider interface {
	Name() string
	Metrics(ctx context.Context, url string) (scoring.RawMetrics, error)
}

// EmailVerifier checks whether an email address is deliverable.
type EmailVerifier interface {
	Verify(ctx context.Context, address string) (transport.EmailValidation, error)
}
