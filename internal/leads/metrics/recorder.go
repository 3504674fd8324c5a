// Package metrics exports lead analysis counters for Prometheus. It listens
// on the event bus so the analysis path never touches collectors directly.
package metrics

import (
	"context"

	"lead_analyzer_backend/internal/events"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "lead_analyzer"

// Recorder holds the lead analysis collectors.
type Recorder struct {
	analyses  *prometheus.CounterVec
	failures  *prometheus.CounterVec
	penalties *prometheus.CounterVec
	scores    *prometheus.HistogramVec
}

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Completed lead analyses.",
		}, []string{"provider"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_failures_total",
			Help:      "Rejected or failed lead analyses.",
		}, []string{"provider", "reason"}),
		penalties: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "penalties_total",
			Help:      "Threshold penalties applied to lead scores.",
		}, []string{"metric"}),
		scores: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "total_score",
			Help:      "Distribution of final lead scores.",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
		}, []string{"provider"}),
	}

	for _, c := range []prometheus.Collector{r.analyses, r.failures, r.penalties, r.scores} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Subscribe attaches the recorder to the analysis events on bus.
func (r *Recorder) Subscribe(bus events.Bus) {
	bus.Subscribe(events.LeadAnalyzed{}.EventName(), events.HandlerFunc(r.handleAnalyzed))
	bus.Subscribe(events.LeadAnalysisFailed{}.EventName(), events.HandlerFunc(r.handleFailed))
}

func (r *Recorder) handleAnalyzed(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadAnalyzed)
	if !ok {
		return nil
	}
	r.analyses.WithLabelValues(e.Provider).Inc()
	r.scores.WithLabelValues(e.Provider).Observe(float64(e.TotalScore))
	for _, p := range e.Penalties {
		r.penalties.WithLabelValues(p.Metric).Inc()
	}
	return nil
}

func (r *Recorder) handleFailed(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadAnalysisFailed)
	if !ok {
		return nil
	}
	r.failures.WithLabelValues(e.Provider, e.Reason).Inc()
	return nil
}
