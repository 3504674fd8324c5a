// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"lead_analyzer_backend/platform/events"
	"lead_analyzer_backend/platform/logger"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Lead Analysis Events
// =============================================================================

// PenaltyApplied summarizes one threshold penalty of an analysis.
type PenaltyApplied struct {
	Metric        string  `json:"metric"`
	PenaltyFactor float64 `json:"penaltyFactor"`
}

// LeadAnalyzed is published after a lead has been scored.
type LeadAnalyzed struct {
	BaseEvent
	LeadID     string           `json:"leadId"`
	URL        string           `json:"url"`
	Provider   string           `json:"provider"`
	TotalScore int              `json:"totalScore"`
	RawTotal   float64          `json:"rawTotal"`
	Penalties  []PenaltyApplied `json:"penalties"`
	HasEmail   bool             `json:"hasEmail"`
}

func (e LeadAnalyzed) EventName() string { return "leads.analysis.completed" }

// LeadAnalysisFailed is published when an analysis request is rejected or
// an upstream collaborator fails.
type LeadAnalysisFailed struct {
	BaseEvent
	Provider string `json:"provider"`
	Reason   string `json:"reason"`
}

func (e LeadAnalysisFailed) EventName() string { return "leads.analysis.failed" }

// Failure reasons carried by LeadAnalysisFailed.
const (
	ReasonValidation = "validation"
	ReasonUpstream   = "upstream"
	ReasonTimeout    = "timeout"
	ReasonInternal   = "internal"
)
