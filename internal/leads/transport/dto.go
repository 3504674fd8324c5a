package transport

import (
	"time"

	"lead_analyzer_backend/internal/scoring"
)

// AnalyzeLeadRequest is the POST /api/analyze-lead payload. URL is nil when
// the key is absent or null, which is reported differently from an empty
// string.
type AnalyzeLeadRequest struct {
	URL   *string `json:"url"`
	Email string  `json:"email,omitempty"`
}

// NewAnalyzeLeadRequest builds a request for url with an optional email.
func NewAnalyzeLeadRequest(url, email string) AnalyzeLeadRequest {
	return AnalyzeLeadRequest{URL: &url, Email: email}
}

// EmailValidation is the verdict of an email verifier.
type EmailValidation struct {
	IsValid      bool `json:"is_valid"`
	IsDisposable bool `json:"is_disposable"`
	HasMXRecords bool `json:"has_mx_records"`
}

// EmailInfo echoes a verified email address.
type EmailInfo struct {
	Address    string          `json:"address"`
	Validation EmailValidation `json:"validation"`
}

// ScoringDetails is the audit trail of the composite score.
type ScoringDetails struct {
	Weights        scoring.Values    `json:"weights"`
	WeightedScores scoring.Values    `json:"weightedScores"`
	Penalties      []scoring.Penalty `json:"penalties"`
	RawTotal       float64           `json:"rawTotal"`
	TotalPenalty   float64           `json:"totalPenalty"`
}

// LeadAnalysis is the analyze-lead response. Metric fields carry the
// normalized values.
type LeadAnalysis struct {
	ID              string             `json:"id"`
	URL             string             `json:"url"`
	CompanyName     string             `json:"companyName"`
	DealPotential   float64            `json:"dealPotential"`
	Practicality    float64            `json:"practicality"`
	Revenue         float64            `json:"revenue"`
	AIEase          float64            `json:"aiEase"`
	Difficulty      float64            `json:"difficulty"`
	TotalScore      int                `json:"totalScore"`
	RawScores       scoring.RawMetrics `json:"rawScores"`
	ScoringDetails  ScoringDetails     `json:"scoringDetails"`
	Insights        []string           `json:"insights"`
	Recommendations []string           `json:"recommendations"`
	Email           *EmailInfo         `json:"email,omitempty"`
	Provider        string             `json:"provider"`
	AnalyzedAt      time.Time          `json:"analyzedAt"`
}

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string  `json:"status"`
	Timestamp float64 `json:"timestamp"`
}
