// Package scoring computes the composite lead quality score from raw metrics.
// The computation is pure: no I/O, no shared state, safe for concurrent use.
package scoring

import (
	"encoding/json"
	"math"
)

// Metric names a lead quality dimension.
type Metric string

const (
	DealPotential Metric = "dealPotential"
	Practicality  Metric = "practicality"
	Revenue       Metric = "revenue"
	AIEase        Metric = "aiEase"
	Difficulty    Metric = "difficulty"
)

const (
	// DefaultValue is used for missing or non-numeric metrics.
	DefaultValue = 50.0

	minValue = 0.0
	maxValue = 100.0

	// Each full 10 points below a threshold adds another penalty step.
	penaltyStepSize = 10.0
	penaltyStep     = 0.05
)

// Metrics lists the scored metrics in their canonical order.
var Metrics = []Metric{DealPotential, Practicality, Revenue, AIEase, Difficulty}

// weights sum to 1.0. Difficulty is inverted when weighted.
var weights = map[Metric]float64{
	DealPotential: 0.25,
	Practicality:  0.20,
	Revenue:       0.30,
	AIEase:        0.15,
	Difficulty:    0.10,
}

type threshold struct {
	metric Metric
	value  float64
}

// criticalThresholds are evaluated in order, so penalties are reported
// dealPotential first.
var criticalThresholds = []threshold{
	{metric: DealPotential, value: 50},
	{metric: Revenue, value: 50},
}

// RawMetrics maps metric names to provider values. Values may be missing,
// nil or of a non-numeric type.
type RawMetrics map[string]any

// Values is a metric-to-number table.
type Values map[Metric]float64

// Penalty records a deduction for a critical metric below its threshold.
type Penalty struct {
	Metric        Metric  `json:"metric"`
	Threshold     float64 `json:"threshold"`
	Actual        float64 `json:"actual"`
	PenaltyFactor float64 `json:"penaltyFactor"`
	PenaltyValue  float64 `json:"penaltyValue"`
}

// Result is the full audit trail of one scoring computation.
type Result struct {
	NormalizedScores Values    `json:"normalizedScores"`
	Weights          Values    `json:"weights"`
	WeightedScores   Values    `json:"weightedScores"`
	RawTotal         float64   `json:"rawTotal"`
	Penalties        []Penalty `json:"penalties"`
	TotalPenalty     float64   `json:"totalPenalty"`
	TotalScore       int       `json:"totalScore"`
}

// Weights returns a copy of the weight table.
func Weights() Values {
	out := make(Values, len(weights))
	for m, w := range weights {
		out[m] = w
	}
	return out
}

// Normalize clamps value into [0, 100]. Nil, NaN and non-numeric values
// yield def.
func Normalize(value any, def float64) float64 {
	f, ok := toFloat(value)
	if !ok {
		return def
	}
	return math.Max(minValue, math.Min(maxValue, f))
}

// Score normalizes, weights and penalizes raw metrics. It never fails;
// invalid inputs are defaulted.
func Score(raw RawMetrics) Result {
	normalized := make(Values, len(Metrics))
	weighted := make(Values, len(Metrics))
	rawTotal := 0.0

	for _, m := range Metrics {
		var value any
		if raw != nil {
			value = raw[string(m)]
		}
		n := Normalize(value, DefaultValue)
		normalized[m] = n

		contribution := n * weights[m]
		if m == Difficulty {
			// lower difficulty is better
			contribution = (maxValue - n) * weights[m]
		}
		weighted[m] = contribution
		rawTotal += contribution
	}

	penalties := make([]Penalty, 0, len(criticalThresholds))
	totalPenalty := 0.0
	for _, t := range criticalThresholds {
		actual := normalized[t.metric]
		if actual >= t.value {
			continue
		}
		factor := PenaltyFactor(t.value - actual)
		p := Penalty{
			Metric:        t.metric,
			Threshold:     t.value,
			Actual:        actual,
			PenaltyFactor: factor,
			PenaltyValue:  rawTotal * factor,
		}
		penalties = append(penalties, p)
		totalPenalty += p.PenaltyValue
	}

	return Result{
		NormalizedScores: normalized,
		Weights:          Weights(),
		WeightedScores:   weighted,
		RawTotal:         rawTotal,
		Penalties:        penalties,
		TotalPenalty:     totalPenalty,
		TotalScore:       finalScore(rawTotal - totalPenalty),
	}
}

// PenaltyFactor returns the proportional penalty for a positive shortfall.
// Any shortfall at all costs the first 5% step.
func PenaltyFactor(shortfall float64) float64 {
	if shortfall <= 0 {
		return 0
	}
	return (math.Floor(shortfall/penaltyStepSize) + 1) * penaltyStep
}

func finalScore(total float64) int {
	rounded := math.RoundToEven(total)
	return int(math.Max(minValue, math.Min(maxValue, rounded)))
}

func toFloat(value any) (float64, bool) {
	var f float64
	switch v := value.(type) {
	case bool:
		// A JSON true is not read as 1 the way languages with integer
		// booleans would read it: booleans fall back to the default score.
		return 0, false
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int8:
		f = float64(v)
	case int16:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint:
		f = float64(v)
	case uint8:
		f = float64(v)
	case uint16:
		f = float64(v)
	case uint32:
		f = float64(v)
	case uint64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
