package service

import (
	"fmt"
	"math"
	"strconv"

	"lead_analyzer_backend/internal/scoring"
)

const (
	strongSignal = 75.0
	weakSignal   = 50.0

	hotLeadScore  = 70
	warmLeadScore = 40
)

var strongInsights = map[scoring.Metric]string{
	scoring.DealPotential: "High deal potential: strong buying signals",
	scoring.Practicality:  "Requirements fit well with existing solutions",
	scoring.Revenue:       "Strong revenue potential for this account",
	scoring.AIEase:        "Processes look well suited for AI automation",
}

var weakInsights = map[scoring.Metric]string{
	scoring.DealPotential: "Buying intent is unclear",
	scoring.Practicality:  "Implementation may be impractical without further scoping",
	scoring.Revenue:       "Revenue potential is below target",
	scoring.AIEase:        "Limited fit for AI automation",
}

var defaultInsights = []string{
	"Strong market presence in their industry",
	"Clear need for automation in their processes",
	"Potential budget available for implementation",
	"Technical team likely in place for integration",
}

var defaultRecommendations = []string{
	"Focus on ROI in initial pitch",
	"Highlight successful case studies similar to their industry",
	"Prepare technical implementation plan",
	"Schedule demo with their technical team",
}

// BuildInsights turns a scoring result into human-readable insights and
// recommendations. Output order is stable for a given result.
func BuildInsights(result scoring.Result) (insights []string, recommendations []string) {
	n := result.NormalizedScores

	for _, m := range scoring.Metrics {
		v := n[m]
		if m == scoring.Difficulty {
			switch {
			case v <= 100-strongSignal:
				insights = append(insights, "Low implementation difficulty")
			case v >= strongSignal:
				insights = append(insights, "High implementation difficulty expected")
			}
			continue
		}
		switch {
		case v >= strongSignal:
			insights = append(insights, strongInsights[m])
		case v < weakSignal:
			insights = append(insights, weakInsights[m])
		}
	}

	recommendations = append(recommendations, bandRecommendation(result.TotalScore))

	if len(insights) == 0 {
		insights = append(insights, defaultInsights...)
		recommendations = append(recommendations, defaultRecommendations...)
		return insights, recommendations
	}

	for _, p := range result.Penalties {
		recommendations = append(recommendations, fmt.Sprintf(
			"Qualify %s further: %s points below the %s threshold",
			p.Metric, formatPoints(p.Threshold-p.Actual), formatPoints(p.Threshold),
		))
	}
	if n[scoring.Difficulty] >= strongSignal {
		recommendations = append(recommendations, "Prepare technical implementation plan")
	}
	if n[scoring.AIEase] >= strongSignal {
		recommendations = append(recommendations, "Highlight successful case studies similar to their industry")
	}

	return insights, recommendations
}

func bandRecommendation(totalScore int) string {
	switch {
	case totalScore >= hotLeadScore:
		return "Prioritize: schedule demo with their technical team"
	case totalScore >= warmLeadScore:
		return "Nurture: focus on ROI in initial pitch"
	default:
		return "Deprioritize: revisit when buying signals improve"
	}
}

// formatPoints renders v to one decimal place, dropping a trailing ".0".
func formatPoints(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64)
}
