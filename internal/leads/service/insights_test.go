package service

import (
	"testing"

	"lead_analyzer_backend/internal/scoring"
)

func TestBuildInsights_FallsBackToGenericLists(t *testing.T) {
	result := scoring.Score(scoring.RawMetrics{
		"dealPotential": 60,
		"practicality":  60,
		"revenue":       60,
		"aiEase":        60,
		"difficulty":    60,
	})

	insights, recs := BuildInsights(result)
	if len(insights) != len(defaultInsights) {
		t.Fatalf("expected generic insights, got %v", insights)
	}
	if recs[0] != "Nurture: focus on ROI in initial pitch" {
		t.Fatalf("expected warm headline for 58, got %q", recs[0])
	}
	if len(recs) != 1+len(defaultRecommendations) {
		t.Fatalf("expected headline plus generic recommendations, got %v", recs)
	}
}

func TestBuildInsights_WeakLead(t *testing.T) {
	result := scoring.Score(scoring.RawMetrics{
		"dealPotential": 10,
		"practicality":  20,
		"revenue":       5,
		"aiEase":        30,
		"difficulty":    90,
	})

	insights, recs := BuildInsights(result)
	want := []string{
		"Buying intent is unclear",
		"Implementation may be impractical without further scoping",
		"Revenue potential is below target",
		"Limited fit for AI automation",
		"High implementation difficulty expected",
	}
	if len(insights) != len(want) {
		t.Fatalf("expected %d insights, got %v", len(want), insights)
	}
	for i := range want {
		if insights[i] != want[i] {
			t.Fatalf("insight %d: expected %q, got %q", i, want[i], insights[i])
		}
	}

	if recs[0] != "Deprioritize: revisit when buying signals improve" {
		t.Fatalf("unexpected headline %q", recs[0])
	}
	// headline, two penalties, difficulty plan
	if len(recs) != 4 {
		t.Fatalf("expected 4 recommendations, got %v", recs)
	}
	if recs[1] != "Qualify dealPotential further: 40 points below the 50 threshold" {
		t.Fatalf("unexpected penalty recommendation %q", recs[1])
	}
	if recs[2] != "Qualify revenue further: 45 points below the 50 threshold" {
		t.Fatalf("unexpected penalty recommendation %q", recs[2])
	}
}

func TestBuildInsights_LowDifficulty(t *testing.T) {
	result := scoring.Score(scoring.RawMetrics{"difficulty": 10})
	insights, _ := BuildInsights(result)
	if len(insights) != 1 || insights[0] != "Low implementation difficulty" {
		t.Fatalf("unexpected insights %v", insights)
	}
}

func TestBuildInsights_FractionalShortfall(t *testing.T) {
	result := scoring.Score(scoring.RawMetrics{"dealPotential": 49.5, "revenue": 90})
	if len(result.Penalties) != 1 {
		t.Fatalf("expected one penalty, got %v", result.Penalties)
	}

	_, recs := BuildInsights(result)
	want := "Qualify dealPotential further: 0.5 points below the 50 threshold"
	found := false
	for _, r := range recs {
		if r == want {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %q in %v", want, recs)
	}
}

func TestFormatPoints(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 40, want: "40"},
		{in: 0.5, want: "0.5"},
		{in: 50 - 49.9, want: "0.1"},
		{in: 12.34, want: "12.3"},
	}

	for _, tt := range tests {
		if got := formatPoints(tt.in); got != tt.want {
			t.Fatalf("formatPoints(%v): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}
