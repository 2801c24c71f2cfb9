package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sawpanic/sharpline/internal/confluence"
)

func TestDeriveSlateHealthNoSlate(t *testing.T) {
	assert.Equal(t, HealthNoSlate, DeriveSlateHealth(SlateStats{EventCount: 0}))
}

func TestDeriveSlateHealthNoPicks(t *testing.T) {
	assert.Equal(t, HealthNoPicks, DeriveSlateHealth(SlateStats{EventCount: 5, PublishedCount: 0}))
}

func TestDeriveSlateHealthStarved(t *testing.T) {
	health := DeriveSlateHealth(SlateStats{EventCount: 5, PublishedCount: 1, CandidateCount: 0, CriticalProvidersDown: 1})
	assert.Equal(t, HealthStarved, health)
}

func TestDeriveSlateHealthDegraded(t *testing.T) {
	health := DeriveSlateHealth(SlateStats{EventCount: 5, PublishedCount: 1, CandidateCount: 3, CriticalProvidersDown: 1})
	assert.Equal(t, HealthDegraded, health)
}

func TestDeriveSlateHealthLowEdge(t *testing.T) {
	health := DeriveSlateHealth(SlateStats{EventCount: 5, PublishedCount: 1, CandidateCount: 3, AvgEngineScore: 5.0, JasonSimBoostFireRate: 0.0})
	assert.Equal(t, HealthLowEdge, health)
}

func TestDeriveSlateHealthHealthy(t *testing.T) {
	health := DeriveSlateHealth(SlateStats{EventCount: 5, PublishedCount: 3, CandidateCount: 10, AvgEngineScore: 7.5, JasonSimBoostFireRate: 0.2})
	assert.Equal(t, HealthHealthy, health)
}

func TestScoreCandidateCombinesEngines(t *testing.T) {
	in := CandidateInputs{
		PickID: "p1",
		Confluence: confluence.Input{
			PickType:               confluence.PickSpread,
			InjuryAdjustedWinPct:   0.55,
			Sim:                    confluence.MonteCarloResult{HomeWinPct: 0.55},
			BaseScoreImpliesWinPct: 50,
		},
	}
	sc := ScoreCandidate(context.Background(), in)
	assert.NotEmpty(t, sc.Tier)
	assert.Equal(t, sc.BaseScore+sc.Confluence.Boost, sc.FinalScore)
}
