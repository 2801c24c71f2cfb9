package publish

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/sharpline/internal/tiering"
)

func TestDominanceDedupKeepsHighestPerPlayerMarket(t *testing.T) {
	candidates := []Candidate{
		{PickID: "p1", PlayerID: "lebron", Market: "points", FinalScore: 7.0, Tier: tiering.GoldStar},
		{PickID: "p2", PlayerID: "lebron", Market: "points", FinalScore: 8.0, Tier: tiering.GoldStar},
	}
	published, dropped := Apply(candidates, nil, DefaultCaps)
	require.Len(t, published, 1)
	assert.Equal(t, "p2", published[0].PickID)
	require.Len(t, dropped, 1)
	assert.Equal(t, ReasonDominanceDedup, dropped[0].Reason)
}

func TestQualityGateDropsBelowMinimum(t *testing.T) {
	candidates := []Candidate{
		{PickID: "p1", FinalScore: 5.4, Tier: tiering.Monitor, GameID: "g1"},
		{PickID: "p2", FinalScore: 5.5, Tier: tiering.Monitor, GameID: "g1"},
	}
	published, dropped := Apply(candidates, nil, DefaultCaps)
	require.Len(t, published, 1)
	assert.Equal(t, "p2", published[0].PickID)
	require.Len(t, dropped, 1)
	assert.Equal(t, ReasonQualityGate, dropped[0].Reason)
}

func TestCorrelationPenaltyAppliesToLowerRanked(t *testing.T) {
	candidates := []Candidate{
		{PickID: "p1", GameID: "g1", FinalScore: 8.0, Tier: tiering.GoldStar},
		{PickID: "p2", GameID: "g1", FinalScore: 7.9, Tier: tiering.GoldStar},
	}
	published, _ := Apply(candidates, map[string]bool{"g1": true}, DefaultCaps)
	require.Len(t, published, 2)
	var top, second Candidate
	for _, c := range published {
		if c.PickID == "p1" {
			top = c
		} else {
			second = c
		}
	}
	assert.Equal(t, 8.0, top.FinalScore)
	assert.Less(t, second.FinalScore, 7.9)
}

func TestCapsGoldStarLimit(t *testing.T) {
	var candidates []Candidate
	for i := 0; i < 7; i++ {
		candidates = append(candidates, Candidate{
			PickID: string(rune('a' + i)), GameID: string(rune('a' + i)),
			FinalScore: 9.0 - float64(i)*0.01, Tier: tiering.GoldStar,
		})
	}
	published, dropped := Apply(candidates, nil, DefaultCaps)
	goldCount := 0
	for _, c := range published {
		if c.Tier == tiering.GoldStar {
			goldCount++
		}
	}
	assert.Equal(t, 5, goldCount)
	found := false
	for _, d := range dropped {
		if d.Reason == ReasonCapGoldStar {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCapsPerGameLimit(t *testing.T) {
	var candidates []Candidate
	for i := 0; i < 4; i++ {
		candidates = append(candidates, Candidate{
			PickID: string(rune('a' + i)), GameID: "g1", PlayerID: string(rune('a' + i)),
			FinalScore: 9.0 - float64(i)*0.01, Tier: tiering.EdgeLean,
		})
	}
	published, dropped := Apply(candidates, nil, DefaultCaps)
	assert.Len(t, published, 3)
	found := false
	for _, d := range dropped {
		if d.Reason == ReasonCapPerGame {
			found = true
		}
	}
	assert.True(t, found)
}

func TestPublishedOrderDescendingByScoreTieBrokenByPickID(t *testing.T) {
	candidates := []Candidate{
		{PickID: "zz", GameID: "g1", FinalScore: 7.0, Tier: tiering.EdgeLean},
		{PickID: "aa", GameID: "g2", FinalScore: 7.0, Tier: tiering.EdgeLean},
	}
	published, _ := Apply(candidates, nil, DefaultCaps)
	require.Len(t, published, 2)
	assert.Equal(t, "aa", published[0].PickID)
	assert.Equal(t, "zz", published[1].PickID)
}
