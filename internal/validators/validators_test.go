package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/sharpline/internal/model"
)

func lineOf(v float64) *float64 { return &v }

func TestDKMarketGateCaseInsensitiveAndDrop(t *testing.T) {
	idx := BuildDKIndex([]DKListing{
		{Sport: "NBA", GameID: "g1", NormalizedPlayerOrMarket: "LeBron James", Line: 25.5, Side: "over"},
	})

	dropped := Candidate{PickID: "p1", Sport: "NBA", GameID: "g1", PlayerName: "Deni Avdija", Side: "over"}
	kept := Candidate{PickID: "p2", Sport: "NBA", GameID: "g1", PlayerName: "LEBRON JAMES", Side: "OVER"}

	results, droppedList := MarketAvailability([]Candidate{dropped, kept}, idx, func(c Candidate) float64 {
		if c.PlayerName == "LEBRON JAMES" {
			return 25.5
		}
		return 10.5
	})

	require.Len(t, results, 1)
	assert.Equal(t, "p2", results[0].PickID)
	require.Len(t, droppedList, 1)
	assert.Equal(t, ReasonDKMarketNotListed, droppedList[0].Reason)
	assert.Equal(t, "p1", droppedList[0].PickID)
}

func TestEmptyDKIndexAllowsAll(t *testing.T) {
	candidates := []Candidate{{PickID: "p1"}, {PickID: "p2"}}
	results, dropped := MarketAvailability(candidates, DKIndex{}, func(Candidate) float64 { return 0 })
	assert.Len(t, results, 2)
	assert.Empty(t, dropped)
}

func TestInjuryGuardDropsOutAndSuspended(t *testing.T) {
	candidates := []Candidate{
		{PickID: "p1", InjuryStatus: model.InjuryOut},
		{PickID: "p2", InjuryStatus: model.InjurySuspended},
		{PickID: "p3", InjuryStatus: model.InjuryQuestionable},
		{PickID: "p4", InjuryStatus: model.InjuryHealthy},
	}
	kept, dropped := InjuryGuard(candidates, InjuryGuardConfig{})
	require.Len(t, kept, 2)
	assert.Len(t, dropped, 2)
}

func TestInjuryGuardOptionalBlockGTD(t *testing.T) {
	candidates := []Candidate{{PickID: "p1", InjuryStatus: model.InjuryQuestionable}}
	kept, dropped := InjuryGuard(candidates, InjuryGuardConfig{BlockGTD: true})
	assert.Empty(t, kept)
	require.Len(t, dropped, 1)
	assert.Equal(t, ReasonInjuryGTDBlocked, dropped[0].Reason)
}

func TestPropIntegrityRequiredFields(t *testing.T) {
	candidates := []Candidate{
		{PickID: "p1", Sport: "NBA", GameID: "g1", PlayerName: "A", Market: "points", Line: lineOf(1), Side: "over", HomeTeamID: "h", GamesPlayedSeason: 10},
		{PickID: "p2"}, // missing everything
	}
	kept, dropped := PropIntegrity(candidates)
	require.Len(t, kept, 1)
	assert.Equal(t, "p1", kept[0].PickID)
	require.Len(t, dropped, 1)
	assert.Equal(t, ReasonMissingRequiredField, dropped[0].Reason)
}

func TestPropIntegrityTeamMismatch(t *testing.T) {
	c := Candidate{
		PickID: "p1", Sport: "NBA", GameID: "g1", PlayerName: "A", Market: "points", Line: lineOf(1),
		Side: "over", TeamID: "x", HomeTeamID: "h", AwayTeamID: "a", GamesPlayedSeason: 10,
	}
	kept, dropped := PropIntegrity([]Candidate{c})
	assert.Empty(t, kept)
	require.Len(t, dropped, 1)
	assert.Equal(t, ReasonTeamMismatch, dropped[0].Reason)
}

func TestValidatorsDoNotMutateInput(t *testing.T) {
	original := Candidate{PickID: "p1", Sport: "NBA", GameID: "g1", PlayerName: "A", Market: "points",
		Line: lineOf(1), Side: "over", HomeTeamID: "h", GamesPlayedSeason: 10}
	copy1 := original
	_, _ = PropIntegrity([]Candidate{original})
	assert.Equal(t, copy1, original)
}
