package esoteric

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakdownHasAll23Signals(t *testing.T) {
	result := Score(context.Background(), Inputs{NumericSeed: 42, HomeTeam: "A", AwayTeam: "B"}, ExternalProviders{})
	require.Len(t, Signals, 23)
	records := result.Breakdown.OrderedRecords()
	assert.Len(t, records, 23)
	for _, name := range Signals {
		_, ok := result.Breakdown[name]
		assert.True(t, ok, "missing signal %s", name)
	}
}

func TestScoreClampedToRange(t *testing.T) {
	result := Score(context.Background(), Inputs{NumericSeed: 369, HomeTeam: "A", AwayTeam: "B"}, ExternalProviders{})
	assert.GreaterOrEqual(t, result.Score, 0.0)
	assert.LessOrEqual(t, result.Score, 10.0)
}

func TestWeatherNotRelevantForIndoorSports(t *testing.T) {
	result := Score(context.Background(), Inputs{NumericSeed: 1, IsIndoorSport: true}, ExternalProviders{
		Weather: func(ctx context.Context, venue string) (float64, float64, error) { return 40, 20, nil },
	})
	rec := result.Breakdown[SignalWeather]
	assert.Equal(t, StatusNoData, rec.Status)
	assert.Contains(t, rec.RawInputsSummary, "NOT_RELEVANT")
}

func TestFailedExternalProviderIsFailSoft(t *testing.T) {
	result := Score(context.Background(), Inputs{NumericSeed: 1}, ExternalProviders{})
	kp := result.Breakdown[SignalKpIndex]
	assert.Equal(t, StatusNoData, kp.Status)
	assert.Equal(t, 0.0, kp.Contribution)
}

func TestEsotericIndependentOfPublicFadeAndGematria(t *testing.T) {
	// The Inputs struct has no public-bet-pct or gematria-hit field at all;
	// this is a compile-time guarantee of the isolation invariant.
	_ = Inputs{}
}
