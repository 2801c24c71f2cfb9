package jarvis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGematriaSimple(t *testing.T) {
	assert.Equal(t, 1, GematriaSimple("a"))
	assert.Equal(t, 26, GematriaSimple("z"))
	assert.Equal(t, 1+26, GematriaSimple("az"))
}

func TestReduceToSingleDigitPreservesMasterNumbers(t *testing.T) {
	assert.Equal(t, 11, ReduceToSingleDigit(29)) // 2+9=11, master number preserved
	assert.Equal(t, 9, ReduceToSingleDigit(2178)) // 2+1+7+8=18 -> 1+8=9
}

func TestTeslaReduction(t *testing.T) {
	assert.True(t, TeslaReduction(369)) // 3+6+9=18->9
	assert.True(t, TeslaReduction(12))  // 1+2=3
	assert.False(t, TeslaReduction(14)) // 1+4=5
}

func TestDirectTitaniumMatch(t *testing.T) {
	triggers := EvaluateTitaniumTriggers(666)
	assert.NotEmpty(t, triggers)
	found := false
	for _, tr := range triggers {
		if tr.Kind == "direct" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestPowerNumberMatch(t *testing.T) {
	triggers := EvaluateTitaniumTriggers(22)
	found := false
	for _, tr := range triggers {
		if tr.Kind == "power" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestJarvisNeverReadsPublicBetPct(t *testing.T) {
	// Input has no PublicBetPct field at all -- compile-time guarantee.
	in := Input{Sport: "NBA", HomeTeam: "Lakers", AwayTeam: "Celtics", Spread: -5, NumericSeed: 369}
	result := Score(in)
	assert.True(t, result.Active)
}

func TestTrapGatePenalizesHighSpread(t *testing.T) {
	narrow := Score(Input{HomeTeam: "A", AwayTeam: "B", Spread: 6, NumericSeed: 1})
	wide := Score(Input{HomeTeam: "A", AwayTeam: "B", Spread: 20, NumericSeed: 1})
	assert.Greater(t, narrow.Score, wide.Score)
}

func TestNHLVarianceFactorApplied(t *testing.T) {
	base := Score(Input{Sport: "NHL", HomeTeam: "A", AwayTeam: "B", Spread: 1.5, NumericSeed: 369})
	other := Score(Input{Sport: "NBA", HomeTeam: "A", AwayTeam: "B", Spread: 1.5, NumericSeed: 369})
	assert.Greater(t, base.Score, other.Score)
}
