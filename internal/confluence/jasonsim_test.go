package confluence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateStrongBoostWithActiveSignal(t *testing.T) {
	in := Input{
		PickType:             PickSpread,
		InjuryAdjustedWinPct: 0.95,
		Sim:                  MonteCarloResult{HomeWinPct: 0.95},
		AnyActiveEngineSignal: true,
		BaseScoreImpliesWinPct: 50,
	}
	res := Evaluate(in)
	assert.Equal(t, DecisionBoost, res.Decision)
	assert.Equal(t, MagnitudeStrong, res.Magnitude)
	assert.Equal(t, 3.0, res.Boost)
}

func TestEvaluateModerateBoostWithoutActiveSignal(t *testing.T) {
	in := Input{
		PickType:             PickMoneyline,
		InjuryAdjustedWinPct: 0.72,
		Sim:                  MonteCarloResult{HomeWinPct: 0.72},
		BaseScoreImpliesWinPct: 50,
	}
	res := Evaluate(in)
	assert.Equal(t, DecisionBoost, res.Decision)
	assert.Equal(t, MagnitudeModerate, res.Magnitude)
	assert.Equal(t, 1.0, res.Boost)
}

func TestEvaluateNeutralBelowThreshold(t *testing.T) {
	in := Input{
		PickType:             PickTotal,
		InjuryAdjustedWinPct: 0.5,
		Sim:                  MonteCarloResult{HomeWinPct: 0.5},
		BaseScoreImpliesWinPct: 50,
	}
	res := Evaluate(in)
	assert.Equal(t, DecisionNeutral, res.Decision)
	assert.Equal(t, 0.0, res.Boost)
}

func TestEvaluateDowngradeWhenSimFallsShort(t *testing.T) {
	in := Input{
		PickType:             PickSpread,
		Sim:                  MonteCarloResult{HomeWinPct: 0.40},
		BaseScoreImpliesWinPct: 60,
	}
	res := Evaluate(in)
	assert.Equal(t, DecisionDowngrade, res.Decision)
	assert.Less(t, res.Boost, 0.0)
}

func TestEvaluateBlockWhenDeficitSevere(t *testing.T) {
	in := Input{
		PickType:             PickSpread,
		Sim:                  MonteCarloResult{HomeWinPct: 0.20},
		BaseScoreImpliesWinPct: 65,
	}
	res := Evaluate(in)
	assert.Equal(t, DecisionBlock, res.Decision)
	assert.Equal(t, -10.0, res.Boost)
}

func TestEvaluateUnrecognizedPickTypeIsNeutral(t *testing.T) {
	res := Evaluate(Input{PickType: "parlay"})
	assert.Equal(t, DecisionNeutral, res.Decision)
	assert.Equal(t, 0.0, res.Boost)
}

func TestApplyBoostIsAdditiveNeverOverwrites(t *testing.T) {
	assert.Equal(t, 8.5, ApplyBoost(7.5, 1.0))
	assert.Equal(t, 5.5, ApplyBoost(7.5, -2.0))
}
