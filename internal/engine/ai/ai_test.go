package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGoldilocksSpreadBonus(t *testing.T) {
	assert.Equal(t, 1.5, goldilocksSpreadBonus(4))
	assert.Equal(t, 1.5, goldilocksSpreadBonus(9))
	assert.Equal(t, 1.0, goldilocksSpreadBonus(3.5))
	assert.Equal(t, 0.5, goldilocksSpreadBonus(2))
	assert.Equal(t, 0.3, goldilocksSpreadBonus(10))
	assert.Equal(t, 0.0, goldilocksSpreadBonus(14.01))
}

func TestHeuristicFallbackUsedWhenNoEnsemble(t *testing.T) {
	e := New(nil)
	result := e.Score(Features{HomeTeam: "Lakers", AwayTeam: "Celtics", Spread: -5.5, Total: 220})
	assert.True(t, result.UsedHeuristicFallback)
	assert.GreaterOrEqual(t, result.Score, 0.0)
	assert.LessOrEqual(t, result.Score, 10.0)
}

type stubEnsemble struct {
	contributions map[SubModel]float64
	ok            bool
}

func (s stubEnsemble) Predict(Features) (map[SubModel]float64, bool) {
	return s.contributions, s.ok
}

func TestDegenerateEnsembleTriggersFallback(t *testing.T) {
	degenerate := map[SubModel]float64{
		SubModelLineMovement: 1.0, SubModelMatchup: 1.0, SubModelRest: 1.0, SubModelInjury: 1.0,
		SubModelBettingEdge: 1.0, SubModelMonteCarloSim: 1.0, SubModelPaceDefense: 1.0, SubModelPropHistory: 1.0,
	}
	e := New(stubEnsemble{contributions: degenerate, ok: true})
	result := e.Score(Features{HomeTeam: "A", AwayTeam: "B"})
	assert.True(t, result.UsedHeuristicFallback, "flat 8x1.0=8.0 with stddev 0 in [7,8.5] must trigger fallback")
}

func TestHealthyEnsembleOutputUsed(t *testing.T) {
	varied := map[SubModel]float64{
		SubModelLineMovement: 0.2, SubModelMatchup: 1.8, SubModelRest: 0.5, SubModelInjury: -0.3,
		SubModelBettingEdge: 1.1, SubModelMonteCarloSim: 0.9, SubModelPaceDefense: 0.4, SubModelPropHistory: 0.3,
	}
	e := New(stubEnsemble{contributions: varied, ok: true})
	result := e.Score(Features{HomeTeam: "A", AwayTeam: "B"})
	assert.False(t, result.UsedHeuristicFallback)
}

func TestBatchVarianceProperty(t *testing.T) {
	scores := []float64{3.2, 4.5, 5.1, 6.7, 7.8, 8.9}
	distinct, stddev := BatchVariance(scores)
	assert.GreaterOrEqual(t, distinct, 4)
	assert.GreaterOrEqual(t, stddev, 0.15)
}

func TestImpliedProbability(t *testing.T) {
	assert.InDelta(t, 0.5238, ImpliedProbability(-110), 0.001)
	assert.InDelta(t, 0.4545, ImpliedProbability(120), 0.001)
}
