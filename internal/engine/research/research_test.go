package research

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sawpanic/sharpline/internal/model"
)

func TestClampDriftBounds(t *testing.T) {
	assert.Equal(t, 0.85, ClampDrift(0.5))
	assert.Equal(t, 1.15, ClampDrift(2.0))
	assert.Equal(t, 1.1, ClampDrift(1.1))
}

func TestScoreAllPillarsPassingClampsAtTen(t *testing.T) {
	in := Inputs{
		HasSplit:            true,
		Split:               model.SplitSignal{RLM: model.RLMStrong, SharpSide: "home", SteamStrength: 0.9},
		KeyInjuryOnOpponent: true,
		IsDivisionalOrRivalry: true,
		HasExpertConsensus:  true,
		ExpertConsensusPct:  0.9,
		CorrelatedPropsAgree: true,
		HasLine:             true,
		Line:                3.0,
	}
	score, results := Score(in, nil)
	assert.LessOrEqual(t, score, 10.0)
	assert.True(t, results[PillarSharpSplit].Passed)
	assert.True(t, results[PillarReverseLineMove].Passed)
	assert.True(t, results[PillarHookDiscipline].Passed)
}

func TestScoreNoSignalsReturnsBase(t *testing.T) {
	score, results := Score(Inputs{}, nil)
	assert.Equal(t, baseScore, score)
	for _, p := range Pillars {
		assert.False(t, results[p].Passed)
		assert.Equal(t, 0.0, results[p].Contribution)
	}
}

func TestHookDisciplineKeyNumberAdjacency(t *testing.T) {
	assert.True(t, isKeyNumberAdjacent(3.0))
	assert.True(t, isKeyNumberAdjacent(6.5))
	assert.True(t, isKeyNumberAdjacent(7.5))
	assert.False(t, isKeyNumberAdjacent(5.0))
}

func TestMicroWeightAppliesToContribution(t *testing.T) {
	in := Inputs{KeyInjuryOnOpponent: true}
	base, _ := Score(in, nil)
	boosted, _ := Score(in, MicroWeights{PillarHospitalFade: 1.15})
	assert.Greater(t, boosted, base)
}

func TestBreakdownCoversAllEightPillars(t *testing.T) {
	_, results := Score(Inputs{}, nil)
	assert.Len(t, Pillars, 8)
	for _, p := range Pillars {
		_, ok := results[p]
		assert.True(t, ok, "missing pillar %s", p)
	}
}
