package tiering

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierBoundaries(t *testing.T) {
	tier, _, _ := TierFromScore(7.5, false)
	assert.Equal(t, GoldStar, tier)

	tier, _, _ = TierFromScore(7.49, false)
	assert.Equal(t, EdgeLean, tier)

	tier, _, _ = TierFromScore(5.5, false)
	assert.Equal(t, Monitor, tier)

	tier, _, _ = TierFromScore(5.49, false)
	assert.Equal(t, Pass, tier)
}

func TestTitaniumStrict(t *testing.T) {
	engines := [4]float64{8.5, 8.2, 8.0, 7.0}
	eligible := IsTitaniumEligible(3, 9.0, engines)
	assert.True(t, eligible)
	tier, units, action := TierFromScore(9.0, eligible)
	assert.Equal(t, TitaniumSmash, tier)
	assert.Equal(t, 2.5, units)
	assert.Equal(t, ActionSmash, action)

	// Dropping Esoteric below 8.0 leaves only AI and Research qualifying (2 < 3).
	engines[2] = 7.99
	eligible = IsTitaniumEligible(3, 9.0, engines)
	assert.False(t, eligible)
}

func TestTitaniumRequiresThreeQualifyingEngines(t *testing.T) {
	// Only 2 engines >= 8.0 -> not eligible even with titanium_count >= 3 and score >= 8.0.
	engines := [4]float64{8.5, 8.2, 7.9, 7.0}
	assert.False(t, IsTitaniumEligible(3, 9.0, engines))
}

func TestUnderPenaltyRetiers(t *testing.T) {
	pre := 7.55
	post := ApplyUnderPenalty(pre, true, false)
	assert.InDelta(t, 7.40, post, 1e-9)

	preTier, _, _ := TierFromScore(pre, false)
	postTier, _, _ := TierFromScore(post, false)
	assert.Equal(t, GoldStar, preTier)
	assert.Equal(t, EdgeLean, postTier)
}

func TestUnderPenaltySkippedWhenSupported(t *testing.T) {
	assert.Equal(t, 7.55, ApplyUnderPenalty(7.55, true, true))
	assert.Equal(t, 7.55, ApplyUnderPenalty(7.55, false, false))
}

func TestUnitsFromTierOnly(t *testing.T) {
	for tier, want := range UnitsForTier {
		_, units, _ := TierFromScore(thresholdFor(tier), tier == TitaniumSmash)
		assert.Equal(t, want, units)
	}
}

func thresholdFor(tier Tier) float64 {
	switch tier {
	case TitaniumSmash:
		return 9.0
	case GoldStar:
		return 7.5
	case EdgeLean:
		return 6.5
	case Monitor:
		return 5.5
	default:
		return 0
	}
}
