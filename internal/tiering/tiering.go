// Package tiering is the single source of truth mapping a final score (plus
// the titanium flag) to a tier, unit size, and action. No other package may
// read these thresholds directly — they must call TierFromScore.
package tiering

// Tier is the published pick classification.
type Tier string

const (
	TitaniumSmash Tier = "TITANIUM_SMASH"
	GoldStar      Tier = "GOLD_STAR"
	EdgeLean      Tier = "EDGE_LEAN"
	Monitor       Tier = "MONITOR"
	Pass          Tier = "PASS"
)

// Action is the recommended handling for a tier.
type Action string

const (
	ActionSmash Action = "SMASH"
	ActionPlay  Action = "PLAY"
	ActionWatch Action = "WATCH"
	ActionSkip  Action = "SKIP"
)

// Thresholds are package vars rather than consts so LoadThresholdOverrides
// can tune them from an optional on-disk config at startup; every package
// still calls TierFromScore/ApplyUnderPenalty rather than reading these
// directly.
var (
	GoldStarThreshold      = 7.5
	EdgeLeanThreshold      = 6.5
	MonitorThreshold       = 5.5
	TitaniumScoreThreshold = 9.0

	// UnderPenalty is subtracted from final_score when an UNDER prop is not
	// flagged under_supported; the pick must then be re-tiered from the
	// reduced score.
	UnderPenalty = 0.15
)

// ThresholdOverrides carries the subset of tuning knobs a deploy may override.
// A nil field leaves the compiled-in default untouched.
type ThresholdOverrides struct {
	GoldStarThreshold      *float64
	EdgeLeanThreshold      *float64
	MonitorThreshold       *float64
	TitaniumScoreThreshold *float64
	UnderPenalty           *float64
}

// LoadThresholdOverrides applies o onto the package-level thresholds.
func LoadThresholdOverrides(o ThresholdOverrides) {
	if o.GoldStarThreshold != nil {
		GoldStarThreshold = *o.GoldStarThreshold
	}
	if o.EdgeLeanThreshold != nil {
		EdgeLeanThreshold = *o.EdgeLeanThreshold
	}
	if o.MonitorThreshold != nil {
		MonitorThreshold = *o.MonitorThreshold
	}
	if o.TitaniumScoreThreshold != nil {
		TitaniumScoreThreshold = *o.TitaniumScoreThreshold
	}
	if o.UnderPenalty != nil {
		UnderPenalty = *o.UnderPenalty
	}
}

// UnitsForTier is the only permitted source of unit sizing.
var UnitsForTier = map[Tier]float64{
	TitaniumSmash: 2.5,
	GoldStar:      2.0,
	EdgeLean:      1.0,
	Monitor:       0.0,
	Pass:          0.0,
}

var actionForTier = map[Tier]Action{
	TitaniumSmash: ActionSmash,
	GoldStar:      ActionSmash,
	EdgeLean:      ActionPlay,
	Monitor:       ActionWatch,
	Pass:          ActionSkip,
}

// TierFromScore returns (tier, units, action) for a final score.
// titaniumTriggered must already reflect the caller's own titanium-count and
// engine-qualification check (see IsTitaniumEligible) — this function only
// applies the score floor for TITANIUM_SMASH.
func TierFromScore(score float64, titaniumTriggered bool) (Tier, float64, Action) {
	tier := tierFromScore(score, titaniumTriggered)
	return tier, UnitsForTier[tier], actionForTier[tier]
}

func tierFromScore(score float64, titaniumTriggered bool) Tier {
	switch {
	case titaniumTriggered && score >= TitaniumScoreThreshold:
		return TitaniumSmash
	case score >= GoldStarThreshold:
		return GoldStar
	case score >= EdgeLeanThreshold:
		return EdgeLean
	case score >= MonitorThreshold:
		return Monitor
	default:
		return Pass
	}
}

// IsTitaniumEligible checks the titanium-tier invariant: titanium_count>=3
// AND final_score>=8.0 AND at least 3 of the 4 engine scores >= 8.0.
func IsTitaniumEligible(titaniumCount int, finalScore float64, engineScores [4]float64) bool {
	if titaniumCount < 3 || finalScore < 8.0 {
		return false
	}
	qualifying := 0
	for _, s := range engineScores {
		if s >= 8.0 {
			qualifying++
		}
	}
	return qualifying >= 3
}

// ApplyUnderPenalty reduces a final score for an unsupported UNDER prop and
// returns the adjusted score. Callers must re-tier from the returned value.
func ApplyUnderPenalty(finalScore float64, isUnder bool, underSupported bool) float64 {
	if isUnder && !underSupported {
		return finalScore - UnderPenalty
	}
	return finalScore
}
