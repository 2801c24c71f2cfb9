// Package confluence implements the Jason-Sim post-pick confluence layer
// (C9): a Monte-Carlo-informed boost/downgrade/block applied additively to
// the preliminary score. Reads no odds.
package confluence

// MonteCarloResult is the simulation output for one event (no odds fields).
type MonteCarloResult struct {
	HomeWinPct    float64
	CoverPct      float64
	ProjectedTotal float64
	VarianceFlag  bool
}

// Decision is the confluence verdict.
type Decision string

const (
	DecisionBoost     Decision = "BOOST"
	DecisionDowngrade Decision = "DOWNGRADE"
	DecisionBlock     Decision = "BLOCK"
	DecisionNeutral   Decision = "NEUTRAL"
)

// Magnitude classifies alignment strength.
type Magnitude string

const (
	MagnitudeStrong   Magnitude = "STRONG"
	MagnitudeModerate Magnitude = "MODERATE"
	MagnitudeNone     Magnitude = "NONE"
)

// PickType enumerates the recognized pick types confluence reasons may
// reference.
type PickType string

const (
	PickSpread     PickType = "spread"
	PickMoneyline  PickType = "moneyline"
	PickTotal      PickType = "total"
	PickPlayerProp PickType = "player_prop"
)

var recognizedPickTypes = map[PickType]bool{
	PickSpread: true, PickMoneyline: true, PickTotal: true, PickPlayerProp: true,
}

// Input aggregates everything Jason-Sim needs for one candidate.
type Input struct {
	PickType               PickType
	IsFavorite              bool // true if the pick is on the side Monte Carlo would need to exceed 50% to support
	InjuryAdjustedWinPct    float64 // CONFIRMED_ONLY, speculative injuries excluded
	Sim                     MonteCarloResult
	AnyActiveEngineSignal   bool // true if at least one of AI/Research/Esoteric/Jarvis has an active signal
	BaseScoreImpliesWinPct  float64 // the win% the base_score would require to be justified
}

// Result is the confluence output.
type Result struct {
	Decision  Decision
	Magnitude Magnitude
	Boost     float64
	Reasons   []string
}

// alignmentPct blends injury-adjusted win% with the Monte-Carlo win%.
func alignmentPct(in Input) float64 {
	return (in.InjuryAdjustedWinPct + in.Sim.HomeWinPct) / 2 * 100
}

// Evaluate computes the Jason-Sim decision. The caller applies Boost
// additively to base_score: final_score = base_score + jason_sim_boost —
// confluence never overwrites the base score.
func Evaluate(in Input) Result {
	if !recognizedPickTypes[in.PickType] {
		return Result{Decision: DecisionNeutral, Magnitude: MagnitudeNone, Boost: 0}
	}

	alignment := alignmentPct(in)

	// Negative boost when the simulated win% falls short of what the base
	// score would require.
	if in.Sim.HomeWinPct*100 < in.BaseScoreImpliesWinPct {
		deficit := in.BaseScoreImpliesWinPct - in.Sim.HomeWinPct*100
		boost := -deficit / 20 // scaled downgrade, capped below
		if boost < -2.0 {
			boost = -2.0
		}
		decision := DecisionDowngrade
		if deficit >= 30 {
			decision = DecisionBlock
			boost = -10.0 // effectively removes the pick downstream via quality gate
		}
		return Result{
			Decision: decision, Magnitude: MagnitudeNone, Boost: boost,
			Reasons: []string{string(in.PickType) + ": simulated win% below what base score requires"},
		}
	}

	switch {
	case alignment >= 90 && in.AnyActiveEngineSignal:
		return Result{
			Decision: DecisionBoost, Magnitude: MagnitudeStrong, Boost: 3.0,
			Reasons: []string{string(in.PickType) + ": alignment >= 90% with an active engine signal"},
		}
	case alignment >= 70:
		return Result{
			Decision: DecisionBoost, Magnitude: MagnitudeModerate, Boost: 1.0,
			Reasons: []string{string(in.PickType) + ": alignment >= 70%"},
		}
	default:
		return Result{Decision: DecisionNeutral, Magnitude: MagnitudeNone, Boost: 0}
	}
}

// ApplyBoost returns base_score + boost (additive, never overwrite).
func ApplyBoost(baseScore float64, boost float64) float64 {
	return baseScore + boost
}
