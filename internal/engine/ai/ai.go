// Package ai implements the AI Engine (C5): an 8-sub-model ensemble with a
// deterministic heuristic fallback that always produces a finite score even
// when no ensemble implementation is wired.
package ai

import (
	"hash/fnv"
	"math"
	"sort"
)

// SubModel enumerates the 8 AI sub-models in their declared (deterministic
// receipt) order.
type SubModel string

const (
	SubModelLineMovement      SubModel = "line_movement_lstm"
	SubModelMatchup           SubModel = "matchup"
	SubModelRest              SubModel = "rest"
	SubModelInjury            SubModel = "injury"
	SubModelBettingEdge       SubModel = "betting_edge"
	SubModelMonteCarloSim     SubModel = "monte_carlo_game_sim"
	SubModelPaceDefense       SubModel = "pace_defensive_matchup"
	SubModelPropHistory       SubModel = "prop_history"
)

// SubModels is the declared enum order used for deterministic receipts.
var SubModels = []SubModel{
	SubModelLineMovement, SubModelMatchup, SubModelRest, SubModelInjury,
	SubModelBettingEdge, SubModelMonteCarloSim, SubModelPaceDefense, SubModelPropHistory,
}

// Features is the normalized numeric input the ensemble and fallback both
// consume for one candidate.
type Features struct {
	HomeTeam       string
	AwayTeam       string
	Spread         float64 // signed, home perspective
	Total          float64
	MoneylineOdds  int // American odds for the side being scored; 0 if N/A
	HasMoneyline   bool
	RestDaysHome   int
	RestDaysAway   int
	InjuryImpact   float64 // 0..1, confirmed-only impact on the scored side
}

// Result is the AI engine's output for one candidate.
type Result struct {
	Score               float64
	Contributions       map[SubModel]float64
	UsedHeuristicFallback bool
}

// Ensemble is the pluggable 8-sub-model inference contract. Score depends
// only on this interface, never on a concrete model implementation.
type Ensemble interface {
	Predict(f Features) (map[SubModel]float64, bool) // contributions, ok
}

// Engine runs the ensemble with a deterministic fallback when the ensemble
// is unavailable or produces degenerate output.
type Engine struct {
	ensemble Ensemble
}

// New constructs an AI engine. A nil ensemble always uses the fallback.
func New(ensemble Ensemble) *Engine {
	return &Engine{ensemble: ensemble}
}

// Score computes ai_score in [0,10] plus per-sub-model contributions.
func (e *Engine) Score(f Features) Result {
	if e.ensemble != nil {
		if contributions, ok := e.ensemble.Predict(f); ok {
			total := sumContributions(contributions)
			if !isDegenerate(contributions, total) {
				return Result{Score: clamp10(total), Contributions: contributions}
			}
		}
	}
	return e.heuristicFallback(f)
}

func sumContributions(m map[SubModel]float64) float64 {
	var total float64
	for _, v := range m {
		total += v
	}
	return total
}

// isDegenerate flags ensemble output whose stddev is too low while
// clustering in the [7.0, 8.5] "suspiciously confident" band.
func isDegenerate(m map[SubModel]float64, total float64) bool {
	if len(m) == 0 {
		return true
	}
	mean := total / float64(len(m))
	var variance float64
	for _, v := range m {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(m))
	stddev := math.Sqrt(variance)
	return stddev < 0.3 && total >= 7.0 && total <= 8.5
}

// heuristicFallback produces a deterministic hash-based base plus the
// Goldilocks spread bonus, total-range bonus, and moneyline adjustment.
func (e *Engine) heuristicFallback(f Features) Result {
	base := hashBase(f.HomeTeam, f.AwayTeam)
	spreadBonus := goldilocksSpreadBonus(math.Abs(f.Spread))
	totalBonus := totalRangeBonus(f.Total)
	mlBonus := moneylineAdjustment(f.MoneylineOdds, f.HasMoneyline)
	restBonus := restAdjustment(f.RestDaysHome, f.RestDaysAway)
	injuryPenalty := -f.InjuryImpact * 1.5

	contributions := map[SubModel]float64{
		SubModelLineMovement:  base,
		SubModelMatchup:       spreadBonus,
		SubModelRest:          restBonus,
		SubModelInjury:        injuryPenalty,
		SubModelBettingEdge:   mlBonus,
		SubModelMonteCarloSim: totalBonus,
		SubModelPaceDefense:   0,
		SubModelPropHistory:   0,
	}
	return Result{
		Score:                 clamp10(sumContributions(contributions)),
		Contributions:         contributions,
		UsedHeuristicFallback: true,
	}
}

// hashBase derives a deterministic [3.0,5.0) base component from the
// matchup identity so identical matchups always start from the same base.
func hashBase(home, away string) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(home + "|" + away))
	frac := float64(h.Sum32()%1000) / 1000.0
	return 3.0 + frac*2.0
}

// goldilocksSpreadBonus implements the trap-zone-aware spread bonus table.
func goldilocksSpreadBonus(absSpread float64) float64 {
	switch {
	case absSpread >= 4 && absSpread <= 9:
		return 1.5
	case absSpread >= 3 && absSpread < 4:
		return 1.0
	case absSpread < 3:
		return 0.5
	case absSpread > 9 && absSpread <= 14:
		return 0.3
	default:
		return 0.0
	}
}

func totalRangeBonus(total float64) float64 {
	switch {
	case total >= 200 && total <= 240:
		return 0.5
	case total >= 190 && total < 200, total > 240 && total <= 250:
		return 0.3
	case total >= 180 && total < 190, total > 250 && total <= 260:
		return 0.1
	default:
		return 0.0
	}
}

// moneylineAdjustment converts American odds to implied probability and
// rewards value on the scored side.
func moneylineAdjustment(odds int, has bool) float64 {
	if !has || odds == 0 {
		return 0
	}
	prob := ImpliedProbability(odds)
	return (prob - 0.5) * 1.0
}

// ImpliedProbability converts American odds to implied win probability.
func ImpliedProbability(odds int) float64 {
	if odds < 0 {
		o := float64(-odds)
		return o / (o + 100)
	}
	o := float64(odds)
	return 100 / (o + 100)
}

func restAdjustment(restHome, restAway int) float64 {
	diff := restHome - restAway
	return clamp(float64(diff)*0.05, -0.3, 0.3)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp10(v float64) float64 { return clamp(v, 0, 10) }

// BatchVariance checks the variance property: for batches of >=5 candidates,
// at least 4 distinct rounded scores and stddev >= 0.15.
func BatchVariance(scores []float64) (distinctCount int, stddev float64) {
	if len(scores) < 5 {
		return 0, 0
	}
	seen := map[float64]bool{}
	var sum float64
	for _, s := range scores {
		seen[math.Round(s*100)/100] = true
		sum += s
	}
	mean := sum / float64(len(scores))
	var variance float64
	for _, s := range scores {
		d := s - mean
		variance += d * d
	}
	variance /= float64(len(scores))
	distinct := make([]float64, 0, len(seen))
	for k := range seen {
		distinct = append(distinct, k)
	}
	sort.Float64s(distinct)
	return len(distinct), math.Sqrt(variance)
}
