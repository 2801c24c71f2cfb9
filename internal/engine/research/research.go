// Package research implements the Research Engine (C6): eight pillars, each
// producing a boolean passed flag plus a numeric contribution.
package research

import "github.com/sawpanic/sharpline/internal/model"

// Pillar enumerates the 8 Research pillars in declared (receipt) order.
type Pillar string

const (
	PillarSharpSplit        Pillar = "sharp_split"
	PillarReverseLineMove   Pillar = "reverse_line_move"
	PillarHospitalFade      Pillar = "hospital_fade"
	PillarSituationalSpot   Pillar = "situational_spot"
	PillarExpertConsensus   Pillar = "expert_consensus"
	PillarPropCorrelation   Pillar = "prop_correlation"
	PillarHookDiscipline    Pillar = "hook_discipline"
	PillarVolumeDiscipline  Pillar = "volume_discipline"
)

// Pillars is the declared enum order.
var Pillars = []Pillar{
	PillarSharpSplit, PillarReverseLineMove, PillarHospitalFade, PillarSituationalSpot,
	PillarExpertConsensus, PillarPropCorrelation, PillarHookDiscipline, PillarVolumeDiscipline,
}

// PillarResult is one pillar's verdict.
type PillarResult struct {
	Passed       bool
	Contribution float64
}

// Inputs aggregates everything the 8 pillars need. Fields not applicable to
// a given pick (e.g. no injury news) are left at zero value.
type Inputs struct {
	Split              model.SplitSignal
	HasSplit           bool
	KeyInjuryOnOpponent bool // an opponent-side starter ruled OUT/DOUBTFUL creates a hospital-fade edge
	IsDivisionalOrRivalry bool
	BackToBackOpponent  bool
	ExpertConsensusPct  float64 // 0..1, share of tracked experts on this side
	HasExpertConsensus  bool
	CorrelatedPropsAgree bool
	Line               float64
	HasLine            bool
	PublicBetPctOnSide float64
	SharpMoneyPctOnSide float64
}

// MicroWeights lets a tuning job drift pillar weights by at most +/-15% off
// the factory defaults. Values are multipliers, default 1.0.
type MicroWeights map[Pillar]float64

const maxDriftPct = 0.15

// ClampDrift bounds a micro-weight to the allowed +/-15% drift window.
func ClampDrift(weight float64) float64 {
	if weight < 1-maxDriftPct {
		return 1 - maxDriftPct
	}
	if weight > 1+maxDriftPct {
		return 1 + maxDriftPct
	}
	return weight
}

const baseScore = 5.0

// factoryWeights are each pillar's factory-default contribution when passed.
var factoryWeights = map[Pillar]float64{
	PillarSharpSplit:       1.2,
	PillarReverseLineMove:  0.8,
	PillarHospitalFade:     0.6,
	PillarSituationalSpot:  0.5,
	PillarExpertConsensus:  0.4,
	PillarPropCorrelation:  0.4,
	PillarHookDiscipline:   0.6,
	PillarVolumeDiscipline: 0.5,
}

// Score evaluates all 8 pillars and returns the clamped research_score plus
// the per-pillar breakdown keyed by pillar.
func Score(in Inputs, weights MicroWeights) (float64, map[Pillar]PillarResult) {
	results := map[Pillar]PillarResult{}
	total := baseScore

	eval := func(p Pillar, passed bool) {
		w := 1.0
		if weights != nil {
			if custom, ok := weights[p]; ok {
				w = ClampDrift(custom)
			}
		}
		contribution := 0.0
		if passed {
			contribution = factoryWeights[p] * w
			total += contribution
		}
		results[p] = PillarResult{Passed: passed, Contribution: contribution}
	}

	eval(PillarSharpSplit, in.HasSplit && in.Split.RLM != model.RLMNone && in.Split.SharpSide != "")
	eval(PillarReverseLineMove, in.HasSplit && in.Split.RLM == model.RLMStrong)
	eval(PillarHospitalFade, in.KeyInjuryOnOpponent)
	eval(PillarSituationalSpot, in.IsDivisionalOrRivalry || in.BackToBackOpponent)
	eval(PillarExpertConsensus, in.HasExpertConsensus && in.ExpertConsensusPct >= 0.65)
	eval(PillarPropCorrelation, in.CorrelatedPropsAgree)
	eval(PillarHookDiscipline, in.HasLine && isKeyNumberAdjacent(in.Line))
	eval(PillarVolumeDiscipline, in.HasSplit && in.Split.SteamStrength >= 0.5)

	return clamp10(total), results
}

// isKeyNumberAdjacent flags spreads/totals within 0.5 of an NFL/NBA key
// number (3, 7 for NFL-style spreads), rewarding hook discipline.
func isKeyNumberAdjacent(line float64) bool {
	abs := line
	if abs < 0 {
		abs = -abs
	}
	for _, key := range []float64{3, 7} {
		d := abs - key
		if d < 0 {
			d = -d
		}
		if d <= 0.5 {
			return true
		}
	}
	return false
}

func clamp10(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}
