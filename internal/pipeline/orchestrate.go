package pipeline

import (
	"context"

	"github.com/sawpanic/sharpline/internal/confluence"
	"github.com/sawpanic/sharpline/internal/engine/ai"
	"github.com/sawpanic/sharpline/internal/engine/esoteric"
	"github.com/sawpanic/sharpline/internal/engine/jarvis"
	"github.com/sawpanic/sharpline/internal/engine/research"
	"github.com/sawpanic/sharpline/internal/model"
	"github.com/sawpanic/sharpline/internal/schema"
	"github.com/sawpanic/sharpline/internal/tiering"
)

// CandidateInputs is everything one candidate needs to run through the four
// scoring engines, Jason-Sim, and tiering. Assembly of these inputs from raw
// fetch-layer data happens upstream of this package (feature assembly).
type CandidateInputs struct {
	PickID       string
	EventID      string
	MarketKind   model.MarketKind
	Selection    string
	Line         *float64
	OverUnder    model.OverUnder
	IsUnder      bool
	UnderSupported bool

	AI       ai.Features
	Ensemble ai.Ensemble

	Research       research.Inputs
	ResearchWeights research.MicroWeights

	Esoteric     esoteric.Inputs
	EsotericProviders esoteric.ExternalProviders

	Jarvis jarvis.Input

	Confluence confluence.Input
}

// ScoredCandidate is one candidate after all four engines, Jason-Sim, and
// tiering have run, ready for validators and the publish gate.
type ScoredCandidate struct {
	PickID       string
	AI           ai.Result
	Research     float64
	ResearchPillars map[research.Pillar]research.PillarResult
	Esoteric     esoteric.Result
	Jarvis       jarvis.Result
	Confluence   confluence.Result
	BaseScore    float64
	FinalScore   float64
	TitaniumEligible bool
	Tier         tiering.Tier
	Units        float64
	Action       tiering.Action
}

// ScoreCandidate runs AI, Research, Esoteric, and Jarvis, combines them into
// a preliminary score, applies the Jason-Sim boost and the UNDER penalty,
// then resolves the final tier.
func ScoreCandidate(ctx context.Context, in CandidateInputs) ScoredCandidate {
	aiEngine := ai.New(in.Ensemble)
	aiResult := aiEngine.Score(in.AI)

	researchScore, pillars := research.Score(in.Research, in.ResearchWeights)

	esotericResult := esoteric.Score(ctx, in.Esoteric, in.EsotericProviders)

	jarvisResult := jarvis.Score(in.Jarvis)

	baseScore := combineEngineScores(aiResult.Score, researchScore, esotericResult.Score, jarvisResult.Score)

	confluenceIn := in.Confluence
	confluenceIn.AnyActiveEngineSignal = confluenceIn.AnyActiveEngineSignal || anyEngineSignalActive(jarvisResult, pillars, esotericResult)
	if confluenceIn.BaseScoreImpliesWinPct == 0 {
		confluenceIn.BaseScoreImpliesWinPct = impliedWinPctFromBaseScore(baseScore)
	}

	confluenceResult := confluence.Evaluate(confluenceIn)
	finalScore := confluence.ApplyBoost(baseScore, confluenceResult.Boost)

	finalScore = tiering.ApplyUnderPenalty(finalScore, in.IsUnder, in.UnderSupported)

	engineScores := [4]float64{aiResult.Score, researchScore, esotericResult.Score, jarvisResult.Score}
	titaniumEligible := tiering.IsTitaniumEligible(jarvisResult.TitaniumCount, finalScore, engineScores)

	tier, units, action := tiering.TierFromScore(finalScore, titaniumEligible)

	return ScoredCandidate{
		PickID: in.PickID, AI: aiResult, Research: researchScore, ResearchPillars: pillars,
		Esoteric: esotericResult, Jarvis: jarvisResult, Confluence: confluenceResult,
		BaseScore: baseScore, FinalScore: finalScore, TitaniumEligible: titaniumEligible,
		Tier: tier, Units: units, Action: action,
	}
}

// anyEngineSignalActive reports whether any upstream engine produced a
// non-neutral signal: an active Jarvis read, a passed Research pillar, or a
// triggered Esoteric signal. Jason-Sim's "any active engine signal" input is
// derived here rather than trusted from the caller.
func anyEngineSignalActive(jr jarvis.Result, pillars map[research.Pillar]research.PillarResult, er esoteric.Result) bool {
	if jr.Active {
		return true
	}
	for _, p := range pillars {
		if p.Passed {
			return true
		}
	}
	for _, rec := range er.Breakdown {
		if rec.Triggered {
			return true
		}
	}
	return false
}

// impliedWinPctFromBaseScore maps the combined base score (0..10) onto the
// win-percentage scale Jason-Sim compares its simulation against, centered
// at 50% for a base score of 5.0.
func impliedWinPctFromBaseScore(baseScore float64) float64 {
	pct := 50 + (baseScore-5.0)*10
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	default:
		return pct
	}
}

// EngineWeights are the factory weights combining the four engine scores
// into one preliminary score before Jason-Sim.
var EngineWeights = struct {
	AI, Research, Esoteric, Jarvis float64
}{AI: 0.35, Research: 0.35, Esoteric: 0.15, Jarvis: 0.15}

func combineEngineScores(aiScore, researchScore, esotericScore, jarvisScore float64) float64 {
	w := EngineWeights
	return aiScore*w.AI + researchScore*w.Research + esotericScore*w.Esoteric + jarvisScore*w.Jarvis
}

// BuildReceipt assembles the full reproducible debug proof for one scored
// candidate.
func BuildReceipt(sc ScoredCandidate, reasons []string) schema.Receipt {
	return schema.Receipt{
		PickID:            sc.PickID,
		AIScore:           sc.AI.Score,
		AIContributions:   sc.AI.Contributions,
		ResearchScore:     sc.Research,
		PillarVerdicts:    sc.ResearchPillars,
		EsotericScore:     sc.Esoteric.Score,
		EsotericBreakdown: sc.Esoteric.Breakdown.OrderedRecords(),
		JarvisScore:       sc.Jarvis.Score,
		JarvisTriggers:    sc.Jarvis.Triggers,
		JasonSimBoost:     sc.Confluence.Boost,
		JasonSimDecision:  sc.Confluence.Decision,
		TitaniumCount:     sc.Jarvis.TitaniumCount,
		TitaniumTriggered: sc.TitaniumEligible,
		FinalScore:        sc.FinalScore,
		Tier:              sc.Tier,
		Reasons:           reasons,
	}
}
