package pipeline

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/sawpanic/sharpline/internal/changemonitor"
	"github.com/sawpanic/sharpline/internal/confluence"
	venuectx "github.com/sawpanic/sharpline/internal/context"
	"github.com/sawpanic/sharpline/internal/engine/ai"
	"github.com/sawpanic/sharpline/internal/engine/esoteric"
	"github.com/sawpanic/sharpline/internal/engine/jarvis"
	"github.com/sawpanic/sharpline/internal/engine/research"
	"github.com/sawpanic/sharpline/internal/model"
	"github.com/sawpanic/sharpline/internal/persistence"
	"github.com/sawpanic/sharpline/internal/publish"
	"github.com/sawpanic/sharpline/internal/schema"
	"github.com/sawpanic/sharpline/internal/tiering"
	"github.com/sawpanic/sharpline/internal/timegate"
	"github.com/sawpanic/sharpline/internal/validators"
)

// RawPick is one raw line (team-level or player-prop) as fetched, before
// feature assembly. A Source produces these; BuildCandidateInputs turns one
// into the engine-facing CandidateInputs.
type RawPick struct {
	EventID     string
	Sport       string
	Matchup     string
	HomeTeam    string
	AwayTeam    string
	StartTimeET time.Time
	EventStatus model.EventStatus
	HasStarted  bool
	IsLive      bool

	MarketKind    model.MarketKind
	Market        string // human label, e.g. "Points O/U 24.5"
	Selection     string // team name/id for team-level, player name/id for props
	SelectionSide schema.SelectionSide
	PlayerName    string
	Line          *float64
	OverUnder     model.OverUnder
	UnderSupported bool
	Odds          *int
	Book          model.BookKey
	BookLink      string

	// Validator-facing fields (props only; zero value for team-level picks).
	GameID            string
	Side              string
	TeamID            string
	HomeTeamID        string
	AwayTeamID        string
	GamesPlayedSeason int
	ActiveStatus      string
	InjuryStatus      model.InjuryStatus
	GoalieStatus      string

	// Publish-facing field; empty for non-prop picks.
	PlayerID string

	AI       ai.Features
	Research research.Inputs
	Esoteric esoteric.Inputs
	Jarvis   jarvis.Input

	IsFavorite           bool
	InjuryAdjustedWinPct float64
	Sim                  confluence.MonteCarloResult
}

// isProp reports whether this pick is a player-prop market. Only prop
// candidates carry the fields PropIntegrity requires.
func (rp RawPick) isProp() bool {
	return rp.MarketKind == model.MarketPlayerProp
}

func (rp RawPick) pickID() string {
	return schema.ComputePickID(rp.EventID, rp.MarketKind, rp.Selection, rp.Line, rp.OverUnder)
}

func (rp RawPick) validatorCandidate(pickID string) validators.Candidate {
	return validators.Candidate{
		PickID:            pickID,
		Sport:             rp.Sport,
		GameID:            rp.GameID,
		PlayerName:        rp.PlayerName,
		Market:            rp.Market,
		Line:              rp.Line,
		Side:              rp.Side,
		TeamID:            rp.TeamID,
		HomeTeamID:        rp.HomeTeamID,
		AwayTeamID:        rp.AwayTeamID,
		GamesPlayedSeason: rp.GamesPlayedSeason,
		ActiveStatus:      rp.ActiveStatus,
		InjuryStatus:      rp.InjuryStatus,
	}
}

// seedFromPickID derives a deterministic numeric seed from a pick's content
// hash, used by Esoteric's internal hash signals and Jarvis's gematria
// input so the same pick always reduces to the same trigger set.
func seedFromPickID(pickID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(pickID))
	return int(h.Sum32() & 0x7fffffff)
}

func pickTypeFor(kind model.MarketKind) confluence.PickType {
	switch kind {
	case model.MarketSpread:
		return confluence.PickSpread
	case model.MarketMoneyline:
		return confluence.PickMoneyline
	case model.MarketTotal:
		return confluence.PickTotal
	case model.MarketPlayerProp:
		return confluence.PickPlayerProp
	default:
		return confluence.PickSpread
	}
}

// BuildCandidateInputs assembles one pick's CandidateInputs, wiring the
// venue-context pure functions into Esoteric's external-signal slots and
// deriving the deterministic hash seed both Esoteric and Jarvis need.
func BuildCandidateInputs(rp RawPick, ensemble ai.Ensemble, providers esoteric.ExternalProviders, weights research.MicroWeights) CandidateInputs {
	pickID := rp.pickID()
	seed := seedFromPickID(pickID)

	esotericIn := rp.Esoteric
	esotericIn.NumericSeed = seed
	esotericIn.IsOver = rp.OverUnder == model.Over
	esotericIn.IsUnder = rp.OverUnder == model.Under
	esotericIn.AltitudeAdjustment = venuectx.ApplyAltitude
	esotericIn.TravelImpact = func(distanceMiles float64, restDays int) string {
		return string(venuectx.ClassifyTravel(distanceMiles, restDays))
	}
	esotericIn.RefereeTendency = func(name string, rollingFouls float64, rollingSample int) (string, float64) {
		rate, lean := venuectx.RefereeTendency(name, rollingFouls, rollingSample)
		return string(rate), lean
	}

	jarvisIn := rp.Jarvis
	jarvisIn.NumericSeed = seed

	return CandidateInputs{
		PickID:           pickID,
		EventID:          rp.EventID,
		MarketKind:       rp.MarketKind,
		Selection:        rp.Selection,
		Line:             rp.Line,
		OverUnder:        rp.OverUnder,
		IsUnder:          rp.OverUnder == model.Under,
		UnderSupported:   rp.UnderSupported,
		AI:               rp.AI,
		Ensemble:         ensemble,
		Research:         rp.Research,
		ResearchWeights:  weights,
		Esoteric:         esotericIn,
		EsotericProviders: providers,
		Jarvis:           jarvisIn,
		Confluence: confluence.Input{
			PickType:             pickTypeFor(rp.MarketKind),
			IsFavorite:           rp.IsFavorite,
			InjuryAdjustedWinPct: rp.InjuryAdjustedWinPct,
			Sim:                  rp.Sim,
		},
	}
}

// Source is everything RunSlate needs from the outside world for one
// sport's slate: events, raw lines, DK's own listing of what it offers, and
// the pluggable engine dependencies (ensemble model, esoteric providers,
// research micro-weights).
type Source interface {
	FetchEvents(ctx context.Context, sport string) ([]model.Event, error)
	FetchRawPicks(ctx context.Context, events []model.Event) ([]RawPick, error)
	FetchDKListings(ctx context.Context, sport string) ([]validators.DKListing, error)
	Ensemble() ai.Ensemble
	EsotericProviders() esoteric.ExternalProviders
	ResearchWeights() research.MicroWeights
}

// Deps bundles RunSlate's infrastructure dependencies beyond the Source.
type Deps struct {
	Source          Source
	Snapshots       *persistence.SnapshotStore
	Caps            publish.Caps
	CorrelatedGames map[string]bool
	CriticalDown    int // count of CRITICAL providers currently DOWN, from registry.Readiness
}

// DebugScored pairs one candidate's raw input with its full scored result,
// for the esoteric-candidates debug dump (pre-publish-gate, every survivor).
type DebugScored struct {
	Raw    RawPick
	Scored ScoredCandidate
}

// SlateRequest is RunSlate's input: which sport, the ET calendar date
// reported in SlateResult.Date ("" means today; events are always filtered
// to today's ET window), and whether to include the full receipt array.
type SlateRequest struct {
	Sport string
	Date  string
	Debug bool
}

// SlateResult is RunSlate's output: the published slate plus everything a
// debug or telemetry consumer needs to explain how it got there.
type SlateResult struct {
	Sport          string
	Date           string
	Health         SlateHealth
	Stats          SlateStats
	Picks          []schema.PickCard
	Receipts       []schema.Receipt // populated only when SlateRequest.Debug is set
	ValidatorDrops []validators.DropReason
	PublishDrops   []publish.DropReason
	ChangeEvents   []changemonitor.ChangeEvent
	AllScored      []DebugScored // every validator-surviving candidate, pre-publish-gate
}

var confidenceByTier = map[tiering.Tier]string{
	tiering.TitaniumSmash: "very_high",
	tiering.GoldStar:      "high",
	tiering.EdgeLean:      "medium",
	tiering.Monitor:       "low",
	tiering.Pass:          "none",
}

func signalsFired(sc ScoredCandidate) []string {
	var out []string
	for _, rec := range sc.Esoteric.Breakdown.OrderedRecords() {
		if rec.Triggered {
			out = append(out, string(rec.Name))
		}
	}
	for _, t := range sc.Jarvis.Triggers {
		out = append(out, t.Kind)
	}
	return out
}

func buildPickCard(rp RawPick, sc ScoredCandidate) schema.PickCard {
	lineSigned := schema.FormatLineSigned(rp.MarketKind, rp.Line, rp.OverUnder)
	card := schema.PickCard{
		Identity: schema.Identity{
			PickID:      sc.PickID,
			EventID:     rp.EventID,
			Matchup:     rp.Matchup,
			HomeTeam:    rp.HomeTeam,
			AwayTeam:    rp.AwayTeam,
			StartTimeET: rp.StartTimeET,
			Status:      rp.EventStatus,
			HasStarted:  rp.HasStarted,
			IsLive:      rp.IsLive,
		},
		BetInstruction: schema.BetInstruction{
			PickType:     rp.MarketKind,
			MarketLabel:  rp.Market,
			Selection:    rp.Selection,
			Line:         rp.Line,
			LineSigned:   lineSigned,
			OddsAmerican: rp.Odds,
			Units:        sc.Units,
			Book:         rp.Book,
			BookLink:     rp.BookLink,
		},
		Reasoning: schema.Reasoning{
			Tier:              sc.Tier,
			Score:             sc.FinalScore,
			Confidence:        confidenceByTier[sc.Tier],
			SignalsFired:      signalsFired(sc),
			ConfluenceReasons: sc.Confluence.Reasons,
			EngineBreakdown: schema.EngineBreakdown{
				AIScore:       sc.AI.Score,
				ResearchScore: sc.Research,
				EsotericScore: sc.Esoteric.Score,
				JarvisScore:   sc.Jarvis.Score,
			},
		},
	}
	card.BetInstruction.BetString = schema.BuildBetString(card.BetInstruction.Selection, lineSigned, rp.Odds, rp.Book)
	schema.EnforceHomeAwayConsistency(&card, rp.SelectionSide, rp.HomeTeam, rp.AwayTeam)
	return card
}

func snapshotFor(rp RawPick, sc ScoredCandidate) changemonitor.Snapshot {
	snap := changemonitor.Snapshot{
		PickID:       sc.PickID,
		Tier:         string(sc.Tier),
		InjuryStatus: string(rp.InjuryStatus),
		GoalieStatus: rp.GoalieStatus,
	}
	if rp.Odds != nil {
		snap.ImpliedProbability = ai.ImpliedProbability(*rp.Odds)
	}
	if rp.Line != nil {
		snap.HasLine = true
		snap.Line = *rp.Line
		if rp.isProp() {
			snap.HasPropLine = true
			snap.PropLine = *rp.Line
		}
	}
	return snap
}

// RunSlate is the single entry point chaining Time Gate through Change
// Monitor for one sport/day request: fetch -> filter -> validate -> assemble
// -> score (tiering included) -> publish -> build cards -> diff against the
// last snapshot.
func RunSlate(ctx context.Context, gate *timegate.Gate, req SlateRequest, deps Deps) (SlateResult, error) {
	events, err := deps.Source.FetchEvents(ctx, req.Sport)
	if err != nil {
		return SlateResult{}, fmt.Errorf("pipeline: fetching events: %w", err)
	}

	_, _, dateStr, err := gate.ETDayBounds(req.Date)
	if err != nil {
		return SlateResult{}, fmt.Errorf("pipeline: resolving ET day %q: %w", req.Date, err)
	}

	filtered := gate.FilterEventsET(events)

	rawPicks, err := deps.Source.FetchRawPicks(ctx, filtered.Kept)
	if err != nil {
		return SlateResult{}, fmt.Errorf("pipeline: fetching raw picks: %w", err)
	}

	dkListings, err := deps.Source.FetchDKListings(ctx, req.Sport)
	if err != nil {
		return SlateResult{}, fmt.Errorf("pipeline: fetching DK listings: %w", err)
	}
	dkIndex := validators.BuildDKIndex(dkListings)

	ensemble := deps.Source.Ensemble()
	providers := deps.Source.EsotericProviders()
	weights := deps.Source.ResearchWeights()

	rawByPickID := make(map[string]RawPick, len(rawPicks))
	var propCandidates, teamCandidates []validators.Candidate
	for _, rp := range rawPicks {
		pickID := rp.pickID()
		rawByPickID[pickID] = rp
		cand := rp.validatorCandidate(pickID)
		if rp.isProp() {
			propCandidates = append(propCandidates, cand)
		} else {
			teamCandidates = append(teamCandidates, cand)
		}
	}

	keptProps, propDrops := validators.PropIntegrity(propCandidates)
	keptProps, injuryDrops := validators.InjuryGuard(keptProps, validators.InjuryGuardConfig{})
	keptProps, marketDrops := validators.MarketAvailability(keptProps, dkIndex, func(c validators.Candidate) float64 {
		if c.Line != nil {
			return *c.Line
		}
		return 0
	})

	var validatorDrops []validators.DropReason
	validatorDrops = append(validatorDrops, propDrops...)
	validatorDrops = append(validatorDrops, injuryDrops...)
	validatorDrops = append(validatorDrops, marketDrops...)

	surviving := append(append([]validators.Candidate{}, teamCandidates...), keptProps...)

	scored := make(map[string]ScoredCandidate, len(surviving))
	allScored := make([]DebugScored, 0, len(surviving))
	for _, cand := range surviving {
		rp := rawByPickID[cand.PickID]
		sc := ScoreCandidate(ctx, BuildCandidateInputs(rp, ensemble, providers, weights))
		scored[cand.PickID] = sc
		allScored = append(allScored, DebugScored{Raw: rp, Scored: sc})
	}

	publishCandidates := make([]publish.Candidate, 0, len(surviving))
	for _, cand := range surviving {
		rp := rawByPickID[cand.PickID]
		sc := scored[cand.PickID]
		publishCandidates = append(publishCandidates, publish.Candidate{
			PickID: cand.PickID, PlayerID: rp.PlayerID, Market: string(rp.MarketKind),
			GameID: rp.GameID, FinalScore: sc.FinalScore, Tier: sc.Tier,
		})
	}

	published, publishDrops := publish.Apply(publishCandidates, deps.CorrelatedGames, deps.Caps)

	pickCards := make([]schema.PickCard, 0, len(published))
	receipts := make([]schema.Receipt, 0, len(published))
	snapshotPicks := make([]changemonitor.Snapshot, 0, len(published))
	boostFireCount := 0
	var totalScore float64

	for _, p := range published {
		rp := rawByPickID[p.PickID]
		sc := scored[p.PickID]
		pickCards = append(pickCards, buildPickCard(rp, sc))
		receipts = append(receipts, BuildReceipt(sc, sc.Confluence.Reasons))
		snapshotPicks = append(snapshotPicks, snapshotFor(rp, sc))
		if sc.Confluence.Boost != 0 {
			boostFireCount++
		}
		totalScore += sc.FinalScore
	}

	var avgScore, boostRate float64
	if len(published) > 0 {
		avgScore = totalScore / float64(len(published))
		boostRate = float64(boostFireCount) / float64(len(published))
	}

	stats := SlateStats{
		EventCount:            len(filtered.Kept),
		CandidateCount:        len(surviving),
		PublishedCount:        len(published),
		CriticalProvidersDown: deps.CriticalDown,
		AvgEngineScore:        avgScore,
		JasonSimBoostFireRate: boostRate,
	}

	var changeEvents []changemonitor.ChangeEvent
	if deps.Snapshots != nil {
		previous, loadErr := deps.Snapshots.Load(req.Sport)
		if loadErr != nil {
			return SlateResult{}, fmt.Errorf("pipeline: loading previous snapshot: %w", loadErr)
		}
		changeEvents = changemonitor.Diff(previous, snapshotPicks)
		if saveErr := deps.Snapshots.Save(changemonitor.SnapshotMeta{
			Sport: req.Sport, ArchivedAt: gate.NowET(), Picks: snapshotPicks,
		}); saveErr != nil {
			return SlateResult{}, fmt.Errorf("pipeline: saving snapshot: %w", saveErr)
		}
	}

	result := SlateResult{
		Sport:          req.Sport,
		Date:           dateStr,
		Health:         DeriveSlateHealth(stats),
		Stats:          stats,
		Picks:          pickCards,
		ValidatorDrops: validatorDrops,
		PublishDrops:   publishDrops,
		ChangeEvents:   changeEvents,
		AllScored:      allScored,
	}
	if req.Debug {
		result.Receipts = receipts
	}
	return result, nil
}
