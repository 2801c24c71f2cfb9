// Package schema is the Canonical Schema + Receipt layer (C13): every pick
// is normalized into a single PickCard plus a reproducible Receipt proof.
package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/sawpanic/sharpline/internal/confluence"
	"github.com/sawpanic/sharpline/internal/engine/ai"
	"github.com/sawpanic/sharpline/internal/engine/esoteric"
	"github.com/sawpanic/sharpline/internal/engine/jarvis"
	"github.com/sawpanic/sharpline/internal/engine/research"
	"github.com/sawpanic/sharpline/internal/model"
	"github.com/sawpanic/sharpline/internal/tiering"
	"github.com/sawpanic/sharpline/internal/validators"
)

// SelectionSide is the home/away orientation of a selection, when applicable.
type SelectionSide string

const (
	SideHome SelectionSide = "HOME"
	SideAway SelectionSide = "AWAY"
	SideNone SelectionSide = ""
)

// Identity is the pick's immutable identity block.
type Identity struct {
	PickID      string    `json:"pick_id"`
	EventID     string    `json:"event_id"`
	Matchup     string    `json:"matchup"`
	HomeTeam    string    `json:"home_team"`
	AwayTeam    string    `json:"away_team"`
	StartTimeET time.Time `json:"start_time_et"`
	Status      model.EventStatus `json:"status"`
	HasStarted  bool      `json:"has_started"`
	IsLive      bool      `json:"is_live"`
}

// BetInstruction is the actionable bet-slip content.
type BetInstruction struct {
	PickType           model.MarketKind `json:"pick_type"`
	MarketLabel        string           `json:"market_label"`
	Selection          string           `json:"selection"`
	SelectionHomeAway  SelectionSide    `json:"selection_home_away"`
	Line               *float64         `json:"line,omitempty"`
	LineSigned         string           `json:"line_signed,omitempty"`
	OddsAmerican       *int             `json:"odds_american"`
	Units              float64          `json:"units"`
	BetString          string           `json:"bet_string"`
	Book               model.BookKey    `json:"book"`
	BookLink           string           `json:"book_link,omitempty"`
}

// Reasoning is the summarized proof a consumer sees alongside the pick.
type Reasoning struct {
	Tier            tiering.Tier       `json:"tier"`
	Score           float64            `json:"score"`
	Confidence      string             `json:"confidence"`
	SignalsFired    []string           `json:"signals_fired"`
	ConfluenceReasons []string         `json:"confluence_reasons"`
	EngineBreakdown EngineBreakdown    `json:"engine_breakdown"`
}

// EngineBreakdown is the four engine scores at a glance.
type EngineBreakdown struct {
	AIScore       float64 `json:"ai_score"`
	ResearchScore float64 `json:"research_score"`
	EsotericScore float64 `json:"esoteric_score"`
	JarvisScore   float64 `json:"jarvis_score"`
}

// PickCard is the normalized, published representation of one pick.
type PickCard struct {
	Identity        Identity        `json:"identity"`
	BetInstruction  BetInstruction  `json:"bet_instruction"`
	Reasoning       Reasoning       `json:"reasoning"`
	CorrectionFlags []string        `json:"correction_flags,omitempty"`
}

// Receipt is the full reproducible debug proof embedded in the response for
// every published candidate when debug output is requested; dropped
// candidates get no receipt.
type Receipt struct {
	PickID           string                          `json:"pick_id"`
	AIScore          float64                         `json:"ai_score"`
	AIContributions  map[ai.SubModel]float64         `json:"ai_contributions"`
	ResearchScore    float64                          `json:"research_score"`
	PillarVerdicts   map[research.Pillar]research.PillarResult `json:"pillar_verdicts"`
	EsotericScore    float64                          `json:"esoteric_score"`
	EsotericBreakdown []esoteric.SignalRecord         `json:"esoteric_breakdown"`
	JarvisScore      float64                          `json:"jarvis_score"`
	JarvisTriggers   []jarvis.TitaniumTrigger         `json:"jarvis_triggers"`
	JasonSimBoost    float64                          `json:"jason_sim_boost"`
	JasonSimDecision confluence.Decision              `json:"jason_sim_decision"`
	TitaniumCount    int                               `json:"titanium_count"`
	TitaniumTriggered bool                             `json:"titanium_triggered"`
	FinalScore       float64                          `json:"final_score"`
	Tier             tiering.Tier                      `json:"tier"`
	ValidatorOutcomes []validators.DropReason          `json:"validator_outcomes,omitempty"`
	Reasons          []string                          `json:"reasons"`
}

// ComputePickID returns the deterministic content hash for a pick:
// hash(event_id | market_kind | selection | line | over_under). Same inputs
// always yield the same id.
func ComputePickID(eventID string, marketKind model.MarketKind, selection string, line *float64, overUnder model.OverUnder) string {
	lineStr := "nil"
	if line != nil {
		lineStr = strconv.FormatFloat(*line, 'f', -1, 64)
	}
	raw := eventID + "|" + string(marketKind) + "|" + selection + "|" + lineStr + "|" + string(overUnder)
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])[:16]
}

// FormatLineSigned renders a spread/total line in the conventional
// sportsbook display form, e.g. "+1.5" or "O 220.5".
func FormatLineSigned(kind model.MarketKind, line *float64, ou model.OverUnder) string {
	if line == nil {
		return ""
	}
	v := *line
	if kind == model.MarketTotal || ou != model.NoOverUnder {
		prefix := "O"
		if ou == model.Under {
			prefix = "U"
		}
		return prefix + " " + strconv.FormatFloat(v, 'f', -1, 64)
	}
	sign := "+"
	if v < 0 {
		sign = ""
	}
	return sign + strconv.FormatFloat(v, 'f', -1, 64)
}

// EnforceHomeAwayConsistency rewrites selection to match the intended
// pick_side and appends a correction flag if the card's stored selection
// disagreed with that intent.
func EnforceHomeAwayConsistency(card *PickCard, pickSideIntent SelectionSide, homeTeam, awayTeam string) {
	if pickSideIntent == SideNone {
		return
	}
	expected := homeTeam
	if pickSideIntent == SideAway {
		expected = awayTeam
	}
	if card.BetInstruction.Selection != expected {
		card.CorrectionFlags = append(card.CorrectionFlags, "SELECTION_HOME_AWAY_CORRECTED")
		card.BetInstruction.Selection = expected
	}
	card.BetInstruction.SelectionHomeAway = pickSideIntent
}

// BuildBetString composes the human-readable bet-slip string, e.g.
// "Lakers -4.5 (-110) @ draftkings".
func BuildBetString(selection, lineSigned string, odds *int, book model.BookKey) string {
	s := selection
	if lineSigned != "" {
		s += " " + lineSigned
	}
	if odds != nil {
		oddsStr := strconv.Itoa(*odds)
		if *odds > 0 {
			oddsStr = "+" + oddsStr
		}
		s += " (" + oddsStr + ")"
	}
	s += " @ " + string(book)
	return s
}
