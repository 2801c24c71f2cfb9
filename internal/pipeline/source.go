package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/sawpanic/sharpline/internal/confluence"
	"github.com/sawpanic/sharpline/internal/engine/ai"
	"github.com/sawpanic/sharpline/internal/engine/esoteric"
	"github.com/sawpanic/sharpline/internal/engine/research"
	"github.com/sawpanic/sharpline/internal/model"
	"github.com/sawpanic/sharpline/internal/timegate"
	"github.com/sawpanic/sharpline/internal/validators"
)

// StaticSource is a deterministic offline Source: a fixed slate of
// demo events and picks, seeded per event so the same sport/day always
// produces the same output. cmd/sharpline builds every slate (scan, serve,
// debug esoteric) from it.
type StaticSource struct{}

// NewStaticSource returns a StaticSource.
func NewStaticSource() *StaticSource {
	return &StaticSource{}
}

var demoMatchups = []struct {
	home, away string
}{
	{"Lakers", "Celtics"},
	{"Warriors", "Nuggets"},
	{"Bucks", "Heat"},
}

var demoProps = []struct {
	player, stat string
	line         float64
}{
	{"LeBron James", "Points", 27.5},
	{"Nikola Jokic", "Rebounds", 11.5},
	{"Jayson Tatum", "Points", 29.5},
}

// FetchEvents returns a fixed three-game slate for sport, starting at
// 19:00, 20:00 and 21:00 ET on the current ET day so they survive the time
// gate regardless of when this runs.
func (s *StaticSource) FetchEvents(ctx context.Context, sport string) ([]model.Event, error) {
	now := timegate.New().NowET()
	start := time.Date(now.Year(), now.Month(), now.Day(), 19, 0, 0, 0, now.Location())
	events := make([]model.Event, 0, len(demoMatchups))
	for i, m := range demoMatchups {
		events = append(events, model.Event{
			EventID:      fmt.Sprintf("%s-demo-%d", sport, i),
			Sport:        model.Sport(sport),
			League:       sport,
			HomeTeam:     m.home,
			AwayTeam:     m.away,
			StartTimeUTC: start.Add(time.Duration(i) * time.Hour).UTC(),
			StartTimeET:  start.Add(time.Duration(i) * time.Hour),
			Status:       model.StatusPreGame,
		})
	}
	return events, nil
}

// FetchRawPicks generates one spread pick and one player-prop pick per
// event, with every engine feature deterministically seeded off the event
// id so repeated runs against the same events reproduce the same scores.
func (s *StaticSource) FetchRawPicks(ctx context.Context, events []model.Event) ([]RawPick, error) {
	var picks []RawPick
	for i, ev := range events {
		rng := rand.New(rand.NewSource(seedFromEventID(ev.EventID)))
		picks = append(picks, demoSpreadPick(ev, rng))
		if i < len(demoProps) {
			picks = append(picks, demoPropPick(ev, demoProps[i], rng))
		}
	}
	return picks, nil
}

// FetchDKListings returns an empty index, which validators.MarketAvailability
// treats as "allow everything" — the offline facade has no real DK feed to
// cross-reference against.
func (s *StaticSource) FetchDKListings(ctx context.Context, sport string) ([]validators.DKListing, error) {
	return nil, nil
}

// Ensemble returns nil, forcing ai.Engine's deterministic heuristic
// fallback rather than a live model inference call.
func (s *StaticSource) Ensemble() ai.Ensemble { return nil }

// EsotericProviders returns an all-nil provider set; every esoteric signal
// that would call one of these providers takes its fail-soft NO_DATA path
// (atmospheric still reports SUCCESS for the demo's indoor games, which need
// no provider call).
func (s *StaticSource) EsotericProviders() esoteric.ExternalProviders {
	return esoteric.ExternalProviders{}
}

// ResearchWeights returns the factory weights unmodified (no tuning drift).
func (s *StaticSource) ResearchWeights() research.MicroWeights {
	return research.MicroWeights{}
}

func seedFromEventID(eventID string) int64 {
	var seed int64
	for _, r := range eventID {
		seed += int64(r)
	}
	return seed
}

func demoSpreadPick(ev model.Event, rng *rand.Rand) RawPick {
	line := -3.5 + rng.Float64()*3
	odds := -110
	return RawPick{
		EventID:     ev.EventID,
		Sport:       string(ev.Sport),
		Matchup:     ev.HomeTeam + " vs " + ev.AwayTeam,
		HomeTeam:    ev.HomeTeam,
		AwayTeam:    ev.AwayTeam,
		StartTimeET: ev.StartTimeET,
		EventStatus: ev.Status,
		MarketKind:  model.MarketSpread,
		Market:      "Spread",
		Selection:   ev.HomeTeam,
		Line:        &line,
		Odds:        &odds,
		Book:        model.BookDraftKings,
		GameID:      ev.EventID,
		Side:        "HOME",
		AI: ai.Features{
			HomeTeam: ev.HomeTeam, AwayTeam: ev.AwayTeam, Spread: line, Total: 220 + rng.Float64()*20,
			MoneylineOdds: odds, HasMoneyline: true, RestDaysHome: 1 + rng.Intn(3), RestDaysAway: 1 + rng.Intn(3),
		},
		Research: research.Inputs{Line: line, HasLine: true},
		Esoteric: esoteric.Inputs{
			Sport: string(ev.Sport), HomeTeam: ev.HomeTeam, AwayTeam: ev.AwayTeam, IsIndoorSport: true,
		},
		IsFavorite: line < 0,
		Sim: demoMonteCarlo(rng),
	}
}

func demoPropPick(ev model.Event, prop struct {
	player, stat string
	line         float64
}, rng *rand.Rand) RawPick {
	odds := -115
	return RawPick{
		EventID:     ev.EventID,
		Sport:       string(ev.Sport),
		Matchup:     ev.HomeTeam + " vs " + ev.AwayTeam,
		HomeTeam:    ev.HomeTeam,
		AwayTeam:    ev.AwayTeam,
		StartTimeET: ev.StartTimeET,
		EventStatus: ev.Status,
		MarketKind:  model.MarketPlayerProp,
		Market:      prop.stat,
		Selection:   prop.player,
		PlayerName:  prop.player,
		PlayerID:    prop.player,
		Line:        &prop.line,
		OverUnder:   model.Over,
		Odds:        &odds,
		Book:        model.BookDraftKings,
		GameID:      ev.EventID,
		Side:        "OVER",
		TeamID:      ev.HomeTeam,
		HomeTeamID:  ev.HomeTeam,
		AwayTeamID:  ev.AwayTeam,
		GamesPlayedSeason: 40 + rng.Intn(30),
		ActiveStatus:      "active",
		InjuryStatus:      model.InjuryHealthy,
		AI: ai.Features{
			HomeTeam: ev.HomeTeam, AwayTeam: ev.AwayTeam, MoneylineOdds: odds, HasMoneyline: true,
			RestDaysHome: 1 + rng.Intn(3), RestDaysAway: 1 + rng.Intn(3),
		},
		Research: research.Inputs{Line: prop.line, HasLine: true},
		Esoteric: esoteric.Inputs{
			Sport: string(ev.Sport), HomeTeam: ev.HomeTeam, AwayTeam: ev.AwayTeam, IsIndoorSport: true,
			PlayerBirthYMD: "1984-12-30",
		},
		IsFavorite: true,
		Sim:        demoMonteCarlo(rng),
	}
}

func demoMonteCarlo(rng *rand.Rand) confluence.MonteCarloResult {
	return confluence.MonteCarloResult{
		HomeWinPct:     0.4 + rng.Float64()*0.2,
		CoverPct:       0.4 + rng.Float64()*0.2,
		ProjectedTotal: 210 + rng.Float64()*20,
	}
}
