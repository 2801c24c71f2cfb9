// Package validators implements the ordered validator chain (C10): prop
// integrity, injury guard, DK market availability. Validators run on copies
// and never mutate the input candidate; every drop records a reason code
// for the receipt.
package validators

import (
	"strconv"
	"strings"

	"github.com/sawpanic/sharpline/internal/model"
)

// Candidate is the minimal validator-facing view of a pick. Validators
// accept this by value so the caller's original struct is never mutated.
type Candidate struct {
	PickID          string
	Sport           string
	GameID          string
	PlayerName      string
	Market          string
	Line            *float64
	Side            string
	TeamID          string
	HomeTeamID      string
	AwayTeamID      string
	GamesPlayedSeason int
	ActiveStatus    string
	InjuryStatus    model.InjuryStatus
}

// DropReason is one validator's rejection code.
type DropReason struct {
	PickID string
	Reason string
}

// Drop reason codes.
const (
	ReasonMissingRequiredField = "PROP_MISSING_REQUIRED_FIELD"
	ReasonTeamMismatch         = "PROP_TEAM_MISMATCH"
	ReasonNoGamesPlayed        = "PROP_NO_GAMES_PLAYED"
	ReasonInactivePlayer       = "PROP_INACTIVE_PLAYER"
	ReasonInjuryOut            = "INJURY_OUT"
	ReasonInjurySuspended      = "INJURY_SUSPENDED"
	ReasonInjuryDoubtfulBlocked = "INJURY_DOUBTFUL_BLOCKED"
	ReasonInjuryGTDBlocked     = "INJURY_GTD_BLOCKED"
	ReasonDKMarketNotListed    = "DK_MARKET_NOT_LISTED"
)

// PropIntegrity validates required fields, team-id consistency, and active
// status. Callers should only pass player-prop candidates through this
// gate — team-level markets don't carry a PlayerName and would always fail
// the required-field check.
func PropIntegrity(candidates []Candidate) (kept []Candidate, dropped []DropReason) {
	for _, c := range candidates {
		if reason := propIntegrityReason(c); reason != "" {
			dropped = append(dropped, DropReason{PickID: c.PickID, Reason: reason})
			continue
		}
		kept = append(kept, c)
	}
	return kept, dropped
}

func propIntegrityReason(c Candidate) string {
	hasTeamReference := c.TeamID != "" || c.HomeTeamID != "" || c.AwayTeamID != ""
	if c.Sport == "" || c.GameID == "" || c.PlayerName == "" || c.Market == "" || c.Line == nil ||
		c.Side == "" || !hasTeamReference {
		return ReasonMissingRequiredField
	}
	if c.TeamID != "" && c.TeamID != c.HomeTeamID && c.TeamID != c.AwayTeamID {
		return ReasonTeamMismatch
	}
	if c.GamesPlayedSeason <= 0 {
		return ReasonNoGamesPlayed
	}
	if strings.EqualFold(c.ActiveStatus, "inactive") {
		return ReasonInactivePlayer
	}
	return ""
}

// InjuryGuardConfig controls the optional stricter blocking flags.
type InjuryGuardConfig struct {
	BlockDoubtful bool
	BlockGTD      bool
}

// InjuryGuard drops candidates whose player is OUT or SUSPENDED, and
// optionally DOUBTFUL/QUESTIONABLE-GTD when the corresponding flag is set.
func InjuryGuard(candidates []Candidate, cfg InjuryGuardConfig) (kept []Candidate, dropped []DropReason) {
	for _, c := range candidates {
		switch c.InjuryStatus {
		case model.InjuryOut:
			dropped = append(dropped, DropReason{PickID: c.PickID, Reason: ReasonInjuryOut})
			continue
		case model.InjurySuspended:
			dropped = append(dropped, DropReason{PickID: c.PickID, Reason: ReasonInjurySuspended})
			continue
		case model.InjuryDoubtful:
			if cfg.BlockDoubtful {
				dropped = append(dropped, DropReason{PickID: c.PickID, Reason: ReasonInjuryDoubtfulBlocked})
				continue
			}
		case model.InjuryQuestionable:
			if cfg.BlockGTD {
				dropped = append(dropped, DropReason{PickID: c.PickID, Reason: ReasonInjuryGTDBlocked})
				continue
			}
		}
		kept = append(kept, c)
	}
	return kept, dropped
}

// DKListing is one entry in the DraftKings market-availability index.
type DKListing struct {
	Sport             string
	GameID            string
	NormalizedPlayerOrMarket string
	Line              float64
	Side              string
}

// DKIndex is keyed by (sport, game_id, normalized_player_name|market, line,
// side). An empty index allows everything through (graceful degradation
// when the DK listing feed is unavailable).
type DKIndex map[string]bool

// BuildDKIndex normalizes each listing's player/market key to lower-case
// before indexing, so lookups are case-insensitive.
func BuildDKIndex(listings []DKListing) DKIndex {
	idx := make(DKIndex, len(listings))
	for _, l := range listings {
		idx[dkKey(l.Sport, l.GameID, l.NormalizedPlayerOrMarket, l.Line, l.Side)] = true
	}
	return idx
}

func dkKey(sport, gameID, playerOrMarket string, line float64, side string) string {
	return strings.ToLower(sport) + "|" + gameID + "|" + strings.ToLower(playerOrMarket) + "|" + formatLine(line) + "|" + strings.ToLower(side)
}

func formatLine(line float64) string {
	return strconv.FormatFloat(line, 'f', -1, 64)
}

// MarketAvailability drops any prop not present in idx. An empty idx lets
// every candidate through.
func MarketAvailability(candidates []Candidate, idx DKIndex, line func(c Candidate) float64) (kept []Candidate, dropped []DropReason) {
	if len(idx) == 0 {
		return candidates, nil
	}
	for _, c := range candidates {
		key := dkKey(c.Sport, c.GameID, normalizedPlayerOrMarket(c), line(c), c.Side)
		if !idx[key] {
			dropped = append(dropped, DropReason{PickID: c.PickID, Reason: ReasonDKMarketNotListed})
			continue
		}
		kept = append(kept, c)
	}
	return kept, dropped
}

func normalizedPlayerOrMarket(c Candidate) string {
	if c.PlayerName != "" {
		return c.PlayerName
	}
	return c.Market
}
