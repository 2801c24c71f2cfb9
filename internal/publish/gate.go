// Package publish implements the Publish Gate (C11): dominance dedup,
// correlation penalty, quality gate, and per-tier/player/game caps. Applied
// after validators, to candidates that already carry their tier; the gate
// does not re-tier, so a correlation-penalised pick keeps the tier it had.
package publish

import (
	"sort"

	"github.com/sawpanic/sharpline/internal/tiering"
)

// Candidate is the publish-gate view of a scored pick.
type Candidate struct {
	PickID     string
	PlayerID   string // empty for non-prop picks
	Market     string
	GameID     string
	FinalScore float64
	Tier       tiering.Tier
}

// DropReason records why the publish gate removed a candidate.
type DropReason struct {
	PickID string
	Reason string
}

const (
	ReasonDominanceDedup   = "PUBLISH_DOMINANCE_DEDUP"
	ReasonQualityGate      = "PUBLISH_QUALITY_GATE"
	ReasonCapGoldStar      = "PUBLISH_CAP_GOLD_STAR"
	ReasonCapEdgeLean      = "PUBLISH_CAP_EDGE_LEAN"
	ReasonCapTotal         = "PUBLISH_CAP_TOTAL"
	ReasonCapPerPlayer     = "PUBLISH_CAP_PER_PLAYER"
	ReasonCapGoldPerPlayer = "PUBLISH_CAP_GOLD_PER_PLAYER"
	ReasonCapPerGame       = "PUBLISH_CAP_PER_GAME"
)

// QualityMinScore is the minimum final_score to survive the quality gate.
const QualityMinScore = 5.5

// Caps bounds the published slate.
type Caps struct {
	MaxGoldStar    int
	MaxEdgeLean    int
	MaxTotal       int
	MaxPerPlayer   int
	MaxGoldPerPlayer int
	MaxPerGame     int
}

// DefaultCaps are the factory-configured caps.
var DefaultCaps = Caps{
	MaxGoldStar: 5, MaxEdgeLean: 8, MaxTotal: 13,
	MaxPerPlayer: 2, MaxGoldPerPlayer: 1, MaxPerGame: 3,
}

// CorrelationPenaltyPerRank is the per lower-rank penalty subtracted from
// candidates beyond the top one in a highly-correlated game cluster.
const CorrelationPenaltyPerRank = 0.25

// Apply runs dominance dedup, the correlation penalty, the quality gate, and
// the caps, returning the published subset in descending final_score order
// (ties broken by pick_id) plus every drop reason in stage order.
func Apply(candidates []Candidate, correlatedGames map[string]bool, caps Caps) (published []Candidate, dropped []DropReason) {
	kept, dedupDrops := dominanceDedup(candidates)
	dropped = append(dropped, dedupDrops...)

	kept = applyCorrelationPenalty(kept, correlatedGames)

	kept, qualityDrops := qualityGate(kept)
	dropped = append(dropped, qualityDrops...)

	sortDescending(kept)

	kept, capDrops := applyCaps(kept, caps)
	dropped = append(dropped, capDrops...)

	return kept, dropped
}

func dominanceDedup(candidates []Candidate) (kept []Candidate, dropped []DropReason) {
	best := map[string]Candidate{}
	order := []string{}
	for _, c := range candidates {
		if c.PlayerID == "" {
			// No player cluster (e.g. team spread/total/moneyline): keep all.
			kept = append(kept, c)
			continue
		}
		clusterKey := c.PlayerID + "|" + c.Market
		existing, ok := best[clusterKey]
		if !ok {
			best[clusterKey] = c
			order = append(order, clusterKey)
			continue
		}
		if c.FinalScore > existing.FinalScore {
			dropped = append(dropped, DropReason{PickID: existing.PickID, Reason: ReasonDominanceDedup})
			best[clusterKey] = c
		} else {
			dropped = append(dropped, DropReason{PickID: c.PickID, Reason: ReasonDominanceDedup})
		}
	}
	for _, k := range order {
		kept = append(kept, best[k])
	}
	return kept, dropped
}

// applyCorrelationPenalty subtracts a monotone penalty from lower-ranked
// candidates within a game flagged as highly correlated, keeping the
// single highest-scoring candidate in that game untouched.
func applyCorrelationPenalty(candidates []Candidate, correlatedGames map[string]bool) []Candidate {
	if len(correlatedGames) == 0 {
		return candidates
	}
	byGame := map[string][]int{}
	for i, c := range candidates {
		if correlatedGames[c.GameID] {
			byGame[c.GameID] = append(byGame[c.GameID], i)
		}
	}
	out := make([]Candidate, len(candidates))
	copy(out, candidates)
	for _, idxs := range byGame {
		sort.SliceStable(idxs, func(a, b int) bool {
			return out[idxs[a]].FinalScore > out[idxs[b]].FinalScore
		})
		for rank, idx := range idxs {
			if rank == 0 {
				continue
			}
			out[idx].FinalScore -= float64(rank) * CorrelationPenaltyPerRank
		}
	}
	return out
}

func qualityGate(candidates []Candidate) (kept []Candidate, dropped []DropReason) {
	for _, c := range candidates {
		if c.FinalScore < QualityMinScore {
			dropped = append(dropped, DropReason{PickID: c.PickID, Reason: ReasonQualityGate})
			continue
		}
		kept = append(kept, c)
	}
	return kept, dropped
}

func sortDescending(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].FinalScore != candidates[j].FinalScore {
			return candidates[i].FinalScore > candidates[j].FinalScore
		}
		return candidates[i].PickID < candidates[j].PickID
	})
}

// applyCaps fills the published slate in descending final_score order,
// respecting the tier/player/game caps; anything that would exceed a cap is
// dropped rather than reordering the slate.
func applyCaps(candidates []Candidate, caps Caps) (kept []Candidate, dropped []DropReason) {
	goldCount, edgeCount, total := 0, 0, 0
	perPlayer := map[string]int{}
	perPlayerGold := map[string]int{}
	perGame := map[string]int{}

	for _, c := range candidates {
		if total >= caps.MaxTotal {
			dropped = append(dropped, DropReason{PickID: c.PickID, Reason: ReasonCapTotal})
			continue
		}
		if c.Tier == tiering.GoldStar && goldCount >= caps.MaxGoldStar {
			dropped = append(dropped, DropReason{PickID: c.PickID, Reason: ReasonCapGoldStar})
			continue
		}
		if c.Tier == tiering.EdgeLean && edgeCount >= caps.MaxEdgeLean {
			dropped = append(dropped, DropReason{PickID: c.PickID, Reason: ReasonCapEdgeLean})
			continue
		}
		if c.PlayerID != "" && perPlayer[c.PlayerID] >= caps.MaxPerPlayer {
			dropped = append(dropped, DropReason{PickID: c.PickID, Reason: ReasonCapPerPlayer})
			continue
		}
		if c.PlayerID != "" && c.Tier == tiering.GoldStar && perPlayerGold[c.PlayerID] >= caps.MaxGoldPerPlayer {
			dropped = append(dropped, DropReason{PickID: c.PickID, Reason: ReasonCapGoldPerPlayer})
			continue
		}
		if perGame[c.GameID] >= caps.MaxPerGame {
			dropped = append(dropped, DropReason{PickID: c.PickID, Reason: ReasonCapPerGame})
			continue
		}

		kept = append(kept, c)
		total++
		if c.Tier == tiering.GoldStar {
			goldCount++
			if c.PlayerID != "" {
				perPlayerGold[c.PlayerID]++
			}
		}
		if c.Tier == tiering.EdgeLean {
			edgeCount++
		}
		if c.PlayerID != "" {
			perPlayer[c.PlayerID]++
		}
		perGame[c.GameID]++
	}
	return kept, dropped
}
