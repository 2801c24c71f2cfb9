// Package pipeline orchestrates a single slate request end to end: Time
// Gate -> Fetch Layer -> Validators -> feature assembly ->
// AI/Research/Esoteric/Jarvis -> combine -> Jason-Sim -> Tiering -> Publish
// Gate -> Canonical Schema + Receipt -> Change Monitor -> response. RunSlate is the single
// entry point; ScoreCandidate runs the per-candidate engine/tiering chain
// RunSlate calls once per surviving candidate.
package pipeline

// SlateHealth summarizes how complete and edge-rich a slate response is.
type SlateHealth string

const (
	HealthHealthy  SlateHealth = "HEALTHY"
	HealthDegraded SlateHealth = "DEGRADED"
	HealthStarved  SlateHealth = "STARVED"
	HealthLowEdge  SlateHealth = "LOW_EDGE"
	HealthNoSlate  SlateHealth = "NO_SLATE"
	HealthNoPicks  SlateHealth = "NO_PICKS"
)

// SlateStats are the inputs to slate_health derivation, gathered once the
// full candidate set for a sport/day has been scored and published.
type SlateStats struct {
	EventCount            int // events surviving the time gate
	CandidateCount        int // candidates surviving validators, pre-publish-gate
	PublishedCount        int // picks in the final published list
	CriticalProvidersDown int // providers marked CRITICAL in registry.Readiness that are DOWN
	AvgEngineScore        float64
	JasonSimBoostFireRate float64 // fraction of candidates that received a non-zero boost
}

// DeriveSlateHealth classifies a slate request's overall health. Order
// matters: the most severe, data-availability-rooted conditions are checked
// first, then the score/signal-richness conditions.
func DeriveSlateHealth(s SlateStats) SlateHealth {
	if s.EventCount == 0 {
		return HealthNoSlate
	}
	if s.PublishedCount == 0 {
		return HealthNoPicks
	}
	if s.CriticalProvidersDown > 0 && s.CandidateCount == 0 {
		return HealthStarved
	}
	if s.CriticalProvidersDown > 0 {
		return HealthDegraded
	}
	if s.AvgEngineScore < 6.0 && s.JasonSimBoostFireRate < 0.1 {
		return HealthLowEdge
	}
	return HealthHealthy
}
