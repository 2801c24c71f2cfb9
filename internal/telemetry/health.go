// Package telemetry records per-call IntegrationHealth tuples, exposes a
// request-scoped CallProof for receipts, and rolls counters up into a
// process-wide daily aggregate. Counters are updated under a mutex rather
// than atomics so Snapshot/DailyRollup observe a consistent tuple per
// provider.
package telemetry

import (
	"sync"
	"time"
)

// IntegrationHealth is the per-provider counter tuple exposed by Snapshot
// and DailyRollup.
type IntegrationHealth struct {
	Called        int64
	Succeeded     int64
	Failed        int64
	LastSuccessAt time.Time
	LastError     string
	CacheHits     int64
	CacheMisses   int64
	Status2xx     int64
	Status4xx     int64
	Status5xx     int64
	Timeouts      int64
	totalLatencyMs int64
}

// MeanLatencyMs returns the running mean latency across all calls.
func (h *IntegrationHealth) MeanLatencyMs() float64 {
	if h.Called == 0 {
		return 0
	}
	return float64(h.totalLatencyMs) / float64(h.Called)
}

// CallOutcome describes one outbound call's result for recording.
type CallOutcome struct {
	Provider   string
	Success    bool
	CacheHit   bool
	StatusCode int // 0 if not an HTTP call (e.g. cache hit)
	Timeout    bool
	Err        string
	LatencyMs  int64
}

// CallProof is the request-scoped, per-call proof object each esoteric
// signal and each fetch attaches to its receipt entry.
type CallProof struct {
	CacheHit     bool      `json:"cache_hit"`
	StatusBucket string    `json:"status_bucket"` // "2xx", "4xx", "5xx", "" for cache/internal
	LatencyMs    int64     `json:"latency_ms"`
	At           time.Time `json:"at"`
}

// Registry holds one IntegrationHealth per provider and rolls daily
// aggregates.
type Registry struct {
	mu       sync.Mutex
	health   map[string]*IntegrationHealth
	dailyAgg map[string]map[string]*IntegrationHealth // date -> provider -> health
}

// NewRegistry constructs an empty telemetry registry.
func NewRegistry() *Registry {
	return &Registry{
		health:   make(map[string]*IntegrationHealth),
		dailyAgg: make(map[string]map[string]*IntegrationHealth),
	}
}

// Record updates the process-wide counters for one provider call and
// returns a CallProof suitable for embedding in a receipt.
func (r *Registry) Record(o CallOutcome) CallProof {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.health[o.Provider]
	if !ok {
		h = &IntegrationHealth{}
		r.health[o.Provider] = h
	}
	h.Called++
	h.totalLatencyMs += o.LatencyMs

	bucket := ""
	if o.CacheHit {
		h.CacheHits++
	} else {
		h.CacheMisses++
	}
	if o.Timeout {
		h.Timeouts++
	}
	switch {
	case o.StatusCode >= 200 && o.StatusCode < 300:
		h.Status2xx++
		bucket = "2xx"
	case o.StatusCode >= 400 && o.StatusCode < 500:
		h.Status4xx++
		bucket = "4xx"
	case o.StatusCode >= 500:
		h.Status5xx++
		bucket = "5xx"
	}
	if o.Success {
		h.Succeeded++
		h.LastSuccessAt = time.Now()
	} else {
		h.Failed++
		h.LastError = o.Err
	}

	day := time.Now().Format("2006-01-02")
	if _, ok := r.dailyAgg[day]; !ok {
		r.dailyAgg[day] = make(map[string]*IntegrationHealth)
	}
	dh, ok := r.dailyAgg[day][o.Provider]
	if !ok {
		dh = &IntegrationHealth{}
		r.dailyAgg[day][o.Provider] = dh
	}
	*dh = *h

	return CallProof{
		CacheHit:     o.CacheHit,
		StatusBucket: bucket,
		LatencyMs:    o.LatencyMs,
		At:           time.Now(),
	}
}

// Snapshot returns a shallow copy of the current per-provider health map for
// readiness endpoints. It is safe for concurrent use.
func (r *Registry) Snapshot() map[string]IntegrationHealth {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]IntegrationHealth, len(r.health))
	for k, v := range r.health {
		out[k] = *v
	}
	return out
}

// DailyRollup returns the rolled-up counters for the given date
// (YYYY-MM-DD), used to produce the per-day integration rollup JSON.
func (r *Registry) DailyRollup(date string) map[string]IntegrationHealth {
	r.mu.Lock()
	defer r.mu.Unlock()
	day, ok := r.dailyAgg[date]
	if !ok {
		return nil
	}
	out := make(map[string]IntegrationHealth, len(day))
	for k, v := range day {
		out[k] = *v
	}
	return out
}
