// Package registry is the static declaration of all 14 external providers,
// their required env vars, criticality, and the engine(s) they feed. It is
// the one place a "what feeds what" question is answered.
package registry

import (
	"context"
	"fmt"

	"github.com/sawpanic/sharpline/internal/config"
)

// Criticality controls whether a missing/unreachable provider fails loud
// (health endpoints) or fails soft (slate requests).
type Criticality string

const (
	Critical Criticality = "CRITICAL"
	Optional Criticality = "OPTIONAL"
)

// Status is one allowed provider runtime status.
type Status string

const (
	StatusConfigured     Status = "CONFIGURED"
	StatusMissingKey     Status = "MISSING_KEY"
	StatusUnreachable    Status = "UNREACHABLE"
	StatusRateLimited    Status = "RATE_LIMITED"
	StatusNotRelevant    Status = "NOT_RELEVANT"    // e.g. weather for indoor sports
	StatusFeatureDisabled Status = "FEATURE_DISABLED"
)

// Probe checks connectivity for a provider; returns nil if reachable.
type Probe func(ctx context.Context, cfg config.Config) error

// Provider is the static declaration of one external integration.
type Provider struct {
	Name          string
	EnvVars       []string // required env var names; any alias satisfies the requirement
	Criticality   Criticality
	FeedsEngines  []string // e.g. "AI", "Research", "Esoteric", "Validators"
	AllowedStatus []Status
	Probe         Probe
}

// Providers is the full declared provider set, one entry per external
// integration the pipeline can draw on.
var Providers = []Provider{
	{
		Name: "odds_api", EnvVars: []string{"ODDS_API_KEY"}, Criticality: Critical,
		FeedsEngines:  []string{"AI", "Research"},
		AllowedStatus: []Status{StatusConfigured, StatusMissingKey, StatusUnreachable, StatusRateLimited},
	},
	{
		Name: "playbook_api", EnvVars: []string{"PLAYBOOK_API_KEY"}, Criticality: Critical,
		FeedsEngines:  []string{"AI", "Research"},
		AllowedStatus: []Status{StatusConfigured, StatusMissingKey, StatusUnreachable, StatusRateLimited},
	},
	{
		Name: "balldontlie", EnvVars: []string{"BDL_API_KEY", "BALLDONTLIE_API_KEY"}, Criticality: Optional,
		FeedsEngines:  []string{"Context", "AI"},
		AllowedStatus: []Status{StatusConfigured, StatusMissingKey, StatusUnreachable, StatusRateLimited},
	},
	{
		Name: "espn_lineups", EnvVars: nil, Criticality: Optional,
		FeedsEngines:  []string{"Validators", "Context"},
		AllowedStatus: []Status{StatusConfigured, StatusUnreachable, StatusRateLimited},
	},
	{
		Name: "weather", EnvVars: []string{"WEATHER_API_KEY"}, Criticality: Optional,
		FeedsEngines:  []string{"Esoteric"},
		AllowedStatus: []Status{StatusConfigured, StatusMissingKey, StatusUnreachable, StatusNotRelevant},
	},
	{
		Name: "astronomy", EnvVars: []string{"ASTRONOMY_API_ID", "ASTRONOMY_API_SECRET"}, Criticality: Optional,
		FeedsEngines:  []string{"Esoteric"},
		AllowedStatus: []Status{StatusConfigured, StatusMissingKey, StatusUnreachable},
	},
	{
		Name: "noaa", EnvVars: []string{"NOAA_BASE_URL"}, Criticality: Optional,
		FeedsEngines:  []string{"Esoteric"},
		AllowedStatus: []Status{StatusConfigured, StatusMissingKey, StatusUnreachable, StatusRateLimited},
	},
	{
		Name: "fred", EnvVars: []string{"FRED_API_KEY"}, Criticality: Optional,
		FeedsEngines:  []string{"Esoteric"},
		AllowedStatus: []Status{StatusConfigured, StatusMissingKey, StatusUnreachable, StatusRateLimited},
	},
	{
		Name: "finnhub", EnvVars: []string{"FINNHUB_KEY"}, Criticality: Optional,
		FeedsEngines:  []string{"Research", "Esoteric"},
		AllowedStatus: []Status{StatusConfigured, StatusMissingKey, StatusUnreachable, StatusRateLimited},
	},
	{
		Name: "serpapi_news", EnvVars: []string{"SERPAPI_KEY"}, Criticality: Optional,
		FeedsEngines:  []string{"Research"},
		AllowedStatus: []Status{StatusConfigured, StatusMissingKey, StatusUnreachable, StatusRateLimited},
	},
	{
		Name: "twitter", EnvVars: []string{"TWITTER_BEARER"}, Criticality: Optional,
		FeedsEngines:  []string{"Esoteric", "Research"},
		AllowedStatus: []Status{StatusConfigured, StatusMissingKey, StatusUnreachable, StatusRateLimited},
	},
	{
		Name: "sharp_splits", EnvVars: []string{"ODDS_API_KEY"}, Criticality: Critical,
		FeedsEngines:  []string{"Research"},
		AllowedStatus: []Status{StatusConfigured, StatusMissingKey, StatusUnreachable, StatusRateLimited},
	},
	{
		Name: "dk_market", EnvVars: nil, Criticality: Critical,
		FeedsEngines:  []string{"Validators"},
		AllowedStatus: []Status{StatusConfigured, StatusUnreachable, StatusRateLimited},
	},
	{
		Name: "whop", EnvVars: []string{"WHOP_API_KEY"}, Criticality: Optional,
		FeedsEngines:  []string{"Research"},
		AllowedStatus: []Status{StatusConfigured, StatusMissingKey, StatusUnreachable},
	},
}

// ByName finds a provider in Providers by name with a linear scan.
func ByName(name string) (Provider, bool) {
	for _, p := range Providers {
		if p.Name == name {
			return p, true
		}
	}
	return Provider{}, false
}

// ReadinessEntry is one provider's readiness for /debug/integrations.
type ReadinessEntry struct {
	Name            string   `json:"name"`
	Criticality     Criticality `json:"criticality"`
	Configured      bool     `json:"configured"`
	MissingEnvVars  []string `json:"missing_env_vars,omitempty"`
	ProbeError      string   `json:"probe_error,omitempty"`
}

// envValue resolves the first configured alias for a provider's required
// env vars, mirroring config.Load's alias handling.
func envValue(cfg config.Config, envVar string) string {
	switch envVar {
	case "ODDS_API_KEY":
		return cfg.OddsAPIKey
	case "PLAYBOOK_API_KEY":
		return cfg.PlaybookAPIKey
	case "BDL_API_KEY", "BALLDONTLIE_API_KEY":
		return cfg.BallDontLieAPIKey
	case "WEATHER_API_KEY":
		return cfg.WeatherAPIKey
	case "FRED_API_KEY":
		return cfg.FREDAPIKey
	case "FINNHUB_KEY":
		return cfg.FinnhubKey
	case "SERPAPI_KEY":
		return cfg.SerpAPIKey
	case "TWITTER_BEARER":
		return cfg.TwitterBearer
	case "ASTRONOMY_API_ID":
		return cfg.AstronomyAPIID
	case "ASTRONOMY_API_SECRET":
		return cfg.AstronomyAPISecret
	case "NOAA_BASE_URL":
		return cfg.NOAABaseURL
	case "WHOP_API_KEY":
		return cfg.WhopAPIKey
	default:
		return ""
	}
}

// Readiness builds the fail-loud readiness snapshot consumed by
// /debug/integrations. A CRITICAL provider missing any required env var is
// always reported, never silently skipped.
func Readiness(ctx context.Context, cfg config.Config, runProbes bool) []ReadinessEntry {
	entries := make([]ReadinessEntry, 0, len(Providers))
	for _, p := range Providers {
		entry := ReadinessEntry{Name: p.Name, Criticality: p.Criticality}
		for _, ev := range p.EnvVars {
			if envValue(cfg, ev) == "" {
				entry.MissingEnvVars = append(entry.MissingEnvVars, ev)
			}
		}
		entry.Configured = len(p.EnvVars) == 0 || len(entry.MissingEnvVars) < len(p.EnvVars)
		if runProbes && p.Probe != nil && entry.Configured {
			if err := p.Probe(ctx, cfg); err != nil {
				entry.ProbeError = err.Error()
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// MissingCritical returns an error naming every CRITICAL provider that is
// not configured, used to fail loud on /debug/integrations.
func MissingCritical(entries []ReadinessEntry) error {
	var missing []string
	for _, e := range entries {
		if e.Criticality == Critical && !e.Configured {
			missing = append(missing, e.Name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("critical integrations not configured: %v", missing)
}
