// Package config reads the logical environment-variable surface once at
// startup into an immutable struct. No package below this one reads
// os.Getenv directly — every gating decision consults this struct instead
// of scattering os.Getenv calls across the codebase.
package config

import "os"

// Config is the immutable, process-wide configuration snapshot.
type Config struct {
	OddsAPIKey        string
	PlaybookAPIKey    string
	BallDontLieAPIKey string
	WeatherAPIKey     string
	FREDAPIKey        string
	FinnhubKey        string
	SerpAPIKey        string
	TwitterBearer     string
	AstronomyAPIID    string
	AstronomyAPISecret string
	NOAABaseURL       string
	WhopAPIKey        string
	DatabaseURL       string
	RedisURL          string
	VolumeMountPath   string
	APIAuthKey        string
	EnableDemo        bool
	OverridesPath     string
}

// Load reads the logical env-var surface. BALLDONTLIE_API_KEY and
// BDL_API_KEY are accepted as aliases of the same value, BDL_API_KEY winning
// when both are set (first-registered-alias-wins is the registry's
// convention, see internal/registry).
func Load() Config {
	return Config{
		OddsAPIKey:         os.Getenv("ODDS_API_KEY"),
		PlaybookAPIKey:     os.Getenv("PLAYBOOK_API_KEY"),
		BallDontLieAPIKey:  firstNonEmpty(os.Getenv("BDL_API_KEY"), os.Getenv("BALLDONTLIE_API_KEY")),
		WeatherAPIKey:      os.Getenv("WEATHER_API_KEY"),
		FREDAPIKey:         os.Getenv("FRED_API_KEY"),
		FinnhubKey:         os.Getenv("FINNHUB_KEY"),
		SerpAPIKey:         os.Getenv("SERPAPI_KEY"),
		TwitterBearer:      os.Getenv("TWITTER_BEARER"),
		AstronomyAPIID:     os.Getenv("ASTRONOMY_API_ID"),
		AstronomyAPISecret: os.Getenv("ASTRONOMY_API_SECRET"),
		NOAABaseURL:        os.Getenv("NOAA_BASE_URL"),
		WhopAPIKey:         os.Getenv("WHOP_API_KEY"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		VolumeMountPath:    os.Getenv("RAILWAY_VOLUME_MOUNT_PATH"),
		APIAuthKey:         os.Getenv("API_AUTH_KEY"),
		EnableDemo:         os.Getenv("ENABLE_DEMO") == "true",
		OverridesPath:      os.Getenv("SHARPLINE_OVERRIDES_PATH"),
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
