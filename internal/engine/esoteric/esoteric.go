package esoteric

import (
	"context"
	"hash/fnv"
	"math"
	"time"
)

// ExternalProviders is the minimal provider-facing contract the Esoteric
// engine depends on: Score reads only these function fields, never a
// concrete client. A nil field or an error from a call is fail-soft: the
// signal records FALLBACK/NO_DATA/ERROR and contributes zero rather than
// fabricating a value.
type ExternalProviders struct {
	// MoonPhase returns 0 (new) .. 1 (full) illumination fraction.
	MoonPhase func(ctx context.Context, at time.Time) (float64, error)
	// KpIndex returns the current planetary K-index (0-9 scale).
	KpIndex func(ctx context.Context) (float64, error)
	// Weather returns temperature (F) and wind (mph) for an outdoor venue.
	Weather func(ctx context.Context, venue string) (tempF, windMph float64, err error)
	// SocialSentiment returns a -1..1 social buzz sentiment for noosphere.
	SocialSentiment func(ctx context.Context, homeTeam, awayTeam string) (float64, error)
	// EconomicSentiment returns a -1..1 macro sentiment proxy for daily_edge.
	EconomicSentiment func(ctx context.Context) (float64, error)
}

// Inputs bundles everything the 23 signals need for one candidate.
type Inputs struct {
	Sport               string
	HomeTeam            string
	AwayTeam            string
	Venue               string
	IsIndoorSport       bool
	NumericSeed         int // derived from the pick's deterministic id for internal hash signals
	PlayerBirthYMD      string // YYYY-MM-DD, empty if unknown
	FranchiseFoundedYear int
	IsOver              bool
	IsUnder             bool
	TravelDistanceMiles float64
	RestDays            int
	RefereeName         string
	RefereeRollingFoulsPerGame float64
	RefereeRollingSample int
	AltitudeAdjustment  func(sport, homeTeam string, isOver, isUnder bool) float64
	TravelImpact        func(distanceMiles float64, restDays int) string
	RefereeTendency     func(name string, rollingFouls float64, rollingSample int) (string, float64)
}

// Result is the Esoteric engine's output for one candidate.
type Result struct {
	Score     float64
	Breakdown Breakdown
}

// Score computes esoteric_edge_score in [0,10] plus the full 23-signal
// breakdown with provenance, using p for any external data (pass an empty
// ExternalProviders{} to force every external signal to its fail-soft path).
func Score(ctx context.Context, in Inputs, p ExternalProviders) Result {
	breakdown := make(Breakdown, len(Signals))
	var total float64

	add := func(rec SignalRecord) {
		breakdown[rec.Name] = rec
		total += rec.Contribution
	}

	add(chromeResonance(in))
	add(voidMoon(ctx, in, p))
	add(noosphere(ctx, in, p))
	add(hurst(in))
	add(kpIndex(ctx, p))
	add(benford(in))
	add(biorhythm(in))
	add(lifePath(in))
	add(foundersEcho(in))
	add(gannSquare(in))
	add(fiftyRetrace(in))
	add(schumann(in))
	add(atmospheric(ctx, in, p))
	add(vortex(in))
	add(fibonacci(in))
	add(phiAlignment(in))
	add(planetaryHour(in))
	add(tesla369(in))
	add(dailyEdge(ctx, in, p))
	add(altitude(in))
	add(weather(ctx, in, p))
	add(referee(in))
	add(travel(in))

	baseline := 5.0
	return Result{Score: clamp10(baseline + total), Breakdown: breakdown}
}

func clamp10(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

func internalRec(name SignalName, value float64, status SignalStatus, triggered bool, contribution float64, summary string) SignalRecord {
	return SignalRecord{
		Name: name, Value: value, Status: status, SourceAPI: nil, SourceType: SourceInternal,
		RawInputsSummary: summary, Triggered: triggered, Contribution: contribution,
	}
}

func externalRec(name SignalName, sourceAPI string, value float64, status SignalStatus, triggered bool, contribution float64, summary string, proof CallProof) SignalRecord {
	api := sourceAPI
	return SignalRecord{
		Name: name, Value: value, Status: status, SourceAPI: &api, SourceType: SourceExternal,
		RawInputsSummary: summary, Triggered: triggered, Contribution: contribution, CallProof: proof,
	}
}

func hashFrac(seed int, salt string) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(salt))
	combined := uint32(seed) ^ h.Sum32()
	return float64(combined%10000) / 10000.0
}

// --- internal signals ---

func chromeResonance(in Inputs) SignalRecord {
	frac := hashFrac(in.NumericSeed, "chrome|"+in.HomeTeam+in.AwayTeam)
	contribution := 0.0
	triggered := frac > 0.8
	if triggered {
		contribution = 0.1
	}
	return internalRec(SignalChromeResonance, frac, StatusSuccess, triggered, contribution, "matchup hash resonance")
}

func hurst(in Inputs) SignalRecord {
	frac := hashFrac(in.NumericSeed, "hurst")
	// Hurst exponent proxy in [0,1]; >0.5 implies trend persistence.
	triggered := frac > 0.55
	contribution := 0.0
	if triggered {
		contribution = 0.08
	}
	return internalRec(SignalHurst, frac, StatusSuccess, triggered, contribution, "persistence proxy from seed")
}

func benford(in Inputs) SignalRecord {
	// Benford's law conformance proxy over the numeric seed's leading digit.
	n := in.NumericSeed
	if n < 0 {
		n = -n
	}
	leading := n
	for leading >= 10 {
		leading /= 10
	}
	conforms := leading == 1 || leading == 2
	contribution := 0.0
	if conforms {
		contribution = 0.05
	}
	return internalRec(SignalBenford, float64(leading), StatusSuccess, conforms, contribution, "leading digit of numeric seed")
}

func biorhythm(in Inputs) SignalRecord {
	if in.PlayerBirthYMD == "" {
		return internalRec(SignalBiorhythm, 0, StatusNoData, false, 0, "no player birth date available")
	}
	born, err := time.Parse("2006-01-02", in.PlayerBirthYMD)
	if err != nil {
		return internalRec(SignalBiorhythm, 0, StatusError, false, 0, "unparseable birth date")
	}
	days := time.Since(born).Hours() / 24
	physical := math.Sin(2 * math.Pi * days / 23)
	emotional := math.Sin(2 * math.Pi * days / 28)
	intellectual := math.Sin(2 * math.Pi * days / 33)
	composite := (physical + emotional + intellectual) / 3
	triggered := composite > 0.5
	contribution := 0.0
	if triggered {
		contribution = 0.1
	}
	return internalRec(SignalBiorhythm, composite, StatusSuccess, triggered, contribution, "23/28/33-day cycle composite")
}

func lifePath(in Inputs) SignalRecord {
	if in.PlayerBirthYMD == "" {
		return internalRec(SignalLifePath, 0, StatusNoData, false, 0, "no player birth date available")
	}
	digits := 0
	for _, r := range in.PlayerBirthYMD {
		if r >= '0' && r <= '9' {
			digits += int(r - '0')
		}
	}
	reduced := reduceKeepMaster(digits)
	triggered := reduced == 11 || reduced == 22 || reduced == 33 || reduced == 9
	contribution := 0.0
	if triggered {
		contribution = 0.1
	}
	return internalRec(SignalLifePath, float64(reduced), StatusSuccess, triggered, contribution, "numerology reduction of birth date digits")
}

func reduceKeepMaster(n int) int {
	for n > 9 {
		if n == 11 || n == 22 || n == 33 {
			return n
		}
		sum := 0
		for n > 0 {
			sum += n % 10
			n /= 10
		}
		n = sum
	}
	return n
}

func foundersEcho(in Inputs) SignalRecord {
	if in.FranchiseFoundedYear == 0 {
		return internalRec(SignalFoundersEcho, 0, StatusNoData, false, 0, "no franchise founding year")
	}
	yearsSince := time.Now().Year() - in.FranchiseFoundedYear
	triggered := yearsSince%33 == 0 || yearsSince%100 == 0
	contribution := 0.0
	if triggered {
		contribution = 0.1
	}
	return internalRec(SignalFoundersEcho, float64(yearsSince), StatusSuccess, triggered, contribution, "years since franchise founding")
}

func gannSquare(in Inputs) SignalRecord {
	frac := hashFrac(in.NumericSeed, "gann")
	triggered := frac > 0.75
	contribution := 0.0
	if triggered {
		contribution = 0.08
	}
	return internalRec(SignalGannSquare, frac, StatusSuccess, triggered, contribution, "Gann square-of-nine proxy")
}

func fiftyRetrace(in Inputs) SignalRecord {
	frac := hashFrac(in.NumericSeed, "retrace")
	triggered := frac > 0.48 && frac < 0.52
	contribution := 0.0
	if triggered {
		contribution = 0.05
	}
	return internalRec(SignalFiftyRetrace, frac, StatusSuccess, triggered, contribution, "50% retracement proximity proxy")
}

func schumann(in Inputs) SignalRecord {
	// Schumann resonance baseline ~7.83Hz; modeled as a deterministic
	// internal proxy absent a live ELF sensor feed.
	frac := hashFrac(in.NumericSeed, "schumann")
	value := 7.83 + (frac-0.5)*0.6
	triggered := value > 8.0
	contribution := 0.0
	if triggered {
		contribution = 0.05
	}
	return internalRec(SignalSchumann, value, StatusFallback, triggered, contribution, "baseline 7.83Hz proxy, no live ELF feed configured")
}

var teslaKeys = map[int]bool{3: true, 6: true, 9: true}
var vortexPattern = []int{1, 2, 4, 8, 7, 5}

func vortex(in Inputs) SignalRecord {
	root := reduceKeepMaster(in.NumericSeed)
	teslaHit := teslaKeys[root]
	inPattern := false
	for _, v := range vortexPattern {
		if v == root {
			inPattern = true
			break
		}
	}
	contribution := 0.0
	if teslaHit {
		contribution += 0.15
	}
	if inPattern {
		contribution += 0.08
	}
	return internalRec(SignalVortex, float64(root), StatusSuccess, teslaHit || inPattern, contribution, "vortex math digital root")
}

var fibonacciSequence = []int{1, 2, 3, 5, 8, 13, 21, 34, 55, 89, 144, 233, 377, 610, 987}

const goldenRatio = 1.6180339887

func fibonacci(in Inputs) SignalRecord {
	n := in.NumericSeed
	if n < 0 {
		n = -n
	}
	exact := false
	nearest := math.MaxInt
	for _, f := range fibonacciSequence {
		if f == n {
			exact = true
		}
		d := f - n
		if d < 0 {
			d = -d
		}
		if d < nearest {
			nearest = d
		}
	}
	contribution := 0.0
	triggered := false
	switch {
	case exact:
		contribution = 0.10
		triggered = true
	case nearest <= 0 || float64(nearest)/math.Max(float64(n), 1) <= 0.5:
		contribution = 0.05
		triggered = true
	}
	return internalRec(SignalFibonacci, float64(nearest), StatusSuccess, triggered, contribution, "distance to nearest Fibonacci number")
}

func phiAlignment(in Inputs) SignalRecord {
	frac := hashFrac(in.NumericSeed, "phi")
	ratio := 1.0 + frac
	diff := ratio - goldenRatio
	if diff < 0 {
		diff = -diff
	}
	triggered := diff <= 0.05
	contribution := 0.0
	if triggered {
		contribution = 0.05
	}
	return internalRec(SignalPhiAlignment, ratio, StatusSuccess, triggered, contribution, "golden-ratio alignment proxy")
}

var planetaryRulers = []string{"Sun", "Venus", "Mercury", "Moon", "Saturn", "Jupiter", "Mars"}

func planetaryHour(in Inputs) SignalRecord {
	hour := time.Now().Hour()
	ruler := planetaryRulers[hour%len(planetaryRulers)]
	triggered := ruler == "Jupiter" || ruler == "Sun"
	contribution := 0.0
	if triggered {
		contribution = 0.05
	}
	return SignalRecord{
		Name: SignalPlanetaryHour, Value: float64(hour % len(planetaryRulers)), Status: StatusSuccess,
		SourceType: SourceInternal, RawInputsSummary: "chaldean planetary hour: " + ruler,
		Triggered: triggered, Contribution: contribution,
	}
}

func tesla369(in Inputs) SignalRecord {
	root := reduceKeepMaster(in.NumericSeed)
	triggered := teslaKeys[root]
	contribution := 0.0
	if triggered {
		contribution = 0.1
	}
	return internalRec(SignalTesla369, float64(root), StatusSuccess, triggered, contribution, "digital root Tesla 3/6/9 check")
}

func altitude(in Inputs) SignalRecord {
	if in.AltitudeAdjustment == nil {
		return internalRec(SignalAltitude, 0, StatusNoComponents, false, 0, "altitude table not wired")
	}
	adj := in.AltitudeAdjustment(in.Sport, in.HomeTeam, in.IsOver, in.IsUnder)
	return internalRec(SignalAltitude, adj, StatusSuccess, adj != 0, adj, "venue altitude table lookup")
}

func referee(in Inputs) SignalRecord {
	if in.RefereeTendency == nil || in.RefereeName == "" {
		return internalRec(SignalReferee, 0, StatusNoData, false, 0, "no referee assignment known")
	}
	rate, lean := in.RefereeTendency(in.RefereeName, in.RefereeRollingFoulsPerGame, in.RefereeRollingSample)
	return internalRec(SignalReferee, lean, StatusSuccess, lean != 0, lean, "referee foul-rate tendency: "+rate)
}

func travel(in Inputs) SignalRecord {
	if in.TravelImpact == nil {
		return internalRec(SignalTravel, 0, StatusNoComponents, false, 0, "travel table not wired")
	}
	impact := in.TravelImpact(in.TravelDistanceMiles, in.RestDays)
	contributionByImpact := map[string]float64{"NONE": 0, "LOW": -0.02, "MEDIUM": -0.05, "HIGH": -0.1}
	contribution := contributionByImpact[impact]
	return internalRec(SignalTravel, in.TravelDistanceMiles, StatusSuccess, contribution != 0, contribution, "travel fatigue classification: "+impact)
}

// --- external signals (fail-soft) ---

func voidMoon(ctx context.Context, in Inputs, p ExternalProviders) SignalRecord {
	if p.MoonPhase == nil {
		return externalRec(SignalVoidMoon, "astronomy_api", 0, StatusNoData, false, 0, "astronomy provider not configured", CallProof{})
	}
	start := time.Now()
	illum, err := p.MoonPhase(ctx, time.Now())
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return externalRec(SignalVoidMoon, "astronomy_api", 0, StatusError, false, 0, "astronomy provider error", CallProof{LatencyMs: latency})
	}
	voidPhase := illum < 0.05 || illum > 0.95
	contribution := 0.0
	if voidPhase {
		contribution = -0.05
	}
	return externalRec(SignalVoidMoon, "astronomy_api", illum, StatusSuccess, voidPhase, contribution, "lunar illumination fraction", CallProof{Delta2xx: 1, LatencyMs: latency})
}

func kpIndex(ctx context.Context, p ExternalProviders) SignalRecord {
	if p.KpIndex == nil {
		return externalRec(SignalKpIndex, "noaa", 0, StatusNoData, false, 0, "NOAA provider not configured", CallProof{})
	}
	start := time.Now()
	kp, err := p.KpIndex(ctx)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return externalRec(SignalKpIndex, "noaa", 0, StatusFallback, false, 0, "NOAA Kp fetch failed, neutral fallback", CallProof{LatencyMs: latency})
	}
	contribution := kpToContribution(kp)
	return externalRec(SignalKpIndex, "noaa", kp, StatusSuccess, true, contribution, "planetary K-index", CallProof{Delta2xx: 1, LatencyMs: latency})
}

// kpToContribution maps Kp category to a score contribution: QUIET -> 0.8,
// rising through STORM -> 0.3.
func kpToContribution(kp float64) float64 {
	switch {
	case kp < 2:
		return 0.8 // QUIET
	case kp < 4:
		return 0.6
	case kp < 5:
		return 0.5 // UNSETTLED/ACTIVE
	case kp < 7:
		return 0.4 // MINOR/MODERATE STORM
	default:
		return 0.3 // STORM (severe/extreme)
	}
}

func atmospheric(ctx context.Context, in Inputs, p ExternalProviders) SignalRecord {
	if in.IsIndoorSport {
		return externalRec(SignalAtmospheric, "weather_api", 0, StatusSuccess, false, 0, "indoor sport, not relevant", CallProof{})
	}
	if p.Weather == nil {
		return externalRec(SignalAtmospheric, "weather_api", 0, StatusNoData, false, 0, "weather provider not configured", CallProof{})
	}
	start := time.Now()
	_, windMph, err := p.Weather(ctx, in.Venue)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return externalRec(SignalAtmospheric, "weather_api", 0, StatusError, false, 0, "weather fetch error", CallProof{LatencyMs: latency})
	}
	triggered := windMph >= 15
	contribution := 0.0
	if triggered {
		contribution = -0.1
	}
	return externalRec(SignalAtmospheric, "weather_api", windMph, StatusSuccess, triggered, contribution, "wind speed mph", CallProof{Delta2xx: 1, LatencyMs: latency})
}

func weather(ctx context.Context, in Inputs, p ExternalProviders) SignalRecord {
	if in.IsIndoorSport {
		return externalRec(SignalWeather, "weather_api", 0, StatusNoData, false, 0, "indoor sport: NOT_RELEVANT, not FEATURE_DISABLED", CallProof{})
	}
	if p.Weather == nil {
		return externalRec(SignalWeather, "weather_api", 0, StatusNoData, false, 0, "weather provider not configured", CallProof{})
	}
	start := time.Now()
	tempF, _, err := p.Weather(ctx, in.Venue)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return externalRec(SignalWeather, "weather_api", 0, StatusError, false, 0, "weather fetch error", CallProof{LatencyMs: latency})
	}
	triggered := tempF <= 32 || tempF >= 95
	contribution := 0.0
	if triggered {
		contribution = -0.08
	}
	return externalRec(SignalWeather, "weather_api", tempF, StatusSuccess, triggered, contribution, "temperature F", CallProof{Delta2xx: 1, LatencyMs: latency})
}

func noosphere(ctx context.Context, in Inputs, p ExternalProviders) SignalRecord {
	if p.SocialSentiment == nil {
		return externalRec(SignalNoosphere, "twitter", 0, StatusNoData, false, 0, "social provider not configured", CallProof{})
	}
	start := time.Now()
	sentiment, err := p.SocialSentiment(ctx, in.HomeTeam, in.AwayTeam)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return externalRec(SignalNoosphere, "twitter", 0, StatusError, false, 0, "social fetch error", CallProof{LatencyMs: latency})
	}
	contribution := sentiment * 0.1
	return externalRec(SignalNoosphere, "twitter", sentiment, StatusSuccess, sentiment != 0, contribution, "social sentiment buzz", CallProof{Delta2xx: 1, LatencyMs: latency})
}

func dailyEdge(ctx context.Context, in Inputs, p ExternalProviders) SignalRecord {
	if p.EconomicSentiment == nil {
		return externalRec(SignalDailyEdge, "fred_finnhub", 0, StatusNoData, false, 0, "economic provider not configured", CallProof{})
	}
	start := time.Now()
	sentiment, err := p.EconomicSentiment(ctx)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return externalRec(SignalDailyEdge, "fred_finnhub", 0, StatusFallback, false, 0, "economic fetch failed, neutral fallback", CallProof{LatencyMs: latency})
	}
	contribution := sentiment * 0.05
	return externalRec(SignalDailyEdge, "fred_finnhub", sentiment, StatusSuccess, sentiment != 0, contribution, "macro sentiment proxy", CallProof{Delta2xx: 1, LatencyMs: latency})
}
