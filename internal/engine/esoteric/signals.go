// Package esoteric implements the Esoteric Engine (C7): 23 independent
// environment/numerology signals, each with a fixed-shape provenance
// record. Esoteric is strictly independent of public-fade, sharp-money,
// and gematria-hit scoring — those belong to Research and Jarvis
// respectively, a per-signal isolation invariant covered in
// esoteric_test.go.
package esoteric

// SignalName enumerates the 23 canonical esoteric signals in declared
// (receipt) order, giving deterministic receipts regardless of map
// iteration order.
type SignalName string

const (
	SignalChromeResonance SignalName = "chrome_resonance"
	SignalVoidMoon        SignalName = "void_moon"
	SignalNoosphere       SignalName = "noosphere"
	SignalHurst           SignalName = "hurst"
	SignalKpIndex         SignalName = "kp_index"
	SignalBenford         SignalName = "benford"
	SignalBiorhythm       SignalName = "biorhythm"
	SignalLifePath        SignalName = "life_path"
	SignalFoundersEcho    SignalName = "founders_echo"
	SignalGannSquare      SignalName = "gann_square"
	SignalFiftyRetrace    SignalName = "fifty_retrace"
	SignalSchumann        SignalName = "schumann"
	SignalAtmospheric     SignalName = "atmospheric"
	SignalVortex          SignalName = "vortex"
	SignalFibonacci       SignalName = "fibonacci"
	SignalPhiAlignment    SignalName = "phi_alignment"
	SignalPlanetaryHour   SignalName = "planetary_hour"
	SignalTesla369        SignalName = "tesla_369"
	SignalDailyEdge       SignalName = "daily_edge"
	SignalAltitude        SignalName = "altitude"
	SignalWeather         SignalName = "weather"
	SignalReferee         SignalName = "referee"
	SignalTravel          SignalName = "travel"
)

// Signals is the declared enum order; iteration over this slice is the
// deterministic receipt order for all 23 signals.
var Signals = []SignalName{
	SignalChromeResonance, SignalVoidMoon, SignalNoosphere, SignalHurst, SignalKpIndex,
	SignalBenford, SignalBiorhythm, SignalLifePath, SignalFoundersEcho, SignalGannSquare,
	SignalFiftyRetrace, SignalSchumann, SignalAtmospheric, SignalVortex, SignalFibonacci,
	SignalPhiAlignment, SignalPlanetaryHour, SignalTesla369, SignalDailyEdge, SignalAltitude,
	SignalWeather, SignalReferee, SignalTravel,
}

// SignalStatus is one of the allowed per-signal statuses.
type SignalStatus string

const (
	StatusSuccess        SignalStatus = "SUCCESS"
	StatusFallback       SignalStatus = "FALLBACK"
	StatusNoData         SignalStatus = "NO_DATA"
	StatusError          SignalStatus = "ERROR"
	StatusPartial        SignalStatus = "PARTIAL"
	StatusFailed         SignalStatus = "FAILED"
	StatusNoComponents   SignalStatus = "NO_COMPONENTS"
	StatusSkipped        SignalStatus = "SKIPPED"
	StatusPending        SignalStatus = "PENDING"
	StatusFallbackSuccess SignalStatus = "FALLBACK_SUCCESS"
)

// SourceType classifies a signal's provenance as internal computation or an
// external API call.
type SourceType string

const (
	SourceInternal SourceType = "INTERNAL"
	SourceExternal SourceType = "EXTERNAL"
)

// CallProof is the minimal per-call proof embedded in each signal record
// (a slimmer mirror of telemetry.CallProof scoped to one signal's fetch).
type CallProof struct {
	CacheHit   bool
	Delta2xx   int
	LatencyMs  int64
}

// SignalRecord is the fixed-shape per-signal breakdown entry.
type SignalRecord struct {
	Name            SignalName
	Value           float64
	Status          SignalStatus
	SourceAPI       *string // nil for internal signals
	SourceType      SourceType
	RawInputsSummary string
	CallProof       CallProof
	Triggered       bool
	Contribution    float64
}

// Breakdown is the canonical 23-signal record, always fully populated (one
// SignalRecord per Signals entry, in order) regardless of how many signals
// actually fired.
type Breakdown map[SignalName]SignalRecord

// OrderedRecords returns the breakdown's records in declared enum order.
func (b Breakdown) OrderedRecords() []SignalRecord {
	out := make([]SignalRecord, 0, len(Signals))
	for _, name := range Signals {
		if rec, ok := b[name]; ok {
			out = append(out, rec)
		}
	}
	return out
}
