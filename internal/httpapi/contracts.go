// Package httpapi defines the external HTTP contract and wires gorilla/mux
// routes to it. Authentication middleware, the community vote store, and
// SSE streaming are explicit Non-goals — only the route and payload shapes
// are implemented.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/sawpanic/sharpline/internal/registry"
	"github.com/sawpanic/sharpline/internal/schema"
)

// ErrorEnvelope is the structured error body every endpoint returns on
// failure: typed errors, no bare strings.
type ErrorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BestBetsResponse is the payload for GET /live/best-bets/{sport}.
type BestBetsResponse struct {
	Sport       string            `json:"sport"`
	SlateHealth string            `json:"slate_health"`
	Picks       []schema.PickCard `json:"picks"`
	Receipts    []schema.Receipt  `json:"receipts,omitempty"` // populated only when debug=1
}

// LineShopEntry is one outcome's best-price comparison across books.
type LineShopEntry struct {
	EventID    string `json:"event_id"`
	MarketKind string `json:"market_kind"`
	Selection  string `json:"selection"`
	BestBook   string `json:"best_book"`
	BestOdds   int    `json:"best_odds"`
	BookLink   string `json:"book_link,omitempty"`
}

// LineShopResponse is the payload for GET /live/line-shop/{sport}.
type LineShopResponse struct {
	Sport   string          `json:"sport"`
	Entries []LineShopEntry `json:"entries"`
}

// BetslipRequest is the query contract for GET /live/betslip/generate.
type BetslipRequest struct {
	Sport     string
	GameID    string
	BetType   string
	Selection string
	Book      string
}

// BetslipResponse carries the constructed deep link.
type BetslipResponse struct {
	DeepLink string `json:"deep_link"`
	Book     string `json:"book"`
}

// IntegrationsResponse is the payload for GET /debug/integrations.
type IntegrationsResponse struct {
	Entries []registry.ReadinessEntry `json:"entries"`
}

// EsotericCandidatesResponse is the payload for
// GET /debug/esoteric-candidates/{sport}.
type EsotericCandidatesResponse struct {
	Sport      string           `json:"sport"`
	Candidates []DebugCandidate `json:"candidates"`
}

// DebugCandidate is one pre-filter candidate exposed with full provenance.
type DebugCandidate struct {
	PickID            string       `json:"pick_id"`
	EsotericBreakdown interface{}  `json:"esoteric_breakdown"`
	RequestProof      RequestProof `json:"request_proof"`
}

// RequestProof is the request-scoped correlation/proof context attached to
// debug responses (never to public /live responses, which are sanitized).
type RequestProof struct {
	CorrelationID string `json:"correlation_id"`
}

// Handlers bundles the dependencies every route handler needs. Each
// receives the request's context, which carries the correlation id attached
// by NewRouter's middleware.
type Handlers struct {
	BestBets           func(ctx context.Context, sport string, debug bool) (BestBetsResponse, error)
	LineShop           func(ctx context.Context, sport string) (LineShopResponse, error)
	GenerateBetslip    func(ctx context.Context, req BetslipRequest) (BetslipResponse, error)
	Integrations       func(ctx context.Context) (IntegrationsResponse, error)
	EsotericCandidates func(ctx context.Context, sport string) (EsotericCandidatesResponse, error)
}

type correlationIDKey struct{}

// correlationMiddleware assigns a request-scoped correlation id, honoring
// an inbound X-Correlation-Id header so callers can thread their own.
func correlationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id := req.Header.Get("X-Correlation-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Correlation-Id", id)
		ctx := context.WithValue(req.Context(), correlationIDKey{}, id)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

// CorrelationIDFromContext returns the correlation id NewRouter's
// middleware attached to ctx, or "" if none is present (a handler invoked
// directly, outside a routed request).
func CorrelationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey{}).(string)
	return id
}

// NewRouter wires the contract routes onto a gorilla/mux router and attaches
// the correlation-id middleware. Auth and rate-limiting at the edge are out
// of scope.
func NewRouter(h Handlers) *mux.Router {
	r := mux.NewRouter()
	r.Use(correlationMiddleware)

	r.HandleFunc("/live/best-bets/{sport}", func(w http.ResponseWriter, req *http.Request) {
		sport := mux.Vars(req)["sport"]
		debug := req.URL.Query().Get("debug") == "1"
		resp, err := h.BestBets(req.Context(), sport, debug)
		writeJSON(w, resp, err)
	}).Methods(http.MethodGet)

	r.HandleFunc("/live/line-shop/{sport}", func(w http.ResponseWriter, req *http.Request) {
		sport := mux.Vars(req)["sport"]
		resp, err := h.LineShop(req.Context(), sport)
		writeJSON(w, resp, err)
	}).Methods(http.MethodGet)

	r.HandleFunc("/live/betslip/generate", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		resp, err := h.GenerateBetslip(req.Context(), BetslipRequest{
			Sport: q.Get("sport"), GameID: q.Get("game_id"), BetType: q.Get("bet_type"),
			Selection: q.Get("selection"), Book: q.Get("book"),
		})
		writeJSON(w, resp, err)
	}).Methods(http.MethodGet)

	r.HandleFunc("/debug/integrations", func(w http.ResponseWriter, req *http.Request) {
		resp, err := h.Integrations(req.Context())
		writeJSON(w, resp, err)
	}).Methods(http.MethodGet)

	r.HandleFunc("/debug/esoteric-candidates/{sport}", func(w http.ResponseWriter, req *http.Request) {
		sport := mux.Vars(req)["sport"]
		resp, err := h.EsotericCandidates(req.Context(), sport)
		writeJSON(w, resp, err)
	}).Methods(http.MethodGet)

	return r
}

func writeJSON(w http.ResponseWriter, payload interface{}, err error) {
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(ErrorEnvelope{Code: "INTERNAL_ERROR", Message: err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}
