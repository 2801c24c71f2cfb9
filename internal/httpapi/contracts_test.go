package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBestBetsRouteInvokesHandlerWithDebugFlag(t *testing.T) {
	var gotSport string
	var gotDebug bool
	h := Handlers{
		BestBets: func(ctx context.Context, sport string, debug bool) (BestBetsResponse, error) {
			gotSport, gotDebug = sport, debug
			return BestBetsResponse{Sport: sport, SlateHealth: "HEALTHY"}, nil
		},
	}
	router := NewRouter(h)
	req := httptest.NewRequest(http.MethodGet, "/live/best-bets/NBA?debug=1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "NBA", gotSport)
	assert.True(t, gotDebug)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBestBetsRouteAttachesCorrelationID(t *testing.T) {
	var gotID string
	h := Handlers{
		BestBets: func(ctx context.Context, sport string, debug bool) (BestBetsResponse, error) {
			gotID = CorrelationIDFromContext(ctx)
			return BestBetsResponse{Sport: sport}, nil
		},
	}
	router := NewRouter(h)
	req := httptest.NewRequest(http.MethodGet, "/live/best-bets/NBA", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.NotEmpty(t, gotID)
	assert.Equal(t, gotID, rec.Header().Get("X-Correlation-Id"))
}

func TestIntegrationsRouteReturnsErrorEnvelopeOnFailure(t *testing.T) {
	h := Handlers{
		Integrations: func(ctx context.Context) (IntegrationsResponse, error) {
			return IntegrationsResponse{}, assertErr()
		},
	}
	router := NewRouter(h)
	req := httptest.NewRequest(http.MethodGet, "/debug/integrations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
}

func assertErr() error {
	return http.ErrBodyNotAllowed
}
