// Package fetch implements provider-specific HTTP clients with timeouts,
// retries, TTL caches, circuit breakers, rate limiting, and secret
// redaction.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/sawpanic/sharpline/internal/telemetry"
)

// RetryPolicy is the odds/props/lines retry policy: 2 retries with linear
// back-off 0.5s*attempt, 10s timeout.
var RetryPolicy = struct {
	MaxRetries int
	BackoffUnit time.Duration
	Timeout     time.Duration
}{MaxRetries: 2, BackoffUnit: 500 * time.Millisecond, Timeout: 10 * time.Second}

// Client wraps net/http with a gobreaker circuit breaker, a token-bucket
// rate limiter, a TTL cache, and telemetry recording.
type Client struct {
	Provider  string
	http      *http.Client
	breaker   *gobreaker.CircuitBreaker
	limiter   *rate.Limiter
	cache     *TTLCache
	telemetry *telemetry.Registry
}

// NewClient constructs a fetch client for one provider. minInterval is the
// per-provider minimum spacing between calls (backpressure); cache entry
// lifetimes come from the ttl each GetJSON call passes.
func NewClient(provider string, minInterval time.Duration, cache *TTLCache, tel *telemetry.Registry) *Client {
	st := gobreaker.Settings{
		Name:        provider,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 10 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
		},
	}
	return &Client{
		Provider:  provider,
		http:      &http.Client{Timeout: RetryPolicy.Timeout},
		breaker:   gobreaker.NewCircuitBreaker(st),
		limiter:   rate.NewLimiter(rate.Every(minInterval), 1),
		cache:     cache,
		telemetry: tel,
	}
}

// FetchResult is the outcome of one cached-or-live fetch attempt.
type FetchResult struct {
	Body      []byte
	CacheHit  bool
	FromError error
}

// GetJSON performs a GET with retries/backoff/circuit-breaking, populating
// the TTL cache on success and recording telemetry on every attempt. On
// sustained failure it returns a non-nil error and the caller must fall
// back to a neutral default rather than fabricate data.
func (c *Client) GetJSON(ctx context.Context, cacheKey, url string, ttl time.Duration) ([]byte, error) {
	if cached, ok := c.cache.Get(cacheKey); ok {
		c.telemetry.Record(telemetry.CallOutcome{Provider: c.Provider, Success: true, CacheHit: true})
		return cached.([]byte), nil
	}

	if !c.limiter.Allow() {
		log.Debug().Str("provider", c.Provider).Msg("rate limiter deferred call, serving cache-or-empty")
		c.telemetry.Record(telemetry.CallOutcome{Provider: c.Provider, Success: false, Err: "rate_limited"})
		return nil, &Error{Provider: c.Provider, Code: "RATE_LIMITED", Message: "minimum interval not elapsed"}
	}

	var body []byte
	var lastErr error
	for attempt := 0; attempt <= RetryPolicy.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(RetryPolicy.BackoffUnit * time.Duration(attempt)):
			}
		}
		start := time.Now()
		result, err := c.breaker.Execute(func() (interface{}, error) {
			return c.doRequest(ctx, url)
		})
		latency := time.Since(start).Milliseconds()
		if err == nil {
			body = result.([]byte)
			c.telemetry.Record(telemetry.CallOutcome{Provider: c.Provider, Success: true, StatusCode: 200, LatencyMs: latency})
			c.cache.Set(cacheKey, body, ttl)
			return body, nil
		}
		lastErr = err
		statusCode, timeout := classifyErr(err)
		c.telemetry.Record(telemetry.CallOutcome{
			Provider: c.Provider, Success: false, StatusCode: statusCode, Timeout: timeout,
			Err: Redact(err.Error()), LatencyMs: latency,
		})
		if statusCode >= 400 && statusCode < 500 {
			break // client errors are not worth retrying
		}
	}
	return nil, lastErr
}

func (c *Client) doRequest(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Provider: c.Provider, Code: "API_TIMEOUT", Message: Redact(err.Error()), Temporary: true}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Provider: c.Provider, Code: "API_ERROR", Message: fmt.Sprintf("status %d", resp.StatusCode), StatusCode: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}

func classifyErr(err error) (statusCode int, timeout bool) {
	var fe *Error
	if e, ok := err.(*Error); ok {
		fe = e
	}
	if fe == nil {
		return 0, false
	}
	if fe.Code == "API_TIMEOUT" {
		return 0, true
	}
	return fe.StatusCode, false
}

// Error is a typed provider error carrying a stable machine-readable code.
type Error struct {
	Provider   string
	Code       string
	Message    string
	StatusCode int
	Temporary  bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Provider, e.Message, e.Code)
}
