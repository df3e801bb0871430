package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/flightscanner/internal/models"
	"github.com/dharmasatrya/flightscanner/internal/ratelimit"
)

const dubStnFares = `{
  "fares": [
    {"outbound": {
      "flightNumber": "FR202",
      "departureDate": "2025-07-01T06:30:00",
      "arrivalDate": "2025-07-01T07:45:00",
      "price": {"value": 29.99, "currencyCode": "EUR"},
      "departureAirport": {"iataCode": "DUB", "name": "Dublin", "countryName": "Ireland"},
      "arrivalAirport": {"iataCode": "STN", "name": "London Stansted", "countryName": "United Kingdom"}
    }},
    {"outbound": {
      "departureDate": "2025-07-01T09:00:00",
      "arrivalAirport": {"iataCode": "STN"}
    }},
    {"outbound": {
      "flightNumber": "FR999",
      "departureDate": "2025-07-01T11:00:00",
      "arrivalAirport": {"iataCode": "LTN"}
    }}
  ]
}`

func newTestProvider(t *testing.T, handler http.HandlerFunc) (*RyanairProvider, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := NewRyanairProvider(RyanairConfig{
		BaseURL:    srv.URL + "/farfnd/v4",
		Timeout:    time.Second,
		Retries:    3,
		RetryDelay: time.Millisecond,
		Currency:   "EUR",
	})
	require.NoError(t, err)
	return p, srv
}

func testQuery() DayQuery {
	return DayQuery{
		Origin:      "DUB",
		Destination: "STN",
		Date:        time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestSearchDayBuildsQueryAndDecodes(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotQuery map[string][]string
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(dubStnFares))
	})

	legs, err := p.SearchDay(context.Background(), testQuery())
	require.NoError(t, err)

	assert.Equal(t, "/farfnd/v4/oneWayFares", gotPath)
	assert.Equal(t, []string{"DUB"}, gotQuery["departureAirportIataCode"])
	assert.Equal(t, []string{"STN"}, gotQuery["arrivalAirportIataCode"])
	assert.Equal(t, []string{"2025-07-01"}, gotQuery["outboundDepartureDateFrom"])
	assert.Equal(t, []string{"2025-07-01"}, gotQuery["outboundDepartureDateTo"])
	assert.Equal(t, []string{"EUR"}, gotQuery["currency"])

	// The record without a flight number is malformed, the LTN one is off-route.
	require.Len(t, legs, 1)
	leg := legs[0]
	assert.Equal(t, "FR 202", leg.FlightNumber)
	assert.Equal(t, "DUB", leg.Origin)
	assert.Equal(t, "STN", leg.Destination)
	assert.Equal(t, 75, leg.DurationMinutes)
	require.NotNil(t, leg.Fare)
	assert.InDelta(t, 29.99, leg.Fare.Amount, 1e-9)
	assert.Equal(t, "EUR", leg.Fare.Currency)
	assert.Equal(t, int64(1), p.Queries())
}

func TestSearchDayEmptyIsNotAnError(t *testing.T) {
	t.Parallel()

	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"fares": []}`))
	})

	legs, err := p.SearchDay(context.Background(), testQuery())
	require.NoError(t, err)
	assert.Empty(t, legs)
}

func TestSearchDayRetriesTransientFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(dubStnFares))
	})

	legs, err := p.SearchDay(context.Background(), testQuery())
	require.NoError(t, err)
	assert.Len(t, legs, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSearchDayExhaustsRetryBudget(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := p.SearchDay(context.Background(), testQuery())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstreamUnavailable))

	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "ryanair", pe.Provider)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSearchDayDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := p.SearchDay(context.Background(), testQuery())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstreamUnavailable))
	assert.Equal(t, int32(1), calls.Load())
}

func TestSearchDayHonoursCancellation(t *testing.T) {
	t.Parallel()

	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.SearchDay(ctx, testQuery())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestDestinationsDistinctInOrder(t *testing.T) {
	t.Parallel()

	var gotQuery map[string][]string
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"fares": [
			{"outbound": {"arrivalAirport": {"iataCode": "STN"}}},
			{"outbound": {"arrivalAirport": {"iataCode": "BGY"}}},
			{"outbound": {"arrivalAirport": {"iataCode": "STN"}}},
			{"outbound": {"arrivalAirport": {"iataCode": "DUB"}}},
			{"outbound": {"arrivalAirport": {}}}
		]}`))
	})

	from := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	codes, err := p.Destinations(context.Background(), "DUB", from, from.AddDate(0, 0, 6))
	require.NoError(t, err)
	assert.Equal(t, []string{"STN", "BGY"}, codes)
	assert.Empty(t, gotQuery["arrivalAirportIataCode"])
	assert.Equal(t, []string{"2025-07-07"}, gotQuery["outboundDepartureDateTo"])
}

func TestNewRyanairProviderRejectsBadURL(t *testing.T) {
	t.Parallel()

	_, err := NewRyanairProvider(RyanairConfig{BaseURL: "not a url"})
	require.Error(t, err)
}

func TestRateLimitedDelegates(t *testing.T) {
	t.Parallel()

	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(dubStnFares))
	})

	limited := NewRateLimited(p, ratelimit.New(ratelimit.DefaultConfig()))
	assert.Equal(t, "ryanair", limited.Name())

	legs, err := limited.SearchDay(context.Background(), testQuery())
	require.NoError(t, err)
	assert.Len(t, legs, 1)
}

func TestRateLimitedRouteDiscoverySharesBucket(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(dubStnFares))
	})

	limited := NewRateLimited(p, ratelimit.New(ratelimit.Config{RequestsPerSecond: 0.001, Burst: 1}))

	_, err := limited.SearchDay(context.Background(), testQuery())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	from := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	_, err = limited.Destinations(ctx, "DUB", from, from.AddDate(0, 0, 6))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ratelimit.ErrDeadline))
	assert.Equal(t, int32(1), hits.Load())
}

func TestRateLimitedDestinationsDelegates(t *testing.T) {
	t.Parallel()

	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(dubStnFares))
	})
	limited := NewRateLimited(p, ratelimit.New(ratelimit.DefaultConfig()))

	from := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	codes, err := limited.Destinations(context.Background(), "DUB", from, from.AddDate(0, 0, 6))
	require.NoError(t, err)
	assert.Equal(t, []string{"STN", "LTN"}, codes)
}

type faresOnly struct{}

func (faresOnly) Name() string { return "fares-only" }

func (faresOnly) SearchDay(ctx context.Context, q DayQuery) ([]models.FlightLeg, error) {
	return nil, nil
}

func TestRateLimitedDestinationsUnsupported(t *testing.T) {
	t.Parallel()

	limited := NewRateLimited(faresOnly{}, ratelimit.New(ratelimit.DefaultConfig()))
	_, err := limited.Destinations(context.Background(), "DUB", time.Now(), time.Now())
	assert.True(t, errors.Is(err, ErrRoutesUnsupported))
}
