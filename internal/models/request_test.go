package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDefaults = RequestDefaults{Currency: "EUR", MaxFlexDays: 7}

func validRequest() SearchRequest {
	return SearchRequest{
		Origin:        " dub",
		Destination:   "stn ",
		DepartureDate: "2025-07-01",
	}
}

func TestNormalizeAppliesDefaults(t *testing.T) {
	t.Parallel()

	req := validRequest()
	blank := " "
	req.ReturnDate = &blank

	require.NoError(t, req.Normalize(testDefaults))
	assert.Equal(t, "DUB", req.Origin)
	assert.Equal(t, "STN", req.Destination)
	require.NotNil(t, req.Passengers.Adults)
	assert.Equal(t, 1, *req.Passengers.Adults)
	assert.Equal(t, 1, req.Connections())
	assert.Equal(t, 0, req.DepartureFlex())
	assert.Equal(t, 0, req.ReturnFlex())
	assert.Equal(t, "EUR", req.Currency)
	assert.Nil(t, req.ReturnDate)

	require.NoError(t, req.Normalize(testDefaults))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	intPtr := func(v int) *int { return &v }
	strPtr := func(v string) *string { return &v }
	floatPtr := func(v float64) *float64 { return &v }

	tests := []struct {
		name   string
		mutate func(r *SearchRequest)
		want   error
	}{
		{"ok", func(r *SearchRequest) {}, nil},
		{"any_destination", func(r *SearchRequest) { r.Destination = "any" }, nil},
		{"missing_origin", func(r *SearchRequest) { r.Origin = "" }, ErrMissingOrigin},
		{"bad_origin", func(r *SearchRequest) { r.Origin = "DUBX" }, ErrInvalidOrigin},
		{"missing_destination", func(r *SearchRequest) { r.Destination = "" }, ErrMissingDestination},
		{"bad_destination", func(r *SearchRequest) { r.Destination = "S1N" }, ErrInvalidDestination},
		{"same_airports", func(r *SearchRequest) { r.Destination = "DUB" }, ErrSameOriginDestination},
		{"missing_date", func(r *SearchRequest) { r.DepartureDate = "" }, ErrMissingDepartureDate},
		{"bad_date", func(r *SearchRequest) { r.DepartureDate = "01/07/2025" }, ErrInvalidDepartureDate},
		{"bad_return", func(r *SearchRequest) { r.ReturnDate = strPtr("soon") }, ErrInvalidReturnDate},
		{"return_before", func(r *SearchRequest) { r.ReturnDate = strPtr("2025-06-30") }, ErrReturnBeforeDeparture},
		{"negative_teens", func(r *SearchRequest) { r.Passengers.Teens = -1 }, ErrInvalidPassengers},
		{"negative_adults", func(r *SearchRequest) { r.Passengers.Adults = intPtr(-1) }, ErrInvalidPassengers},
		{"zero_adults", func(r *SearchRequest) { r.Passengers.Adults = intPtr(0) }, ErrInvalidPassengers},
		{"two_adults", func(r *SearchRequest) { r.Passengers.Adults = intPtr(2) }, nil},
		{"negative_flex", func(r *SearchRequest) { r.DateFlexibility = &DateFlexibility{Departure: -1} }, ErrInvalidFlexibility},
		{"wide_flex", func(r *SearchRequest) { r.DateFlexibility = &DateFlexibility{Return: 8} }, ErrFlexibilityTooWide},
		{"two_connections", func(r *SearchRequest) { r.MaxConnections = intPtr(2) }, ErrInvalidMaxConnections},
		{"negative_connections", func(r *SearchRequest) { r.MaxConnections = intPtr(-1) }, ErrInvalidMaxConnections},
		{"bad_currency", func(r *SearchRequest) { r.Currency = "E1R" }, ErrInvalidCurrency},
		{"negative_max_price", func(r *SearchRequest) { r.MaxPrice = floatPtr(-5) }, ErrInvalidMaxPrice},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := validRequest()
			tt.mutate(&req)
			err := req.Normalize(testDefaults)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.want), "got %v", err)

			var ve ValidationError
			assert.True(t, errors.As(err, &ve))
		})
	}
}

func TestExplicitZeroAdultsIsRejected(t *testing.T) {
	t.Parallel()

	var withZero SearchRequest
	require.NoError(t, json.Unmarshal([]byte(`{"origin":"DUB","destination":"STN","departure_date":"2025-07-01","passengers":{"adults":0}}`), &withZero))
	assert.True(t, errors.Is(withZero.Normalize(testDefaults), ErrInvalidPassengers))

	var missing SearchRequest
	require.NoError(t, json.Unmarshal([]byte(`{"origin":"DUB","destination":"STN","departure_date":"2025-07-01","passengers":{"teens":1}}`), &missing))
	require.NoError(t, missing.Normalize(testDefaults))
	assert.Equal(t, 1, missing.Passengers.AdultCount())
}

func TestCountsAndKeys(t *testing.T) {
	t.Parallel()

	dep := time.Date(2025, 7, 1, 7, 30, 0, 0, time.FixedZone("IST", 3600))
	direct := Itinerary{Type: ItineraryDirect, Legs: []Segment{{FlightNumber: "FR 1", Departure: dep}}}
	oneStop := Itinerary{Type: ItineraryOneStop, Legs: []Segment{
		{FlightNumber: "FR 1", Departure: dep},
		{FlightNumber: "FR 2", Departure: dep.Add(3 * time.Hour)},
	}}

	d, c := Counts([]Itinerary{direct, oneStop, oneStop})
	assert.Equal(t, 1, d)
	assert.Equal(t, 2, c)

	assert.Equal(t, "FR 1@2025-07-01T06:30:00Z", direct.Key())
	assert.Equal(t, "FR 1@2025-07-01T06:30:00Z|FR 2@2025-07-01T09:30:00Z", oneStop.Key())
	assert.True(t, oneStop.FirstDeparture().Equal(dep))
	assert.True(t, Itinerary{}.FirstDeparture().IsZero())

	leg := FlightLeg{FlightNumber: "FR 1", DepartureTime: dep}
	assert.Equal(t, direct.Key(), leg.Key())
}
