package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dharmasatrya/flightscanner/internal/models"
)

func itinerary(number string, price float64, minutes int, hour int) models.Itinerary {
	return models.Itinerary{
		TotalPrice:           price,
		TotalDurationMinutes: minutes,
		Legs: []models.Segment{{
			FlightNumber: number,
			Departure:    time.Date(2025, 7, 1, hour, 15, 0, 0, time.UTC),
		}},
	}
}

func ptr[T any](v T) *T {
	return &v
}

func TestApply(t *testing.T) {
	t.Parallel()

	its := []models.Itinerary{
		itinerary("A", 20, 75, 6),
		itinerary("B", 80, 300, 12),
		itinerary("C", 45, 120, 21),
	}

	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{"none", Criteria{}, []string{"A", "B", "C"}},
		{"max_price", Criteria{MaxPrice: ptr(45.0)}, []string{"A", "C"}},
		{"max_duration", Criteria{Filters: &models.SearchFilters{MaxDuration: ptr(120)}}, []string{"A", "C"}},
		{"departure_min", Criteria{Filters: &models.SearchFilters{DepartureTimeMin: ptr("07:00")}}, []string{"B", "C"}},
		{"departure_window", Criteria{Filters: &models.SearchFilters{
			DepartureTimeMin: ptr("06:15"),
			DepartureTimeMax: ptr("12:15"),
		}}, []string{"A", "B"}},
		{"bad_bound_ignored", Criteria{Filters: &models.SearchFilters{DepartureTimeMax: ptr("noon")}}, []string{"A", "B", "C"}},
		{"combined", Criteria{MaxPrice: ptr(50.0), Filters: &models.SearchFilters{DepartureTimeMin: ptr("08:00")}}, []string{"C"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := Apply(append([]models.Itinerary(nil), its...), tt.criteria)
			got := make([]string, 0, len(out))
			for _, it := range out {
				got = append(got, it.Legs[0].FlightNumber)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromRequest(t *testing.T) {
	t.Parallel()

	req := models.SearchRequest{MaxPrice: ptr(10.0)}
	c := FromRequest(req)
	assert.Equal(t, 10.0, *c.MaxPrice)
	assert.Nil(t, c.Filters)
}
