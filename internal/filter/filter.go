package filter

import (
	"time"

	"github.com/dharmasatrya/flightscanner/internal/models"
)

// Criteria are the optional post-search restrictions of a request.
type Criteria struct {
	MaxPrice *float64
	Filters  *models.SearchFilters
}

func FromRequest(req models.SearchRequest) Criteria {
	return Criteria{MaxPrice: req.MaxPrice, Filters: req.Filters}
}

func (c Criteria) empty() bool {
	return c.MaxPrice == nil && c.Filters == nil
}

// Apply returns the itineraries that satisfy c, preserving order. Unparseable
// departure bounds are ignored.
func Apply(its []models.Itinerary, c Criteria) []models.Itinerary {
	if c.empty() {
		return its
	}

	result := make([]models.Itinerary, 0, len(its))
	for _, it := range its {
		if matches(it, c) {
			result = append(result, it)
		}
	}
	return result
}

func matches(it models.Itinerary, c Criteria) bool {
	if c.MaxPrice != nil && it.TotalPrice > *c.MaxPrice {
		return false
	}

	f := c.Filters
	if f == nil {
		return true
	}

	if f.MaxDuration != nil && it.TotalDurationMinutes > *f.MaxDuration {
		return false
	}

	// Departure bounds apply to the local time of the first flight.
	dep := it.FirstDeparture()
	depTime := dep.Hour()*60 + dep.Minute()

	if f.DepartureTimeMin != nil {
		minTime, err := parseTimeOfDay(*f.DepartureTimeMin)
		if err == nil && depTime < minTime {
			return false
		}
	}
	if f.DepartureTimeMax != nil {
		maxTime, err := parseTimeOfDay(*f.DepartureTimeMax)
		if err == nil && depTime > maxTime {
			return false
		}
	}

	return true
}

func parseTimeOfDay(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
