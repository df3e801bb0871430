package itinerary

import (
	"time"

	"github.com/dharmasatrya/flightscanner/internal/models"
)

type Match struct {
	First   models.FlightLeg
	Second  models.FlightLeg
	Layover models.Layover
}

// Matcher pairs legs through a hub when the layover falls inside [Min, Max],
// both bounds inclusive.
type Matcher struct {
	Min time.Duration
	Max time.Duration
}

func NewMatcher(min, max time.Duration) Matcher {
	return Matcher{Min: min, Max: max}
}

// Match checks every first/second combination. All valid pairs are kept, in
// first-major order.
func (m Matcher) Match(first, second []models.FlightLeg, hub string) []Match {
	var matches []Match
	for _, f := range first {
		for _, s := range second {
			layover := s.DepartureTime.Sub(f.ArrivalTime)
			if layover < m.Min || layover > m.Max {
				continue
			}
			matches = append(matches, Match{
				First:  f,
				Second: s,
				Layover: models.Layover{
					Airport:         hub,
					DurationMinutes: int(layover / time.Minute),
				},
			})
		}
	}
	return matches
}
