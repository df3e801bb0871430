package models

import "time"

const (
	ItineraryDirect  = "direct"
	ItineraryOneStop = "one-stop"

	LegOutbound = "outbound"
	LegReturn   = "return"
)

type Fare struct {
	Amount   float64 `json:"amount" yaml:"amount"`
	Currency string  `json:"currency" yaml:"currency"`
}

// FlightLeg is one priced one-way flight as reported by the fare source.
// ArrivalTime is never before DepartureTime.
type FlightLeg struct {
	FlightNumber    string    `json:"flight_number" yaml:"flight_number"`
	Operator        string    `json:"operator" yaml:"operator"`
	Origin          string    `json:"origin" yaml:"origin"`
	Destination     string    `json:"destination" yaml:"destination"`
	DepartureTime   time.Time `json:"departure_time" yaml:"departure_time"`
	ArrivalTime     time.Time `json:"arrival_time" yaml:"arrival_time"`
	DurationMinutes int       `json:"duration_minutes" yaml:"duration_minutes"`
	Fare            *Fare     `json:"fare,omitempty" yaml:"fare,omitempty"`
}

// Key identifies a leg across overlapping queries.
func (l FlightLeg) Key() string {
	return l.FlightNumber + "@" + l.DepartureTime.UTC().Format(time.RFC3339)
}

type Layover struct {
	Airport         string `json:"airport" yaml:"airport"`
	DurationMinutes int    `json:"duration_minutes" yaml:"duration_minutes"`
}

type Segment struct {
	LegType         string    `json:"leg_type" yaml:"leg_type"`
	SegmentIndex    int       `json:"segment_index" yaml:"segment_index"`
	Origin          string    `json:"origin_airport" yaml:"origin_airport"`
	Destination     string    `json:"destination_airport" yaml:"destination_airport"`
	Departure       time.Time `json:"departure_datetime" yaml:"departure_datetime"`
	Arrival         time.Time `json:"arrival_datetime" yaml:"arrival_datetime"`
	FlightNumber    string    `json:"flight_number" yaml:"flight_number"`
	Operator        string    `json:"operator" yaml:"operator"`
	DurationMinutes int       `json:"duration_minutes" yaml:"duration_minutes"`
	Price           float64   `json:"price" yaml:"price"`
	Currency        string    `json:"currency" yaml:"currency"`
}

type Itinerary struct {
	Type                 string    `json:"type" yaml:"type"`
	TotalPrice           float64   `json:"total_price" yaml:"total_price"`
	Currency             string    `json:"currency" yaml:"currency"`
	FormattedPrice       string    `json:"formatted_price" yaml:"formatted_price"`
	MixedCurrency        bool      `json:"mixed_currency,omitempty" yaml:"mixed_currency,omitempty"`
	TotalDurationMinutes int       `json:"total_duration_minutes" yaml:"total_duration_minutes"`
	Legs                 []Segment `json:"legs" yaml:"legs"`
	Layovers             []Layover `json:"layovers" yaml:"layovers"`
}

func (it Itinerary) IsDirect() bool {
	return it.Type == ItineraryDirect
}

// Key identifies an itinerary by its ordered flights.
func (it Itinerary) Key() string {
	key := ""
	for i, s := range it.Legs {
		if i > 0 {
			key += "|"
		}
		key += s.FlightNumber + "@" + s.Departure.UTC().Format(time.RFC3339)
	}
	return key
}

func (it Itinerary) FirstDeparture() time.Time {
	if len(it.Legs) == 0 {
		return time.Time{}
	}
	return it.Legs[0].Departure
}
