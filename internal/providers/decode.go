package providers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dharmasatrya/flightscanner/internal/models"
	"github.com/dharmasatrya/flightscanner/internal/timezone"
)

// optional records whether a JSON field was present and non-null.
type optional[T any] struct {
	value T
	set   bool
}

func (o *optional[T]) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(b, &o.value); err != nil {
		return err
	}
	o.set = true
	return nil
}

func (o optional[T]) Get() (T, bool) {
	return o.value, o.set
}

func (o optional[T]) Or(fallback T) T {
	if o.set {
		return o.value
	}
	return fallback
}

type farfndResponse struct {
	Fares []farfndFare `json:"fares"`
}

type farfndFare struct {
	Outbound json.RawMessage `json:"outbound"`
}

type farfndFlight struct {
	FlightNumber     optional[string]        `json:"flightNumber"`
	DepartureDate    optional[string]        `json:"departureDate"`
	ArrivalDate      optional[string]        `json:"arrivalDate"`
	Duration         optional[int]           `json:"duration"`
	Price            optional[farfndPrice]   `json:"price"`
	DepartureAirport optional[farfndAirport] `json:"departureAirport"`
	ArrivalAirport   optional[farfndAirport] `json:"arrivalAirport"`
}

type farfndPrice struct {
	Value        optional[float64] `json:"value"`
	CurrencyCode optional[string]  `json:"currencyCode"`
}

type farfndAirport struct {
	IataCode    optional[string] `json:"iataCode"`
	Name        optional[string] `json:"name"`
	CountryName optional[string] `json:"countryName"`
}

const operatorName = "Ryanair"

// decodeFlight turns one raw outbound record into a FlightLeg. Optional fields
// fall back to derived values; only a missing flight number or departure time
// makes the record malformed.
func decodeFlight(raw json.RawMessage, q DayQuery) (models.FlightLeg, error) {
	var f farfndFlight
	if err := json.Unmarshal(raw, &f); err != nil {
		return models.FlightLeg{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}

	number, ok := f.FlightNumber.Get()
	if !ok || strings.TrimSpace(number) == "" {
		return models.FlightLeg{}, fmt.Errorf("%w: missing flightNumber", ErrMalformedRecord)
	}

	origin := airportCode(f.DepartureAirport, q.Origin)
	destination := airportCode(f.ArrivalAirport, q.Destination)

	depStr, ok := f.DepartureDate.Get()
	if !ok {
		return models.FlightLeg{}, fmt.Errorf("%w: %s missing departureDate", ErrMalformedRecord, number)
	}
	departure, err := timezone.ParseAtAirport(depStr, origin)
	if err != nil {
		return models.FlightLeg{}, fmt.Errorf("%w: %s departureDate: %v", ErrMalformedRecord, number, err)
	}

	arrival, duration, err := deriveArrival(f, departure, origin, destination)
	if err != nil {
		return models.FlightLeg{}, fmt.Errorf("%w: %s: %v", ErrMalformedRecord, number, err)
	}

	leg := models.FlightLeg{
		FlightNumber:    formatFlightNumber(number),
		Operator:        operatorName,
		Origin:          origin,
		Destination:     destination,
		DepartureTime:   departure,
		ArrivalTime:     arrival,
		DurationMinutes: duration,
	}

	if price, ok := f.Price.Get(); ok {
		if amount, ok := price.Value.Get(); ok {
			leg.Fare = &models.Fare{
				Amount:   amount,
				Currency: strings.ToUpper(price.CurrencyCode.Or(q.Currency)),
			}
		}
	}

	return leg, nil
}

// deriveArrival resolves the arrival instant: reported arrival, then departure
// plus reported duration, then departure plus a route estimate.
func deriveArrival(f farfndFlight, departure time.Time, origin, destination string) (time.Time, int, error) {
	if arrStr, ok := f.ArrivalDate.Get(); ok {
		arrival, err := timezone.ParseAtAirport(arrStr, destination)
		if err != nil {
			return time.Time{}, 0, fmt.Errorf("arrivalDate: %w", err)
		}
		if arrival.Before(departure) {
			return time.Time{}, 0, fmt.Errorf("arrival %s before departure %s", arrival, departure)
		}
		return arrival, int(arrival.Sub(departure).Minutes()), nil
	}

	if d, ok := f.Duration.Get(); ok && d > 0 {
		return departure.Add(time.Duration(d) * time.Minute), d, nil
	}

	d := EstimateDuration(origin, destination)
	return departure.Add(time.Duration(d) * time.Minute), d, nil
}

func airportCode(a optional[farfndAirport], fallback string) string {
	if ap, ok := a.Get(); ok {
		if code, ok := ap.IataCode.Get(); ok && code != "" {
			return strings.ToUpper(code)
		}
	}
	return fallback
}

// formatFlightNumber inserts a space after the carrier prefix: "FR1234" -> "FR 1234".
func formatFlightNumber(n string) string {
	n = strings.TrimSpace(n)
	if len(n) < 3 || strings.Contains(n, " ") {
		return n
	}
	return n[:2] + " " + n[2:]
}
