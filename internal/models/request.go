package models

import (
	"strings"
	"time"

	"github.com/dharmasatrya/flightscanner/pkg/currency"
)

const (
	AnyDestination = "ANY"
	DateLayout     = "2006-01-02"
)

// Passengers leaves Adults nil when the caller did not send it, so an explicit
// zero can be rejected instead of defaulted.
type Passengers struct {
	Adults   *int `json:"adults,omitempty" yaml:"adults,omitempty"`
	Teens    int  `json:"teens" yaml:"teens"`
	Children int  `json:"children" yaml:"children"`
	Infants  int  `json:"infants" yaml:"infants"`
}

type DateFlexibility struct {
	Departure int `json:"departure" yaml:"departure"`
	Return    int `json:"return" yaml:"return"`
}

type SearchFilters struct {
	MaxDuration      *int    `json:"max_duration,omitempty" yaml:"max_duration,omitempty"`
	DepartureTimeMin *string `json:"departure_time_min,omitempty" yaml:"departure_time_min,omitempty"`
	DepartureTimeMax *string `json:"departure_time_max,omitempty" yaml:"departure_time_max,omitempty"`
}

type SearchRequest struct {
	Origin          string           `json:"origin" yaml:"origin"`
	Destination     string           `json:"destination" yaml:"destination"`
	DepartureDate   string           `json:"departure_date" yaml:"departure_date"`
	ReturnDate      *string          `json:"return_date,omitempty" yaml:"return_date,omitempty"`
	Passengers      Passengers       `json:"passengers" yaml:"passengers"`
	DateFlexibility *DateFlexibility `json:"date_flexibility,omitempty" yaml:"date_flexibility,omitempty"`
	MaxConnections  *int             `json:"max_connections,omitempty" yaml:"max_connections,omitempty"`
	Currency        string           `json:"currency" yaml:"currency"`
	MaxPrice        *float64         `json:"max_price,omitempty" yaml:"max_price,omitempty"`
	Filters         *SearchFilters   `json:"filters,omitempty" yaml:"filters,omitempty"`
}

type RequestDefaults struct {
	Currency    string
	MaxFlexDays int
}

// Normalize fills defaults and validates the request. It is safe to call more
// than once.
func (r *SearchRequest) Normalize(d RequestDefaults) error {
	r.Origin = strings.ToUpper(strings.TrimSpace(r.Origin))
	r.Destination = strings.ToUpper(strings.TrimSpace(r.Destination))
	r.Currency = strings.ToUpper(strings.TrimSpace(r.Currency))

	if r.Passengers.Adults == nil {
		one := 1
		r.Passengers.Adults = &one
	}
	if r.DateFlexibility == nil {
		r.DateFlexibility = &DateFlexibility{}
	}
	if r.MaxConnections == nil {
		one := 1
		r.MaxConnections = &one
	}
	if r.Currency == "" {
		r.Currency = d.Currency
	}
	if r.ReturnDate != nil && strings.TrimSpace(*r.ReturnDate) == "" {
		r.ReturnDate = nil
	}

	return r.Validate(d.MaxFlexDays)
}

func (r *SearchRequest) Validate(maxFlexDays int) error {
	if r.Origin == "" {
		return ErrMissingOrigin
	}
	if !isIATA(r.Origin) {
		return ErrInvalidOrigin
	}
	if r.Destination == "" {
		return ErrMissingDestination
	}
	if r.Destination != AnyDestination && !isIATA(r.Destination) {
		return ErrInvalidDestination
	}
	if r.Origin == r.Destination {
		return ErrSameOriginDestination
	}
	if r.DepartureDate == "" {
		return ErrMissingDepartureDate
	}
	dep, err := time.Parse(DateLayout, r.DepartureDate)
	if err != nil {
		return ErrInvalidDepartureDate
	}
	if r.ReturnDate != nil {
		ret, err := time.Parse(DateLayout, *r.ReturnDate)
		if err != nil {
			return ErrInvalidReturnDate
		}
		if ret.Before(dep) {
			return ErrReturnBeforeDeparture
		}
	}
	if r.Passengers.AdultCount() < 1 {
		return ErrInvalidPassengers
	}
	if r.Passengers.Teens < 0 || r.Passengers.Children < 0 || r.Passengers.Infants < 0 {
		return ErrInvalidPassengers
	}
	if r.DateFlexibility != nil {
		f := r.DateFlexibility
		if f.Departure < 0 || f.Return < 0 {
			return ErrInvalidFlexibility
		}
		if maxFlexDays > 0 && (f.Departure > maxFlexDays || f.Return > maxFlexDays) {
			return ErrFlexibilityTooWide
		}
	}
	if r.MaxConnections != nil && (*r.MaxConnections < 0 || *r.MaxConnections > 1) {
		return ErrInvalidMaxConnections
	}
	if r.Currency != "" && !currency.IsValid(r.Currency) {
		return ErrInvalidCurrency
	}
	if r.MaxPrice != nil && *r.MaxPrice < 0 {
		return ErrInvalidMaxPrice
	}
	return nil
}

// AdultCount treats a missing adult count as one.
func (p Passengers) AdultCount() int {
	if p.Adults == nil {
		return 1
	}
	return *p.Adults
}

func (r SearchRequest) IsAnyDestination() bool {
	return strings.EqualFold(r.Destination, AnyDestination)
}

func (r SearchRequest) Connections() int {
	if r.MaxConnections == nil {
		return 0
	}
	return *r.MaxConnections
}

func (r SearchRequest) DepartureFlex() int {
	if r.DateFlexibility == nil {
		return 0
	}
	return r.DateFlexibility.Departure
}

func (r SearchRequest) ReturnFlex() int {
	if r.DateFlexibility == nil {
		return 0
	}
	return r.DateFlexibility.Return
}

func isIATA(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrMissingOrigin         ValidationError = "origin is required"
	ErrInvalidOrigin         ValidationError = "origin must be a 3-letter IATA code"
	ErrMissingDestination    ValidationError = "destination is required"
	ErrInvalidDestination    ValidationError = "destination must be a 3-letter IATA code or ANY"
	ErrSameOriginDestination ValidationError = "origin and destination must differ"
	ErrMissingDepartureDate  ValidationError = "departure_date is required"
	ErrInvalidDepartureDate  ValidationError = "departure_date must be YYYY-MM-DD"
	ErrInvalidReturnDate     ValidationError = "return_date must be YYYY-MM-DD"
	ErrReturnBeforeDeparture ValidationError = "return_date must not be before departure_date"
	ErrInvalidPassengers     ValidationError = "passengers: adults must be at least 1, others non-negative"
	ErrInvalidFlexibility    ValidationError = "date_flexibility must be non-negative"
	ErrFlexibilityTooWide    ValidationError = "date_flexibility exceeds the configured maximum"
	ErrInvalidMaxConnections ValidationError = "max_connections must be 0 or 1"
	ErrInvalidCurrency       ValidationError = "currency must be an ISO-4217 code"
	ErrInvalidMaxPrice       ValidationError = "max_price must be non-negative"
)
