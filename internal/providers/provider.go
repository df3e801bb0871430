package providers

import (
	"context"
	"errors"
	"time"

	"github.com/dharmasatrya/flightscanner/internal/models"
)

var (
	// ErrUpstreamUnavailable is returned once the retry budget against the
	// fare source is exhausted.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrMalformedRecord marks a single flight record that lacks required
	// fields. It never fails a whole query.
	ErrMalformedRecord = errors.New("malformed flight record")
	// ErrRoutesUnsupported is returned when a source cannot list routes.
	ErrRoutesUnsupported = errors.New("route discovery not supported")
)

// DayQuery asks for one-way flights on a single calendar date.
type DayQuery struct {
	Origin      string
	Destination string
	Date        time.Time
	Currency    string
}

func (q DayQuery) DateString() string {
	return q.Date.Format(models.DateLayout)
}

func (q DayQuery) String() string {
	return q.Origin + "-" + q.Destination + "@" + q.DateString()
}

// FareSource returns the priced one-way flights for a route on one day. An
// empty result with a nil error means the route has no flights that day.
type FareSource interface {
	Name() string
	SearchDay(ctx context.Context, q DayQuery) ([]models.FlightLeg, error)
}

// RouteFinder lists the airports served from an origin within a date window.
type RouteFinder interface {
	Destinations(ctx context.Context, origin string, from, to time.Time) ([]string, error)
}

type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return e.Provider + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Err:      err,
	}
}
