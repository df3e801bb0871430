package providers

import (
	"context"
	"time"

	"github.com/dharmasatrya/flightscanner/internal/models"
	"github.com/dharmasatrya/flightscanner/internal/ratelimit"
)

// RateLimited waits on the provider's token bucket before every query,
// including route discovery.
type RateLimited struct {
	next    FareSource
	limiter *ratelimit.Limiter
}

func NewRateLimited(next FareSource, limiter *ratelimit.Limiter) *RateLimited {
	return &RateLimited{next: next, limiter: limiter}
}

func (r *RateLimited) Name() string {
	return r.next.Name()
}

func (r *RateLimited) SearchDay(ctx context.Context, q DayQuery) ([]models.FlightLeg, error) {
	if err := r.limiter.Wait(ctx, r.next.Name()); err != nil {
		return nil, NewProviderError(r.next.Name(), err)
	}
	return r.next.SearchDay(ctx, q)
}

// Destinations lists routes through the same bucket as fare queries. The
// wrapped source must also be a RouteFinder.
func (r *RateLimited) Destinations(ctx context.Context, origin string, from, to time.Time) ([]string, error) {
	routes, ok := r.next.(RouteFinder)
	if !ok {
		return nil, NewProviderError(r.next.Name(), ErrRoutesUnsupported)
	}
	if err := r.limiter.Wait(ctx, r.next.Name()); err != nil {
		return nil, NewProviderError(r.next.Name(), err)
	}
	return routes.Destinations(ctx, origin, from, to)
}
