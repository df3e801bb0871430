package cache

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dharmasatrya/flightscanner/internal/logger"
	"github.com/dharmasatrya/flightscanner/internal/models"
	"github.com/dharmasatrya/flightscanner/internal/providers"
)

const defaultQueryTimeout = 60 * time.Second

// CachedSource serves day queries from a Cache and collapses identical
// in-flight queries into one upstream call. Upstream errors are never cached.
//
// The shared upstream call runs on a context detached from any one caller's
// cancellation, bounded by queryTimeout, so a caller that gives up does not
// fail the others waiting on the same query.
type CachedSource struct {
	next         providers.FareSource
	cache        Cache
	group        singleflight.Group
	queryTimeout time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

func NewCachedSource(next providers.FareSource, c Cache, queryTimeout time.Duration) *CachedSource {
	if c == nil {
		c = NewNoOpCache()
	}
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}
	return &CachedSource{next: next, cache: c, queryTimeout: queryTimeout}
}

func (s *CachedSource) Name() string {
	return s.next.Name()
}

func (s *CachedSource) SearchDay(ctx context.Context, q providers.DayQuery) ([]models.FlightLeg, error) {
	if legs, ok := s.cache.Get(ctx, q); ok {
		s.hits.Add(1)
		return legs, nil
	}
	s.misses.Add(1)

	ch := s.group.DoChan(q.String()+"/"+q.Currency, func() (interface{}, error) {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.queryTimeout)
		defer cancel()

		legs, err := s.next.SearchDay(sctx, q)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(sctx, q, legs); err != nil {
			l := logger.Ctx(sctx)
			l.Warn().Err(err).Str("query", q.String()).Msg("failed to cache fares")
		}
		return legs, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		legs := res.Val.([]models.FlightLeg)
		if res.Shared {
			legs = append([]models.FlightLeg(nil), legs...)
		}
		return legs, nil
	}
}

// Stats reports cache hits and misses since construction.
func (s *CachedSource) Stats() (hits, misses int64) {
	return s.hits.Load(), s.misses.Load()
}
