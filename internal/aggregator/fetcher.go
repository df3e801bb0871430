package aggregator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/dharmasatrya/flightscanner/internal/logger"
	"github.com/dharmasatrya/flightscanner/internal/models"
	"github.com/dharmasatrya/flightscanner/internal/providers"
)

// ErrAllDatesFailed is returned by LegFetcher.Fetch when every date query of
// a leg failed. Partial failures are not errors.
var ErrAllDatesFailed = errors.New("all date queries failed")

// LegFetcher issues one day query per date and merges the results. Queries
// from every search share one semaphore so upstream concurrency stays bounded
// process-wide.
type LegFetcher struct {
	source providers.FareSource
	sem    *semaphore.Weighted
}

func NewLegFetcher(source providers.FareSource, maxConcurrency int) *LegFetcher {
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	return &LegFetcher{
		source: source,
		sem:    semaphore.NewWeighted(int64(maxConcurrency)),
	}
}

// Fetch queries origin->destination on each date concurrently. A failed date
// is logged and skipped; results keep date order. diag may be nil.
func (f *LegFetcher) Fetch(ctx context.Context, origin, destination string, dates []time.Time, currency string, diag *Diagnostics) ([]models.FlightLeg, error) {
	if len(dates) == 0 {
		return nil, nil
	}

	slots := make([][]models.FlightLeg, len(dates))
	errs := make([]error, len(dates))

	var wg sync.WaitGroup
	for i, date := range dates {
		wg.Add(1)
		go func(i int, date time.Time) {
			defer wg.Done()

			q := providers.DayQuery{
				Origin:      origin,
				Destination: destination,
				Date:        date,
				Currency:    currency,
			}
			slots[i], errs[i] = f.query(ctx, q)
			diag.queryDone(q.String(), errs[i])
		}(i, date)
	}
	wg.Wait()

	l := logger.Ctx(ctx)
	var legs []models.FlightLeg
	var lastErr error
	failed := 0
	for i, err := range errs {
		if err != nil {
			failed++
			lastErr = err
			l.Warn().Err(err).Str(logger.FieldOrigin, origin).Str(logger.FieldDestination, destination).
				Str(logger.FieldDate, dates[i].Format(models.DateLayout)).Msg("date query failed, skipping")
			continue
		}
		legs = append(legs, slots[i]...)
	}

	if failed == len(dates) {
		return nil, fmt.Errorf("%w: %s-%s: %v", ErrAllDatesFailed, origin, destination, lastErr)
	}
	return legs, nil
}

// query runs on its own goroutine, so a panicking source is turned into a
// failed date rather than taking the process down.
func (f *LegFetcher) query(ctx context.Context, q providers.DayQuery) (legs []models.FlightLeg, err error) {
	if err := f.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer f.sem.Release(1)

	defer func() {
		if r := recover(); r != nil {
			legs, err = nil, fmt.Errorf("%s panicked on %s: %v", f.source.Name(), q, r)
		}
	}()
	return f.source.SearchDay(ctx, q)
}
