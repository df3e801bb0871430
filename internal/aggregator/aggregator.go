package aggregator

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dharmasatrya/flightscanner/internal/filter"
	"github.com/dharmasatrya/flightscanner/internal/itinerary"
	"github.com/dharmasatrya/flightscanner/internal/logger"
	"github.com/dharmasatrya/flightscanner/internal/models"
	"github.com/dharmasatrya/flightscanner/internal/providers"
	"github.com/dharmasatrya/flightscanner/internal/ranking"
)

type Config struct {
	Timeout            time.Duration
	MaxConcurrency     int
	MinLayover         time.Duration
	MaxLayover         time.Duration
	DefaultCurrency    string
	MaxFlexDays        int
	Hubs               []string
	AnyMaxDestinations int
	AnyMaxResults      int
}

func DefaultConfig() Config {
	return Config{
		Timeout:            60 * time.Second,
		MaxConcurrency:     8,
		MinLayover:         90 * time.Minute,
		MaxLayover:         360 * time.Minute,
		DefaultCurrency:    "EUR",
		MaxFlexDays:        7,
		AnyMaxDestinations: 50,
		AnyMaxResults:      100,
	}
}

// Directory lists the airports reachable from an origin.
type Directory interface {
	DestinationsFrom(ctx context.Context, origin string) ([]string, error)
}

// Aggregator runs itinerary searches against one fare source. It holds no
// per-search state and is safe for concurrent use.
type Aggregator struct {
	fetcher   *LegFetcher
	directory Directory
	hubs      *itinerary.HubSelector
	matcher   itinerary.Matcher
	assembler itinerary.Assembler
	config    Config
}

func NewAggregator(source providers.FareSource, directory Directory, config Config) *Aggregator {
	return &Aggregator{
		fetcher:   NewLegFetcher(source, config.MaxConcurrency),
		directory: directory,
		hubs:      itinerary.NewHubSelector(config.Hubs),
		matcher:   itinerary.NewMatcher(config.MinLayover, config.MaxLayover),
		assembler: itinerary.NewAssembler(config.DefaultCurrency),
		config:    config,
	}
}

func (a *Aggregator) RequestDefaults() models.RequestDefaults {
	return models.RequestDefaults{
		Currency:    a.config.DefaultCurrency,
		MaxFlexDays: a.config.MaxFlexDays,
	}
}

// Search never fails: validation problems, unrecoverable upstream failure and
// panics all come back as an empty response with Error set.
func (a *Aggregator) Search(ctx context.Context, req models.SearchRequest) (resp models.SearchResponse) {
	start := time.Now()
	searchID := uuid.NewString()

	l := logger.Ctx(ctx).With().
		Str(logger.FieldSearchID, searchID).
		Str(logger.FieldOrigin, req.Origin).
		Str(logger.FieldDestination, req.Destination).
		Logger()
	ctx = logger.WithLogger(ctx, l)

	defer func() {
		if r := recover(); r != nil {
			l.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("search aborted")
			resp = emptyResponse(req, searchID)
			resp.Error = fmt.Sprintf("internal error: %v", r)
		}
		resp.Metadata.SearchTimeMs = time.Since(start).Milliseconds()
	}()

	resp = emptyResponse(req, searchID)
	if err := req.Normalize(a.RequestDefaults()); err != nil {
		l.Warn().Err(err).Msg("rejected search request")
		resp.Error = err.Error()
		return resp
	}
	resp.SearchRequest = req

	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}

	diag := &Diagnostics{}
	if req.IsAnyDestination() {
		a.searchAnywhere(ctx, req, diag, &resp)
	} else {
		a.searchRoute(ctx, req, diag, &resp)
	}
	diag.fill(&resp.Metadata)

	if resp.Error == "" && len(resp.Itineraries) == 0 {
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			resp.Error = "search timed out before any results were found"
		case diag.allFailed():
			resp.Error = fmt.Sprintf("%v: all %d fare queries failed", providers.ErrUpstreamUnavailable, resp.Metadata.QueriesIssued)
		}
	}

	l.Info().
		Int("results", resp.TotalResults).
		Int("queries", resp.Metadata.QueriesIssued).
		Int("failed_queries", resp.Metadata.QueriesFailed).
		Dur("elapsed", time.Since(start)).
		Msg("search completed")

	return resp
}

func emptyResponse(req models.SearchRequest, searchID string) models.SearchResponse {
	return models.SearchResponse{
		SearchRequest: req,
		Itineraries:   []models.Itinerary{},
		Metadata:      models.SearchMetadata{SearchID: searchID},
	}
}

// searchRoute runs the outbound journey and, when a return date is set, the
// reverse journey concurrently.
func (a *Aggregator) searchRoute(ctx context.Context, req models.SearchRequest, diag *Diagnostics, resp *models.SearchResponse) {
	criteria := filter.FromRequest(req)
	depDate, _ := time.Parse(models.DateLayout, req.DepartureDate)

	var outbound, inbound []models.Itinerary
	var g errgroup.Group

	g.Go(func() error {
		its := a.journey(ctx, req.Origin, req.Destination, depDate, req.DepartureFlex(), req.Connections(), req.Currency, models.LegOutbound, diag)
		outbound = ranking.Rank(filter.Apply(its, criteria))
		return nil
	})

	if req.ReturnDate != nil {
		retDate, _ := time.Parse(models.DateLayout, *req.ReturnDate)
		g.Go(func() error {
			its := a.journey(ctx, req.Destination, req.Origin, retDate, req.ReturnFlex(), req.Connections(), req.Currency, models.LegReturn, diag)
			inbound = ranking.Rank(filter.Apply(its, criteria))
			return nil
		})
	}
	_ = g.Wait()

	outbound, inbound = nonNil(outbound), nonNil(inbound)

	resp.Itineraries = outbound
	resp.TotalResults = len(outbound)
	resp.DirectCount, resp.ConnectingCount = models.Counts(outbound)
	resp.Metadata.TotalFound = len(outbound)

	if req.ReturnDate != nil {
		ret := &models.ReturnResults{Itineraries: inbound}
		ret.DirectCount, ret.ConnectingCount = models.Counts(inbound)
		resp.Return = ret
	}
}

// journey collects direct and, when allowed, one-stop itineraries for one
// direction, de-duplicated but not yet ranked. Direct results come first,
// then hubs in configured order.
func (a *Aggregator) journey(ctx context.Context, origin, destination string, base time.Time, flex, connections int, currency, legType string, diag *Diagnostics) []models.Itinerary {
	dates := itinerary.ExpandDates(base, flex)
	l := logger.Ctx(ctx)

	var direct []models.Itinerary
	var hubs []string
	if connections >= 1 {
		hubs = a.hubs.Hubs(origin, destination)
	}
	viaHub := make([][]models.Itinerary, len(hubs))

	var g errgroup.Group
	g.Go(func() error {
		legs, err := a.fetcher.Fetch(ctx, origin, destination, dates, currency, diag)
		if err != nil {
			l.Warn().Err(err).Str("leg_type", legType).Msg("direct search failed")
		}
		direct = make([]models.Itinerary, 0, len(legs))
		for _, leg := range legs {
			direct = append(direct, a.assembler.Direct(leg, legType))
		}
		return nil
	})

	for i, hub := range hubs {
		i, hub := i, hub
		g.Go(func() error {
			its, err := a.viaHub(ctx, origin, destination, hub, dates, currency, legType, diag)
			if err != nil {
				l.Warn().Err(err).Str(logger.FieldHub, hub).Str("leg_type", legType).Msg("hub search failed, skipping")
			}
			diag.hubDone(hubLabel(hub, legType), err != nil)
			viaHub[i] = its
			return nil
		})
	}
	_ = g.Wait()

	all := direct
	for _, its := range viaHub {
		all = append(all, its...)
	}
	return ranking.Dedupe(all)
}

// viaHub searches origin->hub->destination. Both legs use the same date
// window; the second leg is only fetched when the first found flights.
func (a *Aggregator) viaHub(ctx context.Context, origin, destination, hub string, dates []time.Time, currency, legType string, diag *Diagnostics) ([]models.Itinerary, error) {
	first, err := a.fetcher.Fetch(ctx, origin, hub, dates, currency, diag)
	if err != nil {
		return nil, err
	}
	if len(first) == 0 {
		return nil, nil
	}

	second, err := a.fetcher.Fetch(ctx, hub, destination, dates, currency, diag)
	if err != nil {
		return nil, err
	}

	matches := a.matcher.Match(first, second, hub)
	its := make([]models.Itinerary, 0, len(matches))
	for _, m := range matches {
		its = append(its, a.assembler.Connection(m, legType))
	}
	return its, nil
}

// searchAnywhere runs direct-only searches to every destination served from
// the origin, capped in both fan-out and result count.
func (a *Aggregator) searchAnywhere(ctx context.Context, req models.SearchRequest, diag *Diagnostics, resp *models.SearchResponse) {
	l := logger.Ctx(ctx)

	if a.directory == nil {
		resp.Error = "destination discovery is not configured"
		return
	}
	destinations, err := a.directory.DestinationsFrom(ctx, req.Origin)
	if err != nil {
		l.Error().Err(err).Msg("failed to list destinations")
		resp.Error = fmt.Sprintf("could not list destinations from %s: %v", req.Origin, err)
		return
	}

	if limit := a.config.AnyMaxDestinations; limit > 0 && len(destinations) > limit {
		destinations = destinations[:limit]
	}
	resp.Metadata.DestinationsSearched = len(destinations)

	depDate, _ := time.Parse(models.DateLayout, req.DepartureDate)
	dates := itinerary.ExpandDates(depDate, req.DepartureFlex())
	perDestination := make([][]models.Itinerary, len(destinations))

	var g errgroup.Group
	for i, dest := range destinations {
		i, dest := i, dest
		if dest == req.Origin {
			continue
		}
		g.Go(func() error {
			legs, err := a.fetcher.Fetch(ctx, req.Origin, dest, dates, req.Currency, diag)
			if err != nil {
				l.Warn().Err(err).Str(logger.FieldDestination, dest).Msg("destination search failed, skipping")
			}
			its := make([]models.Itinerary, 0, len(legs))
			for _, leg := range legs {
				its = append(its, a.assembler.Direct(leg, models.LegOutbound))
			}
			perDestination[i] = its
			return nil
		})
	}
	_ = g.Wait()

	var all []models.Itinerary
	for _, its := range perDestination {
		all = append(all, its...)
	}
	all = ranking.Rank(filter.Apply(ranking.Dedupe(all), filter.FromRequest(req)))

	resp.Metadata.TotalFound = len(all)
	if limit := a.config.AnyMaxResults; limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	all = nonNil(all)

	resp.Itineraries = all
	resp.TotalResults = len(all)
	resp.DirectCount, resp.ConnectingCount = models.Counts(all)
}

func hubLabel(hub, legType string) string {
	if legType == models.LegReturn {
		return hub + " (return)"
	}
	return hub
}

func nonNil(its []models.Itinerary) []models.Itinerary {
	if its == nil {
		return []models.Itinerary{}
	}
	return its
}
