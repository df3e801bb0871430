package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dharmasatrya/flightscanner/internal/logger"
	"github.com/dharmasatrya/flightscanner/internal/models"
)

const (
	ryanairName      = "ryanair"
	oneWayFaresPath  = "oneWayFares"
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	maxBodyBytes     = 8 << 20
)

type RyanairConfig struct {
	BaseURL    string
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
	Currency   string
	HTTPClient *http.Client
}

// RyanairProvider queries the public farfnd fare-finder API. It is safe for
// concurrent use; all searches share one http.Client and its connection pool.
type RyanairProvider struct {
	baseURL     string
	client      *http.Client
	retryDelays []time.Duration
	currency    string
	queries     atomic.Int64
}

func NewRyanairProvider(cfg RyanairConfig) (*RyanairProvider, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid ryanair base url %q", cfg.BaseURL)
	}
	baseURL := base.String()
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	retries := cfg.Retries
	if retries < 1 {
		retries = 1
	}
	delays := make([]time.Duration, retries-1)
	for i := range delays {
		delays[i] = cfg.RetryDelay << i
	}

	return &RyanairProvider{
		baseURL:     baseURL,
		client:      client,
		retryDelays: delays,
		currency:    strings.ToUpper(cfg.Currency),
	}, nil
}

func (p *RyanairProvider) Name() string {
	return ryanairName
}

// Queries reports how many HTTP requests have been sent, retries included.
func (p *RyanairProvider) Queries() int64 {
	return p.queries.Load()
}

func (p *RyanairProvider) SearchDay(ctx context.Context, q DayQuery) ([]models.FlightLeg, error) {
	if q.Currency == "" {
		q.Currency = p.currency
	}
	day := q.DateString()

	params := url.Values{}
	params.Set("departureAirportIataCode", q.Origin)
	params.Set("arrivalAirportIataCode", q.Destination)
	params.Set("outboundDepartureDateFrom", day)
	params.Set("outboundDepartureDateTo", day)
	params.Set("outboundDepartureTimeFrom", "00:00")
	params.Set("outboundDepartureTimeTo", "23:59")
	if q.Currency != "" {
		params.Set("currency", q.Currency)
	}

	resp, err := p.fetchWithRetry(ctx, params)
	if err != nil {
		return nil, err
	}

	l := logger.Ctx(ctx)
	results := make([]models.FlightLeg, 0, len(resp.Fares))
	for _, fare := range resp.Fares {
		if len(fare.Outbound) == 0 {
			continue
		}
		leg, err := decodeFlight(fare.Outbound, q)
		if err != nil {
			l.Warn().Err(err).Str("query", q.String()).Msg("skipping flight record")
			continue
		}
		if !strings.EqualFold(leg.Destination, q.Destination) {
			continue
		}
		if leg.Fare != nil && q.Currency != "" && leg.Fare.Currency != q.Currency {
			l.Warn().Str("requested", q.Currency).Str("received", leg.Fare.Currency).
				Str("flight", leg.FlightNumber).Msg("fare returned in a different currency")
		}
		results = append(results, leg)
	}

	return results, nil
}

// Destinations lists the distinct arrival airports offered from origin within
// the window, in the order the fare source returns them.
func (p *RyanairProvider) Destinations(ctx context.Context, origin string, from, to time.Time) ([]string, error) {
	params := url.Values{}
	params.Set("departureAirportIataCode", origin)
	params.Set("outboundDepartureDateFrom", from.Format(models.DateLayout))
	params.Set("outboundDepartureDateTo", to.Format(models.DateLayout))
	if p.currency != "" {
		params.Set("currency", p.currency)
	}

	resp, err := p.fetchWithRetry(ctx, params)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var codes []string
	for _, fare := range resp.Fares {
		var f farfndFlight
		if err := json.Unmarshal(fare.Outbound, &f); err != nil {
			continue
		}
		code := airportCode(f.ArrivalAirport, "")
		if code == "" || code == origin || seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	return codes, nil
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.code)
}

func (e *statusError) retryable() bool {
	return e.code == http.StatusTooManyRequests || e.code >= 500
}

func (p *RyanairProvider) fetchWithRetry(ctx context.Context, params url.Values) (*farfndResponse, error) {
	var lastErr error
	attempts := len(p.retryDelays) + 1
	l := logger.Ctx(ctx)

	for attempt := 0; attempt < attempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, NewProviderError(p.Name(), ctx.Err())
		default:
		}

		if attempt > 0 {
			select {
			case <-time.After(p.retryDelays[attempt-1]):
			case <-ctx.Done():
				return nil, NewProviderError(p.Name(), ctx.Err())
			}
		}

		resp, err := p.fetch(ctx, params)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, NewProviderError(p.Name(), ctx.Err())
		}

		var se *statusError
		if errors.As(err, &se) && !se.retryable() {
			break
		}

		l.Debug().Err(err).Int("attempt", attempt+1).Str("departure", params.Get("departureAirportIataCode")).
			Str("arrival", params.Get("arrivalAirportIataCode")).Msg("fare request failed")
	}

	return nil, NewProviderError(p.Name(), fmt.Errorf("%w: %v", ErrUpstreamUnavailable, lastErr))
}

func (p *RyanairProvider) fetch(ctx context.Context, params url.Values) (*farfndResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+oneWayFaresPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	p.queries.Add(1)
	httpResp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(httpResp.Body, maxBodyBytes))
		return nil, &statusError{code: httpResp.StatusCode}
	}

	var resp farfndResponse
	if err := json.NewDecoder(io.LimitReader(httpResp.Body, maxBodyBytes)).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode fares: %w", err)
	}
	return &resp, nil
}
