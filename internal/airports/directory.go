// Package airports serves airport metadata from the public airports CSV and
// discovers the routes flown from an airport.
package airports

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dharmasatrya/flightscanner/internal/logger"
	"github.com/dharmasatrya/flightscanner/internal/models"
	"github.com/dharmasatrya/flightscanner/internal/providers"
)

var (
	ErrUnavailable = errors.New("airport directory unavailable")
	ErrNotFound    = errors.New("not found")
)

type Config struct {
	CSVURL             string
	RouteDiscoveryDays int
	HTTPClient         *http.Client
}

// Directory loads the airport list once and keeps it for the life of the
// process. A failed load is not cached.
type Directory struct {
	csvURL        string
	client        *http.Client
	routes        providers.RouteFinder
	discoveryDays int
	now           func() time.Time

	mu       sync.RWMutex
	airports []models.AirportInfo
	byCode   map[string]models.AirportInfo
	group    singleflight.Group
}

func NewDirectory(cfg Config, routes providers.RouteFinder) *Directory {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	days := cfg.RouteDiscoveryDays
	if days <= 0 {
		days = 7
	}
	return &Directory{
		csvURL:        cfg.CSVURL,
		client:        client,
		routes:        routes,
		discoveryDays: days,
		now:           time.Now,
	}
}

// AllAirports returns every airport with an IATA code, in file order.
func (d *Directory) AllAirports(ctx context.Context) ([]models.AirportInfo, error) {
	d.mu.RLock()
	airports := d.airports
	d.mu.RUnlock()
	if airports != nil {
		return airports, nil
	}

	// The load is shared by every caller waiting on it, so it runs detached
	// from any one caller's cancellation; the HTTP client timeout bounds it.
	ch := d.group.DoChan("load", func() (interface{}, error) {
		lctx := context.WithoutCancel(ctx)
		l := logger.Ctx(lctx)

		loaded, err := d.load(lctx)
		if err != nil {
			l.Error().Err(err).Msg("failed to load airport directory")
			return nil, err
		}

		index := make(map[string]models.AirportInfo, len(loaded))
		for _, a := range loaded {
			if _, dup := index[a.IATACode]; !dup {
				index[a.IATACode] = a
			}
		}

		d.mu.Lock()
		d.airports, d.byCode = loaded, index
		d.mu.Unlock()

		l.Info().Int("airports", len(loaded)).Msg("airport directory loaded")
		return loaded, nil
	})

	select {
	case <-ctx.Done():
		return []models.AirportInfo{}, fmt.Errorf("%w: %w", ErrUnavailable, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return []models.AirportInfo{}, res.Err
		}
		return res.Val.([]models.AirportInfo), nil
	}
}

// Lookup finds an airport by IATA code.
func (d *Directory) Lookup(ctx context.Context, code string) (models.AirportInfo, error) {
	if _, err := d.AllAirports(ctx); err != nil {
		return models.AirportInfo{}, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	a, ok := d.byCode[strings.ToUpper(code)]
	if !ok {
		return models.AirportInfo{}, fmt.Errorf("airport %s: %w", code, ErrNotFound)
	}
	return a, nil
}

// FindByCity matches city as a case-insensitive substring of the
// municipality.
func (d *Directory) FindByCity(ctx context.Context, city string) ([]models.AirportInfo, error) {
	all, err := d.AllAirports(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(city))
	var matches []models.AirportInfo
	for _, a := range all {
		if needle != "" && strings.Contains(strings.ToLower(a.CityName), needle) {
			matches = append(matches, a)
		}
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no airports for city %q: %w", city, ErrNotFound)
	}
	return matches, nil
}

// DestinationsFrom lists the airports with flights from origin over the next
// discovery window, in the order the fare source reports them.
func (d *Directory) DestinationsFrom(ctx context.Context, origin string) ([]string, error) {
	if d.routes == nil {
		return nil, fmt.Errorf("%w: no route source", ErrUnavailable)
	}

	from := d.now().UTC()
	to := from.AddDate(0, 0, d.discoveryDays)
	codes, err := d.routes.Destinations(ctx, strings.ToUpper(origin), from, to)
	if err != nil {
		return nil, fmt.Errorf("discover routes from %s: %w", origin, err)
	}
	return codes, nil
}

// DestinationAirports resolves DestinationsFrom to airport records. Codes
// missing from the directory are returned with only the code set.
func (d *Directory) DestinationAirports(ctx context.Context, origin string) ([]models.AirportInfo, error) {
	codes, err := d.DestinationsFrom(ctx, origin)
	if err != nil {
		return nil, err
	}
	if len(codes) == 0 {
		return nil, fmt.Errorf("destinations from %s: %w", origin, ErrNotFound)
	}

	// The CSV is optional here; route discovery alone still answers.
	_, _ = d.AllAirports(ctx)

	d.mu.RLock()
	defer d.mu.RUnlock()
	result := make([]models.AirportInfo, 0, len(codes))
	for _, code := range codes {
		if a, ok := d.byCode[code]; ok {
			result = append(result, a)
			continue
		}
		result = append(result, models.AirportInfo{IATACode: code})
	}
	return result, nil
}

func (d *Directory) load(ctx context.Context) ([]models.AirportInfo, error) {
	if d.csvURL == "" {
		return nil, fmt.Errorf("%w: no csv url configured", ErrUnavailable)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.csvURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	airports, err := parseCSV(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return airports, nil
}

var requiredColumns = []string{"iata_code", "name"}

func parseCSV(r io.Reader) ([]models.AirportInfo, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	coord := func(row []string, name string) float64 {
		v, err := strconv.ParseFloat(field(row, name), 64)
		if err != nil {
			return 0
		}
		return v
	}

	airports := []models.AirportInfo{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		code := strings.ToUpper(field(row, "iata_code"))
		if code == "" {
			continue
		}
		airports = append(airports, models.AirportInfo{
			IATACode:    code,
			Name:        field(row, "name"),
			CityName:    field(row, "municipality"),
			CountryName: field(row, "iso_country"),
			Latitude:    coord(row, "latitude_deg"),
			Longitude:   coord(row, "longitude_deg"),
		})
	}
	return airports, nil
}
