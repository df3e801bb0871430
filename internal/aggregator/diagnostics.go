package aggregator

import (
	"sync"

	"github.com/dharmasatrya/flightscanner/internal/models"
)

// Diagnostics accumulates per-query and per-hub outcomes of one search. It is
// safe for concurrent use.
type Diagnostics struct {
	mu            sync.Mutex
	queriesIssued int
	failedQueries []string
	hubsSearched  int
	hubsFailed    []string
}

func (d *Diagnostics) queryDone(query string, err error) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	d.queriesIssued++
	if err != nil {
		d.failedQueries = append(d.failedQueries, query)
	}
}

func (d *Diagnostics) hubDone(hub string, failed bool) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	d.hubsSearched++
	if failed {
		d.hubsFailed = append(d.hubsFailed, hub)
	}
}

// allFailed reports whether at least one query ran and none succeeded.
func (d *Diagnostics) allFailed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.queriesIssued > 0 && len(d.failedQueries) == d.queriesIssued
}

func (d *Diagnostics) fill(m *models.SearchMetadata) {
	d.mu.Lock()
	defer d.mu.Unlock()

	m.QueriesIssued = d.queriesIssued
	m.QueriesFailed = len(d.failedQueries)
	m.FailedQueries = append([]string(nil), d.failedQueries...)
	m.HubsSearched = d.hubsSearched
	m.HubsFailed = append([]string(nil), d.hubsFailed...)
}
