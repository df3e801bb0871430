package models

type SearchMetadata struct {
	SearchID             string   `json:"search_id" yaml:"search_id"`
	QueriesIssued        int      `json:"queries_issued" yaml:"queries_issued"`
	QueriesFailed        int      `json:"queries_failed" yaml:"queries_failed"`
	FailedQueries        []string `json:"failed_queries,omitempty" yaml:"failed_queries,omitempty"`
	HubsSearched         int      `json:"hubs_searched" yaml:"hubs_searched"`
	HubsFailed           []string `json:"hubs_failed,omitempty" yaml:"hubs_failed,omitempty"`
	DestinationsSearched int      `json:"destinations_searched,omitempty" yaml:"destinations_searched,omitempty"`
	TotalFound           int      `json:"total_found" yaml:"total_found"`
	SearchTimeMs         int64    `json:"search_time_ms" yaml:"search_time_ms"`
}

// SearchResponse always satisfies DirectCount+ConnectingCount == len(Itineraries),
// and the same for the return fields.
type SearchResponse struct {
	SearchRequest   SearchRequest  `json:"search_request" yaml:"search_request"`
	Itineraries     []Itinerary    `json:"flights" yaml:"flights"`
	TotalResults    int            `json:"total_results" yaml:"total_results"`
	DirectCount     int            `json:"direct_flights_count" yaml:"direct_flights_count"`
	ConnectingCount int            `json:"connecting_flights_count" yaml:"connecting_flights_count"`
	Return          *ReturnResults `json:"return,omitempty" yaml:"return,omitempty"`
	Metadata        SearchMetadata `json:"metadata" yaml:"metadata"`
	Error           string         `json:"error,omitempty" yaml:"error,omitempty"`
}

type ReturnResults struct {
	Itineraries     []Itinerary `json:"flights" yaml:"flights"`
	DirectCount     int         `json:"direct_flights_count" yaml:"direct_flights_count"`
	ConnectingCount int         `json:"connecting_flights_count" yaml:"connecting_flights_count"`
}

// Counts returns the number of direct and connecting itineraries in its.
func Counts(its []Itinerary) (direct, connecting int) {
	for _, it := range its {
		if it.IsDirect() {
			direct++
		} else {
			connecting++
		}
	}
	return direct, connecting
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
