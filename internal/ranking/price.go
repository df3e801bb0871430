package ranking

import (
	"sort"

	"github.com/dharmasatrya/flightscanner/internal/models"
)

// Rank sorts itineraries by total price, cheapest first. Equal prices keep
// their input order.
func Rank(its []models.Itinerary) []models.Itinerary {
	sort.SliceStable(its, func(i, j int) bool {
		return its[i].TotalPrice < its[j].TotalPrice
	})
	return its
}

// Dedupe drops itineraries whose flight sequence was already seen, keeping
// the first occurrence.
func Dedupe(its []models.Itinerary) []models.Itinerary {
	if len(its) == 0 {
		return its
	}

	seen := make(map[string]bool, len(its))
	result := make([]models.Itinerary, 0, len(its))
	for _, it := range its {
		key := it.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, it)
	}
	return result
}

// Sorted reports whether its is in non-decreasing price order.
func Sorted(its []models.Itinerary) bool {
	for i := 1; i < len(its); i++ {
		if its[i].TotalPrice < its[i-1].TotalPrice {
			return false
		}
	}
	return true
}
