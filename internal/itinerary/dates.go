// Package itinerary turns one-way legs into priced direct and one-stop
// itineraries: date windows, hub candidates, layover matching and assembly.
package itinerary

import "time"

// ExpandDates returns the 2*flex+1 calendar dates centred on base, ascending.
// A negative flex is treated as zero.
func ExpandDates(base time.Time, flex int) []time.Time {
	if flex < 0 {
		flex = 0
	}
	day := time.Date(base.Year(), base.Month(), base.Day(), 0, 0, 0, 0, base.Location())

	dates := make([]time.Time, 0, 2*flex+1)
	for offset := -flex; offset <= flex; offset++ {
		dates = append(dates, day.AddDate(0, 0, offset))
	}
	return dates
}
