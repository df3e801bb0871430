package itinerary

import (
	"time"

	"github.com/dharmasatrya/flightscanner/internal/models"
	"github.com/dharmasatrya/flightscanner/internal/timezone"
	"github.com/dharmasatrya/flightscanner/pkg/currency"
)

// Assembler builds immutable itineraries from legs. Legs without a fare count
// as zero in DefaultCurrency.
type Assembler struct {
	DefaultCurrency string
}

func NewAssembler(defaultCurrency string) Assembler {
	return Assembler{DefaultCurrency: defaultCurrency}
}

func (a Assembler) Direct(leg models.FlightLeg, legType string) models.Itinerary {
	seg := a.segment(leg, legType, 0)

	return models.Itinerary{
		Type:                 models.ItineraryDirect,
		TotalPrice:           seg.Price,
		Currency:             seg.Currency,
		FormattedPrice:       currency.Format(seg.Price, seg.Currency),
		TotalDurationMinutes: leg.DurationMinutes,
		Legs:                 []models.Segment{seg},
		Layovers:             []models.Layover{},
	}
}

// Connection prices a matched pair. The itinerary currency is the first
// leg's; differing leg currencies are flagged, not converted.
func (a Assembler) Connection(m Match, legType string) models.Itinerary {
	first := a.segment(m.First, legType, 0)
	second := a.segment(m.Second, legType, 1)
	total := first.Price + second.Price

	return models.Itinerary{
		Type:                 models.ItineraryOneStop,
		TotalPrice:           total,
		Currency:             first.Currency,
		FormattedPrice:       currency.Format(total, first.Currency),
		MixedCurrency:        first.Currency != second.Currency,
		TotalDurationMinutes: int(m.Second.ArrivalTime.Sub(m.First.DepartureTime) / time.Minute),
		Legs:                 []models.Segment{first, second},
		Layovers:             []models.Layover{m.Layover},
	}
}

func (a Assembler) segment(leg models.FlightLeg, legType string, index int) models.Segment {
	price, cur := 0.0, a.DefaultCurrency
	if leg.Fare != nil {
		price = leg.Fare.Amount
		if leg.Fare.Currency != "" {
			cur = leg.Fare.Currency
		}
	}

	return models.Segment{
		LegType:         legType,
		SegmentIndex:    index,
		Origin:          leg.Origin,
		Destination:     leg.Destination,
		Departure:       timezone.ConvertToAirport(leg.DepartureTime, leg.Origin),
		Arrival:         timezone.ConvertToAirport(leg.ArrivalTime, leg.Destination),
		FlightNumber:    leg.FlightNumber,
		Operator:        leg.Operator,
		DurationMinutes: leg.DurationMinutes,
		Price:           price,
		Currency:        cur,
	}
}
