package timezone

import (
	"strings"
	"sync"
	"time"

	// Zone data is embedded so containers without /usr/share/zoneinfo resolve
	// the same instants.
	_ "time/tzdata"
)

// Fares report local wall-clock times without an offset. Each airport is
// mapped to its IANA zone so those times can be turned into instants.
var airportZones = map[string]string{
	// Ireland
	"DUB": "Europe/Dublin", "ORK": "Europe/Dublin", "SNN": "Europe/Dublin", "NOC": "Europe/Dublin", "KIR": "Europe/Dublin",

	// United Kingdom
	"STN": "Europe/London", "LTN": "Europe/London", "LGW": "Europe/London", "MAN": "Europe/London",
	"EDI": "Europe/London", "BHX": "Europe/London", "BRS": "Europe/London", "LPL": "Europe/London",
	"EMA": "Europe/London", "PIK": "Europe/London", "BFS": "Europe/London", "LBA": "Europe/London",
	"NCL": "Europe/London", "BOH": "Europe/London", "EXT": "Europe/London", "ABZ": "Europe/London",

	// Portugal
	"OPO": "Europe/Lisbon", "LIS": "Europe/Lisbon", "FAO": "Europe/Lisbon",
	"PDL": "Atlantic/Azores", "TER": "Atlantic/Azores",
	"FNC": "Atlantic/Madeira",

	// Spain
	"MAD": "Europe/Madrid", "BCN": "Europe/Madrid", "AGP": "Europe/Madrid", "ALC": "Europe/Madrid",
	"VLC": "Europe/Madrid", "PMI": "Europe/Madrid", "IBZ": "Europe/Madrid", "SVQ": "Europe/Madrid",
	"GRO": "Europe/Madrid", "REU": "Europe/Madrid", "SDR": "Europe/Madrid", "ZAZ": "Europe/Madrid",
	"BIO": "Europe/Madrid", "MAH": "Europe/Madrid", "RMU": "Europe/Madrid",
	"TFS": "Atlantic/Canary", "LPA": "Atlantic/Canary", "ACE": "Atlantic/Canary", "FUE": "Atlantic/Canary",

	// France
	"BVA": "Europe/Paris", "MRS": "Europe/Paris", "BOD": "Europe/Paris", "NTE": "Europe/Paris",
	"TLS": "Europe/Paris", "BES": "Europe/Paris", "CCF": "Europe/Paris", "PUF": "Europe/Paris",

	// Benelux
	"CRL": "Europe/Brussels", "BRU": "Europe/Brussels", "EIN": "Europe/Amsterdam", "MST": "Europe/Amsterdam",

	// Germany
	"BER": "Europe/Berlin", "BRE": "Europe/Berlin", "HHN": "Europe/Berlin", "NRN": "Europe/Berlin",
	"CGN": "Europe/Berlin", "FMM": "Europe/Berlin", "DTM": "Europe/Berlin", "FRA": "Europe/Berlin",
	"NUE": "Europe/Berlin", "HAM": "Europe/Berlin", "FKB": "Europe/Berlin",

	// Italy
	"BGY": "Europe/Rome", "CIA": "Europe/Rome", "FCO": "Europe/Rome", "NAP": "Europe/Rome",
	"PSA": "Europe/Rome", "BLQ": "Europe/Rome", "TSF": "Europe/Rome", "VCE": "Europe/Rome",
	"BRI": "Europe/Rome", "CTA": "Europe/Rome", "PMO": "Europe/Rome", "CAG": "Europe/Rome",
	"TRN": "Europe/Rome", "MXP": "Europe/Rome", "BDS": "Europe/Rome", "TPS": "Europe/Rome",

	// Central and Northern Europe
	"WMI": "Europe/Warsaw", "WAW": "Europe/Warsaw", "KRK": "Europe/Warsaw", "GDN": "Europe/Warsaw",
	"KTW": "Europe/Warsaw", "WRO": "Europe/Warsaw", "POZ": "Europe/Warsaw",
	"PRG": "Europe/Prague", "BTS": "Europe/Bratislava", "VIE": "Europe/Vienna", "BUD": "Europe/Budapest",
	"CPH": "Europe/Copenhagen", "BLL": "Europe/Copenhagen", "ARN": "Europe/Stockholm", "GOT": "Europe/Stockholm",
	"OSL": "Europe/Oslo", "TRF": "Europe/Oslo", "HEL": "Europe/Helsinki",
	"RIX": "Europe/Riga", "VNO": "Europe/Vilnius", "KUN": "Europe/Vilnius", "TLL": "Europe/Tallinn",

	// South-Eastern Europe and Mediterranean
	"SKG": "Europe/Athens", "ATH": "Europe/Athens", "CHQ": "Europe/Athens", "CFU": "Europe/Athens",
	"RHO": "Europe/Athens", "KGS": "Europe/Athens",
	"SOF": "Europe/Sofia", "PFO": "Asia/Nicosia", "LCA": "Asia/Nicosia", "MLA": "Europe/Malta",
	"ZAG": "Europe/Zagreb", "ZAD": "Europe/Zagreb", "OTP": "Europe/Bucharest",
	"RAK": "Africa/Casablanca", "FEZ": "Africa/Casablanca", "AMM": "Asia/Amman", "TLV": "Asia/Jerusalem",
}

var (
	locMu    sync.RWMutex
	locCache = map[string]*time.Location{}
)

// ZoneName returns the IANA zone for an airport, or "UTC" if unknown.
func ZoneName(code string) string {
	if tz, ok := airportZones[strings.ToUpper(code)]; ok {
		return tz
	}
	return "UTC"
}

func GetLocationByAirport(code string) *time.Location {
	name := ZoneName(code)

	locMu.RLock()
	loc, ok := locCache[name]
	locMu.RUnlock()
	if ok {
		return loc
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		loc = time.UTC
	}

	locMu.Lock()
	locCache[name] = loc
	locMu.Unlock()
	return loc
}

// ParseAtAirport parses a timestamp. Strings carrying an offset are taken as
// is; wall-clock strings are interpreted in the airport's zone.
func ParseAtAirport(timeStr, airportCode string) (time.Time, error) {
	offsetFormats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05.000Z07:00",
		"2006-01-02T15:04:05-0700",
	}
	for _, format := range offsetFormats {
		if t, err := time.Parse(format, timeStr); err == nil {
			return t, nil
		}
	}

	loc := GetLocationByAirport(airportCode)
	localFormats := []string{
		"2006-01-02T15:04:05.000",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04",
	}
	for _, format := range localFormats {
		if t, err := time.ParseInLocation(format, timeStr, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, &time.ParseError{
		Value:   timeStr,
		Message: "unable to parse time string",
	}
}

func ConvertToAirport(t time.Time, airportCode string) time.Time {
	return t.In(GetLocationByAirport(airportCode))
}
