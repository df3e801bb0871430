package providers

const defaultDurationMinutes = 150

type route struct {
	from, to string
}

var routeDurations = map[route]int{
	{"STN", "SKG"}: 200,
	{"STN", "BGY"}: 120,
	{"STN", "WMI"}: 140,
	{"BGY", "SKG"}: 140,
	{"WMI", "SKG"}: 160,
	{"DUB", "STN"}: 75,
	{"DUB", "BGY"}: 150,
	{"STN", "BCN"}: 125,
	{"STN", "MAD"}: 140,
	{"BGY", "BCN"}: 100,
	{"CRL", "MAD"}: 135,
}

// EstimateDuration returns a typical flight time in minutes for a route in
// either direction, used only when the fare source omits arrival data.
func EstimateDuration(origin, destination string) int {
	if d, ok := routeDurations[route{origin, destination}]; ok {
		return d
	}
	if d, ok := routeDurations[route{destination, origin}]; ok {
		return d
	}
	return defaultDurationMinutes
}
