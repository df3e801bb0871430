package itinerary

import "strings"

// HubSelector yields candidate connection airports from an ordered list.
type HubSelector struct {
	hubs []string
}

func NewHubSelector(hubs []string) *HubSelector {
	cp := make([]string, 0, len(hubs))
	for _, h := range hubs {
		cp = append(cp, strings.ToUpper(h))
	}
	return &HubSelector{hubs: cp}
}

// Hubs returns the configured hubs minus origin and destination, in
// declaration order.
func (s *HubSelector) Hubs(origin, destination string) []string {
	out := make([]string, 0, len(s.hubs))
	for _, h := range s.hubs {
		if strings.EqualFold(h, origin) || strings.EqualFold(h, destination) {
			continue
		}
		out = append(out, h)
	}
	return out
}
