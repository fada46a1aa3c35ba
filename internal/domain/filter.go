package domain

import "strings"

// ApplyFilters returns the events satisfying every clause of criteria, in
// input order. It is a pure function: no I/O, no mutation of its inputs, and
// it is cheap enough to rerun on every criteria change rather than patch a
// previous result incrementally.
func ApplyFilters(events []SeismicEvent, criteria FilterCriteria) []SeismicEvent {
	keyword := strings.ToLower(criteria.PlaceKeyword)
	out := make([]SeismicEvent, 0, len(events))
	for _, ev := range events {
		if matchesCriteria(ev, criteria, keyword) {
			out = append(out, ev)
		}
	}
	return out
}

func matchesCriteria(ev SeismicEvent, c FilterCriteria, keyword string) bool {
	mag := ev.EffectiveMagnitude()
	if mag < c.MinMagnitude || mag > c.MaxMagnitude {
		return false
	}
	if ev.DepthKm < c.MinDepthKm || ev.DepthKm > c.MaxDepthKm {
		return false
	}
	if keyword == "" {
		return true
	}
	return strings.Contains(strings.ToLower(ev.Place), keyword)
}
