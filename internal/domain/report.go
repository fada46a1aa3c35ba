package domain

import (
	"math"
	"sort"
	"time"
)

// UnknownPlace substitutes for events whose feed record carried no place text.
const UnknownPlace = "Unknown"

// topPlacesLimit caps the places ranking in a report.
const topPlacesLimit = 5

// PlaceCount pairs a place name with its event count.
type PlaceCount struct {
	Place string `json:"place"`
	Count int    `json:"count"`
}

// AggregateReport summarizes a filtered event set. It has no identity of its
// own: it is recomputed from scratch whenever the filtered set or the
// boundary collection changes, never patched in place.
type AggregateReport struct {
	Total    int `json:"total"`
	Strong   int `json:"strong"`   // magnitude >= 5
	Moderate int `json:"moderate"` // 3 <= magnitude < 5
	Minor    int `json:"minor"`    // magnitude < 3

	// AvgMagnitude is the arithmetic mean over events with a known
	// magnitude, rounded to two decimal places. The extrema are exact.
	AvgMagnitude float64 `json:"avg_magnitude"`
	MinMagnitude float64 `json:"min_magnitude"`
	MaxMagnitude float64 `json:"max_magnitude"`

	MinDepthKm float64 `json:"min_depth_km"`
	MaxDepthKm float64 `json:"max_depth_km"`

	// TopPlaces ranks up to five places by descending event count, ties
	// broken by first occurrence in the filtered set.
	TopPlaces []PlaceCount `json:"top_places"`

	// BoundaryKindCounts tallies every segment of the loaded boundary
	// collection by kind. It is nil until the collection has loaded, so
	// consumers omit the section instead of rendering zeros.
	BoundaryKindCounts map[BoundaryKind]int `json:"boundary_kind_counts,omitempty"`

	GeneratedAt time.Time `json:"generated_at"`
}

// Summarize computes an AggregateReport over filtered, tallying boundaries
// by kind when the collection is non-nil. It returns nil when filtered is
// empty; callers must branch on that instead of rendering a report of zero
// and NaN fields. Pure apart from reading the package clock.
func Summarize(filtered []SeismicEvent, boundaries []BoundarySegment) *AggregateReport {
	if len(filtered) == 0 {
		return nil
	}

	r := &AggregateReport{
		Total:       len(filtered),
		GeneratedAt: clock.Now(),
	}

	var magSum float64
	magKnown := 0
	for i, ev := range filtered {
		switch mag := ev.EffectiveMagnitude(); {
		case mag >= 5:
			r.Strong++
		case mag >= 3:
			r.Moderate++
		default:
			r.Minor++
		}

		if ev.HasMagnitude {
			if magKnown == 0 || ev.Magnitude < r.MinMagnitude {
				r.MinMagnitude = ev.Magnitude
			}
			if magKnown == 0 || ev.Magnitude > r.MaxMagnitude {
				r.MaxMagnitude = ev.Magnitude
			}
			magSum += ev.Magnitude
			magKnown++
		}

		if i == 0 || ev.DepthKm < r.MinDepthKm {
			r.MinDepthKm = ev.DepthKm
		}
		if i == 0 || ev.DepthKm > r.MaxDepthKm {
			r.MaxDepthKm = ev.DepthKm
		}
	}
	if magKnown > 0 {
		r.AvgMagnitude = math.Round(magSum/float64(magKnown)*100) / 100
	}

	r.TopPlaces = topPlaces(filtered)

	if boundaries != nil {
		counts := make(map[BoundaryKind]int, len(AllBoundaryKinds))
		for _, seg := range boundaries {
			counts[seg.Kind]++
		}
		r.BoundaryKindCounts = counts
	}

	return r
}

// topPlaces groups events by exact place string (case-sensitive) and returns
// the most frequent ones. The order slice is built in first-occurrence order,
// so the stable sort keeps earlier-seen places ahead on equal counts.
func topPlaces(events []SeismicEvent) []PlaceCount {
	counts := make(map[string]int, len(events))
	order := make([]string, 0, len(events))
	for _, ev := range events {
		place := ev.Place
		if place == "" {
			place = UnknownPlace
		}
		if _, seen := counts[place]; !seen {
			order = append(order, place)
		}
		counts[place]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > topPlacesLimit {
		order = order[:topPlacesLimit]
	}

	top := make([]PlaceCount, len(order))
	for i, place := range order {
		top[i] = PlaceCount{Place: place, Count: counts[place]}
	}
	return top
}
