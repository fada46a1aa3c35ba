package domain

import (
	"context"
	"time"
)

// TimeWindow selects which upstream summary feed to load. The feed documents
// are pre-scoped server-side, so changing the window means a new fetch of a
// different document, never a client-side time filter.
type TimeWindow string

const (
	WindowHour  TimeWindow = "hour"
	WindowDay   TimeWindow = "day"
	WindowWeek  TimeWindow = "week"
	WindowMonth TimeWindow = "month"
)

// Valid reports whether w names one of the four feed windows.
func (w TimeWindow) Valid() bool {
	switch w {
	case WindowHour, WindowDay, WindowWeek, WindowMonth:
		return true
	}
	return false
}

// SeismicEvent is one observed earthquake from the summary feed. Events are
// immutable once parsed; a re-fetch replaces the whole collection.
type SeismicEvent struct {
	ID        string  `json:"id"`
	Place     string  `json:"place,omitempty"`
	Magnitude float64 `json:"magnitude"`

	// HasMagnitude is false when the feed reported a null magnitude. Such
	// events still pass magnitude filters as if they measured zero, but are
	// left out of averages and extrema.
	HasMagnitude bool `json:"has_magnitude"`

	DepthKm    float64   `json:"depth_km"`
	Longitude  float64   `json:"longitude"`
	Latitude   float64   `json:"latitude"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EffectiveMagnitude returns the reported magnitude, or zero when the feed
// omitted one.
func (e SeismicEvent) EffectiveMagnitude() float64 {
	if !e.HasMagnitude {
		return 0
	}
	return e.Magnitude
}

// Coordinate is a WGS-84 longitude/latitude pair.
type Coordinate struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// BoundaryKind labels a plate-boundary segment. Kinds are drawn uniformly at
// random per segment when the boundary collection loads and stay fixed for
// its lifetime. They are synthetic demo data, not real classification.
type BoundaryKind string

const (
	KindConvergent BoundaryKind = "convergent"
	KindDivergent  BoundaryKind = "divergent"
	KindTransform  BoundaryKind = "transform"
)

// AllBoundaryKinds lists every valid kind.
var AllBoundaryKinds = []BoundaryKind{KindConvergent, KindDivergent, KindTransform}

// BoundarySegment is one plate-boundary line feature. Paths holds one or
// more line parts; MultiLineString geometries carry several.
type BoundarySegment struct {
	Kind  BoundaryKind   `json:"kind"`
	Paths [][]Coordinate `json:"paths"`
}

// FilterCriteria is the declarative predicate state applied to the current
// event collection. The range checks are independent >= min and <= max
// comparisons: criteria with min above max match nothing, which is the
// expected outcome when range handles cross, not a condition to correct.
type FilterCriteria struct {
	MinMagnitude float64 `json:"min_magnitude"`
	MaxMagnitude float64 `json:"max_magnitude"`
	MinDepthKm   float64 `json:"min_depth_km"`
	MaxDepthKm   float64 `json:"max_depth_km"`

	// PlaceKeyword matches as a case-insensitive substring of the event
	// place; the empty string matches everything.
	PlaceKeyword string `json:"place_keyword"`
}

// FullRange returns criteria spanning the whole slider range, passing every
// in-range event.
func FullRange() FilterCriteria {
	return FilterCriteria{
		MinMagnitude: 0,
		MaxMagnitude: 10,
		MinDepthKm:   0,
		MaxDepthKm:   700,
	}
}

// Geocoder resolves a free-text place name to coordinates for map
// re-centering. Implementations take the first candidate only.
type Geocoder interface {
	ResolvePlace(ctx context.Context, query string) (Coordinate, error)
}
