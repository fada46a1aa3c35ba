// Package domain models earthquake events and tectonic-plate boundary data
// for the quake map service.
//
// # Data Sources
//
// Seismic events come from the USGS earthquake summary feeds at
// https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/. Each time
// window (past hour, day, week, month) is a separate pre-scoped GeoJSON
// document regenerated upstream about once a minute. One feature maps to one
// [SeismicEvent]:
//
//	geometry.coordinates = [longitude, latitude, depth_km]
//	properties           = {mag, place, time}
//
// Feed quirks the model accommodates:
//
//	Magnitude may be null (unreviewed or unmeasured events) and may be
//	negative (micro-events below the reference magnitude). A null magnitude
//	filters and bands as zero but is excluded from numeric aggregates.
//
//	Depth is kilometers below the surface; it can be slightly negative for
//	events above the WGS-84 reference ellipsoid, and values past 700 km are
//	outside the range of real crustal and mantle earthquakes.
//
//	Place is free text ("10 km NE of Ridgecrest, CA") and may be empty;
//	reports substitute [UnknownPlace] when grouping.
//
// Plate boundaries come from a single static GeoJSON document of line
// features. The convergent/divergent/transform labels on [BoundarySegment]
// are drawn uniformly at random when the collection loads. They are demo
// data for map styling, not a geological classification, and consumers must
// present them as such.
//
// # Magnitude Bands
//
// Reports bucket events into three mutually exclusive severity bands:
//
//	minor:    magnitude < 3
//	moderate: 3 <= magnitude < 5
//	strong:   magnitude >= 5
//
// The three band counts always sum to the report total.
package domain
