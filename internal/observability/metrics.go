package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// quake map service.
type Metrics struct {
	// Feed loading metrics.
	FeedFetches       *prometheus.CounterVec // labels: feed={events,boundaries}, outcome={success,error}
	FeedFetchDuration prometheus.Histogram
	EventsLoaded      prometheus.Gauge
	BoundarySegments  prometheus.Gauge
	StaleDiscarded    prometheus.Counter

	// Geocoding metrics.
	GeocodeRequests *prometheus.CounterVec // labels: outcome={success,not_found,error}
	GeocodeCache    *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeDuration prometheus.Histogram
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FeedFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "feed_fetches_total",
			Help:      "Upstream feed fetches by feed and outcome.",
		}, []string{"feed", "outcome"}),
		FeedFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_map",
			Name:      "feed_fetch_duration_seconds",
			Help:      "Duration of upstream feed fetches.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		EventsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_map",
			Name:      "events_loaded",
			Help:      "Size of the currently loaded seismic event collection.",
		}),
		BoundarySegments: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_map",
			Name:      "boundary_segments_loaded",
			Help:      "Size of the loaded plate-boundary collection.",
		}),
		StaleDiscarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "stale_responses_discarded_total",
			Help:      "Feed responses discarded because a newer window selection superseded them.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "geocode_requests_total",
			Help:      "Place-search requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "geocode_cache_total",
			Help:      "Place-search cache lookups by result.",
		}, []string{"result"}),
		GeocodeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_map",
			Name:      "geocode_duration_seconds",
			Help:      "Place-search request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}

	prometheus.MustRegister(
		m.FeedFetches,
		m.FeedFetchDuration,
		m.EventsLoaded,
		m.BoundarySegments,
		m.StaleDiscarded,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with no registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FeedFetches:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "quake_map", Name: "feed_fetches_total"}, []string{"feed", "outcome"}),
		FeedFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "quake_map", Name: "feed_fetch_duration_seconds"}),
		EventsLoaded:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "quake_map", Name: "events_loaded"}),
		BoundarySegments:  prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "quake_map", Name: "boundary_segments_loaded"}),
		StaleDiscarded:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_map", Name: "stale_responses_discarded_total"}),
		GeocodeRequests:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "quake_map", Name: "geocode_requests_total"}, []string{"outcome"}),
		GeocodeCache:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "quake_map", Name: "geocode_cache_total"}, []string{"result"}),
		GeocodeDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "quake_map", Name: "geocode_duration_seconds"}),
	}
}
