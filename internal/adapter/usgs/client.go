// Package usgs fetches earthquake summary feeds and maps them onto domain
// events.
package usgs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/seismowatch/quake-map-service/internal/domain"
	"github.com/seismowatch/quake-map-service/internal/observability"
)

// feedDocument maps a time window to its summary document name. The feed is
// pre-scoped upstream; there is no query parameter form.
var feedDocument = map[domain.TimeWindow]string{
	domain.WindowHour:  "all_hour.geojson",
	domain.WindowDay:   "all_day.geojson",
	domain.WindowWeek:  "all_week.geojson",
	domain.WindowMonth: "all_month.geojson",
}

// Client fetches the USGS earthquake summary feeds.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a feed client rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// FetchEvents issues one GET for the window's summary document and returns
// the parsed event collection in feed order. Transport failures, non-2xx
// statuses, and malformed bodies are errors; the caller decides what
// collection to keep showing.
func (c *Client) FetchEvents(ctx context.Context, window domain.TimeWindow) ([]domain.SeismicEvent, error) {
	doc, ok := feedDocument[window]
	if !ok {
		return nil, fmt.Errorf("unknown time window %q", window)
	}

	url := c.baseURL + "/" + doc
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	defer func() {
		c.metrics.FeedFetchDuration.Observe(time.Since(start).Seconds())
	}()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.FeedFetches.WithLabelValues("events", "error").Inc()
		return nil, fmt.Errorf("fetch %s feed: %w", window, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.FeedFetches.WithLabelValues("events", "error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch %s feed: status %d: %s", window, resp.StatusCode, body)
	}

	var fc featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		c.metrics.FeedFetches.WithLabelValues("events", "error").Inc()
		return nil, fmt.Errorf("decode %s feed: %w", window, err)
	}

	c.metrics.FeedFetches.WithLabelValues("events", "success").Inc()

	events := make([]domain.SeismicEvent, 0, len(fc.Features))
	for _, f := range fc.Features {
		events = append(events, f.toEvent())
	}
	c.logger.Debug("event feed fetched", "window", window, "events", len(events))
	return events, nil
}

// Feed document types. Only the fields the service consumes are declared.

type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	ID         string     `json:"id"`
	Properties properties `json:"properties"`
	Geometry   geometry   `json:"geometry"`
}

type properties struct {
	Mag   *float64 `json:"mag"` // null for unreviewed events
	Place string   `json:"place"`
	Time  int64    `json:"time"` // epoch milliseconds
}

type geometry struct {
	Coordinates []float64 `json:"coordinates"` // [lon, lat, depth_km]
}

func (f feature) toEvent() domain.SeismicEvent {
	ev := domain.SeismicEvent{
		ID:         f.ID,
		Place:      f.Properties.Place,
		OccurredAt: time.UnixMilli(f.Properties.Time).UTC(),
	}
	if f.Properties.Mag != nil {
		ev.Magnitude = *f.Properties.Mag
		ev.HasMagnitude = true
	}
	if len(f.Geometry.Coordinates) >= 2 {
		ev.Longitude = f.Geometry.Coordinates[0]
		ev.Latitude = f.Geometry.Coordinates[1]
	}
	if len(f.Geometry.Coordinates) >= 3 {
		ev.DepthKm = f.Geometry.Coordinates[2]
	}
	return ev
}
