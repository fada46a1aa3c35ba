// Package nominatim implements domain.Geocoder against a Nominatim-style
// place-search API.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/seismowatch/quake-map-service/internal/domain"
	"github.com/seismowatch/quake-map-service/internal/observability"
)

// Client resolves free-text place names via the search endpoint.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a geocoding client. The Nominatim usage policy requires
// an identifying User-Agent, so userAgent must be non-empty for the public
// instance.
func NewClient(baseURL, userAgent string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// ResolvePlace issues one search request and returns the first candidate's
// coordinates. An empty or whitespace-only query returns
// domain.ErrEmptyQuery without touching the network; zero candidates return
// domain.ErrNotFound.
func (c *Client) ResolvePlace(ctx context.Context, query string) (domain.Coordinate, error) {
	if strings.TrimSpace(query) == "" {
		return domain.Coordinate{}, domain.ErrEmptyQuery
	}

	params := url.Values{
		"q":      {query},
		"format": {"json"},
		"limit":  {"1"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.Coordinate{}, fmt.Errorf("place search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.Coordinate{}, fmt.Errorf("place search: status %d: %s", resp.StatusCode, body)
	}

	var candidates []candidate
	if err := json.NewDecoder(resp.Body).Decode(&candidates); err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.Coordinate{}, fmt.Errorf("decode place search response: %w", err)
	}
	c.metrics.GeocodeDuration.Observe(time.Since(start).Seconds())

	if len(candidates) == 0 {
		c.metrics.GeocodeRequests.WithLabelValues("not_found").Inc()
		return domain.Coordinate{}, fmt.Errorf("resolve %q: %w", query, domain.ErrNotFound)
	}

	// Only the first candidate is used; lat/lon arrive as strings.
	coord, err := candidates[0].coordinate()
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.Coordinate{}, fmt.Errorf("resolve %q: %w", query, err)
	}

	c.metrics.GeocodeRequests.WithLabelValues("success").Inc()
	c.logger.Debug("place resolved", "query", query, "lat", coord.Lat, "lon", coord.Lon)
	return coord, nil
}

type candidate struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (c candidate) coordinate() (domain.Coordinate, error) {
	lat, err := strconv.ParseFloat(c.Lat, 64)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("parse lat %q: %w", c.Lat, err)
	}
	lon, err := strconv.ParseFloat(c.Lon, 64)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("parse lon %q: %w", c.Lon, err)
	}
	return domain.Coordinate{Lat: lat, Lon: lon}, nil
}
