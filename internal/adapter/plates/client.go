// Package plates fetches the static tectonic plate-boundary document and
// labels each segment with a synthetic boundary kind.
package plates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/seismowatch/quake-map-service/internal/domain"
	"github.com/seismowatch/quake-map-service/internal/observability"
)

// Client fetches the plate-boundary GeoJSON document. The document is
// static, so a process fetches it once and keeps the result.
type Client struct {
	url        string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a boundary client for the given document URL.
func NewClient(url string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// FetchBoundaries retrieves the boundary document and returns its line
// features as segments, each labeled with a boundary kind drawn uniformly at
// random. The draw happens here, once per segment per load; the labels stay
// fixed for the collection's lifetime and are declared demo data, not
// geology.
func (c *Client) FetchBoundaries(ctx context.Context) ([]domain.BoundarySegment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.FeedFetches.WithLabelValues("boundaries", "error").Inc()
		return nil, fmt.Errorf("fetch boundaries: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.FeedFetches.WithLabelValues("boundaries", "error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch boundaries: status %d: %s", resp.StatusCode, body)
	}

	var fc featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		c.metrics.FeedFetches.WithLabelValues("boundaries", "error").Inc()
		return nil, fmt.Errorf("decode boundaries: %w", err)
	}

	segments := make([]domain.BoundarySegment, 0, len(fc.Features))
	for _, f := range fc.Features {
		paths, err := f.Geometry.paths()
		if err != nil {
			// Skip non-line features instead of failing the whole load.
			c.logger.Warn("skipping boundary feature", "type", f.Geometry.Type, "error", err)
			continue
		}
		segments = append(segments, domain.BoundarySegment{
			Kind:  randomKind(),
			Paths: paths,
		})
	}

	c.metrics.FeedFetches.WithLabelValues("boundaries", "success").Inc()
	c.metrics.BoundarySegments.Set(float64(len(segments)))
	c.logger.Info("boundary collection loaded", "segments", len(segments))
	return segments, nil
}

// randomKind draws one of the three boundary kinds uniformly. An unseeded
// source is intentional: the labels are non-reproducible demo data.
func randomKind() domain.BoundaryKind {
	return domain.AllBoundaryKinds[rand.Intn(len(domain.AllBoundaryKinds))]
}

// Boundary document types.

type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	Geometry lineGeometry `json:"geometry"`
}

// lineGeometry defers coordinate decoding until the geometry type is known:
// LineString carries [][]float64, MultiLineString [][][]float64.
type lineGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

func (g lineGeometry) paths() ([][]domain.Coordinate, error) {
	switch g.Type {
	case "LineString":
		var line [][]float64
		if err := json.Unmarshal(g.Coordinates, &line); err != nil {
			return nil, fmt.Errorf("decode LineString: %w", err)
		}
		return [][]domain.Coordinate{toPath(line)}, nil
	case "MultiLineString":
		var lines [][][]float64
		if err := json.Unmarshal(g.Coordinates, &lines); err != nil {
			return nil, fmt.Errorf("decode MultiLineString: %w", err)
		}
		paths := make([][]domain.Coordinate, 0, len(lines))
		for _, line := range lines {
			paths = append(paths, toPath(line))
		}
		return paths, nil
	default:
		return nil, fmt.Errorf("unsupported geometry type %q", g.Type)
	}
}

func toPath(line [][]float64) []domain.Coordinate {
	path := make([]domain.Coordinate, 0, len(line))
	for _, pos := range line {
		if len(pos) < 2 {
			continue
		}
		path = append(path, domain.Coordinate{Lon: pos[0], Lat: pos[1]})
	}
	return path
}
