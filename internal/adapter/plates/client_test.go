package plates

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seismowatch/quake-map-service/internal/domain"
	"github.com/seismowatch/quake-map-service/internal/observability"
)

const sampleBoundaries = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"Name": "AF-AN"},
      "geometry": {"type": "LineString", "coordinates": [[-1.5, 54.0], [-1.2, 54.3], [-0.9, 54.8]]}
    },
    {
      "type": "Feature",
      "properties": {"Name": "PA-NA"},
      "geometry": {"type": "MultiLineString", "coordinates": [[[120.0, 23.0], [121.0, 24.0]], [[122.0, 25.0], [123.0, 26.0]]]}
    },
    {
      "type": "Feature",
      "properties": {"Name": "stray point"},
      "geometry": {"type": "Point", "coordinates": [0.0, 0.0]}
    }
  ]
}`

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(srv.URL, 5*time.Second, observability.NewMetricsForTesting(), logger)
}

func TestFetchBoundaries_ParsesLineFeatures(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(sampleBoundaries))
	})

	segments, err := c.FetchBoundaries(context.Background())
	require.NoError(t, err)
	require.Len(t, segments, 2, "point features are skipped")

	wantFirst := [][]domain.Coordinate{
		{{Lon: -1.5, Lat: 54.0}, {Lon: -1.2, Lat: 54.3}, {Lon: -0.9, Lat: 54.8}},
	}
	assert.Empty(t, cmp.Diff(wantFirst, segments[0].Paths))

	require.Len(t, segments[1].Paths, 2, "MultiLineString keeps its parts")
	assert.Equal(t, domain.Coordinate{Lon: 122.0, Lat: 25.0}, segments[1].Paths[1][0])
}

func TestFetchBoundaries_KindsAreValid(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(sampleBoundaries))
	})

	segments, err := c.FetchBoundaries(context.Background())
	require.NoError(t, err)

	for _, seg := range segments {
		assert.Contains(t, domain.AllBoundaryKinds, seg.Kind)
	}
}

// The random draw happens at load time only; the kinds of a loaded
// collection never change between reads.
func TestFetchBoundaries_KindsStablePerLoad(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(sampleBoundaries))
	})

	segments, err := c.FetchBoundaries(context.Background())
	require.NoError(t, err)

	first := make([]domain.BoundaryKind, len(segments))
	for i, seg := range segments {
		first[i] = seg.Kind
	}
	for i, seg := range segments {
		assert.Equal(t, first[i], seg.Kind)
	}
}

func TestFetchBoundaries_ServerError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})

	_, err := c.FetchBoundaries(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestFetchBoundaries_MalformedBody(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not geojson`))
	})

	_, err := c.FetchBoundaries(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}
