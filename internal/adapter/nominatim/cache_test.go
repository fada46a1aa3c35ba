package nominatim

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seismowatch/quake-map-service/internal/domain"
	"github.com/seismowatch/quake-map-service/internal/observability"
)

type stubGeocoder struct {
	calls  int
	coord  domain.Coordinate
	err    error
	coords map[string]domain.Coordinate
}

func (s *stubGeocoder) ResolvePlace(_ context.Context, query string) (domain.Coordinate, error) {
	s.calls++
	if s.err != nil {
		return domain.Coordinate{}, s.err
	}
	if s.coords != nil {
		return s.coords[query], nil
	}
	return s.coord, nil
}

func TestCachedGeocoder_SecondLookupIsCached(t *testing.T) {
	stub := &stubGeocoder{coord: domain.Coordinate{Lat: 35.67, Lon: 139.76}}
	cached := NewCachedGeocoder(stub, 10, observability.NewMetricsForTesting())

	first, err := cached.ResolvePlace(context.Background(), "Tokyo")
	require.NoError(t, err)
	second, err := cached.ResolvePlace(context.Background(), "Tokyo")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, stub.calls)
}

func TestCachedGeocoder_KeyIsNormalized(t *testing.T) {
	stub := &stubGeocoder{coord: domain.Coordinate{Lat: 1, Lon: 2}}
	cached := NewCachedGeocoder(stub, 10, observability.NewMetricsForTesting())

	_, err := cached.ResolvePlace(context.Background(), "Tokyo")
	require.NoError(t, err)
	_, err = cached.ResolvePlace(context.Background(), "  TOKYO ")
	require.NoError(t, err)

	assert.Equal(t, 1, stub.calls, "case and surrounding whitespace share one cache entry")
}

func TestCachedGeocoder_NotFoundIsNotCached(t *testing.T) {
	stub := &stubGeocoder{err: domain.ErrNotFound}
	cached := NewCachedGeocoder(stub, 10, observability.NewMetricsForTesting())

	_, err := cached.ResolvePlace(context.Background(), "nowhere")
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = cached.ResolvePlace(context.Background(), "nowhere")
	require.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, 2, stub.calls)
}

func TestCachedGeocoder_EmptyQueryShortCircuits(t *testing.T) {
	stub := &stubGeocoder{}
	cached := NewCachedGeocoder(stub, 10, observability.NewMetricsForTesting())

	_, err := cached.ResolvePlace(context.Background(), "   ")
	require.ErrorIs(t, err, domain.ErrEmptyQuery)
	assert.Zero(t, stub.calls)
}

func TestCachedGeocoder_ErrorsPassThrough(t *testing.T) {
	boom := errors.New("upstream down")
	stub := &stubGeocoder{err: boom}
	cached := NewCachedGeocoder(stub, 10, observability.NewMetricsForTesting())

	_, err := cached.ResolvePlace(context.Background(), "Tokyo")
	require.ErrorIs(t, err, boom)
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	coords := map[string]domain.Coordinate{}
	for i := 0; i < 4; i++ {
		coords[fmt.Sprintf("place-%d", i)] = domain.Coordinate{Lat: float64(i)}
	}
	stub := &stubGeocoder{coords: coords}
	cached := NewCachedGeocoder(stub, 2, observability.NewMetricsForTesting())

	ctx := context.Background()
	_, _ = cached.ResolvePlace(ctx, "place-0")
	_, _ = cached.ResolvePlace(ctx, "place-1")
	_, _ = cached.ResolvePlace(ctx, "place-0") // refresh place-0
	_, _ = cached.ResolvePlace(ctx, "place-2") // evicts place-1

	calls := stub.calls
	_, _ = cached.ResolvePlace(ctx, "place-0")
	assert.Equal(t, calls, stub.calls, "place-0 still cached")

	_, _ = cached.ResolvePlace(ctx, "place-1")
	assert.Equal(t, calls+1, stub.calls, "place-1 was evicted")
}
