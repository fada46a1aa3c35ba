package nominatim

import (
	"container/list"
	"context"
	"strings"
	"sync"

	"github.com/seismowatch/quake-map-service/internal/domain"
	"github.com/seismowatch/quake-map-service/internal/observability"
)

// CachedGeocoder wraps a Geocoder with an in-memory LRU keyed by the
// lowercased, trimmed query. Repeated searches for the same place are common
// and the underlying public API is rate limited.
type CachedGeocoder struct {
	inner   domain.Geocoder
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedGeocoder creates a cache decorator around a geocoder.
func NewCachedGeocoder(inner domain.Geocoder, maxEntries int, metrics *observability.Metrics) *CachedGeocoder {
	return &CachedGeocoder{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

// ResolvePlace serves from cache when possible. Only successful resolutions
// are cached: NotFound is not, so a place missing from the upstream index
// today can be retried later.
func (c *CachedGeocoder) ResolvePlace(ctx context.Context, query string) (domain.Coordinate, error) {
	key := strings.ToLower(strings.TrimSpace(query))
	if key == "" {
		return domain.Coordinate{}, domain.ErrEmptyQuery
	}

	if coord, ok := c.cache.get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return coord, nil
	}
	c.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	coord, err := c.inner.ResolvePlace(ctx, query)
	if err != nil {
		return coord, err
	}
	c.cache.put(key, coord)
	return coord, nil
}

// lruCache is a small thread-safe LRU for resolved coordinates. The list
// front is the most recently used entry.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List // of *cacheEntry
}

type cacheEntry struct {
	key   string
	coord domain.Coordinate
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*list.Element),
		order:      list.New(),
	}
}

func (c *lruCache) get(key string) (domain.Coordinate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return domain.Coordinate{}, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).coord, true
}

func (c *lruCache) put(key string, coord domain.Coordinate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*cacheEntry).coord = coord
		c.order.MoveToFront(el)
		return
	}

	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, coord: coord})

	if c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}
