// Package catalog holds the in-memory data the map serves: the seismic event
// collection for the currently selected time window and the plate-boundary
// collection. Collections are replaced wholesale on successful fetches and
// never mutated in place, so readers always see either the previous complete
// collection or the new one.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/seismowatch/quake-map-service/internal/domain"
	"github.com/seismowatch/quake-map-service/internal/observability"
)

// EventFetcher loads the event collection for a time window.
type EventFetcher interface {
	FetchEvents(ctx context.Context, window domain.TimeWindow) ([]domain.SeismicEvent, error)
}

// BoundaryFetcher loads the plate-boundary collection.
type BoundaryFetcher interface {
	FetchBoundaries(ctx context.Context) ([]domain.BoundarySegment, error)
}

// Snapshot is an immutable view of the current collections. The slices are
// shared with the catalog but are never mutated after installation. Window
// names the window the event collection was fetched for, not a selection
// whose fetch may have failed.
type Snapshot struct {
	Window           domain.TimeWindow
	Events           []domain.SeismicEvent
	Boundaries       []domain.BoundarySegment
	BoundariesLoaded bool
}

// Catalog is the single state container for loaded feed data.
type Catalog struct {
	feed            EventFetcher
	plates          BoundaryFetcher
	logger          *slog.Logger
	metrics         *observability.Metrics
	clock           clockwork.Clock
	refreshInterval time.Duration

	mu        sync.RWMutex
	window    domain.TimeWindow // most recent selection, drives the stale guard
	selectGen uint64

	// eventsWindow is the window whose collection is actually installed. It
	// trails window when a selection's fetch failed, so snapshots report the
	// data being served and callers know to retry the selection.
	eventsWindow domain.TimeWindow
	events       []domain.SeismicEvent
	loaded       bool

	// boundariesLoaded, not slice nilness, is the load sentinel: a fetch can
	// succeed with an empty collection and must still count as loaded.
	boundaries       []domain.BoundarySegment
	boundariesLoaded bool
}

// New creates a Catalog starting on defaultWindow with no collections
// loaded. A refreshInterval of zero disables the scheduled refresher.
func New(feed EventFetcher, plates BoundaryFetcher, defaultWindow domain.TimeWindow, refreshInterval time.Duration, clock clockwork.Clock, metrics *observability.Metrics, logger *slog.Logger) *Catalog {
	return &Catalog{
		feed:            feed,
		plates:          plates,
		window:          defaultWindow,
		eventsWindow:    defaultWindow,
		refreshInterval: refreshInterval,
		clock:           clock,
		metrics:         metrics,
		logger:          logger,
	}
}

// SelectWindow makes w the selected window and fetches its feed. The result
// is installed only if w is still the selected window when the fetch
// completes; a response superseded by a newer selection is discarded, so the
// last selection wins regardless of response arrival order.
//
// On fetch failure the previous collection stays in place and the error is
// returned for surfacing.
func (c *Catalog) SelectWindow(ctx context.Context, w domain.TimeWindow) error {
	if !w.Valid() {
		return fmt.Errorf("invalid time window %q", w)
	}

	c.mu.Lock()
	c.window = w
	c.selectGen++
	gen := c.selectGen
	c.mu.Unlock()

	events, err := c.feed.FetchEvents(ctx, w)
	if err != nil {
		c.logger.Error("event feed fetch failed, keeping previous collection",
			"window", w, "error", err)
		return fmt.Errorf("select window %s: %w", w, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.selectGen {
		c.metrics.StaleDiscarded.Inc()
		c.logger.Warn("discarding stale feed response", "window", w)
		return nil
	}

	c.events = events
	c.eventsWindow = w
	c.loaded = true
	c.metrics.EventsLoaded.Set(float64(len(events)))
	c.logger.Info("event collection replaced", "window", w, "events", len(events))
	return nil
}

// Refresh re-fetches the currently selected window. The stale guard applies
// as for SelectWindow, so a refresh racing a window change cannot clobber
// the newer selection.
func (c *Catalog) Refresh(ctx context.Context) error {
	c.mu.RLock()
	w := c.window
	c.mu.RUnlock()
	return c.SelectWindow(ctx, w)
}

// RunRefresher re-fetches the current window on a fixed interval until ctx
// is cancelled. The upstream summary documents are regenerated about once a
// minute, so a modest interval keeps the collection current.
func (c *Catalog) RunRefresher(ctx context.Context) {
	if c.refreshInterval <= 0 {
		return
	}

	ticker := c.clock.NewTicker(c.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("refresher stopping", "reason", ctx.Err())
			return
		case <-ticker.Chan():
			if err := c.Refresh(ctx); err != nil && ctx.Err() == nil {
				c.logger.Warn("scheduled refresh failed", "error", err)
			}
		}
	}
}

// LoadBoundaries fetches the plate-boundary collection. The document is
// static and the synthetic kind labels must not be re-rolled, so a loaded
// collection is kept for the process lifetime; repeat calls are no-ops.
// Callers may retry after a failure.
func (c *Catalog) LoadBoundaries(ctx context.Context) error {
	c.mu.RLock()
	already := c.boundariesLoaded
	c.mu.RUnlock()
	if already {
		return nil
	}

	segments, err := c.plates.FetchBoundaries(ctx)
	if err != nil {
		c.logger.Error("boundary fetch failed", "error", err)
		return fmt.Errorf("load boundaries: %w", err)
	}
	if segments == nil {
		segments = []domain.BoundarySegment{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.boundariesLoaded {
		c.boundaries = segments
		c.boundariesLoaded = true
	}
	return nil
}

// Snapshot returns the current collections and selected window.
func (c *Catalog) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		Window:           c.eventsWindow,
		Events:           c.events,
		Boundaries:       c.boundaries,
		BoundariesLoaded: c.boundariesLoaded,
	}
}

// CheckReadiness returns nil once an event collection has loaded.
func (c *Catalog) CheckReadiness(_ context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loaded {
		return errors.New("no event collection loaded yet")
	}
	return nil
}
