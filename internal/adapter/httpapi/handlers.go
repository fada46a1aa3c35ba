package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/seismowatch/quake-map-service/internal/catalog"
	"github.com/seismowatch/quake-map-service/internal/domain"
)

type handlers struct {
	catalog  *catalog.Catalog
	geocoder domain.Geocoder
	logger   *slog.Logger
}

// eventsResponse carries the filtered render set. NoMatches distinguishes
// "filters excluded everything" from an error; an empty set is a valid state
// and renders as an explicit message, not a blank view.
type eventsResponse struct {
	Window    domain.TimeWindow     `json:"window"`
	Total     int                   `json:"total"`
	NoMatches bool                  `json:"no_matches,omitempty"`
	Events    []domain.SeismicEvent `json:"events"`
}

type reportResponse struct {
	Window domain.TimeWindow       `json:"window"`
	NoData bool                    `json:"no_data,omitempty"`
	Report *domain.AggregateReport `json:"report,omitempty"`
}

// boundariesResponse flags the kind labels as synthetic so clients never
// present them as real geological classification.
type boundariesResponse struct {
	Loaded         bool                     `json:"loaded"`
	SyntheticKinds bool                     `json:"synthetic_kinds"`
	Segments       []domain.BoundarySegment `json:"segments,omitempty"`
}

type geocodeResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	snap, criteria, ok := h.snapshotAndCriteria(w, r)
	if !ok {
		return
	}

	filtered := domain.ApplyFilters(snap.Events, criteria)
	writeJSON(w, http.StatusOK, eventsResponse{
		Window:    snap.Window,
		Total:     len(filtered),
		NoMatches: len(filtered) == 0,
		Events:    filtered,
	})
}

func (h *handlers) report(w http.ResponseWriter, r *http.Request) {
	snap, criteria, ok := h.snapshotAndCriteria(w, r)
	if !ok {
		return
	}

	filtered := domain.ApplyFilters(snap.Events, criteria)
	report := domain.Summarize(filtered, snap.Boundaries)
	writeJSON(w, http.StatusOK, reportResponse{
		Window: snap.Window,
		NoData: report == nil,
		Report: report,
	})
}

func (h *handlers) boundaries(w http.ResponseWriter, r *http.Request) {
	snap := h.catalog.Snapshot()
	writeJSON(w, http.StatusOK, boundariesResponse{
		Loaded:         snap.BoundariesLoaded,
		SyntheticKinds: true,
		Segments:       snap.Boundaries,
	})
}

func (h *handlers) geocode(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	coord, err := h.geocoder.ResolvePlace(r.Context(), query)
	switch {
	case errors.Is(err, domain.ErrEmptyQuery):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "query parameter q is required"})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("no results for %q", query)})
	case err != nil:
		h.logger.Error("place search failed", "query", query, "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "place search unavailable"})
	default:
		writeJSON(w, http.StatusOK, geocodeResponse{Lat: coord.Lat, Lon: coord.Lon})
	}
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *handlers) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.catalog.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// snapshotAndCriteria reads the filter parameters and, when the request
// names a window other than the current one, re-fetches the feed for it
// before snapshotting. The window is server-side scoped; everything else
// filters the in-memory collection. A failed window fetch degrades to the
// previous collection instead of failing the request.
func (h *handlers) snapshotAndCriteria(w http.ResponseWriter, r *http.Request) (catalog.Snapshot, domain.FilterCriteria, bool) {
	criteria, err := parseCriteria(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return catalog.Snapshot{}, domain.FilterCriteria{}, false
	}

	if raw := r.URL.Query().Get("window"); raw != "" {
		window := domain.TimeWindow(raw)
		if !window.Valid() {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid window %q", raw)})
			return catalog.Snapshot{}, domain.FilterCriteria{}, false
		}
		if window != h.catalog.Snapshot().Window {
			if err := h.catalog.SelectWindow(r.Context(), window); err != nil {
				h.logger.Warn("window fetch failed, serving previous collection", "window", window, "error", err)
			}
		}
	}

	return h.catalog.Snapshot(), criteria, true
}

// parseCriteria reads the range and keyword parameters, defaulting to the
// full slider range when absent.
func parseCriteria(q url.Values) (domain.FilterCriteria, error) {
	criteria := domain.FullRange()
	criteria.PlaceKeyword = q.Get("place")

	fields := []struct {
		name string
		dst  *float64
	}{
		{"min_mag", &criteria.MinMagnitude},
		{"max_mag", &criteria.MaxMagnitude},
		{"min_depth", &criteria.MinDepthKm},
		{"max_depth", &criteria.MaxDepthKm},
	}
	for _, f := range fields {
		raw := q.Get(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.FilterCriteria{}, fmt.Errorf("invalid %s %q", f.name, raw)
		}
		*f.dst = v
	}
	return criteria, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}
