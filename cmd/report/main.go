// Command report fetches one summary feed window, applies filter criteria,
// and prints the aggregate report as JSON. Useful for eyeballing feed data
// and for checking what the API would serve without running the server.
//
// Usage:
//
//	go run ./cmd/report -window day -min-mag 4.5 -place alaska
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/seismowatch/quake-map-service/internal/adapter/usgs"
	"github.com/seismowatch/quake-map-service/internal/domain"
	"github.com/seismowatch/quake-map-service/internal/observability"
)

func main() {
	window := flag.String("window", "day", "time window: hour, day, week, or month")
	feedURL := flag.String("feed-url", "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary", "summary feed base URL")
	minMag := flag.Float64("min-mag", 0, "minimum magnitude")
	maxMag := flag.Float64("max-mag", 10, "maximum magnitude")
	minDepth := flag.Float64("min-depth", 0, "minimum depth in km")
	maxDepth := flag.Float64("max-depth", 700, "maximum depth in km")
	place := flag.String("place", "", "place keyword (case-insensitive substring)")
	timeout := flag.Duration("timeout", 30*time.Second, "fetch timeout")
	flag.Parse()

	if code := run(*window, *feedURL, domain.FilterCriteria{
		MinMagnitude: *minMag,
		MaxMagnitude: *maxMag,
		MinDepthKm:   *minDepth,
		MaxDepthKm:   *maxDepth,
		PlaceKeyword: *place,
	}, *timeout); code != 0 {
		os.Exit(code)
	}
}

func run(window, feedURL string, criteria domain.FilterCriteria, timeout time.Duration) int {
	w := domain.TimeWindow(window)
	if !w.Valid() {
		fmt.Fprintf(os.Stderr, "invalid window %q: want hour, day, week, or month\n", window)
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := usgs.NewClient(feedURL, timeout, observability.NewMetrics(), logger)

	events, err := client.FetchEvents(ctx, w)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fetch events: %v\n", err)
		return 1
	}

	filtered := domain.ApplyFilters(events, criteria)
	report := domain.Summarize(filtered, nil)
	if report == nil {
		fmt.Fprintf(os.Stderr, "no events match: %d fetched, 0 after filtering\n", len(events))
		return 0
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		fmt.Fprintf(os.Stderr, "encode report: %v\n", err)
		return 1
	}
	return 0
}
