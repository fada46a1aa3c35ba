// Command server runs the quake map API: it loads the earthquake summary
// feed and the plate-boundary document, keeps the event collection fresh,
// and serves the filtered render set, aggregate reports, and place search
// over HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/seismowatch/quake-map-service/internal/adapter/httpapi"
	"github.com/seismowatch/quake-map-service/internal/adapter/nominatim"
	"github.com/seismowatch/quake-map-service/internal/adapter/plates"
	"github.com/seismowatch/quake-map-service/internal/adapter/usgs"
	"github.com/seismowatch/quake-map-service/internal/catalog"
	"github.com/seismowatch/quake-map-service/internal/config"
	"github.com/seismowatch/quake-map-service/internal/domain"
	"github.com/seismowatch/quake-map-service/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	feed := usgs.NewClient(cfg.FeedBaseURL, cfg.FeedTimeout, metrics, logger)
	boundaries := plates.NewClient(cfg.BoundariesURL, cfg.FeedTimeout, metrics, logger)
	geocoder := nominatim.NewCachedGeocoder(
		nominatim.NewClient(cfg.GeocoderBaseURL, cfg.GeocoderUserAgent, cfg.GeocoderTimeout, metrics, logger),
		cfg.GeocoderCacheSize,
		metrics,
	)

	cat := catalog.New(feed, boundaries, domain.TimeWindow(cfg.DefaultWindow),
		cfg.RefreshInterval, clockwork.NewRealClock(), metrics, logger)

	srv := httpapi.NewServer(cfg.HTTPAddr, cat, geocoder, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initial loads run in the background so the server is up immediately;
	// readiness reports false until the first event fetch lands.
	go func() {
		if err := cat.SelectWindow(ctx, domain.TimeWindow(cfg.DefaultWindow)); err != nil {
			logger.Error("initial event load failed", "error", err)
		}
		if err := cat.LoadBoundaries(ctx); err != nil {
			logger.Error("boundary load failed", "error", err)
		}
	}()

	go cat.RunRefresher(ctx)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
