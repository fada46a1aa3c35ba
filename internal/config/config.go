// Package config loads service configuration from an optional YAML file and
// QUAKEMAP_-prefixed environment variables, env taking precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/seismowatch/quake-map-service/internal/domain"
)

// Config holds all service settings.
type Config struct {
	HTTPAddr        string        `koanf:"http_addr"`
	LogLevel        string        `koanf:"log_level"`
	LogFormat       string        `koanf:"log_format"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// Event feed settings.
	FeedBaseURL     string        `koanf:"feed_base_url"`
	FeedTimeout     time.Duration `koanf:"feed_timeout"`
	DefaultWindow   string        `koanf:"default_window"`
	RefreshInterval time.Duration `koanf:"refresh_interval"` // 0 disables scheduled re-fetches

	// Plate-boundary document, fetched once per process.
	BoundariesURL string `koanf:"boundaries_url"`

	// Geocoding settings.
	GeocoderBaseURL   string        `koanf:"geocoder_base_url"`
	GeocoderTimeout   time.Duration `koanf:"geocoder_timeout"`
	GeocoderCacheSize int           `koanf:"geocoder_cache_size"`
	GeocoderUserAgent string        `koanf:"geocoder_user_agent"`
}

func defaults() Config {
	return Config{
		HTTPAddr:        ":8080",
		LogLevel:        "info",
		LogFormat:       "json",
		ShutdownTimeout: 10 * time.Second,

		FeedBaseURL:     "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary",
		FeedTimeout:     15 * time.Second,
		DefaultWindow:   string(domain.WindowDay),
		RefreshInterval: 5 * time.Minute,

		BoundariesURL: "https://raw.githubusercontent.com/fraxen/tectonicplates/master/GeoJSON/PB2002_boundaries.json",

		GeocoderBaseURL:   "https://nominatim.openstreetmap.org",
		GeocoderTimeout:   5 * time.Second,
		GeocoderCacheSize: 500,
		GeocoderUserAgent: "quake-map-service/1.0",
	}
}

// Load builds a Config by layering defaults, an optional YAML file named by
// QUAKEMAP_CONFIG, and QUAKEMAP_-prefixed environment variables, in that
// order of precedence (low to high).
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("QUAKEMAP_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// QUAKEMAP_FEED_TIMEOUT -> feed_timeout; keys stay flat to match the
	// koanf tags on the struct.
	envProvider := env.Provider("QUAKEMAP_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "QUAKEMAP_"))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := defaults()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPAddr == "" {
		return errors.New("http_addr is required")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("shutdown_timeout must be positive")
	}
	if c.FeedBaseURL == "" {
		return errors.New("feed_base_url is required")
	}
	if c.FeedTimeout <= 0 {
		return errors.New("feed_timeout must be positive")
	}
	if !domain.TimeWindow(c.DefaultWindow).Valid() {
		return fmt.Errorf("default_window %q is not one of hour, day, week, month", c.DefaultWindow)
	}
	if c.RefreshInterval < 0 {
		return errors.New("refresh_interval must not be negative")
	}
	if c.BoundariesURL == "" {
		return errors.New("boundaries_url is required")
	}
	if c.GeocoderBaseURL == "" {
		return errors.New("geocoder_base_url is required")
	}
	if c.GeocoderTimeout <= 0 {
		return errors.New("geocoder_timeout must be positive")
	}
	if c.GeocoderCacheSize <= 0 {
		return errors.New("geocoder_cache_size must be positive")
	}
	return nil
}
