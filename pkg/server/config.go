package server

import (
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/mlb-trending/trending/internal/config"
)

// Config configures a Server.
type Config struct {
	// Address is the listen address, e.g. "localhost:8080".
	Address string

	// ReadTimeout bounds reading a request. It is also the idle limit of a
	// navigation WebSocket.
	ReadTimeout time.Duration

	// ReadHeaderTimeout bounds reading request headers.
	ReadHeaderTimeout time.Duration

	// WriteTimeout bounds a single WebSocket write.
	WriteTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration

	// Index is the shell document served for matched routes.
	Index string

	// NotFound is served with 404 for unmatched URLs when the store has it.
	NotFound string

	// CacheControl is sent with static assets. Fingerprinted assets listed
	// in the build manifest are sent as immutable instead.
	CacheControl string

	// MetricsPath mounts promhttp when non-empty.
	MetricsPath string

	// CheckOrigin validates the Origin of navigation WebSocket requests.
	CheckOrigin func(r *http.Request) bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Address:           "localhost:8080",
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		Index:             "index.html",
		NotFound:          "404.html",
		CacheControl:      "public, max-age=3600",
		MetricsPath:       "/metrics",
		CheckOrigin:       SameOriginCheck,
	}
}

// ConfigFrom derives a server Config from the application configuration.
func ConfigFrom(cfg *config.Config) Config {
	c := DefaultConfig()
	c.Address = cfg.Address()
	if d := cfg.ReadTimeout(); d > 0 {
		c.ReadTimeout = d
	}
	if d := cfg.ShutdownTimeout(); d > 0 {
		c.ShutdownTimeout = d
	}
	c.Index = cfg.Assets.Index
	c.NotFound = cfg.Assets.NotFound
	c.CacheControl = cfg.Assets.CacheControl
	c.MetricsPath = ""
	if cfg.Metrics.Enabled {
		c.MetricsPath = cfg.Metrics.Path
	}
	if len(cfg.Server.AllowedOrigins) > 0 {
		c.CheckOrigin = AllowOrigins(cfg.Server.AllowedOrigins...)
	}
	return c
}

// SameOriginCheck accepts requests without an Origin header and requests
// whose Origin host equals the request host.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || r.Host == "" {
		return false
	}
	return u.Host == r.Host
}

// AllowOrigins accepts same-origin requests plus the listed origins
// ("https://mlbtrending.com"). "*" accepts any origin.
func AllowOrigins(origins ...string) func(r *http.Request) bool {
	allowed := make([]string, 0, len(origins))
	for _, o := range origins {
		allowed = append(allowed, strings.TrimSuffix(strings.ToLower(o), "/"))
	}
	return func(r *http.Request) bool {
		if SameOriginCheck(r) {
			return true
		}
		if slices.Contains(allowed, "*") {
			return true
		}
		return slices.Contains(allowed, strings.ToLower(r.Header.Get("Origin")))
	}
}
