package middleware

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mlb-trending/trending/internal/errors"
	"github.com/mlb-trending/trending/pkg/router"
)

// Status label values for navigations_total.
const (
	StatusOK          = "ok"
	StatusNotFound    = "not_found"
	StatusInvalidPath = "invalid_path"
	StatusError       = "error"
)

// unmatchedRoute labels resolutions that produced no route.
const unmatchedRoute = "none"

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "trending").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for resolution duration.
	// Default: DefaultBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// DefaultBuckets suits resolutions, which take microseconds.
var DefaultBuckets = []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01}

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "trending",
		Buckets:   DefaultBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

type metrics struct {
	navigationsTotal   *prometheus.CounterVec
	navigationDuration *prometheus.HistogramVec
	navigationErrors   *prometheus.CounterVec
	navConnections     prometheus.Gauge
	wsErrors           *prometheus.CounterVec
}

// globalMetrics is created on the first call to Prometheus(). Collectors can
// only be registered once per registry, so later calls share it.
var (
	globalMetrics   *metrics
	globalMetricsMu sync.Mutex
)

func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		navigationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of URL resolutions by route and status",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "status"}),

		navigationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_duration_seconds",
			Help:        "URL resolution duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),

		navigationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_errors_total",
			Help:        "Total number of failed resolutions by error code",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),

		navConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nav_connections",
			Help:        "Number of open navigation WebSocket connections",
			ConstLabels: config.ConstLabels,
		}),

		wsErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "websocket_errors_total",
			Help:        "Total navigation WebSocket errors by type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),
	}
}

// Prometheus creates middleware that collects metrics for URL resolutions.
//
// Metrics collected:
//   - trending_navigations_total: Counter by route name and status
//   - trending_navigation_duration_seconds: Histogram by route name
//   - trending_navigation_errors_total: Counter of failures by error code
//   - trending_nav_connections: Gauge of open /_nav connections
//   - trending_websocket_errors_total: Counter of /_nav errors by type
//
// Route labels use route names, never raw paths, so cardinality is bounded
// by the size of the table.
//
// Example:
//
//	r := router.NewRouter(routes.Table(),
//	    router.WithMiddleware(middleware.Prometheus(middleware.WithNamespace("trending"))),
//	)
func Prometheus(opts ...MetricsOption) router.Middleware {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	globalMetricsMu.Lock()
	if globalMetrics == nil {
		globalMetrics = initMetrics(config)
	}
	m := globalMetrics
	globalMetricsMu.Unlock()

	return router.MiddlewareFunc(func(ctx router.Ctx, next func() error) error {
		start := time.Now()
		err := next()
		duration := time.Since(start).Seconds()

		route := unmatchedRoute
		if match := ctx.Match(); match != nil {
			route = match.Route.Name
		}

		status := statusOf(err)
		if err != nil {
			code := errors.Code(err)
			if code == "" {
				code = "unknown"
			}
			m.navigationErrors.WithLabelValues(code).Inc()
		}

		m.navigationDuration.WithLabelValues(route).Observe(duration)
		m.navigationsTotal.WithLabelValues(route, status).Inc()
		return err
	})
}

// statusOf maps a resolution error to a low-cardinality status label.
func statusOf(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case errors.HasCode(err, errors.CodeRouteNotFound):
		return StatusNotFound
	case errors.HasCode(err, errors.CodeInvalidPath), errors.HasCode(err, errors.CodeInvalidParam):
		return StatusInvalidPath
	default:
		return StatusError
	}
}

// RecordNavConnOpen records a navigation WebSocket being accepted.
func RecordNavConnOpen() {
	if m := current(); m != nil {
		m.navConnections.Inc()
	}
}

// RecordNavConnClose records a navigation WebSocket closing.
func RecordNavConnClose() {
	if m := current(); m != nil {
		m.navConnections.Dec()
	}
}

// RecordWebSocketError records a navigation WebSocket error.
func RecordWebSocketError(errorType string) {
	if m := current(); m != nil {
		m.wsErrors.WithLabelValues(errorType).Inc()
	}
}

func current() *metrics {
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	return globalMetrics
}
