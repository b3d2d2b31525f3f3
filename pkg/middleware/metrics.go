package middleware

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/keel-go/keel"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "keel").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for dispatch duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

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

// defaultMetricsConfig returns the default metrics configuration.
func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace:   "keel",
		Subsystem:   "",
		ConstLabels: nil,
		Buckets:     prometheus.DefBuckets,
		Registry:    prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus metrics for keel dispatches.
type metrics struct {
	dispatchesTotal  *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec
	dispatchErrors   *prometheus.CounterVec
}

// globalMetrics is the singleton metrics instance, created on the first call
// to Prometheus(). Registering the same collectors twice would panic, so all
// middleware instances share it.
var (
	globalMetrics   *metrics
	globalMetricsMu sync.Mutex
)

// initMetrics registers the dispatch metrics with the configured registry.
func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		dispatchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatches_total",
			Help:        "Total number of dispatched actions",
			ConstLabels: config.ConstLabels,
		}, []string{"action", "status"}),

		dispatchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatch_duration_seconds",
			Help:        "Dispatch round duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"action"}),

		dispatchErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatch_errors_total",
			Help:        "Total number of failed dispatches by reason",
			ConstLabels: config.ConstLabels,
		}, []string{"action", "reason"}),
	}
}

// GetMetrics returns the shared metrics collector, or nil before the first
// Prometheus() call. Exposed for tests and custom recorders.
func GetMetrics() *metrics {
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	return globalMetrics
}

// errorReason buckets dispatch failures by the keel sentinel they wrap.
func errorReason(err error) string {
	switch {
	case errors.Is(err, keel.ErrInvalidAction):
		return "invalid_action"
	case errors.Is(err, keel.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, keel.ErrIllegalStateAccess):
		return "illegal_state"
	case errors.Is(err, keel.ErrPrematureDispatch):
		return "premature_dispatch"
	default:
		return "other"
	}
}

// Prometheus creates middleware that records a counter and a duration
// histogram for every dispatched action, labeled by action type and outcome.
func Prometheus[S any](opts ...MetricsOption) keel.Middleware[S] {
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

	return func(api keel.MiddlewareAPI[S]) keel.Interceptor {
		return func(next keel.Dispatcher) keel.Dispatcher {
			return func(action any) (any, error) {
				typ, _ := keel.ActionType(action)
				if typ == "" {
					typ = "invalid"
				}
				start := time.Now()

				out, err := next(action)

				m.dispatchDuration.WithLabelValues(typ).Observe(time.Since(start).Seconds())
				if err != nil {
					m.dispatchesTotal.WithLabelValues(typ, "error").Inc()
					m.dispatchErrors.WithLabelValues(typ, errorReason(err)).Inc()
					return out, err
				}
				m.dispatchesTotal.WithLabelValues(typ, "success").Inc()
				return out, nil
			}
		}
	}
}
