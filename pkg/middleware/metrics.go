package middleware

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/hookdom/internal/errors"
	"github.com/vango-dev/hookdom/pkg/component"
	"github.com/vango-dev/hookdom/pkg/host"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "hookdom").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for pass duration.
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

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "hookdom",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the collectors registered for one registry and namespace.
type Metrics struct {
	passesTotal    *prometheus.CounterVec
	hostOps        *prometheus.CounterVec
	passDuration   prometheus.Histogram
	passErrors     *prometheus.CounterVec
	activeSessions prometheus.Gauge
	framesSent     prometheus.Counter
}

type metricsKey struct {
	registry  prometheus.Registerer
	namespace string
	subsystem string
}

// Collectors are registered once per registry and namespace; later calls
// with the same pair share them.
var (
	metricsMu    sync.Mutex
	metricsByKey = map[metricsKey]*Metrics{}
)

// NewMetrics returns the metrics for the configured registry, registering
// them on first use.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	key := metricsKey{config.Registry, config.Namespace, config.Subsystem}
	metricsMu.Lock()
	defer metricsMu.Unlock()
	if m, ok := metricsByKey[key]; ok {
		return m
	}
	m := initMetrics(config)
	metricsByKey[key] = m
	return m
}

func initMetrics(config MetricsConfig) *Metrics {
	factory := promauto.With(config.Registry)

	return &Metrics{
		passesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_passes_total",
			Help:        "Total number of render passes",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		hostOps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "host_ops_total",
			Help:        "Total number of host tree operations issued by the reconciler",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		passDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_pass_duration_seconds",
			Help:        "Render pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		passErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_pass_errors_total",
			Help:        "Total number of failed render passes",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "sessions_active",
			Help:        "Number of connected mirror sessions",
			ConstLabels: config.ConstLabels,
		}),

		framesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "frames_sent_total",
			Help:        "Total number of patch frames sent to mirrors",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Prometheus creates middleware that records pass metrics.
//
//	middleware.Prometheus(
//	    middleware.WithNamespace("myapp"),
//	    middleware.WithRegistry(reg),
//	)
func Prometheus(opts ...MetricsOption) Middleware {
	return NewMetrics(opts...).Middleware()
}

// Middleware returns pass middleware recording into m.
func (m *Metrics) Middleware() Middleware {
	return func(next PassFunc) PassFunc {
		return func(ctx context.Context, pass *component.Pass) error {
			start := time.Now()
			err := next(ctx, pass)
			m.passDuration.Observe(time.Since(start).Seconds())

			for _, kind := range host.AllOpKinds {
				if n := pass.Ops[kind]; n > 0 {
					m.hostOps.WithLabelValues(kind.String()).Add(float64(n))
				}
			}

			status := "success"
			if err != nil {
				status = "error"
				m.passErrors.WithLabelValues(errorCode(err)).Inc()
			}
			m.passesTotal.WithLabelValues(status).Inc()
			return err
		}
	}
}

// SessionOpened records a connected mirror session.
func (m *Metrics) SessionOpened() {
	m.activeSessions.Inc()
}

// SessionClosed records a disconnected mirror session.
func (m *Metrics) SessionClosed() {
	m.activeSessions.Dec()
}

// FrameSent records a patch frame sent to a mirror.
func (m *Metrics) FrameSent() {
	m.framesSent.Inc()
}

// errorCode returns the registered code of err, keeping label cardinality
// bounded.
func errorCode(err error) string {
	var he *errors.HookdomError
	if stderrors.As(err, &he) && he.Code != "" {
		return he.Code
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return "context"
	}
	return "internal"
}
