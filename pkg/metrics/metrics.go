// Package metrics exports reactive runtime and live session activity as
// Prometheus metrics.
//
// A Collector is both a reactive.Observer and a render.ListObserver: pass it
// to reactive.WithObserver and it records every flush, list item mount,
// unmount and move, and conditional toggle made on that runtime.
//
//	c := metrics.New(metrics.WithNamespace("myapp"))
//	rt := reactive.NewRuntime(reactive.WithObserver(c))
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	rerrors "github.com/vango-dev/renditional/internal/errors"
	"github.com/vango-dev/renditional/pkg/reactive"
	"github.com/vango-dev/renditional/pkg/render"
)

// Config configures a Collector.
type Config struct {
	// Namespace is the metrics namespace (default: "renditional").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures a Collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "renditional",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector holds the Prometheus metrics. Registering two Collectors with
// the same namespace on one registry panics, as promauto does.
type Collector struct {
	flushesTotal   *prometheus.CounterVec
	flushDuration  prometheus.Histogram
	flushRuns      prometheus.Histogram
	itemsMounted   prometheus.Counter
	itemsUnmounted prometheus.Counter
	itemsMoved     prometheus.Counter
	toggles        *prometheus.CounterVec
	activeSessions prometheus.Gauge
	eventsTotal    *prometheus.CounterVec
	eventDuration  *prometheus.HistogramVec
	mutationsSent  prometheus.Counter
	wsErrors       *prometheus.CounterVec
}

var (
	_ reactive.Observer   = (*Collector)(nil)
	_ render.ListObserver = (*Collector)(nil)
)

// New creates a Collector and registers its metrics.
//
// Metrics collected (with the default namespace):
//   - renditional_flushes_total: Counter of flushes by status
//   - renditional_flush_duration_seconds: Histogram of flush duration
//   - renditional_flush_runs: Histogram of dependents run per flush
//   - renditional_list_items_mounted_total, _unmounted_total, _moved_total
//   - renditional_conditional_toggles_total: Counter by state
//   - renditional_active_sessions: Gauge of live sessions
//   - renditional_events_total: Counter of live events by type and status
//   - renditional_event_duration_seconds: Histogram of event handling
//   - renditional_mutations_sent_total: Counter of tree mutations sent
//   - renditional_websocket_errors_total: Counter of WebSocket errors
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)
	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		})
	}

	return &Collector{
		flushesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flushes_total",
			Help:        "Total number of scheduler flushes",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		flushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_duration_seconds",
			Help:        "Scheduler flush duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		flushRuns: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_runs",
			Help:        "Dependents run per scheduler flush",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{1, 2, 5, 10, 50, 100, 1000, 10000},
		}),

		itemsMounted:   counter("list_items_mounted_total", "Total list items mounted"),
		itemsUnmounted: counter("list_items_unmounted_total", "Total list items unmounted"),
		itemsMoved:     counter("list_items_moved_total", "Total list items moved without remounting"),

		toggles: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "conditional_toggles_total",
			Help:        "Total conditional mounts and unmounts",
			ConstLabels: config.ConstLabels,
		}, []string{"state"}),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_sessions",
			Help:        "Number of active live sessions",
			ConstLabels: config.ConstLabels,
		}),

		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "events_total",
			Help:        "Total number of live events processed",
			ConstLabels: config.ConstLabels,
		}, []string{"type", "status"}),

		eventDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "event_duration_seconds",
			Help:        "Live event processing duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"type"}),

		mutationsSent: counter("mutations_sent_total", "Total number of tree mutations sent to clients"),

		wsErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "websocket_errors_total",
			Help:        "Total WebSocket errors by type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),
	}
}

// FlushCompleted implements reactive.Observer.
func (c *Collector) FlushCompleted(runs int, elapsed time.Duration, err error) {
	c.flushesTotal.WithLabelValues(status(err)).Inc()
	c.flushDuration.Observe(elapsed.Seconds())
	c.flushRuns.Observe(float64(runs))
}

// ItemMounted implements render.ListObserver.
func (c *Collector) ItemMounted() { c.itemsMounted.Inc() }

// ItemUnmounted implements render.ListObserver.
func (c *Collector) ItemUnmounted() { c.itemsUnmounted.Inc() }

// ItemMoved implements render.ListObserver.
func (c *Collector) ItemMoved() { c.itemsMoved.Inc() }

// ConditionalToggled implements render.ListObserver.
func (c *Collector) ConditionalToggled(shown bool) {
	state := "hidden"
	if shown {
		state = "shown"
	}
	c.toggles.WithLabelValues(state).Inc()
}

// SessionOpened records a new live session.
func (c *Collector) SessionOpened() {
	c.activeSessions.Inc()
}

// SessionClosed records the end of a live session.
func (c *Collector) SessionClosed() {
	c.activeSessions.Dec()
}

// EventHandled records one live event.
func (c *Collector) EventHandled(eventType string, elapsed time.Duration, err error) {
	c.eventDuration.WithLabelValues(eventType).Observe(elapsed.Seconds())
	c.eventsTotal.WithLabelValues(eventType, status(err)).Inc()
}

// MutationsSent records mutations shipped to a client.
func (c *Collector) MutationsSent(n int) {
	c.mutationsSent.Add(float64(n))
}

// WebSocketError records a WebSocket error.
func (c *Collector) WebSocketError(kind string) {
	c.wsErrors.WithLabelValues(kind).Inc()
}

// status labels an outcome by error code so labels stay low-cardinality.
func status(err error) string {
	if err == nil {
		return "success"
	}
	if code := rerrors.CodeOf(err); code != "" {
		return code
	}
	return "error"
}
