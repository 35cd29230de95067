package telemetry

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/dragsort/pkg/dnd"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "dragsort").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for drag duration.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
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

// WithBuckets sets the drag duration histogram buckets.
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
		Namespace: "dragsort",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors. It implements dnd.Hooks.
type Metrics struct {
	dragsStarted    prometheus.Counter
	dragDuration    prometheus.Histogram
	activeDrags     prometheus.Gauge
	targetChanges   prometheus.Counter
	positionReports *prometheus.CounterVec
	dragOverDropped prometheus.Counter
	commits         prometheus.Counter
	committedItems  prometheus.Histogram
	transitions     prometheus.Counter
	staleResets     prometheus.Counter
	activeSessions  prometheus.Gauge
	wsErrors        *prometheus.CounterVec
	protocolErrors  *prometheus.CounterVec
}

// NewMetrics registers the collectors.
//
// Metrics collected:
//   - dragsort_drags_started_total
//   - dragsort_drag_duration_seconds
//   - dragsort_active_drags
//   - dragsort_target_changes_total
//   - dragsort_position_reports_total{status="applied|ignored"}
//   - dragsort_drag_over_dropped_total
//   - dragsort_commits_total
//   - dragsort_committed_items
//   - dragsort_transitions_total
//   - dragsort_stale_resets_total
//   - dragsort_active_sessions
//   - dragsort_websocket_errors_total{type}
//   - dragsort_protocol_errors_total{code}
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
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
	gauge := func(name, help string) prometheus.Gauge {
		return factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		})
	}

	return &Metrics{
		dragsStarted: counter("drags_started_total", "Total number of drags started"),
		dragDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "drag_duration_seconds",
			Help:        "Time from drag start to drop",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
		activeDrags:   gauge("active_drags", "Number of drags in flight"),
		targetChanges: counter("target_changes_total", "Total number of drop target changes during drags"),
		positionReports: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "position_reports_total",
			Help:        "Position reports received by containers",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),
		dragOverDropped: counter("drag_over_dropped_total", "Drag-over calls dropped by the rate limiter"),
		commits:         counter("commits_total", "Container orders committed after a drop"),
		committedItems: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "committed_items",
			Help:        "Number of items in committed container orders",
			ConstLabels: config.ConstLabels,
			Buckets:     prometheus.ExponentialBuckets(1, 2, 8),
		}),
		transitions:    counter("transitions_total", "Transition locks taken"),
		staleResets:    counter("stale_resets_total", "Drags reset because no end event arrived"),
		activeSessions: gauge("active_sessions", "Number of active WebSocket sessions"),
		wsErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "websocket_errors_total",
			Help:        "Total WebSocket errors by type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),
		protocolErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "protocol_errors_total",
			Help:        "Rejected client messages by error code",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),
	}
}

// Observe attaches the metrics to coord and returns a detach function.
func (m *Metrics) Observe(coord *dnd.Coordinator) func() {
	var (
		mu      sync.Mutex
		started time.Time
	)

	stopDragged := coord.OnDraggedChange(func(prev, next dnd.Item) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case prev.IsNone() && !next.IsNone():
			started = time.Now()
			m.dragsStarted.Inc()
			m.activeDrags.Inc()
		case !prev.IsNone() && next.IsNone():
			m.activeDrags.Dec()
			if !started.IsZero() {
				m.dragDuration.Observe(time.Since(started).Seconds())
				started = time.Time{}
			}
		}
	})
	stopTarget := coord.OnTargetChange(func(prev, next dnd.ContainerID) {
		if prev != dnd.NoContainer && next != dnd.NoContainer {
			m.targetChanges.Inc()
		}
	})
	stopLock := coord.OnLockChange(func(_, next bool) {
		if next {
			m.transitions.Inc()
		}
	})

	return func() {
		stopDragged()
		stopTarget()
		stopLock()
	}
}

// PositionReported implements dnd.Hooks.
func (m *Metrics) PositionReported(_ dnd.ContainerID, _ int, applied bool) {
	status := "ignored"
	if applied {
		status = "applied"
	}
	m.positionReports.WithLabelValues(status).Inc()
}

// DragOverDropped implements dnd.Hooks.
func (m *Metrics) DragOverDropped(dnd.ContainerID) {
	m.dragOverDropped.Inc()
}

// Committed implements dnd.Hooks.
func (m *Metrics) Committed(_ dnd.ContainerID, items []dnd.Item) {
	m.commits.Inc()
	m.committedItems.Observe(float64(len(items)))
}

// RecordStaleReset counts a watchdog reset.
func (m *Metrics) RecordStaleReset() {
	m.staleResets.Inc()
}

// RecordSessionCreate records a new session.
func (m *Metrics) RecordSessionCreate() {
	m.activeSessions.Inc()
}

// RecordSessionDestroy records a closed session.
func (m *Metrics) RecordSessionDestroy() {
	m.activeSessions.Dec()
}

// RecordWebSocketError records a WebSocket error by type.
func (m *Metrics) RecordWebSocketError(errorType string) {
	m.wsErrors.WithLabelValues(errorType).Inc()
}

// RecordProtocolError records a rejected client message.
func (m *Metrics) RecordProtocolError(code string) {
	if code == "" {
		code = "unknown"
	}
	m.protocolErrors.WithLabelValues(code).Inc()
}

// containerLabel formats a container ID for span attributes and logs.
func containerLabel(id dnd.ContainerID) string {
	if id == dnd.NoContainer {
		return "none"
	}
	return strconv.Itoa(int(id))
}
