// Package metrics provides Prometheus metrics for the team scoring pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric naming and default refresh cadence.
const (
	namespace              = "gym"
	subsystem              = "teams"
	defaultRefreshInterval = 10 * time.Second
)

// durationBuckets covers enumeration runs from a few milliseconds up to minutes.
var durationBuckets = []float64{1, 5, 10, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000, 120000} //nolint:gochecknoglobals // static bucket layout

// Manager manages all Prometheus metrics for the pipeline.
type Manager struct {
	durationBuckets []float64
	enabled         bool
	refreshInterval time.Duration
	constLabels     map[string]string
	registry        prometheus.Registerer

	// Roster metrics
	rosterSize        prometheus.Gauge
	athletesExcluded  prometheus.Counter
	rosterBuildErrors prometheus.Counter

	// Enumeration metrics
	teamsScored         *prometheus.CounterVec
	enumerationDuration *prometheus.HistogramVec
	enumerationShards   prometheus.Gauge

	// Resolution metrics
	tieGroups           *prometheus.GaugeVec
	duplicatesCollapsed *prometheus.GaugeVec
	representatives     *prometheus.GaugeVec
	resolveDuration     *prometheus.HistogramVec

	// Pipeline errors
	pipelineErrors *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		durationBuckets: durationBuckets,
		enabled:         true,
		refreshInterval: defaultRefreshInterval,
		constLabels:     make(map[string]string),
		registry:        prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.constLabels)

	m.rosterSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        "roster_size",
		Help:        "Number of athletes eligible for team selection",
		ConstLabels: labels,
	})

	m.athletesExcluded = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        "athletes_excluded_total",
		Help:        "Athletes dropped by the day1/day2 join because one day was missing",
		ConstLabels: labels,
	})

	m.rosterBuildErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        "roster_build_errors_total",
		Help:        "Roster builds that failed validation",
		ConstLabels: labels,
	})

	m.teamsScored = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        "scored_total",
		Help:        "Team combinations scored, by basis",
		ConstLabels: labels,
	}, []string{"basis"})

	m.enumerationDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        "enumeration_duration_milliseconds",
		Help:        "Time to enumerate and score every combination for one basis",
		Buckets:     m.durationBuckets,
		ConstLabels: labels,
	}, []string{"basis"})

	m.enumerationShards = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        "enumeration_shards",
		Help:        "Number of shards used by the last enumeration",
		ConstLabels: labels,
	})

	m.tieGroups = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        "tie_groups",
		Help:        "Distinct team scores shared by more than one combination",
		ConstLabels: labels,
	}, []string{"basis"})

	m.duplicatesCollapsed = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        "duplicates_collapsed",
		Help:        "Combinations folded into an equivalent representative",
		ConstLabels: labels,
	}, []string{"basis"})

	m.representatives = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        "representatives",
		Help:        "Teams remaining after equivalence resolution",
		ConstLabels: labels,
	}, []string{"basis"})

	m.resolveDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        "resolve_duration_milliseconds",
		Help:        "Time to detect and collapse equivalent teams for one basis",
		Buckets:     m.durationBuckets,
		ConstLabels: labels,
	}, []string{"basis"})

	m.pipelineErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        "pipeline_errors_total",
		Help:        "Pipeline failures by stage and error kind",
		ConstLabels: labels,
	}, []string{"stage", "kind"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     prometheus.DefBuckets,
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        "system_memory_bytes",
		Help:        "Heap bytes allocated by the process",
		ConstLabels: labels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        "system_goroutines",
		Help:        "Number of live goroutines",
		ConstLabels: labels,
	})
}

// Roster metrics.

func UpdateRosterSize(n int) {
	if globalManager.enabled {
		globalManager.rosterSize.Set(float64(n))
	}
}

func RecordAthletesExcluded(n int) {
	if globalManager.enabled && n > 0 {
		globalManager.athletesExcluded.Add(float64(n))
	}
}

func RecordRosterBuildError() {
	if globalManager.enabled {
		globalManager.rosterBuildErrors.Inc()
	}
}

// Enumeration metrics.

func RecordTeamsScored(basis string, n int) {
	if globalManager.enabled {
		globalManager.teamsScored.WithLabelValues(basis).Add(float64(n))
	}
}

func RecordEnumerationDuration(basis string, ms float64) {
	if globalManager.enabled {
		globalManager.enumerationDuration.WithLabelValues(basis).Observe(ms)
	}
}

func UpdateEnumerationShards(n int) {
	if globalManager.enabled {
		globalManager.enumerationShards.Set(float64(n))
	}
}

// Resolution metrics.

func UpdateResolution(basis string, tieGroups, collapsed, representatives int) {
	if !globalManager.enabled {
		return
	}
	globalManager.tieGroups.WithLabelValues(basis).Set(float64(tieGroups))
	globalManager.duplicatesCollapsed.WithLabelValues(basis).Set(float64(collapsed))
	globalManager.representatives.WithLabelValues(basis).Set(float64(representatives))
}

func RecordResolveDuration(basis string, ms float64) {
	if globalManager.enabled {
		globalManager.resolveDuration.WithLabelValues(basis).Observe(ms)
	}
}

// RecordPipelineError counts a failure in stage (roster, scoring, resolve, export, load).
func RecordPipelineError(stage, kind string) {
	if globalManager.enabled {
		globalManager.pipelineErrors.WithLabelValues(stage, kind).Inc()
	}
}

// HTTP metrics.

func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
	}
}

// System metrics.

func UpdateSystemMemoryUsage(bytes uint64) {
	if globalManager.enabled {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

func UpdateSystemGoroutineCount(count int) {
	if globalManager.enabled {
		globalManager.systemGoroutineCount.Set(float64(count))
	}
}

// RefreshInterval returns how often system gauges should be sampled.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
