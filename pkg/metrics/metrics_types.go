package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Detection Metrics
	DetectionRunsTotal        *prometheus.CounterVec
	DetectionDuration         prometheus.Histogram
	DetectionGenerationsTotal prometheus.Counter
	DetectionBestFitness      prometheus.Gauge
	DetectionCommunities      prometheus.Histogram

	// Sweep Metrics
	SweepTasksTotal    *prometheus.CounterVec
	SweepTaskDuration  prometheus.Histogram
	SweepActiveWorkers prometheus.Gauge
	SweepBestFitness   prometheus.Gauge

	// Collector Metrics
	VKRequestsTotal      *prometheus.CounterVec
	VKRequestDuration    *prometheus.HistogramVec
	VKRateLimitHitsTotal prometheus.Counter
	ProfilesSkippedTotal *prometheus.CounterVec
	FriendsFetchedTotal  prometheus.Counter
	CollectorQueueDepth  prometheus.Gauge

	// System Metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge
	MemorySysBytes   prometheus.Gauge

	registry *prometheus.Registry
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initDetectionMetrics()
	r.initSweepMetrics()
	r.initCollectorMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
