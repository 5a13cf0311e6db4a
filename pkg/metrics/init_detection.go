package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initDetectionMetrics() {
	r.DetectionRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "egonet_detection_runs_total",
			Help: "Total number of detection runs",
		},
		[]string{"status"},
	)

	r.DetectionDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "egonet_detection_duration_seconds",
			Help:    "Wall-clock duration of detection runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900},
		},
	)

	r.DetectionGenerationsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "egonet_detection_generations_total",
			Help: "Total number of generations evolved across all runs",
		},
	)

	r.DetectionBestFitness = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "egonet_detection_best_fitness",
			Help: "Community score of the most recent detection run",
		},
	)

	r.DetectionCommunities = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "egonet_detection_communities",
			Help:    "Number of communities in the best partition per run",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250},
		},
	)
}
