package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSweepMetrics() {
	r.SweepTasksTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "egonet_sweep_tasks_total",
			Help: "Total number of sweep tasks finished",
		},
		[]string{"status"},
	)

	r.SweepTaskDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "egonet_sweep_task_duration_seconds",
			Help:    "Duration of individual sweep tasks in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900},
		},
	)

	r.SweepActiveWorkers = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "egonet_sweep_active_workers",
			Help: "Number of workers currently running sweep tasks",
		},
	)

	r.SweepBestFitness = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "egonet_sweep_best_fitness",
			Help: "Best community score observed across the sweep so far",
		},
	)
}
