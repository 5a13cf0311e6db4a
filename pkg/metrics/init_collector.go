package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initCollectorMetrics() {
	r.VKRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "egonet_vk_requests_total",
			Help: "Total number of VK API requests",
		},
		[]string{"method", "status"},
	)

	r.VKRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "egonet_vk_request_duration_seconds",
			Help:    "VK API request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method"},
	)

	r.VKRateLimitHitsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "egonet_vk_rate_limit_hits_total",
			Help: "Total number of VK rate limit responses (error code 6)",
		},
	)

	r.ProfilesSkippedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "egonet_collector_profiles_skipped_total",
			Help: "Profiles skipped during crawl, by reason",
		},
		[]string{"reason"},
	)

	r.FriendsFetchedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "egonet_collector_friends_fetched_total",
			Help: "Total number of friend entries fetched",
		},
	)

	r.CollectorQueueDepth = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "egonet_collector_queue_depth",
			Help: "Profiles waiting in the crawl queue",
		},
	)
}
