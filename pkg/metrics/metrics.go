package metrics

import (
	"runtime"
	"time"
)

// RecordDetection records one finished detection run
func (r *Registry) RecordDetection(status string, duration time.Duration, generations, communities int, bestFitness float64) {
	r.DetectionRunsTotal.WithLabelValues(status).Inc()
	r.DetectionDuration.Observe(duration.Seconds())
	r.DetectionGenerationsTotal.Add(float64(generations))

	if status == "ok" {
		r.DetectionBestFitness.Set(bestFitness)
		r.DetectionCommunities.Observe(float64(communities))
	}
}

// RecordSweepTask records one finished sweep task
func (r *Registry) RecordSweepTask(status string, duration time.Duration) {
	r.SweepTasksTotal.WithLabelValues(status).Inc()
	r.SweepTaskDuration.Observe(duration.Seconds())
}

// RecordVKRequest records one VK API round trip
func (r *Registry) RecordVKRequest(method, status string, duration time.Duration) {
	r.VKRequestsTotal.WithLabelValues(method, status).Inc()
	r.VKRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordRateLimitHit counts a VK rate limit response
func (r *Registry) RecordRateLimitHit() {
	r.VKRateLimitHitsTotal.Inc()
}

// RecordProfileSkip counts a profile the crawl skipped
func (r *Registry) RecordProfileSkip(reason string) {
	r.ProfilesSkippedTotal.WithLabelValues(reason).Inc()
}

// AddFriendsFetched counts fetched friend entries
func (r *Registry) AddFriendsFetched(n int) {
	r.FriendsFetchedTotal.Add(float64(n))
}

// UpdateSystemMetrics refreshes uptime and runtime gauges; callers run it on
// a ticker
func (r *Registry) UpdateSystemMetrics(start time.Time) {
	r.UptimeSeconds.Set(time.Since(start).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	r.MemoryAllocBytes.Set(float64(mem.Alloc))
	r.MemorySysBytes.Set(float64(mem.Sys))
}
