// Package metrics exposes Prometheus instrumentation for the render pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Compose Metrics
	ComposeSessionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "showreel_compose_sessions_total",
			Help: "Total number of compose sessions by outcome",
		},
		[]string{"outcome"},
	)

	ComposeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "showreel_compose_duration_seconds",
			Help:    "Wall-clock time of compose sessions",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~1 hour
		},
		[]string{"resolution", "theme"},
	)

	ComposeFrames = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "showreel_compose_frames",
			Help:    "Number of frames per compose session",
			Buckets: []float64{1, 2, 3, 4, 6, 8, 12, 16, 32, 64},
		},
	)

	OutputSizeBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "showreel_output_size_bytes",
			Help:    "Size of encoded videos in bytes",
			Buckets: prometheus.ExponentialBuckets(1024*1024, 2, 12), // 1MB to 2GB
		},
	)

	// Audio Metrics
	MusicFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "showreel_music_fetch_total",
			Help: "Background music fetch attempts by result",
		},
		[]string{"result"},
	)

	// Engine Metrics
	EngineLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "showreel_engine_loads_total",
			Help: "Encode engine load attempts by result",
		},
		[]string{"result"},
	)

	CleanupWarningsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "showreel_cleanup_warnings_total",
			Help: "Session asset deletions that failed during teardown",
		},
	)

	// Job Metrics
	RenderJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "showreel_render_jobs_total",
			Help: "Render jobs by terminal status",
		},
		[]string{"status"},
	)

	RenderJobsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "showreel_render_jobs_in_progress",
			Help: "Number of render jobs currently running",
		},
	)

	// API Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "showreel_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)
)

// RecordCompose records the outcome of one compose session.
func RecordCompose(outcome, resolution, theme string, frames int, seconds float64) {
	ComposeSessionsTotal.WithLabelValues(outcome).Inc()
	ComposeDuration.WithLabelValues(resolution, theme).Observe(seconds)
	ComposeFrames.Observe(float64(frames))
}

// RecordOutputSize records the size of an encoded video.
func RecordOutputSize(bytes int) {
	OutputSizeBytes.Observe(float64(bytes))
}

// RecordMusicFetch records whether a background music fetch succeeded.
func RecordMusicFetch(ok bool) {
	MusicFetchTotal.WithLabelValues(result(ok)).Inc()
}

// RecordEngineLoad records an engine load attempt.
func RecordEngineLoad(ok bool) {
	EngineLoadsTotal.WithLabelValues(result(ok)).Inc()
}

// RecordCleanupWarning records a failed asset deletion.
func RecordCleanupWarning() {
	CleanupWarningsTotal.Inc()
}

// RecordRenderJob records a render job reaching a terminal status.
func RecordRenderJob(status string) {
	RenderJobsTotal.WithLabelValues(status).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(method, endpoint, status string) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
