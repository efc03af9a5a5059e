package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "anchor"

// Session eviction reasons.
const (
	EvictIdle     = "idle"
	EvictCapacity = "capacity"
	EvictReset    = "reset"
)

// Guidance Prometheus metrics.
var (
	GuidanceRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guidance_requests_total",
			Help:      "Total number of signal guidance responses by phase",
		},
		[]string{"phase"},
	)

	GuidanceSimilarity = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "guidance_similarity",
			Help:      "Raw WiFi similarity of guidance requests with a stored fingerprint",
			Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.85, 0.95, 1},
		},
	)

	GuidanceSessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "guidance_sessions_active",
			Help:      "Number of live smoothing sessions",
		},
	)

	GuidanceSessionsEvictedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guidance_sessions_evicted_total",
			Help:      "Smoothing sessions removed from the tracker",
		},
		[]string{"reason"}, // "idle" / "capacity" / "reset"
	)
)

var guidanceMetricsRegistered bool

// RegisterGuidanceMetrics registers Prometheus guidance metrics. Must be called once from main.
func RegisterGuidanceMetrics() {
	if guidanceMetricsRegistered {
		return
	}
	prometheus.MustRegister(GuidanceRequestsTotal)
	prometheus.MustRegister(GuidanceSimilarity)
	prometheus.MustRegister(GuidanceSessionsActive)
	prometheus.MustRegister(GuidanceSessionsEvictedTotal)
	guidanceMetricsRegistered = true
}
