package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks the latency of placement API operations
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "placement_request_duration_seconds",
			Help:    "Duration of placement requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		},
		[]string{"path", "method", "status"},
	)

	// ViewsRecorded counts view increments accepted by the service
	ViewsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "placement_views_recorded_total",
			Help: "Number of placement view increments recorded",
		},
		[]string{"kind"},
	)

	// ClicksRecorded counts click increments accepted by the service
	ClicksRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "placement_clicks_recorded_total",
			Help: "Number of placement click increments recorded",
		},
		[]string{"kind"},
	)
)

// RecordRequestDuration records the duration of one handled request
func RecordRequestDuration(path, method, status string, seconds float64) {
	RequestDuration.WithLabelValues(path, method, status).Observe(seconds)
}

func RecordView(kind string) {
	ViewsRecorded.WithLabelValues(kind).Inc()
}

func RecordClick(kind string) {
	ClicksRecorded.WithLabelValues(kind).Inc()
}
