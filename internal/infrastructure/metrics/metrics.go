package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Interview-API Metrics
var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "insightloop",
			Subsystem: "interview_api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "insightloop",
			Subsystem: "interview_api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint"},
	)

	CompletionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "insightloop",
			Subsystem: "interview_api",
			Name:      "completions_total",
			Help:      "Total completion backend calls",
		},
		[]string{"model", "status"},
	)

	CompletionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "insightloop",
			Subsystem: "interview_api",
			Name:      "completion_duration_seconds",
			Help:      "Completion backend call duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"model"},
	)

	SummariesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "insightloop",
			Subsystem: "interview_api",
			Name:      "summaries_total",
			Help:      "Total interview summaries produced",
		},
		[]string{"outcome"},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordCompletion records a completion backend call
func RecordCompletion(model, status string, durationSec float64) {
	CompletionsTotal.WithLabelValues(model, status).Inc()
	CompletionDuration.WithLabelValues(model).Observe(durationSec)
}

// RecordSummary records a finalization attempt by outcome
func RecordSummary(outcome string) {
	SummariesTotal.WithLabelValues(outcome).Inc()
}
