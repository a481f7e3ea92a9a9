package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ffcheck_http_requests_total",
		Help: "HTTP requests processed, by path, method and status code.",
	}, []string{"path", "method", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ffcheck_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"path", "method"})

	analysesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ffcheck_analyses_total",
		Help: "Commands analyzed since process start.",
	})

	diagnosticsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ffcheck_diagnostics_total",
		Help: "Diagnostics emitted, by severity.",
	}, []string{"severity"})
)

// recordAnalysis updates the analysis counters from one result
func recordAnalysis(errorCount, warningCount int) {
	analysesTotal.Inc()
	diagnosticsTotal.WithLabelValues("error").Add(float64(errorCount))
	diagnosticsTotal.WithLabelValues("warning").Add(float64(warningCount))
}
