// Package metrics exposes Prometheus instruments for callables and jobs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	callsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "daycarehub",
		Name:      "callable_requests_total",
		Help:      "Callable invocations by name and result status.",
	}, []string{"callable", "status"})

	callDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "daycarehub",
		Name:      "callable_duration_seconds",
		Help:      "Callable latency by name.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"callable"})

	jobRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "daycarehub",
		Name:      "job_runs_total",
		Help:      "Scheduled job runs by job and outcome (ok, skipped, error).",
	}, []string{"job", "outcome"})

	jobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "daycarehub",
		Name:      "job_duration_seconds",
		Help:      "Scheduled job run time.",
		Buckets:   []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900},
	}, []string{"job"})

	notificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "daycarehub",
		Name:      "notifications_total",
		Help:      "Signature-request notifications by outcome (sent, skipped, failed).",
	}, []string{"outcome"})
)

// ObserveCall records one callable invocation.
func ObserveCall(name, status string, took time.Duration) {
	callsTotal.WithLabelValues(name, status).Inc()
	callDuration.WithLabelValues(name).Observe(took.Seconds())
}

// ObserveJob records one job run.
func ObserveJob(name, outcome string, took time.Duration) {
	jobRunsTotal.WithLabelValues(name, outcome).Inc()
	jobDuration.WithLabelValues(name).Observe(took.Seconds())
}

// ObserveNotification records the outcome of one notification attempt.
func ObserveNotification(outcome string) {
	notificationsTotal.WithLabelValues(outcome).Inc()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
