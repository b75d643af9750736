package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "time_tracker_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "time_tracker_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	requestsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "time_tracker_requests_created_total",
			Help: "Time tracking requests created, by initial status",
		},
		[]string{"status"},
	)

	transitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "time_tracker_request_transitions_total",
			Help: "Approval state transitions, by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	commentActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "time_tracker_comment_actions_total",
			Help: "Comment mutations, by activity type",
		},
		[]string{"action"},
	)
)

func RecordHTTPRequest(method, route string, statusCode int, durationSeconds float64) {
	status := strconv.Itoa(statusCode/100) + "xx"
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(durationSeconds)
}

func RecordRequestCreated(status string) {
	requestsCreatedTotal.WithLabelValues(status).Inc()
}

// RecordTransition counts an approve/reject/needs_info/resubmit attempt, outcome is "ok" or an error kind
func RecordTransition(action, outcome string) {
	transitionsTotal.WithLabelValues(action, outcome).Inc()
}

func RecordCommentAction(action string) {
	commentActionsTotal.WithLabelValues(action).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
