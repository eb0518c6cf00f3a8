package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventsync_event_submissions_total",
			Help: "Event submissions by outcome",
		},
		[]string{"outcome"},
	)

	PosterUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventsync_poster_uploads_total",
			Help: "Poster uploads by outcome",
		},
		[]string{"outcome"},
	)

	StatusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventsync_status_transitions_total",
			Help: "Reviewer status writes by target status and outcome",
		},
		[]string{"status", "outcome"},
	)

	ReportExports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventsync_report_exports_total",
			Help: "Generated reports by format",
		},
		[]string{"format"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eventsync_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// Outcome label values
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSkipped = "skipped"
)
