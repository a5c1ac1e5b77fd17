// Package metrics holds the gateway's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "equiprent_http_requests_total",
		Help: "Gateway requests by route name and status code.",
	},
		[]string{"route", "code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "equiprent_http_request_duration_seconds",
		Help:    "Gateway request latency by route name.",
		Buckets: prometheus.DefBuckets,
	},
		[]string{"route"},
	)

	BookingTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "equiprent_booking_transitions_total",
		Help: "Booking status changes by target status.",
	},
		[]string{"to"},
	)

	BookingConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "equiprent_booking_conflicts_total",
		Help: "Booking updates refused because the stored status had moved on.",
	})

	JobRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "equiprent_job_runs_total",
		Help: "Scheduled job runs by job name and outcome.",
	},
		[]string{"job", "outcome"},
	)

	NotificationErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "equiprent_notification_errors_total",
		Help: "Renter e-mails that could not be sent.",
	})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
