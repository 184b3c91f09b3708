package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymhub_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gymhub_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	EnrollmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymhub_enrollments_total",
			Help: "Total number of memberships created",
		},
		[]string{"tier"},
	)

	EnrollmentConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymhub_enrollment_conflicts_total",
			Help: "Enrollments rejected because an active membership already exists",
		},
	)

	MembershipsExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymhub_memberships_expired_total",
			Help: "Total number of memberships transitioned to expired",
		},
	)

	SweepRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymhub_sweep_runs_total",
			Help: "Expiry sweep runs by result",
		},
		[]string{"result"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymhub_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gymhub_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordEnrollment(tier string) {
	EnrollmentsTotal.WithLabelValues(tier).Inc()
}

func RecordEnrollmentConflict() {
	EnrollmentConflictsTotal.Inc()
}

func RecordExpired(n int64) {
	MembershipsExpiredTotal.Add(float64(n))
}

// RecordSweep counts a sweep run; result is one of "ok", "error", "skipped".
func RecordSweep(result string) {
	SweepRunsTotal.WithLabelValues(result).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
