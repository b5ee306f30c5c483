package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	BookingQuotes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "branchdesk_booking_quotes_total",
			Help: "Total number of ticket price quotes computed",
		},
		[]string{"screen"},
	)

	BookingCheckouts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "branchdesk_booking_checkouts_total",
			Help: "Total number of checkout attempts by result",
		},
		[]string{"result"},
	)

	PaymentDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "branchdesk_payment_processing_seconds",
			Help:    "Time spent in the simulated payment processing state",
			Buckets: prometheus.LinearBuckets(0.5, 0.5, 6),
		},
	)

	WizardSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "branchdesk_wizard_sessions_active",
			Help: "Number of loan wizard sessions held in memory",
		},
	)

	WizardTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "branchdesk_wizard_transitions_total",
			Help: "Total number of wizard step transitions by action",
		},
		[]string{"action"},
	)

	LoanDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "branchdesk_loan_decisions_total",
			Help: "Total number of application outcomes by loan type and status",
		},
		[]string{"loan_type", "status"},
	)

	DocumentUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "branchdesk_document_uploads_total",
			Help: "Total number of document uploads by document type and result",
		},
		[]string{"document_type", "result"},
	)

	RecordingEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "branchdesk_recording_events_total",
			Help: "Recorder lifecycle events (started, submitted, retaken, failed)",
		},
		[]string{"event"},
	)

	NotificationsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "branchdesk_notifications_published_total",
			Help: "Total number of notifications handed to the producer by type and result",
		},
		[]string{"type", "result"},
	)
)

// Handler exposes the default registry for scraping
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
