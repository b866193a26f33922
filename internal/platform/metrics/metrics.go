package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the bot.
type Metrics struct {
	ApplicationsSubmitted prometheus.Counter
	ApplicationsApproved  prometheus.Counter
	ApplicationsRejected  prometheus.Counter
	PendingApplications   prometheus.Gauge

	NotificationFailures *prometheus.CounterVec
	PlaceBans            prometheus.Counter

	InteractionLatency *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		ApplicationsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "consulate_applications_submitted_total",
			Help: "Total number of citizenship applications submitted",
		}),
		ApplicationsApproved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "consulate_applications_approved_total",
			Help: "Total number of citizenship applications approved",
		}),
		ApplicationsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "consulate_applications_rejected_total",
			Help: "Total number of citizenship applications rejected",
		}),
		PendingApplications: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "consulate_pending_applications",
			Help: "Current number of pending citizenship applications",
		}),
		NotificationFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "consulate_notification_failures_total",
			Help: "Total number of notifications that could not be delivered",
		}, []string{"sink"}),
		PlaceBans: promauto.NewCounter(prometheus.CounterOpts{
			Name: "consulate_place_bans_total",
			Help: "Total number of place bans executed",
		}),
		InteractionLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "consulate_interaction_latency_seconds",
			Help:    "Latency of Discord interaction handling in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"command"}),
	}
}

// ObserveInteraction records the handling latency for a named command.
func (m *Metrics) ObserveInteraction(command string, d time.Duration) {
	m.InteractionLatency.WithLabelValues(command).Observe(d.Seconds())
}
