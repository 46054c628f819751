package reminder

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "remindd",
		Subsystem: "jobs",
		Name:      "created_total",
		Help:      "Reminders created.",
	})

	metricFired = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "remindd",
		Subsystem: "jobs",
		Name:      "fired_total",
		Help:      "Reminders fired.",
	})

	metricCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "remindd",
		Subsystem: "jobs",
		Name:      "cancelled_total",
		Help:      "Reminders cancelled before firing.",
	})

	metricDeliveryFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "remindd",
		Subsystem: "jobs",
		Name:      "delivery_failures_total",
		Help:      "Fired reminders the sink failed to deliver.",
	})

	metricRestored = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "remindd",
		Subsystem: "jobs",
		Name:      "restored_total",
		Help:      "Reminders re-armed from the store at startup.",
	})

	metricMalformed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "remindd",
		Subsystem: "jobs",
		Name:      "malformed_records_total",
		Help:      "Stored records skipped during recovery because they could not be reconstructed.",
	})

	metricPending = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "remindd",
		Subsystem: "jobs",
		Name:      "pending",
		Help:      "Reminders currently pending.",
	})
)
