package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	AppointmentsCreated prometheus.Counter
	AppointmentsDeleted prometheus.Counter
	PolicyDenials       *prometheus.CounterVec

	DatabaseOperations *prometheus.CounterVec
	DatabaseLatency    *prometheus.HistogramVec

	InsightEventsPublished prometheus.Counter
	InsightEventsFailed    prometheus.Counter
	PredictorLatency       prometheus.Histogram
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		AppointmentsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointments_created_total",
			Help:      "Total number of appointments created",
		}),
		AppointmentsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointments_deleted_total",
			Help:      "Total number of appointments deleted",
		}),
		PolicyDenials: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "policy_denials_total",
			Help:      "Total number of access policy denials",
		}, []string{"operation"}),

		DatabaseOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "database_operations_total",
			Help:      "Total number of database operations",
		}, []string{"operation", "status"}),
		DatabaseLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "database_operation_duration_seconds",
			Help:      "Duration of database operations",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),

		InsightEventsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "insight_events_published_total",
			Help:      "Total number of appointment events published for the insight pipeline",
		}),
		InsightEventsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "insight_events_failed_total",
			Help:      "Total number of appointment events that failed to publish",
		}),
		PredictorLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "predictor_request_duration_seconds",
			Help:      "Duration of scoring requests to the deployed prediction endpoint",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
	}
}
