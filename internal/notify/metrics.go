package notify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the notification pipeline.
type Metrics struct {
	// SentTotal counts delivery attempts by sink and outcome.
	SentTotal *prometheus.CounterVec

	// DroppedTotal counts events dropped because the queue was full.
	DroppedTotal prometheus.Counter
}

// NewMetrics creates and registers notification metrics.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		SentTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_sent_total",
				Help:      "Notification delivery attempts by sink and outcome",
			},
			[]string{"sink", "status"},
		),
		DroppedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_dropped_total",
				Help:      "Events dropped because the dispatch queue was full",
			},
		),
	}
}

// IncSent increments the delivery counter for a sink and outcome.
func (m *Metrics) IncSent(sink, status string) {
	m.SentTotal.WithLabelValues(sink, status).Inc()
}

// IncDropped increments the dropped-event counter.
func (m *Metrics) IncDropped() {
	m.DroppedTotal.Inc()
}
