package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "meetroom",
			Name:      "booking_created_total",
			Help:      "Count of bookings created by initial status.",
		},
		[]string{"status"},
	)

	bookingCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "meetroom",
			Name:      "booking_cancelled_total",
			Help:      "Count of bookings cancelled.",
		},
	)

	approverDecision = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "meetroom",
			Name:      "approver_decision_total",
			Help:      "Count of approver decisions over pending bookings.",
		},
		[]string{"decision"},
	)

	conflictRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "meetroom",
			Name:      "booking_conflict_rejected_total",
			Help:      "Count of creation or edit calls rejected for overlap.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingCreated, bookingCancelled, approverDecision, conflictRejected)
	})
}

func IncBookingCreated(status string) {
	bookingCreated.WithLabelValues(status).Inc()
}

func IncBookingCancelled() {
	bookingCancelled.Inc()
}

func IncDecision(decision string) {
	approverDecision.WithLabelValues(decision).Inc()
}

func IncConflictRejected() {
	conflictRejected.Inc()
}
