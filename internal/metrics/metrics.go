package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "room_reservation",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	reservations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "room_reservation",
			Name:      "reservations_total",
			Help:      "Reservation confirm outcomes by payment mode and status.",
		},
		[]string{"payment_mode", "status"},
	)

	reconcilerEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "room_reservation",
			Name:      "bank_transfer_events_total",
			Help:      "Bank-transfer notification outcomes.",
		},
		[]string{"outcome"},
	)

	sweeperCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "room_reservation",
			Name:      "sweeper_cancelled_total",
			Help:      "Reservations cancelled by the expiry sweeper.",
		},
	)

	sweeperFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "room_reservation",
			Name:      "sweeper_failures_total",
			Help:      "Records the sweeper failed to update.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, reservations, reconcilerEvents, sweeperCancelled, sweeperFailures)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncReservation counts a confirm outcome.
func IncReservation(mode, status string) {
	reservations.WithLabelValues(mode, status).Inc()
}

// IncReconcilerEvent counts a processed bank-transfer notification outcome.
func IncReconcilerEvent(outcome string) {
	reconcilerEvents.WithLabelValues(outcome).Inc()
}

// IncSweeperCancelled counts reservations cancelled by the sweeper.
func IncSweeperCancelled() {
	sweeperCancelled.Inc()
}

// IncSweeperFailure counts per-record sweep failures.
func IncSweeperFailure() {
	sweeperFailures.Inc()
}
