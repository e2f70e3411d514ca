package metrics

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	bookingCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hotel",
			Name:      "booking_created_total",
			Help:      "Count of bookings created by initial status.",
		},
		[]string{"status"},
	)

	bookingConflicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hotel",
			Name:      "booking_conflicts_total",
			Help:      "Count of booking writes rejected because of an overlapping active booking.",
		},
		[]string{"operation"},
	)

	bookingCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "hotel",
			Name:      "booking_cancelled_total",
			Help:      "Count of bookings moved to Cancelled.",
		},
	)

	storageFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hotel",
			Name:      "booking_storage_failures_total",
			Help:      "Count of booking operations that failed in the storage layer.",
		},
		[]string{"operation"},
	)
)

// Register registers the collectors with the default registry (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingCreated, bookingConflicts, bookingCancelled, storageFailures)
	})
}

// Handler exposes the default registry for gin.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

func IncBookingCreated(status string) {
	bookingCreated.WithLabelValues(status).Inc()
}

func IncBookingConflict(operation string) {
	bookingConflicts.WithLabelValues(operation).Inc()
}

func IncBookingCancelled() {
	bookingCancelled.Inc()
}

func IncStorageFailure(operation string) {
	storageFailures.WithLabelValues(operation).Inc()
}
