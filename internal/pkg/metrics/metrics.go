// Package metrics exposes the overtime workflow counters to Prometheus.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "overtime"

// Result labels
const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"
	ResultSuccess  = "success"
	ResultFailure  = "failure"
	ResultConflict = "conflict"
)

type metrics struct {
	uploadsTotal  *prometheus.CounterVec
	bookingsTotal *prometheus.CounterVec
	reviewsTotal  *prometheus.CounterVec
	activeStreams prometheus.Gauge
}

var metricsSingleton = sync.OnceValue(func() *metrics {
	return &metrics{
		uploadsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Bulk upload outcomes by stage result.",
		}, []string{"result"}),
		bookingsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_total",
			Help:      "Booking attempts by result.",
		}, []string{"result"}),
		reviewsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reviews_total",
			Help:      "Admin review decisions on bookings and shift requests.",
		}, []string{"kind", "decision"}),
		activeStreams: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "event_streams_active",
			Help:      "Currently open server-sent event streams.",
		}),
	}
})

func getMetrics() *metrics {
	return metricsSingleton()
}

// RecordUpload counts an upload outcome: rejected at acceptance, accepted into the wizard, or submitted.
func RecordUpload(result string) {
	getMetrics().uploadsTotal.WithLabelValues(result).Inc()
}

func RecordBooking(result string) {
	getMetrics().bookingsTotal.WithLabelValues(result).Inc()
}

// RecordReview counts a decision; kind is "booking" or "shift_request".
func RecordReview(kind, decision string) {
	getMetrics().reviewsTotal.WithLabelValues(kind, decision).Inc()
}

func StreamOpened() {
	getMetrics().activeStreams.Inc()
}

func StreamClosed() {
	getMetrics().activeStreams.Dec()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
