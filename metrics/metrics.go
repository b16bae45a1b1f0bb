package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hotel",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hotel",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	reservationsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "hotel",
		Name:      "reservations_created_total",
		Help:      "Reservations created.",
	})

	reservationsCleaned = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "hotel",
		Name:      "reservations_cleaned_total",
		Help:      "Ended reservations removed by the cleanup job.",
	})
)

// Register registers the collectors with the default registry. Safe to call
// multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, reservationsCreated, reservationsCleaned)
	})
}

func ObserveHTTP(method, route, status string, seconds float64) {
	httpRequests.WithLabelValues(method, route, status).Inc()
	httpDuration.WithLabelValues(method, route).Observe(seconds)
}

func IncReservationsCreated() {
	reservationsCreated.Inc()
}

func AddReservationsCleaned(n int64) {
	if n > 0 {
		reservationsCleaned.Add(float64(n))
	}
}
