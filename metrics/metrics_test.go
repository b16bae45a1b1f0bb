package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	Register()
	Register()

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/v1/hotels", "200"))
	ObserveHTTP("GET", "/api/v1/hotels", "200", 0.01)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/v1/hotels", "200")))

	created := testutil.ToFloat64(reservationsCreated)
	IncReservationsCreated()
	assert.Equal(t, created+1, testutil.ToFloat64(reservationsCreated))

	cleaned := testutil.ToFloat64(reservationsCleaned)
	AddReservationsCleaned(3)
	AddReservationsCleaned(0)
	assert.Equal(t, cleaned+3, testutil.ToFloat64(reservationsCleaned))
}
