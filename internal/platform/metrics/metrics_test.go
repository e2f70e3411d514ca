package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(bookingConflicts.WithLabelValues("create"))
	IncBookingConflict("create")
	IncBookingConflict("create")
	assert.Equal(t, before+2, testutil.ToFloat64(bookingConflicts.WithLabelValues("create")))

	before = testutil.ToFloat64(bookingCancelled)
	IncBookingCancelled()
	assert.Equal(t, before+1, testutil.ToFloat64(bookingCancelled))
}

func TestHandlerExposesRegisteredCollectors(t *testing.T) {
	Register()
	Register()
	IncBookingCreated("Pending")
	IncStorageFailure("update booking")

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/metrics", Handler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `hotel_booking_created_total{status="Pending"}`)
	assert.Contains(t, w.Body.String(), "hotel_booking_storage_failures_total")
}
