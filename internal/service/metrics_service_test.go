package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceCountsBookings(t *testing.T) {
	m := NewMetricsService()

	m.RecordBooking(OutcomeBooked, 4)
	m.RecordBooking(OutcomeNoRoom, 0)
	m.RecordBooking(OutcomeBooked, 2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.bookings.WithLabelValues(OutcomeBooked)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookings.WithLabelValues(OutcomeNoRoom)))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.bookedSlots))

	snapshot := m.Snapshot()
	assert.Equal(t, uint64(2), snapshot.BookingsTotal)
	assert.Equal(t, uint64(1), snapshot.RejectedBookingsTotal)
	assert.Equal(t, uint64(6), snapshot.BookedSlotsTotal)
}

func TestMetricsServiceCacheRatio(t *testing.T) {
	m := NewMetricsService()

	m.RecordCacheLookup(true)
	m.RecordCacheLookup(false)
	m.RecordCacheLookup(true)
	m.RecordCacheLookup(true)

	assert.InDelta(t, 0.75, testutil.ToFloat64(m.cacheHitRatio), 0.0001)
	assert.InDelta(t, 0.75, m.Snapshot().CacheHitRatio, 0.0001)
}

func TestMetricsServiceHandlerExposesCollectors(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodPost, "/v1/conference/room/book", http.StatusOK, 5*time.Millisecond)
	m.RecordBooking(OutcomeBooked, 1)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `bookings_total{outcome="booked"} 1`)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestNilMetricsServiceIsSafe(t *testing.T) {
	var m *MetricsService

	m.RecordBooking(OutcomeBooked, 1)
	m.RecordCacheLookup(true)
	m.ObserveStoreQuery("rooms", time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, MetricsSnapshot{}, m.Snapshot())
}
