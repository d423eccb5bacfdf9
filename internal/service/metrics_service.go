package service

import (
	"net/http"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Booking outcomes recorded on bookings_total.
const (
	OutcomeBooked      = "booked"
	OutcomeInvalid     = "invalid"
	OutcomeMaintenance = "maintenance"
	OutcomeCapacity    = "max_capacity"
	OutcomeNoRoom      = "no_room"
	OutcomeConflict    = "conflict"
	OutcomeError       = "error"
)

// MetricsSnapshot is a point-in-time summary served as JSON.
type MetricsSnapshot struct {
	RequestsTotal            uint64    `json:"requestsTotal"`
	AverageRequestDurationMs float64   `json:"averageRequestDurationMs"`
	BookingsTotal            uint64    `json:"bookingsTotal"`
	BookedSlotsTotal         uint64    `json:"bookedSlotsTotal"`
	RejectedBookingsTotal    uint64    `json:"rejectedBookingsTotal"`
	CacheHits                uint64    `json:"cacheHits"`
	CacheMisses              uint64    `json:"cacheMisses"`
	CacheHitRatio            float64   `json:"cacheHitRatio"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generatedAt"`
}

// MetricsService owns the Prometheus registry of the service.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	bookings        *prometheus.CounterVec
	bookedSlots     prometheus.Counter
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	cacheHitRatio   prometheus.Gauge
	storeDuration   *prometheus.HistogramVec

	requestCount         uint64
	requestDurationTotal uint64
	bookingCount         uint64
	rejectedCount        uint64
	slotCount            uint64
	cacheHitCount        uint64
	cacheMissCount       uint64
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	bookings := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bookings_total",
		Help: "Booking requests by outcome",
	}, []string{"outcome"})

	bookedSlots := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "booked_slots_total",
		Help: "Slot rows appended to the booking ledger",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "availability_cache_hits_total",
		Help: "Availability lookups served from cache",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "availability_cache_misses_total",
		Help: "Availability lookups computed from the ledger",
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "availability_cache_hit_ratio",
		Help: "Ratio of cache hits to total availability lookups",
	})

	storeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "store_query_duration_seconds",
		Help:    "Duration of reference data and ledger queries",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, bookings, bookedSlots, cacheHits, cacheMisses, cacheHitRatio, storeDuration, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		bookings:        bookings,
		bookedSlots:     bookedSlots,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		cacheHitRatio:   cacheHitRatio,
		storeDuration:   storeDuration,
	}
}

// Registry exposes the registry for tests and extra collectors.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordBooking counts a booking attempt; slots is the number of ledger rows
// written and is only meaningful for OutcomeBooked.
func (m *MetricsService) RecordBooking(outcome string, slots int) {
	if m == nil {
		return
	}
	m.bookings.WithLabelValues(outcome).Inc()
	if outcome != OutcomeBooked {
		atomic.AddUint64(&m.rejectedCount, 1)
		return
	}
	atomic.AddUint64(&m.bookingCount, 1)
	if slots > 0 {
		m.bookedSlots.Add(float64(slots))
		atomic.AddUint64(&m.slotCount, uint64(slots))
	}
}

// RecordCacheLookup records an availability cache hit or miss.
func (m *MetricsService) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	total := hits + atomic.LoadUint64(&m.cacheMissCount)
	if total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveStoreQuery records the duration of a named store query.
func (m *MetricsService) ObserveStoreQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.storeDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// Snapshot returns aggregated counters.
func (m *MetricsService) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var ratio float64
	if hits+misses > 0 {
		ratio = float64(hits) / float64(hits+misses)
	}
	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	return MetricsSnapshot{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		BookingsTotal:            atomic.LoadUint64(&m.bookingCount),
		BookedSlotsTotal:         atomic.LoadUint64(&m.slotCount),
		RejectedBookingsTotal:    atomic.LoadUint64(&m.rejectedCount),
		CacheHits:                hits,
		CacheMisses:              misses,
		CacheHitRatio:            ratio,
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
