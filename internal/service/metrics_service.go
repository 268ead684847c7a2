package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/wellness-booking-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation. All methods are nil-safe.
type MetricsService struct {
	registry          *prometheus.Registry
	handler           http.Handler
	requestDuration   *prometheus.HistogramVec
	requestTotal      *prometheus.CounterVec
	cacheLatency      prometheus.Observer
	cacheWrite        prometheus.Observer
	cacheLookups      *prometheus.CounterVec
	storeReadDuration *prometheus.HistogramVec
	resolveDuration   prometheus.Observer
	slotsEmitted      *prometheus.CounterVec
	rowsSkipped       *prometheus.CounterVec
}

// NewMetricsService registers core Prometheus collectors on a private registry.
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

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_lookups_total",
		Help: "Cache lookups by result",
	}, []string{"result"})

	storeReadDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "availability_store_read_seconds",
		Help:    "Duration of availability store reads",
		Buckets: prometheus.DefBuckets,
	}, []string{"table", "outcome"})

	resolveDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "calendar_resolve_seconds",
		Help:    "Time spent resolving a month calendar in memory",
		Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
	})

	slotsEmitted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "calendar_slots_emitted_total",
		Help: "Resolved slots emitted by source",
	}, []string{"source"})

	rowsSkipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "calendar_rows_skipped_total",
		Help: "Malformed store rows skipped during resolution",
	}, []string{"table"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheLookups,
		storeReadDuration, resolveDuration, slotsEmitted, rowsSkipped, goroutines)

	return &MetricsService{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		cacheLatency:      cacheLatency,
		cacheWrite:        cacheWrite,
		cacheLookups:      cacheLookups,
		storeReadDuration: storeReadDuration,
		resolveDuration:   resolveDuration,
		slotsEmitted:      slotsEmitted,
		rowsSkipped:       rowsSkipped,
	}
}

// Registry exposes the underlying registry, mainly for tests.
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
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a cache lookup outcome.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheLookups.WithLabelValues("hit").Inc()
	} else {
		m.cacheLookups.WithLabelValues("miss").Inc()
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveStoreRead records the timing of one availability store read.
func (m *MetricsService) ObserveStoreRead(table string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.storeReadDuration.WithLabelValues(table, outcome).Observe(duration.Seconds())
}

// ObserveResolution records resolver timing and emitted slot counts.
func (m *MetricsService) ObserveResolution(slots []models.ResolvedSlot, duration time.Duration) {
	if m == nil {
		return
	}
	m.resolveDuration.Observe(duration.Seconds())
	var rules, exceptions int
	for _, slot := range slots {
		if slot.Source == models.SlotSourceException {
			exceptions++
		} else {
			rules++
		}
	}
	m.slotsEmitted.WithLabelValues(string(models.SlotSourceRule)).Add(float64(rules))
	m.slotsEmitted.WithLabelValues(string(models.SlotSourceException)).Add(float64(exceptions))
}

// RecordSkippedRow counts a malformed row dropped from resolution.
func (m *MetricsService) RecordSkippedRow(table string) {
	if m == nil {
		return
	}
	m.rowsSkipped.WithLabelValues(table).Inc()
}
