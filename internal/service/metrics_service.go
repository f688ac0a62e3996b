package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation.
type MetricsService struct {
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	sessionChecks   *prometheus.CounterVec
	generations     *prometheus.CounterVec
	generationTime  prometheus.Observer
	rateLimits      *prometheus.CounterVec
	resultsSaved    prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
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

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	sessionChecks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "session_verifications_total",
		Help: "Session token verifications by outcome",
	}, []string{"result"})

	generations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mcq_generations_total",
		Help: "Question generation requests by outcome",
	}, []string{"result"})

	generationTime := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "mcq_generation_duration_seconds",
		Help:    "Upstream question generation latency",
		Buckets: []float64{1, 2.5, 5, 10, 20, 30, 60, 120},
	})

	rateLimits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rate_limit_decisions_total",
		Help: "Rate limit decisions by outcome",
	}, []string{"decision"})

	resultsSaved := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_results_saved_total",
		Help: "Persisted test results",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheHits, cacheMisses, sessionChecks, generations, generationTime, rateLimits, resultsSaved, goroutines)

	return &MetricsService{
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLatency:    cacheLatency,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		sessionChecks:   sessionChecks,
		generations:     generations,
		generationTime:  generationTime,
		rateLimits:      rateLimits,
		resultsSaved:    resultsSaved,
	}
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

// RecordCacheOperation records cache hit/miss metrics.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}

// RecordSessionCheck counts a tagged session verification outcome.
func (m *MetricsService) RecordSessionCheck(result string) {
	if m == nil {
		return
	}
	m.sessionChecks.WithLabelValues(result).Inc()
}

// RecordGeneration counts a generation outcome and its upstream latency.
func (m *MetricsService) RecordGeneration(result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(result).Inc()
	if duration > 0 {
		m.generationTime.Observe(duration.Seconds())
	}
}

// RecordRateLimit counts an allow/block decision.
func (m *MetricsService) RecordRateLimit(allowed bool) {
	if m == nil {
		return
	}
	decision := "blocked"
	if allowed {
		decision = "allowed"
	}
	m.rateLimits.WithLabelValues(decision).Inc()
}

// RecordResultSaved counts a persisted test result.
func (m *MetricsService) RecordResultSaved() {
	if m == nil {
		return
	}
	m.resultsSaved.Inc()
}
