package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricPrefix = "optionslab_client_"

	resultSuccess = "success"
	resultError   = "error"

	cacheHit  = "hit"
	cacheMiss = "miss"
)

var (
	registerOnce sync.Once

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec

	normalizeDegraded *prometheus.CounterVec

	cacheLookups *prometheus.CounterVec

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec

	notificationsTotal *prometheus.CounterVec
	concludedTotal     prometheus.Counter
)

// Init registers client metrics with the default registry. Safe to call more
// than once; observe functions are no-ops until Init runs.
func Init() {
	registerOnce.Do(func() {
		apiRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "api_requests_total",
				Help: "Total REST API requests by endpoint and response status",
			},
			[]string{"endpoint", "status"},
		)
		apiLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "api_request_latency_seconds",
				Help:    "REST API request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		)
		normalizeDegraded = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "normalize_degraded_total",
				Help: "Fields that degraded to null or a placeholder during normalization",
			},
			[]string{"field"},
		)
		cacheLookups = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "cache_lookups_total",
				Help: "Query cache lookups by result",
			},
			[]string{"result"},
		)
		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total exports by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "export_latency_seconds",
				Help:    "Export rendering latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format"},
		)
		notificationsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "notifications_total",
				Help: "Telegram notifications by result",
			},
			[]string{"result"},
		)
		concludedTotal = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "simulations_concluded_total",
				Help: "Simulations observed transitioning to concluded",
			},
		)

		prometheus.MustRegister(
			apiRequests,
			apiLatency,
			normalizeDegraded,
			cacheLookups,
			exportTotal,
			exportLatency,
			notificationsTotal,
			concludedTotal,
		)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveAPIRequest records one REST call. status is the HTTP status code, or
// 0 when the request never got a response.
func ObserveAPIRequest(endpoint string, status int, duration time.Duration) {
	if endpoint == "" {
		endpoint = "unknown"
	}
	label := "transport_error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	if apiRequests != nil {
		apiRequests.WithLabelValues(endpoint, label).Inc()
	}
	if apiLatency != nil {
		apiLatency.WithLabelValues(endpoint).Observe(duration.Seconds())
	}
}

// IncNormalizeDegraded counts a field that fell back to null or a placeholder.
func IncNormalizeDegraded(field string) {
	if field == "" {
		field = "unknown"
	}
	if normalizeDegraded != nil {
		normalizeDegraded.WithLabelValues(field).Inc()
	}
}

// ObserveCacheLookup counts a cache hit or miss.
func ObserveCacheLookup(hit bool) {
	result := cacheMiss
	if hit {
		result = cacheHit
	}
	if cacheLookups != nil {
		cacheLookups.WithLabelValues(result).Inc()
	}
}

// ObserveExport records export latency and result.
func ObserveExport(format string, err error, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	result := resultSuccess
	if err != nil {
		result = resultError
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format).Observe(duration.Seconds())
	}
}

// ObserveNotification counts a notification attempt.
func ObserveNotification(err error) {
	result := resultSuccess
	if err != nil {
		result = resultError
	}
	if notificationsTotal != nil {
		notificationsTotal.WithLabelValues(result).Inc()
	}
}

// AddConcluded counts simulations that moved to concluded.
func AddConcluded(n int) {
	if n <= 0 {
		return
	}
	if concludedTotal != nil {
		concludedTotal.Add(float64(n))
	}
}
