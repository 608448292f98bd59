package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Результаты запроса доступности
const (
	AvailabilityReady = "ready"
	AvailabilityEmpty = "empty"
	AvailabilityError = "error"
	AvailabilityStale = "stale"
)

// Результаты отправки записи
const (
	SubmissionConfirmed  = "confirmed"
	SubmissionConflict   = "conflict"
	SubmissionError      = "error"
	SubmissionValidation = "validation"
)

// Результаты обращения к кэшу каталога
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// Metrics набор метрик сервиса
// Все методы безопасны для nil-получателя: при выключенных метриках передается nil
type Metrics struct {
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	availabilityQueries *prometheus.CounterVec
	submissions         *prometheus.CounterVec
	catalogCache        *prometheus.CounterVec
}

// New создает метрики и регистрирует их в глобальном реестре prometheus
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry создает метрики и регистрирует их в указанном реестре
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		availabilityQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_availability_queries_total",
			Help:        "Availability queries by outcome",
			ConstLabels: labels,
		}, []string{"mode", "outcome"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_submissions_total",
			Help:        "Appointment submissions by outcome",
			ConstLabels: labels,
		}, []string{"mode", "outcome"}),
		catalogCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_catalog_cache_total",
			Help:        "Catalog cache lookups by kind and result",
			ConstLabels: labels,
		}, []string{"kind", "result"}),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpRequestDuration,
		m.availabilityQueries,
		m.submissions,
		m.catalogCache,
	)

	return m
}

// ObserveHTTPRequest учитывает обработанный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveAvailability учитывает результат запроса доступности
func (m *Metrics) ObserveAvailability(mode, outcome string) {
	if m == nil {
		return
	}
	m.availabilityQueries.WithLabelValues(mode, outcome).Inc()
}

// ObserveSubmission учитывает результат отправки записи
func (m *Metrics) ObserveSubmission(mode, outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(mode, outcome).Inc()
}

// ObserveCache учитывает обращение к кэшу каталога
func (m *Metrics) ObserveCache(kind, result string) {
	if m == nil {
		return
	}
	m.catalogCache.WithLabelValues(kind, result).Inc()
}
