package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "examiner_registry"

// Metrics holds the collectors exported on /metrics. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	promotions   *prometheus.CounterVec
	imported     *prometheus.CounterVec
	auditSerial  *prometheus.GaugeVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route template and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route template.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		promotions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "promotions_total",
			Help:      "Pending records moved to the approved collection.",
		}, []string{"mode", "outcome"}),
		imported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imported_records_total",
			Help:      "Rows committed by bulk import, by target collection.",
		}, []string{"target"}),
		auditSerial: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "serial_audit",
			Help:      "Result of the last serial audit (total, max, duplicates, missing).",
		}, []string{"measure"}),
	}
	m.registry.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.promotions,
		m.imported,
		m.auditSerial,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObservePromotion records promoted records for mode "single" or "bulk".
func (m *Metrics) ObservePromotion(mode string, promoted int, failed bool) {
	if m == nil {
		return
	}
	if promoted > 0 {
		m.promotions.WithLabelValues(mode, "promoted").Add(float64(promoted))
	}
	if failed {
		m.promotions.WithLabelValues(mode, "failed").Inc()
	}
}

func (m *Metrics) ObserveImport(target string, imported int) {
	if m == nil || imported <= 0 {
		return
	}
	m.imported.WithLabelValues(target).Add(float64(imported))
}

// SetSerialAudit publishes the figures of the latest serial audit.
func (m *Metrics) SetSerialAudit(total int, maxSerial int64, duplicates, missing int) {
	if m == nil {
		return
	}
	m.auditSerial.WithLabelValues("total").Set(float64(total))
	m.auditSerial.WithLabelValues("max_serial").Set(float64(maxSerial))
	m.auditSerial.WithLabelValues("duplicates").Set(float64(duplicates))
	m.auditSerial.WithLabelValues("missing").Set(float64(missing))
}
