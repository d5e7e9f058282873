// Package metrics собирает метрики Prometheus сервиса в отдельном реестре.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics хранит коллекторы сервиса.
type Metrics struct {
	Registry     *prometheus.Registry
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	StoreOps     *prometheus.HistogramVec
	Shortened    *prometheus.CounterVec
}

// New создаёт и регистрирует коллекторы.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shortener_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shortener_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		StoreOps: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shortener_store_operation_duration_seconds",
			Help:    "Mapping store operation latency by result.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op", "result"}),
		Shortened: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shortener_identifiers_allocated_total",
			Help: "Allocated identifiers by byte length.",
		}, []string{"bytes"}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPDuration,
		m.StoreOps,
		m.Shortened,
	)
	return m
}

// Handler отдаёт метрики в формате экспозиции Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
