package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus collectors. Each server owns its
// registry so tests can run several servers side by side.
type Metrics struct {
	registry *prometheus.Registry

	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Sessions        prometheus.Gauge
	Events          *prometheus.CounterVec
	Reloads         *prometheus.CounterVec
	Pages           prometheus.Gauge
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "appshell",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status code.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "appshell",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		Sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "appshell",
			Name:      "binding_sessions",
			Help:      "Open websocket binding sessions.",
		}),
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "appshell",
			Name:      "binding_events_total",
			Help:      "Binding events received by source property and outcome.",
		}, []string{"source", "outcome"}),
		Reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "appshell",
			Name:      "page_reloads_total",
			Help:      "Page file reloads by result.",
		}, []string{"result"}),
		Pages: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "appshell",
			Name:      "registered_pages",
			Help:      "Pages currently in the registry.",
		}),
	}

	m.registry.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		m.Requests,
		m.RequestDuration,
		m.Sessions,
		m.Events,
		m.Reloads,
		m.Pages,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
