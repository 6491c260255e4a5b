package pkgmetrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prom holds the collectors shared by the HTTP layer and the task module.
type Prom struct {
	reg *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
	taskEvents   *prometheus.CounterVec
}

// NewProm registers all collectors on a fresh registry, together with the Go
// runtime and process collectors.
func NewProm() *Prom {
	reg := prometheus.NewRegistry()

	m := &Prom{
		reg: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gotask_http_requests_total",
			Help: "Number of handled HTTP requests",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gotask_http_request_duration_seconds",
			Help:    "Latency of handled HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		taskEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gotask_task_events_total",
			Help: "Number of task events by type and delivery result",
		}, []string{"type", "result"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpLatency,
		m.taskEvents,
	)

	return m
}

// ObserveHTTP records one finished request.
func (m *Prom) ObserveHTTP(method, route, status string, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// TaskEvent counts a task event outcome; result is "delivered", "failed" or "dropped".
func (m *Prom) TaskEvent(eventType, result string) {
	m.taskEvents.WithLabelValues(eventType, result).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Prom) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Registry returns the underlying registry, mainly for tests.
func (m *Prom) Registry() *prometheus.Registry {
	return m.reg
}
