package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsPath serves the Prometheus registry of the login host.
const MetricsPath = "/metrics"

// Login outcomes.
const (
	outcomeSuccess  = "success"
	outcomeDeclined = "declined"
	outcomeError    = "error"
)

type metrics struct {
	registry *prometheus.Registry
	logins   *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "linkedin",
			Name:      "logins_total",
			Help:      "LinkedIn callbacks by outcome.",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(
		m.logins,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *metrics) login(outcome string) {
	m.logins.WithLabelValues(outcome).Inc()
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
