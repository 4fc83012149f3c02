package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's collectors on its own registry.
type Metrics struct {
	registry *prometheus.Registry
	casts    *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	casts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "polls",
		Name:      "vote_casts_total",
		Help:      "Vote cast attempts by outcome.",
	}, []string{"outcome"})
	registry.MustRegister(casts)

	return &Metrics{
		registry: registry,
		casts:    casts,
	}
}

func (m *Metrics) ObserveCast(outcome string) {
	m.casts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
