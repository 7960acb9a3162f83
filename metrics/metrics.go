// Package metrics exposes Prometheus collectors for token verification and key fetching.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics implements idtoken.Recorder and jwks.Recorder.
type Metrics struct {
	Verifications *prometheus.CounterVec
	KeyFetches    *prometheus.CounterVec
	KeySetAge     prometheus.Gauge

	registry *prometheus.Registry
}

// New creates the collectors and registers them on a dedicated registry.
func New() *Metrics {
	m := &Metrics{
		Verifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "idtoken_verifications_total",
				Help: "ID token verifications by outcome",
			},
			[]string{"outcome"},
		),
		KeyFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "idtoken_jwks_fetches_total",
				Help: "JWKS refresh attempts by outcome",
			},
			[]string{"outcome"},
		),
		KeySetAge: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "idtoken_jwks_age_seconds",
				Help: "Age of the key set served at the last refresh attempt",
			},
		),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(m.Verifications, m.KeyFetches, m.KeySetAge)
	return m
}

func (m *Metrics) RecordVerification(outcome string) {
	m.Verifications.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordFetch(outcome string) {
	m.KeyFetches.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordKeySetAge(age time.Duration) {
	m.KeySetAge.Set(age.Seconds())
}

// Handler serves the registry for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
