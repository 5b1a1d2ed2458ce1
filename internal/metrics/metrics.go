// Package metrics holds the Prometheus collectors exported by tally.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for tally. Every recording method is
// safe to call on a nil *Metrics.
type Metrics struct {
	// Session protocol
	AuthAttempts  *prometheus.CounterVec
	TokensIssued  *prometheus.CounterVec
	Registrations *prometheus.CounterVec

	// HTTP boundary
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Endpoint policy
	PolicyReloads *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		AuthAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tally_auth_attempts_total",
				Help: "Session protocol operations by outcome",
			},
			[]string{"operation", "outcome"},
		),
		TokensIssued: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tally_tokens_issued_total",
				Help: "Session and CSRF tokens minted",
			},
			[]string{"kind"},
		),
		Registrations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tally_registrations_total",
				Help: "Registration attempts by outcome",
			},
			[]string{"outcome"},
		),
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tally_http_requests_total",
				Help: "HTTP requests by route and status code",
			},
			[]string{"route", "method", "code"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tally_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
			},
			[]string{"route"},
		),
		PolicyReloads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tally_policy_reloads_total",
				Help: "Endpoint policy reloads by result",
			},
			[]string{"result"},
		),
	}
}

// RecordAuth counts one session protocol operation. outcome is "ok" or the
// failure kind.
func (m *Metrics) RecordAuth(operation, outcome string) {
	if m == nil {
		return
	}
	m.AuthAttempts.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) RecordTokenIssued(kind string) {
	if m == nil {
		return
	}
	m.TokensIssued.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordRegistration(outcome string) {
	if m == nil {
		return
	}
	m.Registrations.WithLabelValues(outcome).Inc()
}

// InstrumentHandler counts and times every request served by next under the
// given route label.
func (m *Metrics) InstrumentHandler(route string, next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	labels := prometheus.Labels{"route": route}
	return promhttp.InstrumentHandlerDuration(
		m.RequestDuration.MustCurryWith(labels),
		promhttp.InstrumentHandlerCounter(m.Requests.MustCurryWith(labels), next),
	)
}

func (m *Metrics) RecordPolicyReload(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.PolicyReloads.WithLabelValues(result).Inc()
}
