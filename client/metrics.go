package client

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/teilomillet/pizzagpt/errors"
)

// Outcome labels of pizzagpt_client_requests_total.
const (
	OutcomeSuccess    = "success"
	OutcomeConnection = "connection_error"
	OutcomeResponse   = "response_error"
	OutcomeMalformed  = "malformed_response"
	OutcomeGeneral    = "general_error"
)

// Metrics holds the Prometheus collectors of a client. All methods are
// no-ops on a nil *Metrics.
type Metrics struct {
	RequestsTotal     *prometheus.CounterVec
	RequestDuration   prometheus.Histogram
	ConnectionsOpened prometheus.Counter
	BreakerState      prometheus.Gauge
	BreakerTrips      prometheus.Counter
}

// NewMetrics creates the collectors and registers them with registerer.
// A nil registerer leaves them unregistered.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)

	m := &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pizzagpt_client_requests_total",
				Help: "Total number of API calls by outcome",
			},
			[]string{"outcome"},
		),
		RequestDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pizzagpt_client_request_duration_seconds",
				Help:    "Duration of API calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		ConnectionsOpened: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "pizzagpt_client_connections_opened_total",
				Help: "Total number of TCP connections opened by the pool",
			},
		),
		BreakerState: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "pizzagpt_client_circuit_breaker_state",
				Help: "Current state of the circuit breaker (0=closed, 1=half-open, 2=open)",
			},
		),
		BreakerTrips: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "pizzagpt_client_circuit_breaker_trips_total",
				Help: "Total number of times the circuit breaker has opened",
			},
		),
	}

	m.RequestsTotal.WithLabelValues(OutcomeSuccess).Add(0)

	return m
}

func (m *Metrics) observe(err error, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(outcome(err)).Inc()
	m.RequestDuration.Observe(duration.Seconds())
}

func (m *Metrics) connectionOpened() {
	if m == nil {
		return
	}
	m.ConnectionsOpened.Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.IsConnection(err):
		return OutcomeConnection
	case errors.IsMalformed(err):
		return OutcomeMalformed
	case errors.IsResponse(err):
		return OutcomeResponse
	default:
		return OutcomeGeneral
	}
}
