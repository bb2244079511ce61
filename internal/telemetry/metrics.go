package telemetry

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Turn outcomes recorded on pilot_chat_turns_total.
const (
	OutcomeSuccess       = "success"
	OutcomeSimulated     = "simulated"
	OutcomeConfigMissing = "config_missing"
	OutcomeUpstream      = "upstream_unavailable"
	OutcomeShape         = "response_shape_mismatch"
)

// Metrics owns a Prometheus registry for one process.
type Metrics struct {
	registry *prometheus.Registry

	turns           *prometheus.CounterVec
	providerLatency *prometheus.HistogramVec
	exchanges       *prometheus.GaugeVec
}

// NewMetrics creates a collector set registered on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		turns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pilot_chat_turns_total",
				Help: "Chat turns answered, by outcome",
			},
			[]string{"outcome"},
		),
		providerLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pilot_provider_request_duration_seconds",
				Help:    "Completion provider round-trip time in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		exchanges: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pilot_memory_exchanges",
				Help: "Exchanges held in the agent memory log",
			},
			[]string{"agent"},
		),
	}
	m.registry.MustRegister(m.turns, m.providerLatency, m.exchanges)
	return m
}

// IncTurn counts one answered turn.
func (m *Metrics) IncTurn(outcome string) {
	m.turns.WithLabelValues(outcome).Inc()
}

// ObserveProviderLatency records one provider call.
func (m *Metrics) ObserveProviderLatency(provider string, d time.Duration) {
	m.providerLatency.WithLabelValues(provider).Observe(d.Seconds())
}

// SetExchanges reports the memory log length for agent.
func (m *Metrics) SetExchanges(agent string, n int) {
	m.exchanges.WithLabelValues(agent).Set(float64(n))
}

// Turns exposes the turn counter, mainly for assertions.
func (m *Metrics) Turns() *prometheus.CounterVec {
	return m.turns
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WritePrometheus writes the text exposition format to w.
func (m *Metrics) WritePrometheus(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}

// ContentType is the MIME type produced by WritePrometheus.
func ContentType() string {
	return string(expfmt.NewFormat(expfmt.TypeTextPlain))
}
