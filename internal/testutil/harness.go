package testutil

import (
	"testing"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/cadre-oss/pilot/internal/config"
	"github.com/cadre-oss/pilot/internal/provider"
	"github.com/cadre-oss/pilot/internal/telemetry"
)

// TestHarness bundles config, logger, metrics and a mock provider for
// runtime and server tests.
type TestHarness struct {
	T        *testing.T
	Config   *config.Config
	Logger   *telemetry.Logger
	Metrics  *telemetry.Metrics
	Provider *MockProvider
}

// NewTestHarness creates a test harness with default configuration.
func NewTestHarness(t *testing.T) *TestHarness {
	t.Helper()

	return &TestHarness{
		T:        t,
		Config:   TestConfig(),
		Logger:   telemetry.NewDiscardLogger(),
		Metrics:  telemetry.NewMetrics(),
		Provider: &MockProvider{},
	}
}

// SetResponses queues mock provider responses.
func (h *TestHarness) SetResponses(responses ...*provider.Response) {
	h.Provider.Responses = responses
}

// TurnCount returns the chat turn counter for outcome.
func (h *TestHarness) TurnCount(outcome string) int {
	h.T.Helper()
	return int(promtest.ToFloat64(h.Metrics.Turns().WithLabelValues(outcome)))
}

// AssertTurns fails the test unless exactly n turns ended with outcome.
func (h *TestHarness) AssertTurns(outcome string, n int) {
	h.T.Helper()
	if got := h.TurnCount(outcome); got != n {
		h.T.Errorf("expected %d %q turns, got %d", n, outcome, got)
	}
}
