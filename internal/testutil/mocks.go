package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cadre-oss/pilot/internal/config"
	"github.com/cadre-oss/pilot/internal/provider"
	"github.com/cadre-oss/pilot/internal/telemetry"
)

// MockProvider implements provider.Provider for testing.
type MockProvider struct {
	mu         sync.Mutex
	Responses  []*provider.Response // queued responses, consumed in order
	Calls      []*provider.CompletionRequest
	ShouldFail bool
	FailErr    error
	Delay      time.Duration
	idx        int
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) Complete(ctx context.Context, req *provider.CompletionRequest) (*provider.Response, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, cloneRequest(req))
	m.mu.Unlock()

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ShouldFail {
		if m.FailErr != nil {
			return nil, m.FailErr
		}
		return nil, fmt.Errorf("mock provider error")
	}

	if m.idx >= len(m.Responses) {
		return &provider.Response{
			Content:    "default mock response",
			StopReason: "end_turn",
		}, nil
	}

	resp := m.Responses[m.idx]
	m.idx++
	return resp, nil
}

// CallCount returns the number of Complete calls made (thread-safe).
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastCall returns the most recent request, or nil.
func (m *MockProvider) LastCall() *provider.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return nil
	}
	return m.Calls[len(m.Calls)-1]
}

func cloneRequest(req *provider.CompletionRequest) *provider.CompletionRequest {
	c := *req
	c.Messages = append([]provider.Message(nil), req.Messages...)
	return &c
}

// TestLogger returns a logger suitable for tests (verbose, no file output).
func TestLogger() *telemetry.Logger {
	return telemetry.NewLogger(true)
}

// TestConfig returns a fully defaulted config with a placeholder credential.
func TestConfig() *config.Config {
	cfg := config.Defaults()
	cfg.Provider.APIKey = "sk-test"
	cfg.Provider.Timeout = 2 * time.Second
	cfg.Logging.Level = "debug"
	return cfg
}
