package provider

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	pilotErrors "github.com/cadre-oss/pilot/internal/errors"
)

// testProvider is a minimal mock for retry tests.
type testProvider struct {
	responses []*Response
	errors    []error
	calls     int
}

func (p *testProvider) Name() string { return "test" }

func (p *testProvider) Complete(ctx context.Context, req *CompletionRequest) (*Response, error) {
	idx := p.calls
	p.calls++
	if idx < len(p.errors) && p.errors[idx] != nil {
		return nil, p.errors[idx]
	}
	if idx < len(p.responses) {
		return p.responses[idx], nil
	}
	return &Response{Content: "default", StopReason: "end_turn"}, nil
}

func statusErr(code int) error {
	return pilotErrors.Wrap(pilotErrors.CodeUpstream, "completion rejected",
		&StatusError{Provider: "test", StatusCode: code, Body: "boom"})
}

func fastRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 1 * time.Millisecond,
		MaxBackoff:     10 * time.Millisecond,
		JitterFraction: 0,
	}
}

func TestRetryProvider_SuccessFirstTry(t *testing.T) {
	inner := &testProvider{
		responses: []*Response{{Content: "ok", StopReason: "end_turn"}},
	}
	rp := NewRetryProvider(inner, fastRetryConfig())

	resp, err := rp.Complete(context.Background(), &CompletionRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "ok" {
		t.Errorf("expected 'ok', got %q", resp.Content)
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 call, got %d", inner.calls)
	}
}

func TestRetryProvider_RetryOn500(t *testing.T) {
	inner := &testProvider{
		errors: []error{statusErr(500), nil},
	}
	rp := NewRetryProvider(inner, fastRetryConfig())

	resp, err := rp.Complete(context.Background(), &CompletionRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "default" {
		t.Errorf("expected 'default', got %q", resp.Content)
	}
	if inner.calls != 2 {
		t.Errorf("expected 2 calls, got %d", inner.calls)
	}
}

func TestRetryProvider_RetryOn429(t *testing.T) {
	inner := &testProvider{
		errors: []error{statusErr(429), statusErr(529), nil},
	}
	rp := NewRetryProvider(inner, fastRetryConfig())

	if _, err := rp.Complete(context.Background(), &CompletionRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 3 {
		t.Errorf("expected 3 calls, got %d", inner.calls)
	}
}

func TestRetryProvider_NoRetryOn401(t *testing.T) {
	inner := &testProvider{
		errors: []error{statusErr(401)},
	}
	rp := NewRetryProvider(inner, fastRetryConfig())

	_, err := rp.Complete(context.Background(), &CompletionRequest{})
	if err == nil {
		t.Fatal("expected error")
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 call (no retry on 401), got %d", inner.calls)
	}
}

func TestRetryProvider_NoRetryOnShapeMismatch(t *testing.T) {
	inner := &testProvider{
		errors: []error{pilotErrors.New(pilotErrors.CodeResponseShape, "no choices")},
	}
	rp := NewRetryProvider(inner, fastRetryConfig())

	_, err := rp.Complete(context.Background(), &CompletionRequest{})
	if pilotErrors.AsCode(err) != pilotErrors.CodeResponseShape {
		t.Errorf("expected shape mismatch to pass through, got %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 call, got %d", inner.calls)
	}
}

func TestRetryProvider_MaxRetriesExhausted(t *testing.T) {
	inner := &testProvider{
		errors: []error{statusErr(503), statusErr(503), statusErr(503), statusErr(503)},
	}
	rp := NewRetryProvider(inner, fastRetryConfig())

	_, err := rp.Complete(context.Background(), &CompletionRequest{})
	if err == nil {
		t.Fatal("expected error")
	}
	if inner.calls != 4 {
		t.Errorf("expected 4 calls (1 + 3 retries), got %d", inner.calls)
	}
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != 503 {
		t.Errorf("expected wrapped 503 status error, got %v", err)
	}
	if pilotErrors.AsCode(err) != pilotErrors.CodeUpstream {
		t.Errorf("expected code to survive wrapping, got %q", pilotErrors.AsCode(err))
	}
}

func TestRetryProvider_ContextCancelledDuringBackoff(t *testing.T) {
	inner := &testProvider{
		errors: []error{statusErr(500), statusErr(500)},
	}
	cfg := fastRetryConfig()
	cfg.InitialBackoff = time.Second
	cfg.MaxBackoff = time.Second
	rp := NewRetryProvider(inner, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := rp.Complete(ctx, &CompletionRequest{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 call before cancellation, got %d", inner.calls)
	}
}

func TestRetryProvider_NetworkError(t *testing.T) {
	inner := &testProvider{
		errors: []error{
			pilotErrors.Wrap(pilotErrors.CodeUpstream, "request failed", fmt.Errorf("dial tcp: connection refused")),
			nil,
		},
	}
	rp := NewRetryProvider(inner, fastRetryConfig())

	if _, err := rp.Complete(context.Background(), &CompletionRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("expected 2 calls, got %d", inner.calls)
	}
}

func TestRetryProvider_NoRetryOnContextCanceled(t *testing.T) {
	inner := &testProvider{
		errors: []error{context.Canceled},
	}
	rp := NewRetryProvider(inner, fastRetryConfig())

	_, err := rp.Complete(context.Background(), &CompletionRequest{})
	if err == nil {
		t.Fatal("expected error")
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 call (no retry on context.Canceled), got %d", inner.calls)
	}
}

func TestRetryProvider_BackoffCapped(t *testing.T) {
	rp := NewRetryProvider(&testProvider{}, RetryConfig{
		MaxRetries:     10,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     time.Second,
	})

	if got := rp.backoff(0); got != 100*time.Millisecond {
		t.Errorf("attempt 0: expected 100ms, got %v", got)
	}
	if got := rp.backoff(8); got != time.Second {
		t.Errorf("attempt 8: expected cap of 1s, got %v", got)
	}
}
