package agent

import (
	"context"
	"sync"
	"time"

	"github.com/cadre-oss/pilot/internal/config"
	pilotErrors "github.com/cadre-oss/pilot/internal/errors"
	"github.com/cadre-oss/pilot/internal/event"
	"github.com/cadre-oss/pilot/internal/provider"
	"github.com/cadre-oss/pilot/internal/provider/anthropic"
	"github.com/cadre-oss/pilot/internal/provider/openai"
	"github.com/cadre-oss/pilot/internal/telemetry"
)

// Replies substituted when no completion can be produced.
const (
	ConfigErrorReply = "The support assistant is not configured yet: no API key is set. Please contact the site administrator."
	ApologyReply     = "I'm sorry, I'm having trouble reaching our support system right now. Please try again in a moment."
)

const defaultTimeout = 30 * time.Second

// Runtime drives one Agent: it turns a user message into a reply and records
// the exchange.
type Runtime struct {
	agent    *Agent
	provider provider.Provider // nil when no credential is configured
	cfg      config.ProviderConfig
	window   int
	logger   *telemetry.Logger
	metrics  *telemetry.Metrics
	bus      *event.Bus

	// turnMu spans window read through append, so each prompt sees every
	// completed exchange.
	turnMu sync.Mutex
}

// NewProvider builds the completion provider selected by cfg. The
// placeholder credential "dev" and the provider name "simulated" select the
// offline provider. A nil provider with a nil error means no credential is
// configured.
func NewProvider(cfg config.ProviderConfig) (provider.Provider, error) {
	if cfg.Name == config.ProviderSimulated || cfg.APIKey == config.DevAPIKey {
		return provider.NewSimulated(), nil
	}

	var p provider.Provider
	switch cfg.Name {
	case config.ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, nil
		}
		p = openai.NewClient(cfg.APIKey, cfg.Model, cfg.BaseURL)
	case config.ProviderAnthropic:
		if cfg.APIKey == "" {
			return nil, nil
		}
		p = anthropic.NewClient(cfg.APIKey, cfg.Model, cfg.BaseURL)
	default:
		return nil, pilotErrors.New(pilotErrors.CodeProviderNotFound, "unknown provider "+cfg.Name).
			WithSuggestion("Set provider.name to openai, anthropic or simulated")
	}

	if cfg.RequestsPerMinute > 0 {
		p = provider.NewRateLimitProvider(p, cfg.RequestsPerMinute)
	}
	if cfg.MaxRetries > 0 {
		p = provider.NewRetryProvider(p, provider.DefaultRetryConfig(cfg.MaxRetries))
	}
	return p, nil
}

// NewRuntime creates a runtime with the provider selected by cfg.
func NewRuntime(cfg *config.Config, logger *telemetry.Logger, metrics *telemetry.Metrics) (*Runtime, error) {
	p, err := NewProvider(cfg.Provider)
	if err != nil {
		return nil, err
	}
	if p == nil {
		missing := pilotErrors.New(pilotErrors.CodeConfigMissing, "no API key for provider "+cfg.Provider.Name).
			WithSuggestion("Export " + config.APIKeyEnv(cfg.Provider.Name) + " or set provider.api_key; use \"dev\" for simulated replies")
		logger.Warn("Completion provider disabled", "code", missing.Code, "error", missing.Message, "suggestion", missing.Suggestion)
	}
	return NewRuntimeWithProvider(cfg, p, logger, metrics)
}

// NewRuntimeWithProvider creates a new agent runtime with an injected provider.
// A nil provider answers every turn with ConfigErrorReply.
func NewRuntimeWithProvider(cfg *config.Config, p provider.Provider, logger *telemetry.Logger, metrics *telemetry.Metrics) (*Runtime, error) {
	if logger == nil {
		logger = telemetry.NewDiscardLogger()
	}
	if metrics == nil {
		metrics = telemetry.NewMetrics()
	}

	window := cfg.Agent.MemoryWindow
	if window <= 0 {
		window = 5
	}

	r := &Runtime{
		agent:    NewAgent(&cfg.Agent),
		provider: p,
		cfg:      cfg.Provider,
		window:   window,
		logger:   logger.WithFields(map[string]interface{}{"agent": cfg.Agent.Name}),
		metrics:  metrics,
	}
	if r.cfg.Timeout <= 0 {
		r.cfg.Timeout = defaultTimeout
	}
	metrics.SetExchanges(r.agent.Name(), 0)
	return r, nil
}

// SetEventBus attaches a bus that receives one event per turn.
func (r *Runtime) SetEventBus(bus *event.Bus) {
	r.bus = bus
}

// Agent returns the driven agent
func (r *Runtime) Agent() *Agent {
	return r.agent
}

// ProviderName names the active provider, or "none".
func (r *Runtime) ProviderName() string {
	if r.provider == nil {
		return "none"
	}
	return r.provider.Name()
}

// History returns a copy of the memory log.
func (r *Runtime) History() []Exchange {
	return r.agent.Memory().Exchanges()
}

// Respond answers one user message. It never fails: provider problems are
// replaced by ApologyReply, a missing credential by ConfigErrorReply. The
// exchange is recorded on every path.
func (r *Runtime) Respond(ctx context.Context, userMessage string) string {
	r.turnMu.Lock()
	defer r.turnMu.Unlock()

	logger := r.logger
	if id, ok := telemetry.RequestIDFromContext(ctx); ok {
		logger = logger.WithFields(map[string]interface{}{"request_id": id})
	}

	start := time.Now()
	reply, outcome := r.complete(ctx, logger, userMessage)

	mem := r.agent.Memory()
	mem.Append(Exchange{User: userMessage, Reply: reply, Outcome: outcome})

	r.metrics.IncTurn(outcome)
	r.metrics.SetExchanges(r.agent.Name(), mem.Len())
	logger.Info("Turn answered", "outcome", outcome, "exchanges", mem.Len(), "duration", time.Since(start))

	r.emit(ctx, logger, userMessage, reply, outcome, mem.Len())
	return reply
}

func (r *Runtime) emit(ctx context.Context, logger *telemetry.Logger, user, reply, outcome string, exchanges int) {
	if r.bus == nil {
		return
	}
	typ := event.TurnFallback
	if outcome == telemetry.OutcomeSuccess || outcome == telemetry.OutcomeSimulated {
		typ = event.TurnCompleted
	}
	data := map[string]interface{}{
		"agent":     r.agent.Name(),
		"agent_id":  r.agent.ID(),
		"outcome":   outcome,
		"user":      user,
		"reply":     reply,
		"exchanges": exchanges,
	}
	if id, ok := telemetry.RequestIDFromContext(ctx); ok {
		data["request_id"] = id
	}
	if err := r.bus.Emit(event.NewEvent(typ, data)); err != nil {
		logger.Warn("Turn hook failed", "error", err)
	}
}

func (r *Runtime) complete(ctx context.Context, logger *telemetry.Logger, userMessage string) (string, string) {
	if r.provider == nil {
		logger.Warn("Skipping completion", "code", pilotErrors.CodeConfigMissing)
		return ConfigErrorReply, telemetry.OutcomeConfigMissing
	}

	req := &provider.CompletionRequest{
		Model:       r.cfg.Model,
		Messages:    BuildMessages(r.agent.SystemPrompt(), r.agent.Memory().Last(r.window), userMessage),
		MaxTokens:   r.cfg.MaxTokens,
		Temperature: r.cfg.Temperature,
	}

	callCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	logger.Debug("Calling provider", "provider", r.provider.Name(), "messages", len(req.Messages))
	start := time.Now()
	resp, err := r.provider.Complete(callCtx, req)
	r.metrics.ObserveProviderLatency(r.provider.Name(), time.Since(start))

	result := provider.Decode(resp, err)
	if !result.OK() {
		logger.Warn("Completion failed, replying with apology",
			"provider", r.provider.Name(),
			"code", result.Code(),
			"error", result.Err(),
		)
		if result.Code() == pilotErrors.CodeResponseShape {
			return ApologyReply, telemetry.OutcomeShape
		}
		return ApologyReply, telemetry.OutcomeUpstream
	}

	if resp != nil {
		logger.Debug("Provider response",
			"stop_reason", resp.StopReason,
			"input_tokens", resp.Usage.InputTokens,
			"output_tokens", resp.Usage.OutputTokens,
		)
	}
	if r.provider.Name() == "simulated" {
		return result.Text(), telemetry.OutcomeSimulated
	}
	return result.Text(), telemetry.OutcomeSuccess
}
