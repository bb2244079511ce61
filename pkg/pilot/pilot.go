// Package pilot embeds the support agent in another Go program.
//
// Example usage:
//
//	import "github.com/cadre-oss/pilot/pkg/pilot"
//
//	a, err := pilot.New("pilot.yaml")
//	if err != nil {
//		return err
//	}
//	reply := a.Respond(ctx, "I want a refund")
package pilot

import (
	"context"
	"fmt"
	"time"

	"github.com/cadre-oss/pilot/internal/agent"
	"github.com/cadre-oss/pilot/internal/config"
	"github.com/cadre-oss/pilot/internal/telemetry"
)

// Exchange is one recorded user message and reply.
type Exchange struct {
	User      string    `json:"user"`
	Reply     string    `json:"reply"`
	Timestamp time.Time `json:"timestamp"`
}

// Agent is a configured support agent with its own memory.
type Agent struct {
	runtime *agent.Runtime
}

// New loads configuration from path ("" searches ./pilot.yaml, then falls
// back to defaults and environment) and builds an agent. Logging is
// discarded; use the CLI for a served agent with logs and metrics.
func New(path string) (*Agent, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	rt, err := agent.NewRuntime(cfg, telemetry.NewDiscardLogger(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}
	return &Agent{runtime: rt}, nil
}

// Name returns the agent name.
func (a *Agent) Name() string {
	return a.runtime.Agent().Name()
}

// ID returns the agent's identifier for this process.
func (a *Agent) ID() string {
	return a.runtime.Agent().ID()
}

// Respond answers one message. It never fails; see agent.Runtime.Respond.
func (a *Agent) Respond(ctx context.Context, message string) string {
	return a.runtime.Respond(ctx, message)
}

// History returns a copy of every exchange so far, oldest first.
func (a *Agent) History() []Exchange {
	exchanges := a.runtime.History()
	out := make([]Exchange, len(exchanges))
	for i, ex := range exchanges {
		out[i] = Exchange{User: ex.User, Reply: ex.Reply, Timestamp: ex.Timestamp}
	}
	return out
}
