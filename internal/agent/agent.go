package agent

import (
	"strings"

	"github.com/google/uuid"

	"github.com/cadre-oss/pilot/internal/config"
)

// Agent is the conversational identity: a stable ID, a name, a role label,
// the system instructions and the memory log. Only the memory changes after
// construction.
type Agent struct {
	id           string
	name         string
	role         string
	instructions string
	memory       *Memory
}

// NewAgent creates a new agent from configuration
func NewAgent(cfg *config.AgentConfig) *Agent {
	a := &Agent{
		id:     uuid.NewString(),
		name:   cfg.Name,
		role:   cfg.Role,
		memory: NewMemory(),
	}
	a.instructions = cfg.Instructions
	if strings.TrimSpace(a.instructions) == "" {
		a.instructions = defaultInstructions(cfg.Name)
	}
	return a
}

// ID returns the agent's process-lifetime identifier
func (a *Agent) ID() string {
	return a.id
}

// Name returns the agent name
func (a *Agent) Name() string {
	return a.name
}

// Role returns the agent role
func (a *Agent) Role() string {
	return a.role
}

// Memory returns the agent's memory
func (a *Agent) Memory() *Memory {
	return a.memory
}

// SystemPrompt returns the fixed instructions sent ahead of every turn.
func (a *Agent) SystemPrompt() string {
	return a.instructions
}

func defaultInstructions(name string) string {
	prompt := "You are " + name + ", a professional AI customer support officer.\n"
	prompt += "Your goals:\n"
	prompt += "- Resolve customer issues accurately\n"
	prompt += "- Be polite, calm, and helpful\n"
	prompt += "- Escalate only when necessary\n"
	prompt += "- Never hallucinate information\n"
	return prompt
}
