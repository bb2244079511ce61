package agent

import (
	"sync"
	"time"
)

// Exchange is one recorded turn. It is never modified after Append.
type Exchange struct {
	User      string    `json:"user"`
	Reply     string    `json:"reply"`
	Timestamp time.Time `json:"timestamp"`

	// Outcome is the structured result of the turn (see telemetry.Outcome*).
	// Callers only ever see Reply.
	Outcome string `json:"-"`
}

// Memory is the agent's append-only exchange log. Storage is unbounded;
// prompt assembly reads a suffix through Last.
type Memory struct {
	mu        sync.RWMutex
	exchanges []Exchange
}

// NewMemory creates a new memory instance
func NewMemory() *Memory {
	return &Memory{exchanges: make([]Exchange, 0)}
}

// Append records an exchange, stamping it with the current UTC time when
// Timestamp is zero.
func (m *Memory) Append(ex Exchange) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ex.Timestamp.IsZero() {
		ex.Timestamp = time.Now().UTC()
	}
	m.exchanges = append(m.exchanges, ex)
}

// Exchanges returns a copy of the whole log, oldest first.
func (m *Memory) Exchanges() []Exchange {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Exchange, len(m.exchanges))
	copy(result, m.exchanges)
	return result
}

// Last returns a copy of the last n exchanges, oldest first.
func (m *Memory) Last(n int) []Exchange {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if n <= 0 {
		return []Exchange{}
	}
	if n >= len(m.exchanges) {
		result := make([]Exchange, len(m.exchanges))
		copy(result, m.exchanges)
		return result
	}

	start := len(m.exchanges) - n
	result := make([]Exchange, n)
	copy(result, m.exchanges[start:])
	return result
}

// Len returns the number of recorded exchanges
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.exchanges)
}
