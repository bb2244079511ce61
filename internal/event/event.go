package event

import (
	"fmt"
	"time"
)

// EventType identifies the kind of turn event.
type EventType string

const (
	// TurnCompleted fires after a turn answered with a provider completion
	// (including simulated replies).
	TurnCompleted EventType = "turn.completed"

	// TurnFallback fires after a turn answered with a fixed fallback string:
	// missing credential, unreachable provider or malformed response.
	TurnFallback EventType = "turn.fallback"
)

var knownTypes = map[EventType]bool{
	TurnCompleted: true,
	TurnFallback:  true,
}

// Event carries data about one turn.
type Event struct {
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// NewEvent creates an event with the current timestamp.
func NewEvent(t EventType, data map[string]interface{}) Event {
	return Event{
		Type:      t,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// ParseType validates an event name from configuration.
func ParseType(s string) (EventType, error) {
	t := EventType(s)
	if !knownTypes[t] {
		return "", fmt.Errorf("unknown event type %q (want %s or %s)", s, TurnCompleted, TurnFallback)
	}
	return t, nil
}
