package event

import (
	"fmt"
	"sync"
)

// Bus dispatches events to registered hooks.
//
// Blocking hooks run in registration order before Emit returns and the first
// failure is returned. Non-blocking hooks run in goroutines; their failures
// and panics are logged. Wait blocks until in-flight non-blocking hooks
// finish. A nil Bus is a no-op.
type Bus struct {
	mu       sync.RWMutex
	hooks    []Hook
	logger   Logger
	inflight sync.WaitGroup
}

// Logger is the slice of telemetry.Logger the bus needs.
type Logger interface {
	Warn(msg string, keyvals ...interface{})
}

// NewBus creates an event bus. Pass nil logger for silent operation.
func NewBus(logger Logger) *Bus {
	return &Bus{logger: logger}
}

// Register adds a hook to the bus.
func (b *Bus) Register(h Hook) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hooks = append(b.hooks, h)
}

// Len returns the number of registered hooks.
func (b *Bus) Len() int {
	if b == nil {
		return 0
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.hooks)
}

// Emit dispatches ev to every matching hook.
func (b *Bus) Emit(ev Event) error {
	if b == nil {
		return nil
	}
	b.mu.RLock()
	hooks := make([]Hook, len(b.hooks))
	copy(hooks, b.hooks)
	b.mu.RUnlock()

	for _, h := range hooks {
		if !h.Matches(ev.Type) {
			continue
		}

		if h.IsBlocking() {
			if err := h.Handle(ev); err != nil {
				return fmt.Errorf("blocking hook %s failed: %w", h.Name(), err)
			}
			continue
		}

		b.inflight.Add(1)
		go func(hook Hook) {
			defer b.inflight.Done()
			defer func() {
				if r := recover(); r != nil {
					b.warn("Non-blocking hook panicked", hook, ev, "panic", r)
				}
			}()
			if err := hook.Handle(ev); err != nil {
				b.warn("Non-blocking hook failed", hook, ev, "error", err)
			}
		}(h)
	}

	return nil
}

// Wait blocks until every non-blocking hook started so far has returned.
func (b *Bus) Wait() {
	if b == nil {
		return
	}
	b.inflight.Wait()
}

func (b *Bus) warn(msg string, h Hook, ev Event, k string, v interface{}) {
	if b.logger == nil {
		return
	}
	b.logger.Warn(msg, "hook", h.Name(), "event", string(ev.Type), k, v)
}
