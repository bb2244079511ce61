package event

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/cadre-oss/pilot/internal/config"
)

// Hook processes turn events.
type Hook interface {
	// Name returns the hook's identifier.
	Name() string
	// Matches returns true if the hook should handle this event type.
	Matches(t EventType) bool
	// IsBlocking returns true if Emit should wait for this hook.
	IsBlocking() bool
	// Handle processes an event.
	Handle(ev Event) error
}

// baseHook provides shared fields for all hook implementations.
type baseHook struct {
	name     string
	events   []EventType
	blocking bool
}

func (h *baseHook) Name() string     { return h.name }
func (h *baseHook) IsBlocking() bool { return h.blocking }
func (h *baseHook) Matches(t EventType) bool {
	if len(h.events) == 0 {
		return true // match all events if no filter specified
	}
	for _, ev := range h.events {
		if ev == t {
			return true
		}
	}
	return false
}

// WebhookHook POSTs the event as JSON to a URL.
type WebhookHook struct {
	baseHook
	URL     string
	Timeout time.Duration
	client  *resty.Client
}

func NewWebhookHook(name, url string, events []EventType, blocking bool) *WebhookHook {
	return &WebhookHook{
		baseHook: baseHook{name: name, events: events, blocking: blocking},
		URL:      url,
		Timeout:  10 * time.Second,
		client:   resty.New(),
	}
}

func (h *WebhookHook) Handle(ev Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), h.Timeout)
	defer cancel()

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(ev).
		Post(h.URL)
	if err != nil {
		return fmt.Errorf("webhook %s failed: %w", h.name, err)
	}
	if resp.StatusCode() >= 400 {
		return fmt.Errorf("webhook %s returned status %d", h.name, resp.StatusCode())
	}
	return nil
}

// LogHook logs events at the configured level. Always non-blocking.
type LogHook struct {
	baseHook
	logger FullLogger
	level  string // "debug", "info", "warn"
}

// FullLogger extends Logger with the levels LogHook writes at.
type FullLogger interface {
	Logger
	Info(msg string, keyvals ...interface{})
	Debug(msg string, keyvals ...interface{})
}

func NewLogHook(name string, events []EventType, logger FullLogger, level string) *LogHook {
	if level == "" {
		level = "info"
	}
	return &LogHook{
		baseHook: baseHook{name: name, events: events, blocking: false},
		logger:   logger,
		level:    level,
	}
}

func (h *LogHook) Handle(ev Event) error {
	msg := fmt.Sprintf("[event] %s", ev.Type)
	keyvals := make([]interface{}, 0, len(ev.Data)*2+2)
	keyvals = append(keyvals, "event_type", string(ev.Type))
	for k, v := range ev.Data {
		keyvals = append(keyvals, k, v)
	}

	switch h.level {
	case "debug":
		h.logger.Debug(msg, keyvals...)
	case "warn":
		h.logger.Warn(msg, keyvals...)
	default:
		h.logger.Info(msg, keyvals...)
	}
	return nil
}

// BuildHooks turns the hooks section of the config into registered-ready hooks.
func BuildHooks(cfgs []config.HookConfig, logger FullLogger) ([]Hook, error) {
	hooks := make([]Hook, 0, len(cfgs))
	for i, c := range cfgs {
		name := c.Name
		if name == "" {
			name = fmt.Sprintf("%s-%d", c.Type, i)
		}

		events := make([]EventType, 0, len(c.Events))
		for _, e := range c.Events {
			t, err := ParseType(e)
			if err != nil {
				return nil, fmt.Errorf("hook %s: %w", name, err)
			}
			events = append(events, t)
		}

		switch c.Type {
		case "webhook":
			h := NewWebhookHook(name, c.URL, events, c.Blocking)
			if c.Timeout > 0 {
				h.Timeout = c.Timeout
			}
			hooks = append(hooks, h)
		case "log":
			hooks = append(hooks, NewLogHook(name, events, logger, c.Level))
		default:
			return nil, fmt.Errorf("hook %s: unknown type %q", name, c.Type)
		}
	}
	return hooks, nil
}
