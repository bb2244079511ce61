package config

import (
	"fmt"
	"sort"
	"strings"

	pilotErrors "github.com/cadre-oss/pilot/internal/errors"
)

var validProviders = map[string]bool{
	ProviderOpenAI:    true,
	ProviderAnthropic: true,
	ProviderSimulated: true,
}

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks cfg and reports every problem at once.
func Validate(cfg *Config) error {
	var problems []string

	if strings.TrimSpace(cfg.Agent.Name) == "" {
		problems = append(problems, "agent.name is required")
	}
	if cfg.Agent.MemoryWindow <= 0 {
		problems = append(problems, fmt.Sprintf("agent.memory_window must be positive, got %d", cfg.Agent.MemoryWindow))
	}

	if !validProviders[cfg.Provider.Name] {
		names := make([]string, 0, len(validProviders))
		for n := range validProviders {
			names = append(names, n)
		}
		sort.Strings(names)
		problems = append(problems, fmt.Sprintf("invalid provider %q (want one of %s)", cfg.Provider.Name, strings.Join(names, ", ")))
	}
	if cfg.Provider.Temperature < 0 || cfg.Provider.Temperature > 2 {
		problems = append(problems, fmt.Sprintf("provider.temperature must be within [0, 2], got %g", cfg.Provider.Temperature))
	}
	if cfg.Provider.MaxTokens <= 0 {
		problems = append(problems, fmt.Sprintf("provider.max_tokens must be positive, got %d", cfg.Provider.MaxTokens))
	}
	if cfg.Provider.Timeout <= 0 {
		problems = append(problems, "provider.timeout must be positive")
	}
	if cfg.Provider.MaxRetries < 0 {
		problems = append(problems, "provider.max_retries must not be negative")
	}
	if cfg.Provider.RequestsPerMinute < 0 {
		problems = append(problems, "provider.requests_per_minute must not be negative")
	}

	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port out of range: %d", cfg.Server.Port))
	}

	if !validLevels[strings.ToLower(cfg.Logging.Level)] {
		problems = append(problems, fmt.Sprintf("invalid logging.level %q", cfg.Logging.Level))
	}
	if f := cfg.Logging.Format; f != "text" && f != "json" {
		problems = append(problems, fmt.Sprintf("invalid logging.format %q (want text or json)", f))
	}

	for i, h := range cfg.Hooks {
		switch h.Type {
		case "log":
		case "webhook":
			if strings.TrimSpace(h.URL) == "" {
				problems = append(problems, fmt.Sprintf("hooks[%d].url is required for webhook hooks", i))
			}
		default:
			problems = append(problems, fmt.Sprintf("invalid hooks[%d].type %q (want log or webhook)", i, h.Type))
		}
	}

	if len(problems) > 0 {
		return pilotErrors.New(pilotErrors.CodeConfigInvalid, "config validation failed: "+strings.Join(problems, "; ")).
			WithSuggestion("Fix the listed keys in pilot.yaml or the matching PILOT_* environment variables")
	}
	return nil
}
