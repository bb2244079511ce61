package config

import "time"

// Config represents the service configuration (pilot.yaml)
type Config struct {
	Agent    AgentConfig    `mapstructure:"agent" yaml:"agent" json:"agent"`
	Provider ProviderConfig `mapstructure:"provider" yaml:"provider" json:"provider"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server" json:"server"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging" json:"logging"`
	Hooks    []HookConfig   `mapstructure:"hooks" yaml:"hooks,omitempty" json:"hooks,omitempty"`
}

// AgentConfig describes the conversational agent identity and memory window.
type AgentConfig struct {
	Name         string `mapstructure:"name" yaml:"name" json:"name"`
	Role         string `mapstructure:"role" yaml:"role" json:"role"`
	Instructions string `mapstructure:"instructions" yaml:"instructions,omitempty" json:"instructions,omitempty"` // empty = built-in support prompt
	MemoryWindow int    `mapstructure:"memory_window" yaml:"memory_window" json:"memory_window"`
}

// ProviderConfig configures the completion provider
type ProviderConfig struct {
	Name              string        `mapstructure:"name" yaml:"name" json:"name"` // openai, anthropic, simulated
	Model             string        `mapstructure:"model" yaml:"model" json:"model"`
	APIKey            string        `mapstructure:"api_key" yaml:"api_key,omitempty" json:"-"`
	BaseURL           string        `mapstructure:"base_url" yaml:"base_url,omitempty" json:"base_url,omitempty"`
	Temperature       float64       `mapstructure:"temperature" yaml:"temperature" json:"temperature"`
	MaxTokens         int           `mapstructure:"max_tokens" yaml:"max_tokens" json:"max_tokens"`
	Timeout           time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout"`
	MaxRetries        int           `mapstructure:"max_retries" yaml:"max_retries" json:"max_retries"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute" yaml:"requests_per_minute" json:"requests_per_minute"` // 0 = unlimited
}

// ServerConfig configures the HTTP surface
type ServerConfig struct {
	Host            string        `mapstructure:"host" yaml:"host" json:"host"`
	Port            int           `mapstructure:"port" yaml:"port" json:"port"`
	FrontendDir     string        `mapstructure:"frontend_dir" yaml:"frontend_dir" json:"frontend_dir"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
	CORS            CORSConfig    `mapstructure:"cors" yaml:"cors" json:"cors"`
}

// CORSConfig lists the origins allowed to call the API from a browser.
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins" yaml:"allow_origins" json:"allow_origins"`
}

// LoggingConfig configures logging
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format" json:"format"` // text, json
	File   string `mapstructure:"file" yaml:"file,omitempty" json:"file,omitempty"`
}

// HookConfig attaches a handler to turn events.
type HookConfig struct {
	Name     string        `mapstructure:"name" yaml:"name" json:"name"`
	Type     string        `mapstructure:"type" yaml:"type" json:"type"`                         // log, webhook
	Events   []string      `mapstructure:"events" yaml:"events,omitempty" json:"events,omitempty"` // empty = all
	Blocking bool          `mapstructure:"blocking" yaml:"blocking,omitempty" json:"blocking,omitempty"`
	URL      string        `mapstructure:"url" yaml:"url,omitempty" json:"url,omitempty"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout,omitempty" json:"timeout,omitempty"`
	Level    string        `mapstructure:"level" yaml:"level,omitempty" json:"level,omitempty"`
}

// Addr returns host:port for the listener.
func (s ServerConfig) Addr() string {
	return joinHostPort(s.Host, s.Port)
}

// Redacted returns a copy safe to print: the API key is masked.
func (c Config) Redacted() Config {
	out := c
	if out.Provider.APIKey != "" {
		out.Provider.APIKey = "********"
	}
	out.Server.CORS.AllowOrigins = append([]string(nil), c.Server.CORS.AllowOrigins...)
	out.Hooks = append([]HookConfig(nil), c.Hooks...)
	return out
}
