package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Provider names accepted in provider.name.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderSimulated = "simulated"
)

// DevAPIKey is the placeholder credential that switches the agent to simulated replies.
const DevAPIKey = "dev"

// EnvPrefix prefixes every environment override (PILOT_PROVIDER_MODEL, ...).
const EnvPrefix = "PILOT"

var defaults = map[string]interface{}{
	"agent.name":                   "Pilot Support Agent",
	"agent.role":                   "Customer Support AI Officer",
	"agent.instructions":           "",
	"agent.memory_window":          5,
	"provider.name":                ProviderOpenAI,
	"provider.model":               "",
	"provider.api_key":             "",
	"provider.base_url":            "",
	"provider.temperature":         0.4,
	"provider.max_tokens":          300,
	"provider.timeout":             "30s",
	"provider.max_retries":         0,
	"provider.requests_per_minute": 0,
	"server.host":                  "0.0.0.0",
	"server.port":                  8000,
	"server.frontend_dir":          "frontend",
	"server.shutdown_timeout":      "10s",
	"server.cors.allow_origins":    []string{"*"},
	"logging.level":                "info",
	"logging.format":               "text",
	"logging.file":                 "",
}

// defaultModels is consulted when provider.model is left empty.
var defaultModels = map[string]string{
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderAnthropic: "claude-sonnet-4-20250514",
	ProviderSimulated: "simulated",
}

// apiKeyEnv names the provider-native credential variable read when api_key is unset.
var apiKeyEnv = map[string]string{
	ProviderOpenAI:    "OPENAI_API_KEY",
	ProviderAnthropic: "ANTHROPIC_API_KEY",
}

// Loader reads configuration from an optional YAML file, PILOT_* environment
// variables and built-in defaults, in that order of precedence (env wins).
type Loader struct {
	v    *viper.Viper
	path string
}

// NewLoader creates a loader. An empty path searches ./pilot.yaml.
func NewLoader(path string) *Loader {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("pilot")
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v, path: path}
}

// Load loads the configuration using a fresh Loader.
func Load(path string) (*Config, error) {
	return NewLoader(path).Load()
}

// Load reads, interpolates, resolves and validates the configuration.
// A missing file is not an error unless it was requested explicitly.
func (l *Loader) Load() (*Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if l.path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	resolve(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ConfigFileUsed returns the file the loader read, or "" when running on defaults.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// Watch reloads the configuration whenever the backing file changes and
// passes the result to fn. Invalid edits are reported through onErr and
// otherwise ignored. Watch is a no-op without a config file.
func (l *Loader) Watch(fn func(*Config), onErr func(error)) {
	if l.v.ConfigFileUsed() == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		var cfg Config
		if err := l.v.Unmarshal(&cfg); err != nil {
			onErr(fmt.Errorf("failed to parse config %s: %w", e.Name, err))
			return
		}
		resolve(&cfg)
		if err := Validate(&cfg); err != nil {
			onErr(err)
			return
		}
		fn(&cfg)
	})
	l.v.WatchConfig()
}

// Defaults returns the built-in configuration, ignoring files and the environment.
func Defaults() *Config {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return &Config{}
	}
	cfg.Provider.Model = defaultModels[cfg.Provider.Name]
	return &cfg
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// WriteFile writes cfg as YAML to path, refusing to overwrite an existing file.
func WriteFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	out, err := Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, out, 0644)
}

// resolve applies env interpolation and derived defaults.
func resolve(cfg *Config) {
	cfg.Provider.Name = strings.ToLower(strings.TrimSpace(cfg.Provider.Name))
	cfg.Provider.APIKey = strings.TrimSpace(interpolateEnv(cfg.Provider.APIKey))
	cfg.Provider.BaseURL = interpolateEnv(cfg.Provider.BaseURL)
	cfg.Agent.Instructions = interpolateEnv(cfg.Agent.Instructions)
	for i := range cfg.Hooks {
		cfg.Hooks[i].Type = strings.ToLower(strings.TrimSpace(cfg.Hooks[i].Type))
		cfg.Hooks[i].URL = interpolateEnv(cfg.Hooks[i].URL)
	}

	if cfg.Provider.APIKey == "" {
		if env, ok := apiKeyEnv[cfg.Provider.Name]; ok {
			cfg.Provider.APIKey = strings.TrimSpace(os.Getenv(env))
		}
	}
	if cfg.Provider.Model == "" {
		cfg.Provider.Model = defaultModels[cfg.Provider.Name]
	}
}

// APIKeyEnv returns the provider-native environment variable for name, if any.
func APIKeyEnv(name string) string {
	return apiKeyEnv[name]
}

var (
	envPattern = regexp.MustCompile(`\$\{env\.([^}]+)\}`)
	varPattern = regexp.MustCompile(`\$\{([^}]+)\}`)
)

// interpolateEnv replaces ${env.VAR} and ${VAR} with environment values.
// Unset variables expand to the empty string.
func interpolateEnv(content string) string {
	content = envPattern.ReplaceAllStringFunc(content, func(match string) string {
		return os.Getenv(envPattern.FindStringSubmatch(match)[1])
	})
	return varPattern.ReplaceAllStringFunc(content, func(match string) string {
		return os.Getenv(varPattern.FindStringSubmatch(match)[1])
	})
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
