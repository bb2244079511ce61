package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cadre-oss/pilot/internal/agent"
	"github.com/cadre-oss/pilot/internal/config"
	"github.com/cadre-oss/pilot/internal/event"
	"github.com/cadre-oss/pilot/internal/telemetry"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "pilot",
	Short: "Customer support chat agent",
	Long: `pilot - a small customer support chat agent.

Serves a chat endpoint that forwards each message to a completion provider
(OpenAI, Anthropic, or an offline simulator) with a rolling window of the
most recent exchanges as context.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./pilot.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
}

// environment is what every long-running command needs.
type environment struct {
	loader  *config.Loader
	cfg     *config.Config
	logger  *telemetry.Logger
	metrics *telemetry.Metrics
	runtime *agent.Runtime
	bus     *event.Bus
}

// close drains pending hooks before releasing the log file.
func (e *environment) close() {
	e.bus.Wait()
	e.logger.Close()
}

func setup() (*environment, error) {
	loader := config.NewLoader(cfgFile)
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := telemetry.NewLoggerFromConfig(cfg.Logging, verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	if used := loader.ConfigFileUsed(); used != "" {
		logger.Debug("Using config file", "path", used)
	}

	metrics := telemetry.NewMetrics()
	rt, err := agent.NewRuntime(cfg, logger, metrics)
	if err != nil {
		logger.Close()
		return nil, fmt.Errorf("failed to initialize agent: %w", err)
	}

	hooks, err := event.BuildHooks(cfg.Hooks, logger)
	if err != nil {
		logger.Close()
		return nil, fmt.Errorf("failed to initialize hooks: %w", err)
	}
	bus := event.NewBus(logger)
	for _, h := range hooks {
		bus.Register(h)
		logger.Debug("Registered hook", "hook", h.Name(), "blocking", h.IsBlocking())
	}
	rt.SetEventBus(bus)

	return &environment{
		loader:  loader,
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		runtime: rt,
		bus:     bus,
	}, nil
}
