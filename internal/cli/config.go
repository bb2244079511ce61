package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cadre-oss/pilot/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for viewing, creating and validating pilot.yaml.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration (API key redacted)",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a starter pilot.yaml with every default spelled out",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	RunE:  runConfigValidate,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	loader := config.NewLoader(cfgFile)
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	redacted := cfg.Redacted()
	out, err := config.Marshal(&redacted)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "Current Configuration:")
	fmt.Fprintln(w, "----------------------")
	fmt.Fprintln(w, string(out))

	if used := loader.ConfigFileUsed(); used != "" {
		fmt.Fprintf(w, "Config file: %s\n", used)
	} else {
		fmt.Fprintln(w, "Config file: none (defaults and environment only)")
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := "pilot.yaml"
	if len(args) == 1 {
		path = args[0]
	}

	if err := config.WriteFile(path, config.Defaults()); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Wrote %s\n", path)
	fmt.Fprintf(w, "Set %s (or provider.api_key) before running 'pilot serve'.\n", config.APIKeyEnv(config.ProviderOpenAI))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	loader := config.NewLoader(cfgFile)
	if _, err := loader.Load(); err != nil {
		return err
	}

	name := loader.ConfigFileUsed()
	if name == "" {
		name = "defaults"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: OK\n", name)
	return nil
}
