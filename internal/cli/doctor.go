package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/cadre-oss/pilot/internal/agent"
	"github.com/cadre-oss/pilot/internal/config"
	"github.com/cadre-oss/pilot/internal/event"
	"github.com/cadre-oss/pilot/internal/telemetry"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check environment and configuration",
	Long:  "Validate that configuration, credentials and the frontend directory are properly set up.",
	RunE:  runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "pilot doctor: checking your environment")
	fmt.Fprintln(w)
	allOK := true

	// 1. Go version
	fmt.Fprintf(w, "  Go version: %s ✓\n", runtime.Version())

	// 2. Configuration
	loader := config.NewLoader(cfgFile)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(w, "  Config:     INVALID ✗\n    → %v\n", err)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Some checks failed. See above for details.")
		return nil
	}
	source := loader.ConfigFileUsed()
	if source == "" {
		source = "defaults"
	}
	fmt.Fprintf(w, "  Config:     %s ✓\n", source)

	// 3. Provider and credential
	p, err := agent.NewProvider(cfg.Provider)
	switch {
	case err != nil:
		fmt.Fprintf(w, "  Provider:   %s ✗\n    → %v\n", cfg.Provider.Name, err)
		allOK = false
	case p == nil:
		fmt.Fprintf(w, "  API key:    NOT SET ✗\n    → Set %s, or use \"dev\" for simulated replies\n", config.APIKeyEnv(cfg.Provider.Name))
		allOK = false
	case p.Name() == "simulated":
		fmt.Fprintln(w, "  Provider:   simulated (no network calls) ✓")
	default:
		key := cfg.Provider.APIKey
		fmt.Fprintf(w, "  Provider:   %s / %s ✓\n", p.Name(), cfg.Provider.Model)
		fmt.Fprintf(w, "  API key:    set (***%s) ✓\n", key[max(0, len(key)-4):])
	}

	// 4. Frontend
	index := filepath.Join(cfg.Server.FrontendDir, "index.html")
	if _, err := os.Stat(index); err == nil {
		fmt.Fprintf(w, "  Frontend:   %s ✓\n", index)
	} else {
		fmt.Fprintf(w, "  Frontend:   %s NOT FOUND ✗\n", index)
		allOK = false
	}

	// 5. Hooks
	if len(cfg.Hooks) > 0 {
		if hooks, err := event.BuildHooks(cfg.Hooks, telemetry.NewDiscardLogger()); err != nil {
			fmt.Fprintf(w, "  Hooks:      ✗\n    → %v\n", err)
			allOK = false
		} else {
			fmt.Fprintf(w, "  Hooks:      %d configured ✓\n", len(hooks))
		}
	}

	fmt.Fprintln(w)
	if allOK {
		fmt.Fprintln(w, "All checks passed!")
	} else {
		fmt.Fprintln(w, "Some checks failed. See above for details.")
	}
	return nil
}
