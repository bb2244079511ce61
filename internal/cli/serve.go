package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cadre-oss/pilot/internal/config"
	"github.com/cadre-oss/pilot/internal/server"
)

var (
	servePort int
	serveHost string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the chat server",
	Long: `Start the HTTP server: POST /chat, GET /history, GET /health, GET /metrics,
and the web frontend at /.

Changes to logging.level in the config file apply without a restart.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "port to listen on (overrides server.port)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "host to bind to (overrides server.host)")
}

func runServe(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}
	defer env.close()

	if servePort != 0 {
		env.cfg.Server.Port = servePort
	}
	if serveHost != "" {
		env.cfg.Server.Host = serveHost
	}

	env.loader.Watch(func(next *config.Config) {
		env.logger.SetLevel(next.Logging.Level)
		env.logger.Info("Config reloaded", "logging.level", next.Logging.Level)
	}, func(err error) {
		env.logger.Warn("Ignoring invalid config change", "error", err)
	})

	srv := server.New(env.cfg.Server, env.runtime, env.metrics, env.logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return srv.Start(ctx)
}
