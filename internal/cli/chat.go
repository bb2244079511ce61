package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cadre-oss/pilot/internal/agent"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the agent in the terminal",
	Long: `Start an interactive session against the same agent the server runs,
without HTTP. Exit with Ctrl-D or Ctrl-C.

Example:
  PILOT_PROVIDER_API_KEY=dev pilot chat`,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}
	defer env.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return chatLoop(ctx, env.runtime, os.Stdin, os.Stdout)
}

// chatLoop reads one message per line from in and writes each reply to out
// until EOF or ctx is cancelled. Blank lines are skipped.
func chatLoop(ctx context.Context, rt *agent.Runtime, in io.Reader, out io.Writer) error {
	name := rt.Agent().Name()
	fmt.Fprintf(out, "Chatting with %s (provider: %s). Ctrl-D to quit.\n", name, rt.ProviderName())

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		scanErr <- scanner.Err()
		close(lines)
	}()

	for {
		fmt.Fprint(out, "You: ")
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				return <-scanErr
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			reply := rt.Respond(ctx, line)
			fmt.Fprintf(out, "%s: %s\n", name, reply)
		}
	}
}
