package main

import (
	"fmt"
	"os"

	"github.com/cadre-oss/pilot/internal/cli"
	pilotErrors "github.com/cadre-oss/pilot/internal/errors"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if s := pilotErrors.Suggestion(err); s != "" {
			fmt.Fprintln(os.Stderr, "Hint:", s)
		}
		os.Exit(1)
	}
}
