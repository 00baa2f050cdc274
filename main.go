// Command govault stores files encrypted under a passphrase and restores them.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/idelchi/gogen/pkg/cobraext"
	"github.com/idelchi/govault/internal/commands"
	"github.com/idelchi/govault/internal/config"
)

// Global variable for CI stamping.
var version = "unknown - unofficial & generated by unknown"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := &config.Config{}

	if err := commands.NewRootCommand(cfg, version).ExecuteContext(ctx); err != nil {
		if errors.Is(err, cobraext.ErrExitGracefully) {
			return 0
		}

		fmt.Fprintln(os.Stderr, err)

		return 1
	}

	return 0
}
