package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/idelchi/govault/internal/config"
	"github.com/idelchi/govault/internal/logic"
)

// NewVerifyCommand creates a new cobra command for the verify subcommand.
func NewVerifyCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "verify [flags] [ids...]",
		Short:   "Check stored content against its recorded digest",
		Args:    cobra.ArbitraryArgs,
		PreRunE: preRun(cfg),
		RunE: run(cfg, func(ctx context.Context, vlt *logic.Vault) error {
			return vlt.Verify(ctx, cfg.Args)
		}),
	}
}
