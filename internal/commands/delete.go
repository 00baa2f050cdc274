package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/idelchi/govault/internal/config"
	"github.com/idelchi/govault/internal/logic"
)

// NewDeleteCommand creates a new cobra command for the delete subcommand.
func NewDeleteCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "delete [flags] ids...",
		Aliases: []string{"rm"},
		Short:   "Delete stored files",
		Args:    cobra.MinimumNArgs(1),
		PreRunE: preRun(cfg),
		RunE: run(cfg, func(ctx context.Context, vlt *logic.Vault) error {
			return vlt.Delete(ctx, cfg.Args)
		}),
	}
}
