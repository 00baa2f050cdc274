package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/idelchi/govault/internal/config"
	"github.com/idelchi/govault/internal/logic"
)

// NewListCommand creates a new cobra command for the list subcommand.
func NewListCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "list [flags]",
		Aliases: []string{"ls"},
		Short:   "List stored files",
		Args:    cobra.NoArgs,
		PreRunE: preRun(cfg),
		RunE: run(cfg, func(ctx context.Context, vlt *logic.Vault) error {
			return vlt.List(ctx)
		}),
	}
}
