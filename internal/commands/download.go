package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/idelchi/govault/internal/config"
	"github.com/idelchi/govault/internal/logic"
)

// NewDownloadCommand creates a new cobra command for the download subcommand.
func NewDownloadCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "download [flags] id",
		Aliases: []string{"down"},
		Short:   "Restore a stored file",
		Args:    cobra.ExactArgs(1),
		PreRunE: preRun(cfg),
		RunE: run(cfg, func(ctx context.Context, vlt *logic.Vault) error {
			return vlt.Download(ctx, cfg.Args[0])
		}),
	}

	cmd.Flags().StringP("output", "o", "", `Output path, "-" for stdout; defaults to the stored file name`)
	cmd.Flags().BoolP("force", "f", false, "Overwrite an existing output file")

	return cmd
}
