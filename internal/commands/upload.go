package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/idelchi/govault/internal/config"
	"github.com/idelchi/govault/internal/logic"
)

// NewUploadCommand creates a new cobra command for the upload subcommand.
func NewUploadCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "upload [flags] files...",
		Aliases: []string{"up"},
		Short:   "Store files, encrypted when a passphrase is given",
		Args:    cobra.MinimumNArgs(1),
		PreRunE: preRun(cfg),
		RunE: run(cfg, func(ctx context.Context, vlt *logic.Vault) error {
			_, err := vlt.Upload(ctx)

			return err
		}),
	}
}
