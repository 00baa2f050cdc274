package commands

import (
	"context"
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/idelchi/gogen/pkg/cobraext"
	"github.com/idelchi/govault/internal/config"
	"github.com/idelchi/govault/internal/logic"
)

// NewRootCommand creates the root command with common configuration.
// It sets up environment variable binding (GOVAULT_ prefix) and flag handling.
func NewRootCommand(cfg *config.Config, version string) *cobra.Command {
	root := cobraext.NewDefaultRootCommand(version)

	root.Use = "govault [flags] command [flags]"
	root.Short = "Encrypted file vault"
	root.Long = `A file vault that encrypts uploads with a per-file content key wrapped
by a passphrase, and keeps a digest of every stored file for verification.`

	flags := root.PersistentFlags()

	flags.String("db", "vault.db", "Path to the record database")
	flags.String("blob-backend", "fs", "Blob store backend (fs or badger)")
	flags.String("blob-dir", "vault-blobs", "Directory of the blob store")
	flags.String("cipher", "fernet", "Content cipher for new uploads (fernet or gcm)")
	flags.StringP("passphrase", "p", "", "Passphrase protecting the content keys")

	flags.BoolP("show", "s", false, "Show the configuration and exit")
	flags.IntP("parallel", "j", runtime.NumCPU(), "Number of parallel workers, defaults to number of CPUs")
	flags.BoolP("quiet", "q", false, "Suppress non-error output")
	flags.Bool("stats", false, "Print statistics after uploading")
	flags.String("log-level", "warn", "Log level (trace, debug, info, warn, error)")
	flags.String("log-format", "text", "Log format (text or json)")

	root.AddCommand(
		NewUploadCommand(cfg),
		NewDownloadCommand(cfg),
		NewVerifyCommand(cfg),
		NewListCommand(cfg),
		NewDeleteCommand(cfg),
	)

	return root
}

// preRun returns a PreRunE handler that stores positional args in cfg.Args
// and validates the configuration.
func preRun(cfg *config.Config) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, args []string) error {
		cfg.Args = args

		return cobraext.Validate(cfg, cfg)
	}
}

// action is the work of a subcommand once the vault is open.
type action func(ctx context.Context, vlt *logic.Vault) error

// run opens the vault described by cfg and runs fn.
func run(cfg *config.Config, fn action) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		logger, err := newLogger(cfg, cmd)
		if err != nil {
			return err
		}

		vlt, err := logic.Open(cmd.Context(), cfg,
			logic.WithLogger(logger),
			logic.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()),
		)
		if err != nil {
			return err
		}

		defer func() {
			if err := vlt.Close(); err != nil {
				logger.WithError(err).Warn("closing vault")
			}
		}()

		return fn(cmd.Context(), vlt)
	}
}

// newLogger builds a logger writing to the command's error stream.
func newLogger(cfg *config.Config, cmd *cobra.Command) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetLevel(level)

	if cfg.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return logger, nil
}
