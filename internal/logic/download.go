package logic

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/idelchi/govault/internal/fileutil"
	"github.com/idelchi/govault/internal/vault"
)

// Download restores the file of record id. The content is written to the configured
// output path, to standard output for "-", or to the original file name in the
// working directory when no output is set. An existing file is only replaced
// when Force is set.
func (v *Vault) Download(ctx context.Context, id string) error {
	rec, err := v.records.Get(ctx, id)
	if err != nil {
		return err
	}

	content, err := v.fetch(rec)
	if err != nil {
		return err
	}

	plain, err := v.service.DecryptOnDownload(content, rec.WrappedKey, v.cfg.Passphrase, rec.Passphrase)

	switch {
	case errors.Is(err, vault.ErrNotEncrypted):
		v.log.WithField("id", rec.ID).Debug("record stored unencrypted")

		plain = content
	case err != nil:
		return fmt.Errorf("decrypting %s: %w", rec.ID, err)
	}

	outPath := v.cfg.Output
	if outPath == "" {
		outPath = rec.Name
	}

	if outPath == "-" {
		if _, err := v.out.Write(plain); err != nil {
			return fmt.Errorf("writing content: %w", err)
		}

		return nil
	}

	if !v.cfg.Force {
		if _, err := os.Lstat(outPath); err == nil {
			return fmt.Errorf("%w: %q (use --force to overwrite)", ErrOutputExists, outPath)
		}
	}

	const ownerReadWrite = 0o600

	if err := fileutil.WriteAtomic(outPath, plain, ownerReadWrite); err != nil {
		return fmt.Errorf("writing %q: %w", outPath, err)
	}

	if !v.cfg.Quiet {
		fmt.Fprintf(v.out, "Downloaded %s -> %q\n", rec.ID, outPath)
	}

	return nil
}
