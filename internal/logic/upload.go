package logic

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/idelchi/govault/internal/digest"
	"github.com/idelchi/govault/internal/store"
	"github.com/idelchi/govault/internal/vault"
)

// Upload stores every file named in the configuration, encrypting it when a
// passphrase is set. Files are processed in parallel; a failing file does not
// stop the others.
//
//nolint:cyclop,gocognit // parallel processing pipeline with printer goroutine
func (v *Vault) Upload(ctx context.Context) ([]Result, error) {
	start := time.Now()

	verifier, err := v.verifier()
	if err != nil {
		return nil, err
	}

	results := make(chan Result, len(v.cfg.Args))

	group := errgroup.Group{}
	group.SetLimit(v.cfg.Parallel)

	printed := make(chan struct{})

	var (
		collected []Result
		tally     stats
	)

	go func() {
		defer close(printed)

		for res := range results {
			collected = append(collected, res)

			if res.Error != nil {
				tally.errored++

				fmt.Fprintf(v.errOut, "Error uploading %q: %v\n", res.Input, res.Error)

				continue
			}

			tally.add(res)

			if res.Outcome == vault.OutcomePlaintextFallback {
				fmt.Fprintf(v.errOut, "Stored %q unencrypted: encryption failed\n", res.Input)
			}

			if !v.cfg.Quiet {
				fmt.Fprintf(v.out, "Uploaded %q -> %s (%s)\n", res.Input, res.ID, res.Outcome)
			}
		}
	}()

	for _, file := range v.cfg.Args {
		group.Go(func() error {
			res, err := v.uploadFile(ctx, file, verifier)
			results <- res

			return err
		})
	}

	err = group.Wait()

	close(results)

	<-printed

	if v.cfg.Stats {
		tally.print(v.errOut, time.Since(start))
	}

	if err != nil {
		return collected, fmt.Errorf("uploading files: %w", err)
	}

	return collected, nil
}

// verifier hashes the passphrase once per run so the raw secret is never stored.
func (v *Vault) verifier() (string, error) {
	if v.cfg.Passphrase == "" {
		return "", nil
	}

	stored, err := vault.HashPassphrase(v.cfg.Passphrase)
	if err != nil {
		return "", fmt.Errorf("preparing passphrase verifier: %w", err)
	}

	return stored, nil
}

func (v *Vault) uploadFile(ctx context.Context, path, verifier string) (Result, error) {
	res := Result{Input: path}

	fail := func(err error) (Result, error) {
		res.Error = err

		return res, err
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fail(fmt.Errorf("reading file: %w", err))
	}

	res.Size = int64(len(data))

	upload := v.service.EncryptOnUpload(data, v.cfg.Passphrase)
	res.Outcome = upload.Outcome

	rec := store.Record{
		Name:          filepath.Base(path),
		Size:          res.Size,
		ContentDigest: upload.Digest,
		WrappedKey:    upload.WrappedKey,
	}

	if upload.Outcome != vault.OutcomePlaintext {
		rec.Passphrase = verifier
	}

	if err := v.persist(ctx, upload.Content, &rec); err != nil {
		return fail(err)
	}

	res.ID = rec.ID

	v.log.WithFields(logrus.Fields{
		"id":      rec.ID,
		"name":    rec.Name,
		"outcome": upload.Outcome.String(),
	}).Info("file stored")

	return res, nil
}

// persist stores content and its record under refs. A failed insert only
// releases a blob that this call created.
func (v *Vault) persist(ctx context.Context, content []byte, rec *store.Record) error {
	id, err := digest.CID(content)
	if err != nil {
		return fmt.Errorf("addressing content: %w", err)
	}

	v.refs.Lock()
	defer v.refs.Unlock()

	existed := v.blobs.Has(id)

	stored, err := v.blobs.Put(content)
	if err != nil {
		return fmt.Errorf("storing content: %w", err)
	}

	if got, err := digest.FromCID(stored); err != nil || got != rec.ContentDigest {
		return fmt.Errorf("%w: blob %s", ErrDigestMismatch, stored)
	}

	rec.BlobID = stored.String()

	if err := v.records.Insert(ctx, rec); err != nil {
		if !existed {
			if rerr := v.releaseBlob(ctx, rec.BlobID); rerr != nil {
				v.log.WithError(rerr).WithField("blob", rec.BlobID).Warn("could not remove orphaned blob")
			}
		}

		return fmt.Errorf("recording upload: %w", err)
	}

	return nil
}
