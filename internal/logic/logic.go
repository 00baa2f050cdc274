// Package logic implements the govault commands on top of the record store,
// the blob store and the encryption service.
package logic

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ipfs/go-cid"
	"github.com/sirupsen/logrus"

	"github.com/idelchi/govault/internal/blob"
	"github.com/idelchi/govault/internal/config"
	"github.com/idelchi/govault/internal/digest"
	"github.com/idelchi/govault/internal/encryption"
	"github.com/idelchi/govault/internal/store"
	"github.com/idelchi/govault/internal/vault"
)

// Vault ties the stores and the encryption service together for one command run.
type Vault struct {
	cfg     *config.Config
	service *vault.Service
	records *store.Store
	blobs   blob.Store
	log     *logrus.Logger
	out     io.Writer
	errOut  io.Writer

	// refs guards blob writes against reference-count based removal.
	refs sync.Mutex
}

// Option configures a Vault.
type Option func(*options)

type options struct {
	log         *logrus.Logger
	out, errOut io.Writer
	service     []vault.Option
}

// WithLogger sets the logger shared by the vault, its service and the blob store.
func WithLogger(log *logrus.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithOutput redirects progress output and error reports.
func WithOutput(out, errOut io.Writer) Option {
	return func(o *options) {
		o.out = out
		o.errOut = errOut
	}
}

// WithServiceOptions passes additional options to the encryption service.
func WithServiceOptions(opts ...vault.Option) Option {
	return func(o *options) { o.service = append(o.service, opts...) }
}

// Open opens the record and blob stores named by cfg.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*Vault, error) {
	o := options{
		log:    logrus.New(),
		out:    os.Stdout,
		errOut: os.Stderr,
	}

	for _, opt := range opts {
		opt(&o)
	}

	mode, err := cfg.Mode()
	if err != nil {
		return nil, fmt.Errorf("selecting cipher: %w", err)
	}

	records, err := store.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("opening record store: %w", err)
	}

	blobs, err := blob.Open(cfg.BlobBackend, cfg.BlobDir, o.log)
	if err != nil {
		records.Close()

		return nil, fmt.Errorf("opening blob store: %w", err)
	}

	serviceOpts := append([]vault.Option{
		vault.WithCipher(encryption.Cipher{Mode: mode}),
		vault.WithLogger(o.log),
	}, o.service...)

	return &Vault{
		cfg:     cfg,
		service: vault.New(serviceOpts...),
		records: records,
		blobs:   blobs,
		log:     o.log,
		out:     o.out,
		errOut:  o.errOut,
	}, nil
}

// Close closes both stores.
func (v *Vault) Close() error {
	return errors.Join(v.blobs.Close(), v.records.Close())
}

// fetch returns the stored bytes of rec after checking them against the recorded digest.
func (v *Vault) fetch(rec store.Record) ([]byte, error) {
	id, err := cid.Decode(rec.BlobID)
	if err != nil {
		return nil, fmt.Errorf("parsing blob id of %s: %w", rec.ID, err)
	}

	content, err := v.blobs.Get(id)
	if err != nil {
		return nil, fmt.Errorf("reading blob of %s: %w", rec.ID, err)
	}

	if !digest.Verify(content, rec.ContentDigest) {
		return nil, fmt.Errorf("%w: record %s", ErrDigestMismatch, rec.ID)
	}

	return content, nil
}

// releaseBlob removes the blob once no record references it. Callers hold refs.
func (v *Vault) releaseBlob(ctx context.Context, blobID string) error {
	count, err := v.records.CountBlobRefs(ctx, blobID)
	if err != nil {
		return err
	}

	if count > 0 {
		v.log.WithFields(logrus.Fields{"blob": blobID, "refs": count}).Debug("blob still referenced")

		return nil
	}

	id, err := cid.Decode(blobID)
	if err != nil {
		return fmt.Errorf("parsing blob id: %w", err)
	}

	if err := v.blobs.Delete(id); err != nil && !errors.Is(err, blob.ErrNotFound) {
		return fmt.Errorf("removing blob: %w", err)
	}

	v.log.WithField("blob", blobID).Debug("blob removed")

	return nil
}
