package logic

import (
	"context"
	"fmt"

	"github.com/idelchi/govault/internal/store"
)

// Delete removes the records in ids. A blob is removed together with the last
// record referencing it.
func (v *Vault) Delete(ctx context.Context, ids []string) error {
	for _, id := range ids {
		rec, err := v.records.Get(ctx, id)
		if err != nil {
			return err
		}

		if err := v.remove(ctx, rec); err != nil {
			return err
		}

		if !v.cfg.Quiet {
			fmt.Fprintf(v.out, "Deleted %s\n", id)
		}
	}

	return nil
}

func (v *Vault) remove(ctx context.Context, rec store.Record) error {
	v.refs.Lock()
	defer v.refs.Unlock()

	if err := v.records.Delete(ctx, rec.ID); err != nil {
		return err
	}

	if err := v.releaseBlob(ctx, rec.BlobID); err != nil {
		return fmt.Errorf("releasing blob of %s: %w", rec.ID, err)
	}

	return nil
}
