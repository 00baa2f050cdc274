package logic

import (
	"context"
	"fmt"

	"github.com/idelchi/govault/internal/store"
)

// Verify recomputes the digest of the stored bytes of each record in ids, or of
// every record when ids is empty, and compares it with the recorded one.
func (v *Vault) Verify(ctx context.Context, ids []string) error {
	records, err := v.selectRecords(ctx, ids)
	if err != nil {
		return err
	}

	var failed int

	for _, rec := range records {
		if _, err := v.fetch(rec); err != nil {
			failed++

			fmt.Fprintf(v.errOut, "FAILED %s: %v\n", rec.ID, err)

			continue
		}

		if !v.cfg.Quiet {
			fmt.Fprintf(v.out, "OK     %s %s\n", rec.ID, rec.ContentDigest)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d records", ErrVerificationFailed, failed, len(records))
	}

	return nil
}

func (v *Vault) selectRecords(ctx context.Context, ids []string) ([]store.Record, error) {
	if len(ids) == 0 {
		return v.records.List(ctx)
	}

	records := make([]store.Record, 0, len(ids))

	for _, id := range ids {
		rec, err := v.records.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		records = append(records, rec)
	}

	return records, nil
}
