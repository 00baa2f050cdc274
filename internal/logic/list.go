package logic

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
)

const shortDigest = 12

// List prints one line per stored record.
func (v *Vault) List(ctx context.Context) error {
	records, err := v.records.List(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(v.out, 0, 0, 2, ' ', 0) //nolint:mnd

	fmt.Fprintln(w, "ID\tNAME\tSIZE\tENCRYPTED\tDIGEST\tUPLOADED")

	for _, rec := range records {
		encrypted := "no"
		if rec.Encrypted() {
			encrypted = "yes"
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			rec.ID,
			rec.Name,
			//nolint:gosec // sizes are never negative
			humanize.IBytes(uint64(max(0, rec.Size))),
			encrypted,
			truncate(rec.ContentDigest, shortDigest),
			humanize.Time(rec.UploadedAt),
		)
	}

	return w.Flush()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n]
}
