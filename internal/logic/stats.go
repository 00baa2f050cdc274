package logic

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/govault/internal/vault"
)

type stats struct {
	encrypted, plaintext, fallback, errored int
	totalSize                               int64
}

func (s *stats) add(res Result) {
	switch res.Outcome {
	case vault.OutcomeEncrypted:
		s.encrypted++
	case vault.OutcomePlaintextFallback:
		s.fallback++
	default:
		s.plaintext++
	}

	s.totalSize += res.Size
}

func (s *stats) print(w io.Writer, duration time.Duration) {
	fmt.Fprintf(w, "\nStats\n")
	fmt.Fprintf(w, "  Encrypted: %d\n", s.encrypted)
	fmt.Fprintf(w, "  Plaintext: %d\n", s.plaintext)
	fmt.Fprintf(w, "  Fallback:  %d\n", s.fallback)
	fmt.Fprintf(w, "  Errors:    %d\n", s.errored)
	//nolint:gosec // totalSize is always non-negative (sum of file sizes)
	fmt.Fprintf(w, "  Size:      %s\n", humanize.IBytes(uint64(max(0, s.totalSize))))
	fmt.Fprintf(w, "  Duration:  %s\n", duration.Round(time.Millisecond))
}
