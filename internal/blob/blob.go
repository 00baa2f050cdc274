// Package blob stores content blobs keyed by their CID.
//
// Two backends are provided: a directory of files sharded by CID suffix, and a
// badger key-value database. Both verify the CID of every blob they return.
package blob

import (
	"errors"
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/sirupsen/logrus"

	"github.com/idelchi/govault/internal/digest"
)

var (
	// ErrNotFound is returned when no blob exists for a CID.
	ErrNotFound = errors.New("blob not found")
	// ErrCIDMismatch is returned when stored bytes no longer hash to their CID.
	ErrCIDMismatch = errors.New("blob content does not match its CID")
	// ErrInvalidCID is returned for an undefined CID.
	ErrInvalidCID = errors.New("invalid CID")
	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown blob backend")
)

// Backend names accepted by Open.
const (
	BackendFS     = "fs"
	BackendBadger = "badger"
)

// Store is a content-addressed blob store. Implementations are safe for
// concurrent use.
type Store interface {
	// Put stores data and returns its CID. Storing the same bytes twice is a no-op.
	Put(data []byte) (cid.Cid, error)
	// Get returns the bytes stored under id.
	Get(id cid.Cid) ([]byte, error)
	// Has reports whether a blob is stored under id.
	Has(id cid.Cid) bool
	// Delete removes the blob stored under id.
	Delete(id cid.Cid) error
	// Close releases resources held by the store.
	Close() error
}

// Open opens the store named by backend rooted at dir.
func Open(backend, dir string, logger *logrus.Logger) (Store, error) {
	switch backend {
	case BackendFS, "":
		return NewFS(dir)
	case BackendBadger:
		return NewBadger(dir, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// checked returns data if it hashes to id.
func checked(id cid.Cid, data []byte) ([]byte, error) {
	got, err := digest.CID(data)
	if err != nil {
		return nil, err
	}

	if !got.Equals(id) {
		return nil, fmt.Errorf("%w: %s", ErrCIDMismatch, id)
	}

	return data, nil
}
