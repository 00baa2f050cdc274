package blob

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ipfs/go-cid"

	"github.com/idelchi/govault/internal/digest"
	"github.com/idelchi/govault/internal/fileutil"
)

// FS is a filesystem-backed blob store.
//
// Blobs live under root in directories named by the last two characters of
// their CID; CIDv1 strings share a common prefix, so the tail spreads them.
// Writes go through a temp file and a rename.
type FS struct {
	root string
}

// NewFS constructs a filesystem store rooted at root, creating it if needed.
func NewFS(root string) (*FS, error) {
	if root == "" {
		return nil, errors.New("blob: root directory is required")
	}

	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, fmt.Errorf("creating blob directory: %w", err)
	}

	return &FS{root: root}, nil
}

// Put implements Store.
func (s *FS) Put(data []byte) (cid.Cid, error) {
	id, err := digest.CID(data)
	if err != nil {
		return cid.Undef, err
	}

	if s.Has(id) {
		return id, nil
	}

	path := s.Path(id)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return cid.Undef, fmt.Errorf("creating shard directory: %w", err)
	}

	if err := fileutil.WriteAtomic(path, data, 0o600); err != nil {
		return cid.Undef, fmt.Errorf("writing blob %s: %w", id, err)
	}

	return id, nil
}

// Get implements Store.
func (s *FS) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, ErrInvalidCID
	}

	data, err := os.ReadFile(s.Path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}

		return nil, fmt.Errorf("reading blob %s: %w", id, err)
	}

	return checked(id, data)
}

// Has implements Store.
func (s *FS) Has(id cid.Cid) bool {
	if !id.Defined() {
		return false
	}

	_, err := os.Stat(s.Path(id))

	return err == nil
}

// Delete implements Store.
func (s *FS) Delete(id cid.Cid) error {
	if !id.Defined() {
		return ErrInvalidCID
	}

	if err := os.Remove(s.Path(id)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}

		return fmt.Errorf("removing blob %s: %w", id, err)
	}

	return nil
}

// Close implements Store.
func (s *FS) Close() error { return nil }

// Path returns the file that holds the blob stored under id.
func (s *FS) Path(id cid.Cid) string {
	const shardLen = 2

	name := id.String()
	if len(name) < shardLen {
		return filepath.Join(s.root, name)
	}

	return filepath.Join(s.root, name[len(name)-shardLen:], name)
}
