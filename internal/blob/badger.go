package blob

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/ipfs/go-cid"
	"github.com/sirupsen/logrus"

	"github.com/idelchi/govault/internal/digest"
)

const maxConflictRetries = 5

// Badger is a blob store backed by a badger database. Keys are the binary CID.
type Badger struct {
	db *badger.DB
}

// NewBadger opens or creates a badger database in dir. Badger's own log output is
// routed through logger at the logger's level.
func NewBadger(dir string, logger *logrus.Logger) (*Badger, error) {
	if dir == "" {
		return nil, errors.New("blob: badger directory is required")
	}

	if logger == nil {
		logger = logrus.New()
	}

	opts := badger.DefaultOptions(dir).
		WithLogger(logger.WithField("component", "badger")).
		WithValueLogFileSize(100 << 20) //nolint:mnd

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening badger store: %w", err)
	}

	return &Badger{db: db}, nil
}

// Put implements Store.
func (s *Badger) Put(data []byte) (cid.Cid, error) {
	id, err := digest.CID(data)
	if err != nil {
		return cid.Undef, err
	}

	put := func(txn *badger.Txn) error {
		if _, err := txn.Get(id.Bytes()); err == nil {
			return nil
		}

		return txn.Set(id.Bytes(), data)
	}

	// Concurrent writers of the same CID conflict; the retry then finds the key present.
	for range maxConflictRetries {
		if err = s.db.Update(put); !errors.Is(err, badger.ErrConflict) {
			break
		}
	}

	if err != nil {
		return cid.Undef, fmt.Errorf("writing blob %s: %w", id, err)
	}

	return id, nil
}

// Get implements Store.
func (s *Badger) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, ErrInvalidCID
	}

	var data []byte

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(id.Bytes())
		if err != nil {
			return err
		}

		data, err = item.ValueCopy(nil)

		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}

		return nil, fmt.Errorf("reading blob %s: %w", id, err)
	}

	return checked(id, data)
}

// Has implements Store.
func (s *Badger) Has(id cid.Cid) bool {
	if !id.Defined() {
		return false
	}

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(id.Bytes())

		return err
	})

	return err == nil
}

// Delete implements Store.
func (s *Badger) Delete(id cid.Cid) error {
	if !id.Defined() {
		return ErrInvalidCID
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(id.Bytes()); err != nil {
			return err
		}

		return txn.Delete(id.Bytes())
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}

		return fmt.Errorf("removing blob %s: %w", id, err)
	}

	return nil
}

// Close implements Store.
func (s *Badger) Close() error {
	return s.db.Close()
}
