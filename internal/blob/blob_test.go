package blob_test

import (
	"fmt"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/govault/internal/blob"
	"github.com/idelchi/govault/internal/digest"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return logger
}

func openStores(t *testing.T) map[string]blob.Store {
	t.Helper()

	stores := map[string]blob.Store{}

	for _, backend := range []string{blob.BackendFS, blob.BackendBadger} {
		store, err := blob.Open(backend, t.TempDir(), quietLogger())
		require.NoError(t, err)

		t.Cleanup(func() { require.NoError(t, store.Close()) })

		stores[backend] = store
	}

	return stores
}

func TestPutGet(t *testing.T) {
	t.Parallel()

	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			data := []byte("ciphertext bytes")

			id, err := store.Put(data)
			require.NoError(t, err)
			require.True(t, store.Has(id))

			want, err := digest.CID(data)
			require.NoError(t, err)
			require.True(t, want.Equals(id))

			got, err := store.Get(id)
			require.NoError(t, err)
			require.Equal(t, data, got)

			again, err := store.Put(data)
			require.NoError(t, err)
			require.True(t, again.Equals(id))
		})
	}
}

func TestEmptyBlob(t *testing.T) {
	t.Parallel()

	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			id, err := store.Put([]byte{})
			require.NoError(t, err)

			got, err := store.Get(id)
			require.NoError(t, err)
			require.Empty(t, got)
		})
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()

	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			id, err := store.Put([]byte("to be removed"))
			require.NoError(t, err)

			require.NoError(t, store.Delete(id))
			require.False(t, store.Has(id))

			_, err = store.Get(id)
			require.ErrorIs(t, err, blob.ErrNotFound)

			require.ErrorIs(t, store.Delete(id), blob.ErrNotFound)
		})
	}
}

func TestUndefinedCID(t *testing.T) {
	t.Parallel()

	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := store.Get(cid.Undef)
			require.ErrorIs(t, err, blob.ErrInvalidCID)
			require.False(t, store.Has(cid.Undef))
			require.ErrorIs(t, store.Delete(cid.Undef), blob.ErrInvalidCID)
		})
	}
}

func TestConcurrentPut(t *testing.T) {
	t.Parallel()

	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			data := []byte("shared content")

			const writers = 8

			var wg sync.WaitGroup

			errs := make(chan error, writers)

			for range writers {
				wg.Add(1)

				go func() {
					defer wg.Done()

					_, err := store.Put(data)
					errs <- err
				}()
			}

			wg.Wait()
			close(errs)

			for err := range errs {
				require.NoError(t, err)
			}

			id, err := digest.CID(data)
			require.NoError(t, err)

			got, err := store.Get(id)
			require.NoError(t, err)
			require.Equal(t, data, got)
		})
	}
}

func TestFSDetectsCorruption(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	store, err := blob.NewFS(root)
	require.NoError(t, err)

	id, err := store.Put([]byte("original"))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(store.Path(id), []byte("replaced"), 0o600))

	_, err = store.Get(id)
	require.ErrorIs(t, err, blob.ErrCIDMismatch)
}

func TestOpenUnknownBackend(t *testing.T) {
	t.Parallel()

	_, err := blob.Open("s3", t.TempDir(), quietLogger())
	require.ErrorIs(t, err, blob.ErrUnknownBackend)
}

func TestFSSpreadsShards(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	store, err := blob.NewFS(root)
	require.NoError(t, err)

	for i := range 50 {
		id, err := store.Put([]byte(fmt.Sprintf("blob %d", i)))
		require.NoError(t, err)
		require.FileExists(t, store.Path(id))
	}

	shards, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Greater(t, len(shards), 1, "blobs must spread over several shard directories")
}
