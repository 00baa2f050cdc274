package encryption_test

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/idelchi/govault/internal/encryption"
)

//nolint:gochecknoglobals
var modes = []encryption.CipherMode{encryption.ModeFernet, encryption.ModeGCM}

func randomBytes(t *testing.T, n int) []byte {
	t.Helper()

	b := make([]byte, n)
	_, err := rand.Read(b)
	require.NoError(t, err)

	return b
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			t.Parallel()

			c := encryption.Cipher{Mode: mode}

			for _, size := range []int{0, 1, 15, 16, 17, 1024, 64*1024 + 3} {
				key, err := c.NewKey()
				require.NoError(t, err)

				plain := randomBytes(t, size)

				sealed, err := c.Encrypt(plain, key)
				require.NoError(t, err)
				require.NotEqual(t, plain, sealed)

				opened, err := c.Decrypt(sealed, key)
				require.NoError(t, err)
				require.True(t, bytes.Equal(plain, opened), "size %d", size)

				// The package-level Decrypt detects the suite.
				opened, err = encryption.Decrypt(sealed, key)
				require.NoError(t, err)
				require.True(t, bytes.Equal(plain, opened))
			}
		})
	}
}

func TestEncryptIsFresh(t *testing.T) {
	t.Parallel()

	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			t.Parallel()

			c := encryption.Cipher{Mode: mode}
			key, err := c.NewKey()
			require.NoError(t, err)

			first, err := c.Encrypt([]byte("hello world"), key)
			require.NoError(t, err)

			second, err := c.Encrypt([]byte("hello world"), key)
			require.NoError(t, err)

			require.NotEqual(t, first, second)
		})
	}
}

func TestWrongKey(t *testing.T) {
	t.Parallel()

	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			t.Parallel()

			c := encryption.Cipher{Mode: mode}

			key, err := c.NewKey()
			require.NoError(t, err)

			other, err := c.NewKey()
			require.NoError(t, err)

			sealed, err := c.Encrypt([]byte("secret"), key)
			require.NoError(t, err)

			plain, err := c.Decrypt(sealed, other)
			require.ErrorIs(t, err, encryption.ErrTamperedData)
			require.Nil(t, plain)
		})
	}
}

func TestBitFlipsAreDetected(t *testing.T) {
	t.Parallel()

	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			t.Parallel()

			c := encryption.Cipher{Mode: mode}

			key, err := c.NewKey()
			require.NoError(t, err)

			sealed, err := c.Encrypt([]byte("hello world"), key)
			require.NoError(t, err)

			for i := range sealed {
				for bit := range 8 {
					tampered := bytes.Clone(sealed)
					tampered[i] ^= 1 << bit

					plain, err := c.Decrypt(tampered, key)
					require.ErrorIs(t, err, encryption.ErrTamperedData, "byte %d bit %d", i, bit)
					require.Nil(t, plain)
				}
			}
		})
	}
}

func TestTruncationIsDetected(t *testing.T) {
	t.Parallel()

	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			t.Parallel()

			c := encryption.Cipher{Mode: mode}

			key, err := c.NewKey()
			require.NoError(t, err)

			sealed, err := c.Encrypt([]byte("hello world"), key)
			require.NoError(t, err)

			for n := range len(sealed) {
				_, err := c.Decrypt(sealed[:n], key)
				require.ErrorIs(t, err, encryption.ErrTamperedData, "truncated to %d", n)
			}
		})
	}
}

func TestInvalidKeySize(t *testing.T) {
	t.Parallel()

	_, err := encryption.Encrypt([]byte("x"), []byte("short"))
	require.ErrorIs(t, err, encryption.ErrInvalidKeySize)

	_, err = encryption.Decrypt([]byte("x"), []byte("short"))
	require.ErrorIs(t, err, encryption.ErrInvalidKeySize)
}

func TestNewContentKey(t *testing.T) {
	t.Parallel()

	first, err := encryption.NewContentKey()
	require.NoError(t, err)
	require.Len(t, first, encryption.ContentKeySize)

	second, err := encryption.NewContentKey()
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	for _, mode := range modes {
		parsed, err := encryption.ParseMode(mode.String())
		require.NoError(t, err)
		require.Equal(t, mode, parsed)
	}

	_, err := encryption.ParseMode("rot13")
	require.Error(t, err)
}
