package vault_test

import (
	"bytes"
	"encoding/hex"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/govault/internal/digest"
	"github.com/idelchi/govault/internal/encryption"
	"github.com/idelchi/govault/internal/kdf"
	"github.com/idelchi/govault/internal/keywrap"
	"github.com/idelchi/govault/internal/vault"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return logger
}

func newService(opts ...vault.Option) *vault.Service {
	return vault.New(append([]vault.Option{vault.WithLogger(quietLogger())}, opts...)...)
}

// failingCipher fails the step named by failOn.
type failingCipher struct {
	encryption.Cipher
	failOn string
}

func (f failingCipher) NewKey() ([]byte, error) {
	if f.failOn == "key" {
		return nil, errors.New("entropy exhausted")
	}

	return f.Cipher.NewKey()
}

func (f failingCipher) Encrypt(plaintext, key []byte) ([]byte, error) {
	if f.failOn == "encrypt" {
		return nil, errors.New("cipher broken")
	}

	return f.Cipher.Encrypt(plaintext, key)
}

type failingWrapper struct{}

func (failingWrapper) Wrap([]byte, string) (string, error) { return "", errors.New("wrap broken") }

func (failingWrapper) Unwrap(string, string) ([]byte, error) { return nil, errors.New("unwrap broken") }

func TestHelloWorldScenario(t *testing.T) {
	t.Parallel()

	svc := newService()
	plain := []byte("hello world")

	upload := svc.EncryptOnUpload(plain, "correct-horse")
	require.Equal(t, vault.OutcomeEncrypted, upload.Outcome)
	require.True(t, upload.Encrypted())
	require.NotEmpty(t, upload.WrappedKey)
	require.NotEqual(t, plain, upload.Content)
	require.NoError(t, upload.Err)

	require.Equal(t, digest.Sum(upload.Content), upload.Digest)

	got, err := svc.DecryptOnDownload(upload.Content, upload.WrappedKey, "correct-horse", "correct-horse")
	require.NoError(t, err)
	require.Equal(t, plain, got)

	got, err = svc.DecryptOnDownload(upload.Content, upload.WrappedKey, "wrong-pass", "correct-horse")
	require.ErrorIs(t, err, vault.ErrAccessDenied)
	require.Nil(t, got)
}

func TestEmptyPassphraseStoresPlaintext(t *testing.T) {
	t.Parallel()

	svc := newService()
	plain := []byte("public notes")

	upload := svc.EncryptOnUpload(plain, "")
	require.Equal(t, vault.OutcomePlaintext, upload.Outcome)
	require.Equal(t, plain, upload.Content)
	require.Empty(t, upload.WrappedKey)
	require.Equal(t, digest.Sum(plain), upload.Digest)

	_, err := svc.DecryptOnDownload(upload.Content, upload.WrappedKey, "", "")
	require.ErrorIs(t, err, vault.ErrNotEncrypted)
}

func TestEmptyInput(t *testing.T) {
	t.Parallel()

	svc := newService()

	upload := svc.EncryptOnUpload(nil, "")
	require.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", upload.Digest)

	upload = svc.EncryptOnUpload([]byte{}, "pass")
	require.Equal(t, vault.OutcomeEncrypted, upload.Outcome)

	got, err := svc.DecryptOnDownload(upload.Content, upload.WrappedKey, "pass", "pass")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestFallbackOnFailure(t *testing.T) {
	t.Parallel()

	cases := map[string][]vault.Option{
		"key":     {vault.WithCipher(failingCipher{failOn: "key"})},
		"encrypt": {vault.WithCipher(failingCipher{failOn: "encrypt"})},
		"wrap":    {vault.WithWrapper(failingWrapper{})},
	}

	for name, opts := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			logger, hook := test.NewNullLogger()
			svc := vault.New(append(opts, vault.WithLogger(logger))...)

			plain := []byte("must not block the upload")
			upload := svc.EncryptOnUpload(plain, "pass")

			require.Equal(t, vault.OutcomePlaintextFallback, upload.Outcome)
			require.Error(t, upload.Err)
			require.Equal(t, plain, upload.Content)
			require.Empty(t, upload.WrappedKey)
			require.Equal(t, digest.Sum(plain), upload.Digest)

			entry := hook.LastEntry()
			require.NotNil(t, entry)
			require.Equal(t, logrus.WarnLevel, entry.Level)
			require.NotContains(t, entry.Message, "pass")
		})
	}
}

func TestDownloadErrors(t *testing.T) {
	t.Parallel()

	fast := keywrap.Wrapper{Params: kdf.Params{Iterations: 1}}
	svc := newService(vault.WithWrapper(fast))

	upload := svc.EncryptOnUpload([]byte("top secret"), "pass")
	require.True(t, upload.Encrypted())

	t.Run("access denied", func(t *testing.T) {
		t.Parallel()

		_, err := svc.DecryptOnDownload(upload.Content, upload.WrappedKey, "nope", "pass")
		require.ErrorIs(t, err, vault.ErrAccessDenied)
	})

	t.Run("not encrypted", func(t *testing.T) {
		t.Parallel()

		_, err := svc.DecryptOnDownload(upload.Content, "", "pass", "pass")
		require.ErrorIs(t, err, vault.ErrNotEncrypted)
	})

	t.Run("invalid key", func(t *testing.T) {
		t.Parallel()

		// The stored passphrase matches but the blob was wrapped under another one.
		other := svc.EncryptOnUpload([]byte("x"), "other")

		_, err := svc.DecryptOnDownload(upload.Content, other.WrappedKey, "pass", "pass")
		require.ErrorIs(t, err, keywrap.ErrInvalidKey)
	})

	t.Run("tampered content", func(t *testing.T) {
		t.Parallel()

		tampered := bytes.Clone(upload.Content)
		tampered[len(tampered)/2] ^= 0x02

		got, err := svc.DecryptOnDownload(tampered, upload.WrappedKey, "pass", "pass")
		require.ErrorIs(t, err, encryption.ErrTamperedData)
		require.Nil(t, got)
	})

	t.Run("content of another file", func(t *testing.T) {
		t.Parallel()

		other := svc.EncryptOnUpload([]byte("other file"), "pass")

		_, err := svc.DecryptOnDownload(other.Content, upload.WrappedKey, "pass", "pass")
		require.ErrorIs(t, err, encryption.ErrTamperedData)
	})

	t.Run("wrapper failure", func(t *testing.T) {
		t.Parallel()

		broken := newService(vault.WithWrapper(failingWrapper{}))

		_, err := broken.DecryptOnDownload(upload.Content, upload.WrappedKey, "pass", "pass")
		require.ErrorIs(t, err, keywrap.ErrInvalidKey)
	})
}

func TestGCMSuite(t *testing.T) {
	t.Parallel()

	svc := newService(vault.WithCipher(encryption.Cipher{Mode: encryption.ModeGCM}))

	upload := svc.EncryptOnUpload([]byte("hello world"), "correct-horse")
	require.True(t, upload.Encrypted())
	require.True(t, bytes.HasPrefix(upload.Content, []byte("CVLT")))

	// A Fernet-configured service still decrypts GCM content.
	got, err := newService().DecryptOnDownload(upload.Content, upload.WrappedKey, "correct-horse", "correct-horse")
	require.NoError(t, err)
	require.Equal(t, []byte("hello world"), got)
}

func TestVerifierStoredPassphrase(t *testing.T) {
	t.Parallel()

	svc := newService()

	stored, err := vault.HashPassphrase("correct-horse")
	require.NoError(t, err)
	require.True(t, vault.IsVerifier(stored))
	require.NotContains(t, stored, "correct-horse")

	upload := svc.EncryptOnUpload([]byte("hello world"), "correct-horse")

	got, err := svc.DecryptOnDownload(upload.Content, upload.WrappedKey, "correct-horse", stored)
	require.NoError(t, err)
	require.Equal(t, []byte("hello world"), got)

	_, err = svc.DecryptOnDownload(upload.Content, upload.WrappedKey, "wrong-pass", stored)
	require.ErrorIs(t, err, vault.ErrAccessDenied)
}

func TestConcurrentUse(t *testing.T) {
	t.Parallel()

	fast := keywrap.Wrapper{Params: kdf.Params{Iterations: 1}}
	svc := newService(vault.WithWrapper(fast))

	const workers = 16

	var wg sync.WaitGroup

	errs := make(chan error, workers)

	for i := range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			plain := []byte(hex.EncodeToString([]byte{byte(i)}))
			upload := svc.EncryptOnUpload(plain, "pass")

			got, err := svc.DecryptOnDownload(upload.Content, upload.WrappedKey, "pass", "pass")
			if err != nil {
				errs <- err

				return
			}

			if !bytes.Equal(plain, got) {
				errs <- errors.New("round trip mismatch")
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
}
