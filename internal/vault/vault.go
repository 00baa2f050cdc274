// Package vault encrypts files on upload and decrypts them on download.
//
// Each upload gets its own random content key. The file bytes are encrypted under that
// key, the key is wrapped with the caller's passphrase, and a digest of the final bytes
// is computed. Downloads check the passphrase, unwrap the key and decrypt.
//
// A Service keeps no per-call state and may be used from many goroutines at once.
// Whole files are held in memory.
package vault

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/idelchi/govault/internal/digest"
	"github.com/idelchi/govault/internal/encryption"
	"github.com/idelchi/govault/internal/kdf"
	"github.com/idelchi/govault/internal/keywrap"
)

// ContentCipher encrypts file bytes under a content key.
type ContentCipher interface {
	NewKey() ([]byte, error)
	Encrypt(plaintext, key []byte) ([]byte, error)
	Decrypt(ciphertext, key []byte) ([]byte, error)
}

// KeyWrapper protects content keys with a passphrase.
type KeyWrapper interface {
	Wrap(contentKey []byte, passphrase string) (string, error)
	Unwrap(blob, passphrase string) ([]byte, error)
}

// Service orchestrates content encryption, key wrapping and hashing.
type Service struct {
	cipher  ContentCipher
	wrapper KeyWrapper
	log     *logrus.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithCipher sets the content cipher. The default is encryption.Cipher{} (Fernet).
func WithCipher(c ContentCipher) Option {
	return func(s *Service) { s.cipher = c }
}

// WithWrapper sets the key wrapper. The default is keywrap.Default.
func WithWrapper(w KeyWrapper) Option {
	return func(s *Service) { s.wrapper = w }
}

// WithLogger sets the logger. The default is logrus.New().
func WithLogger(l *logrus.Logger) Option {
	return func(s *Service) { s.log = l }
}

// New creates a Service.
func New(opts ...Option) *Service {
	s := &Service{
		cipher:  encryption.Cipher{},
		wrapper: keywrap.Default,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.log == nil {
		s.log = logrus.New()
	}

	return s
}

// EncryptOnUpload prepares data for storage.
//
// An empty passphrase stores the bytes unencrypted. Otherwise the bytes are encrypted
// under a fresh content key which is wrapped with passphrase. If any encryption step
// fails the upload still succeeds with the original bytes and
// OutcomePlaintextFallback. The digest always covers the returned Content.
func (s *Service) EncryptOnUpload(data []byte, passphrase string) Upload {
	upload := Upload{Content: data, Outcome: OutcomePlaintext}

	if passphrase != "" {
		ciphertext, wrapped, err := s.seal(data, passphrase)
		if err != nil {
			s.log.WithError(err).WithField("size", len(data)).Warn("encryption failed, storing unencrypted")

			upload.Outcome = OutcomePlaintextFallback
			upload.Err = err
		} else {
			upload.Content = ciphertext
			upload.WrappedKey = wrapped
			upload.Outcome = OutcomeEncrypted
		}
	}

	upload.Digest = digest.Sum(upload.Content)

	s.log.WithFields(logrus.Fields{
		"outcome": upload.Outcome.String(),
		"size":    len(upload.Content),
		"digest":  upload.Digest,
	}).Debug("upload prepared")

	return upload
}

func (s *Service) seal(data []byte, passphrase string) (ciphertext []byte, wrapped string, err error) {
	contentKey, err := s.cipher.NewKey()
	if err != nil {
		return nil, "", fmt.Errorf("generating content key: %w", err)
	}
	defer kdf.Zero(contentKey)

	ciphertext, err = s.cipher.Encrypt(data, contentKey)
	if err != nil {
		return nil, "", fmt.Errorf("encrypting content: %w", err)
	}

	wrapped, err = s.wrapper.Wrap(contentKey, passphrase)
	if err != nil {
		return nil, "", fmt.Errorf("wrapping content key: %w", err)
	}

	return ciphertext, wrapped, nil
}

// DecryptOnDownload returns the plaintext of a stored file.
//
// It fails with ErrAccessDenied when supplied does not match stored, ErrNotEncrypted
// when wrappedKey is empty, keywrap.ErrInvalidKey when the key cannot be unwrapped and
// encryption.ErrTamperedData when the content fails authentication. The plaintext is
// only returned, never written anywhere.
func (s *Service) DecryptOnDownload(ciphertext []byte, wrappedKey, supplied, stored string) ([]byte, error) {
	plaintext, err := s.open(ciphertext, wrappedKey, supplied, stored)
	if err != nil {
		s.log.WithError(err).Debug("download rejected")

		return nil, err
	}

	return plaintext, nil
}

func (s *Service) open(ciphertext []byte, wrappedKey, supplied, stored string) ([]byte, error) {
	if !MatchPassphrase(supplied, stored) {
		return nil, ErrAccessDenied
	}

	if wrappedKey == "" {
		return nil, ErrNotEncrypted
	}

	contentKey, err := s.wrapper.Unwrap(wrappedKey, supplied)
	if err != nil {
		if errors.Is(err, keywrap.ErrInvalidKey) {
			return nil, err
		}

		return nil, fmt.Errorf("%w: %w", keywrap.ErrInvalidKey, err)
	}
	defer kdf.Zero(contentKey)

	plaintext, err := s.cipher.Decrypt(ciphertext, contentKey)
	if err != nil {
		if errors.Is(err, encryption.ErrTamperedData) {
			return nil, err
		}

		return nil, fmt.Errorf("%w: %w", encryption.ErrTamperedData, err)
	}

	return plaintext, nil
}
