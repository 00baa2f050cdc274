package encryption

import (
	"crypto/rand"
	"fmt"
	"io"
)

// ContentKeySize is the length of a content key in bytes.
const ContentKeySize = 32

// NewContentKey returns a fresh random content key.
func NewContentKey() ([]byte, error) {
	key := make([]byte, ContentKeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("generating content key: %w", err)
	}

	return key, nil
}

// Cipher encrypts and decrypts file contents with a content key.
// The zero value uses ModeFernet. A Cipher is safe for concurrent use.
type Cipher struct {
	// Mode selects the suite used by Encrypt. Decrypt accepts every suite.
	Mode CipherMode
}

// NewKey returns a fresh random content key.
func (Cipher) NewKey() ([]byte, error) {
	return NewContentKey()
}

// Encrypt seals plaintext under key with the configured suite.
func (c Cipher) Encrypt(plaintext, key []byte) ([]byte, error) {
	if len(key) != ContentKeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKeySize, len(key), ContentKeySize)
	}

	switch c.Mode {
	case ModeFernet:
		return encryptFernet(key, plaintext)
	case ModeGCM:
		return encryptGCM(key, plaintext)
	default:
		return nil, fmt.Errorf("unknown cipher mode: %s", c.Mode)
	}
}

// Decrypt opens ciphertext produced by any suite. The suite is read from the
// ciphertext: enveloped data carries its mode, anything else is a Fernet token.
func (c Cipher) Decrypt(ciphertext, key []byte) ([]byte, error) {
	if len(key) != ContentKeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKeySize, len(key), ContentKeySize)
	}

	if !hasEnvelope(ciphertext) {
		return decryptFernet(key, ciphertext)
	}

	mode, err := parseEnvelopeHeader(ciphertext)
	if err != nil {
		return nil, err
	}

	switch mode {
	case ModeGCM:
		return decryptGCM(key, ciphertext)
	default:
		return nil, fmt.Errorf("%w: unknown encryption mode", ErrTamperedData)
	}
}

// Encrypt seals plaintext with the default suite.
func Encrypt(plaintext, key []byte) ([]byte, error) {
	return Cipher{}.Encrypt(plaintext, key)
}

// Decrypt opens ciphertext produced by Encrypt or any Cipher.
func Decrypt(ciphertext, key []byte) ([]byte, error) {
	return Cipher{}.Decrypt(ciphertext, key)
}
