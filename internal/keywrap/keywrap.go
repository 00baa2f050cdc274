// Package keywrap protects content keys with a passphrase.
//
// A wrapped key blob is base64(salt || token): salt is the 16-byte KDF salt and token
// is a Fernet token sealing the base64url form of the content key under the
// passphrase-derived key. This matches the blobs stored by earlier versions of the
// vault, so existing records remain readable.
package keywrap

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/idelchi/govault/internal/encryption"
	"github.com/idelchi/govault/internal/kdf"
)

// ErrInvalidKey is returned for every unwrap failure. Wrong passphrases and corrupted
// blobs are deliberately indistinguishable.
var ErrInvalidKey = errors.New("decryption failed")

//nolint:gochecknoglobals
var (
	blobEncoding = base64.StdEncoding
	keyEncoding  = base64.URLEncoding
)

// Wrapper wraps and unwraps content keys with a fixed set of derivation parameters.
// Blobs must be unwrapped with the same Params they were wrapped with.
type Wrapper struct {
	Params kdf.Params
}

// Default uses kdf.DefaultParams.
//
//nolint:gochecknoglobals
var Default = Wrapper{Params: kdf.DefaultParams}

// Wrap wraps contentKey with the default parameters.
func Wrap(contentKey []byte, passphrase string) (string, error) {
	return Default.Wrap(contentKey, passphrase)
}

// Unwrap unwraps blob with the default parameters.
func Unwrap(blob, passphrase string) ([]byte, error) {
	return Default.Unwrap(blob, passphrase)
}

// Wrap derives a fresh key from passphrase and seals contentKey under it.
func (w Wrapper) Wrap(contentKey []byte, passphrase string) (string, error) {
	if len(contentKey) == 0 {
		return "", errors.New("wrapping key: empty content key")
	}

	derived, salt, err := w.Params.Derive(passphrase, nil)
	if err != nil {
		return "", fmt.Errorf("deriving wrap key: %w", err)
	}
	defer kdf.Zero(derived)

	payload := []byte(keyEncoding.EncodeToString(contentKey))
	defer kdf.Zero(payload)

	token, err := encryption.SealToken(derived, payload)
	if err != nil {
		return "", fmt.Errorf("sealing content key: %w", err)
	}

	combined := make([]byte, 0, len(salt)+len(token))
	combined = append(combined, salt...)
	combined = append(combined, token...)

	return blobEncoding.EncodeToString(combined), nil
}

// Unwrap re-derives the wrap key from the blob's salt and passphrase and returns the
// exact content key bytes. Every failure yields ErrInvalidKey.
func (w Wrapper) Unwrap(blob, passphrase string) ([]byte, error) {
	combined, err := blobEncoding.Strict().DecodeString(blob)
	if err != nil || len(combined) < kdf.SaltSize {
		return nil, ErrInvalidKey
	}

	salt, token := combined[:kdf.SaltSize], combined[kdf.SaltSize:]

	derived, _, err := w.Params.Derive(passphrase, salt)
	if err != nil {
		return nil, ErrInvalidKey
	}
	defer kdf.Zero(derived)

	payload, err := encryption.OpenToken(derived, token)
	if err != nil {
		return nil, ErrInvalidKey
	}
	defer kdf.Zero(payload)

	contentKey, err := keyEncoding.Strict().DecodeString(string(payload))
	if err != nil || len(contentKey) == 0 {
		return nil, ErrInvalidKey
	}

	return contentKey, nil
}
