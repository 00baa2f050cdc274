// Package kdf derives fixed-length symmetric keys from passphrases.
//
// Derivation is PBKDF2-HMAC-SHA256 with a 16-byte salt. The parameters are part of
// the persisted format: a key derived on wrap must be re-derived with the exact same
// parameters on unwrap, otherwise authentication of the wrapped key fails.
package kdf

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltSize is the length of a derivation salt in bytes.
	SaltSize = 16
	// KeySize is the length of a derived key in bytes.
	KeySize = 32
	// Iterations is the PBKDF2 iteration count of DefaultParams.
	Iterations = 100_000
)

// ErrInvalidSalt is returned when a caller-supplied salt has the wrong length.
var ErrInvalidSalt = errors.New("invalid salt")

// Params holds the PBKDF2 parameters.
type Params struct {
	// Iterations is the PBKDF2 round count.
	Iterations int
}

// DefaultParams are the parameters every persisted blob is created with.
//
//nolint:gochecknoglobals
var DefaultParams = Params{Iterations: Iterations}

// Derive derives a key from passphrase using DefaultParams.
// A nil or empty salt is replaced by SaltSize fresh random bytes.
func Derive(passphrase string, salt []byte) (key, usedSalt []byte, err error) {
	return DefaultParams.Derive(passphrase, salt)
}

// Derive derives a KeySize-byte key from passphrase and salt.
// It returns the salt that was used, which is freshly generated when salt is empty.
func (p Params) Derive(passphrase string, salt []byte) (key, usedSalt []byte, err error) {
	switch {
	case len(salt) == 0:
		salt = make([]byte, SaltSize)
		if _, err := io.ReadFull(rand.Reader, salt); err != nil {
			return nil, nil, fmt.Errorf("generating salt: %w", err)
		}
	case len(salt) != SaltSize:
		return nil, nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidSalt, len(salt), SaltSize)
	}

	iterations := p.Iterations
	if iterations <= 0 {
		iterations = Iterations
	}

	return pbkdf2.Key([]byte(passphrase), salt, iterations, KeySize, sha256.New), salt, nil
}

// Zero overwrites b with zeroes.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
