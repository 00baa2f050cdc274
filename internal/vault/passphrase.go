package vault

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/idelchi/govault/internal/kdf"
)

// verifierScheme prefixes stored passphrase verifiers:
// pbkdf2-sha256$<iterations>$<salt>$<hash>, salt and hash in unpadded base64.
const verifierScheme = "pbkdf2-sha256"

// maxVerifierIterations bounds the work a stored verifier can demand per check.
const maxVerifierIterations = 10 * kdf.Iterations

//nolint:gochecknoglobals
var verifierEncoding = base64.RawStdEncoding

// HashPassphrase returns a verifier for passphrase that can be stored in place of the
// passphrase itself and checked with MatchPassphrase.
func HashPassphrase(passphrase string) (string, error) {
	key, salt, err := kdf.Derive(passphrase, nil)
	if err != nil {
		return "", fmt.Errorf("hashing passphrase: %w", err)
	}

	return strings.Join([]string{
		verifierScheme,
		strconv.Itoa(kdf.DefaultParams.Iterations),
		verifierEncoding.EncodeToString(salt),
		verifierEncoding.EncodeToString(key),
	}, "$"), nil
}

// IsVerifier reports whether stored is a verifier produced by HashPassphrase.
func IsVerifier(stored string) bool {
	return strings.HasPrefix(stored, verifierScheme+"$")
}

// MatchPassphrase reports whether supplied matches stored. The stored value is either
// a verifier from HashPassphrase or, for records written by older versions, the
// passphrase in cleartext. Both comparisons are constant-time.
func MatchPassphrase(supplied, stored string) bool {
	if !IsVerifier(stored) {
		return subtle.ConstantTimeCompare([]byte(supplied), []byte(stored)) == 1
	}

	const parts = 4

	fields := strings.Split(stored, "$")
	if len(fields) != parts {
		return false
	}

	iterations, err := strconv.Atoi(fields[1])
	if err != nil || iterations <= 0 || iterations > maxVerifierIterations {
		return false
	}

	salt, err := verifierEncoding.DecodeString(fields[2])
	if err != nil || len(salt) != kdf.SaltSize {
		return false
	}

	want, err := verifierEncoding.DecodeString(fields[3])
	if err != nil {
		return false
	}

	got, _, err := kdf.Params{Iterations: iterations}.Derive(supplied, salt)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare(got, want) == 1
}
