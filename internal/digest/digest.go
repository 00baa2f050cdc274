// Package digest computes content digests of stored file bytes.
//
// A digest is the lowercase hex SHA-256 of whatever bytes are stored: the ciphertext
// when a file was encrypted, the plaintext otherwise. It identifies content and
// detects accidental or deliberate modification; it grants no access.
package digest

import (
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/ipfs/go-cid"
	sha256 "github.com/minio/sha256-simd"
	"github.com/multiformats/go-multihash"
)

// ErrNotSHA256 is returned when a CID does not carry a sha2-256 multihash.
var ErrNotSHA256 = errors.New("cid is not sha2-256")

// Sum returns the hex-encoded SHA-256 of data.
func Sum(data []byte) string {
	sum := sha256.Sum256(data)

	return hex.EncodeToString(sum[:])
}

// Verify reports whether data hashes to want.
func Verify(data []byte, want string) bool {
	return subtle.ConstantTimeCompare([]byte(Sum(data)), []byte(want)) == 1
}

// CID returns the CIDv1 (raw codec, sha2-256) of data.
// Its multihash digest equals the bytes behind Sum(data).
func CID(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, fmt.Errorf("hashing content: %w", err)
	}

	return cid.NewCidV1(cid.Raw, sum), nil
}

// FromCID returns the hex digest carried by a sha2-256 CID.
func FromCID(id cid.Cid) (string, error) {
	decoded, err := multihash.Decode(id.Hash())
	if err != nil {
		return "", fmt.Errorf("decoding multihash: %w", err)
	}

	if decoded.Code != multihash.SHA2_256 {
		return "", fmt.Errorf("%w: code %#x", ErrNotSHA256, decoded.Code)
	}

	return hex.EncodeToString(decoded.Digest), nil
}
