package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"time"
)

// Token layout: version | timestamp | IV | AES-128-CBC ciphertext | HMAC-SHA256,
// base64url-encoded with padding.
const (
	fernetVersion    = byte(0x80)
	fernetTimeSize   = 8
	fernetHeaderSize = 1 + fernetTimeSize + aes.BlockSize
	fernetTagSize    = sha256.Size
	fernetOverhead   = fernetHeaderSize + fernetTagSize
	fernetHalfKey    = 16
)

//nolint:gochecknoglobals
var fernetEncoding = base64.URLEncoding

// splitFernetKey splits a 32-byte key into its signing and encryption halves.
func splitFernetKey(key []byte) (signing, encryption []byte, err error) {
	if len(key) != 2*fernetHalfKey {
		return nil, nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKeySize, len(key), 2*fernetHalfKey)
	}

	return key[:fernetHalfKey], key[fernetHalfKey:], nil
}

// encryptFernet seals plaintext into a Fernet token with a random IV and the current time.
func encryptFernet(key, plaintext []byte) ([]byte, error) {
	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, fmt.Errorf("generating IV: %w", err)
	}

	return sealFernet(key, plaintext, iv, time.Now())
}

// sealFernet builds the token for the given IV and timestamp.
func sealFernet(key, plaintext, iv []byte, now time.Time) ([]byte, error) {
	signing, encKey, err := splitFernetKey(key)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)

	raw := make([]byte, fernetHeaderSize+len(padded), fernetHeaderSize+len(padded)+fernetTagSize)
	raw[0] = fernetVersion
	binary.BigEndian.PutUint64(raw[1:], uint64(now.Unix())) //nolint:gosec // unix time is positive
	copy(raw[1+fernetTimeSize:], iv)

	cipher.NewCBCEncrypter(block, iv).CryptBlocks(raw[fernetHeaderSize:], padded)

	mac := hmac.New(sha256.New, signing)
	mac.Write(raw)
	raw = mac.Sum(raw)

	token := make([]byte, fernetEncoding.EncodedLen(len(raw)))
	fernetEncoding.Encode(token, raw)

	return token, nil
}

// decryptFernet authenticates and opens a Fernet token. Any failure is reported as
// ErrTamperedData and no plaintext is returned.
func decryptFernet(key, token []byte) ([]byte, error) {
	signing, encKey, err := splitFernetKey(key)
	if err != nil {
		return nil, err
	}

	raw, err := fernetEncoding.Strict().DecodeString(string(token))
	if err != nil {
		return nil, fmt.Errorf("%w: malformed token", ErrTamperedData)
	}

	if len(raw) < fernetOverhead+aes.BlockSize || (len(raw)-fernetOverhead)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: token length", ErrTamperedData)
	}

	if raw[0] != fernetVersion {
		return nil, fmt.Errorf("%w: token version", ErrTamperedData)
	}

	body, tag := raw[:len(raw)-fernetTagSize], raw[len(raw)-fernetTagSize:]

	mac := hmac.New(sha256.New, signing)
	mac.Write(body)

	if !hmac.Equal(mac.Sum(nil), tag) {
		return nil, fmt.Errorf("%w: authentication failed", ErrTamperedData)
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}

	iv := body[1+fernetTimeSize : fernetHeaderSize]
	ciphertext := body[fernetHeaderSize:]

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := pkcs7Unpad(plaintext)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTamperedData, err)
	}

	return unpadded, nil
}

// SealToken seals plaintext into a Fernet token under a 32-byte key.
// It is used for wrapping keys in the same token format as file contents.
func SealToken(key, plaintext []byte) ([]byte, error) {
	return encryptFernet(key, plaintext)
}

// OpenToken opens a Fernet token sealed by SealToken.
func OpenToken(key, token []byte) ([]byte, error) {
	return decryptFernet(key, token)
}
