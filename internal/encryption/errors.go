package encryption

import "errors"

var (
	// ErrTamperedData is returned when ciphertext fails authentication: wrong key,
	// corrupted bytes or truncated input.
	ErrTamperedData = errors.New("content authentication failed")
	// ErrInvalidKeySize is returned when a content key is not ContentKeySize bytes.
	ErrInvalidKeySize = errors.New("invalid content key size")
	// ErrEmptyData is returned when attempting to unpad empty input data.
	ErrEmptyData = errors.New("empty data")
	// ErrInvalidPadding is returned when PKCS7 padding is malformed.
	ErrInvalidPadding = errors.New("invalid padding")
)
