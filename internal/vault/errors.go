package vault

import "errors"

var (
	// ErrAccessDenied is returned when the supplied passphrase does not match the stored one.
	ErrAccessDenied = errors.New("access denied")
	// ErrNotEncrypted is returned when a download asks to decrypt a file stored without a wrapped key.
	ErrNotEncrypted = errors.New("file is not encrypted")
)
