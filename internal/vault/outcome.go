package vault

// Outcome tells the caller what happened to an upload.
type Outcome int

const (
	// OutcomePlaintext means no passphrase was given and the bytes are stored as-is.
	OutcomePlaintext Outcome = iota
	// OutcomeEncrypted means the content is ciphertext and WrappedKey is set.
	OutcomeEncrypted
	// OutcomePlaintextFallback means encryption was requested but failed; the original
	// bytes are returned for storage and Upload.Err holds the cause.
	OutcomePlaintextFallback
)

// String returns a short name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomePlaintext:
		return "plaintext"
	case OutcomeEncrypted:
		return "encrypted"
	case OutcomePlaintextFallback:
		return "plaintext-fallback"
	default:
		return "unknown"
	}
}

// Upload is the result of EncryptOnUpload, ready to be persisted by the caller.
type Upload struct {
	// Content holds the bytes to store: ciphertext or the original plaintext.
	Content []byte

	// WrappedKey is the base64 wrapped content key, empty unless Outcome is OutcomeEncrypted.
	WrappedKey string

	// Digest is the hex SHA-256 of Content.
	Digest string

	// Outcome describes which path the upload took.
	Outcome Outcome

	// Err is the swallowed encryption error for OutcomePlaintextFallback.
	Err error
}

// Encrypted reports whether Content is ciphertext.
func (u Upload) Encrypted() bool {
	return u.Outcome == OutcomeEncrypted
}
