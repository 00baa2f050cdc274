package encryption

import "fmt"

// CipherMode selects the content encryption suite.
type CipherMode byte

const (
	// ModeFernet represents Fernet tokens (AES-128-CBC + HMAC-SHA256).
	ModeFernet CipherMode = iota
	// ModeGCM represents AES-256-GCM through tink, inside an envelope.
	ModeGCM
)

// String returns the configuration name of the mode.
func (m CipherMode) String() string {
	switch m {
	case ModeFernet:
		return "fernet"
	case ModeGCM:
		return "gcm"
	default:
		return fmt.Sprintf("mode(%d)", byte(m))
	}
}

// ParseMode maps a configuration name to a CipherMode.
func ParseMode(name string) (CipherMode, error) {
	switch name {
	case "", "fernet":
		return ModeFernet, nil
	case "gcm":
		return ModeGCM, nil
	default:
		return 0, fmt.Errorf("unknown cipher mode %q", name)
	}
}
