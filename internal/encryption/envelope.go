package encryption

import (
	"bytes"
	"fmt"
)

const (
	envelopeMagic   = "CVLT"
	envelopeVersion = byte(1)
)

const envelopeHeaderSize = len(envelopeMagic) + 2

func newEnvelopeHeader(mode CipherMode) []byte {
	header := make([]byte, envelopeHeaderSize)
	copy(header, envelopeMagic)

	header[len(envelopeMagic)] = envelopeVersion
	header[len(envelopeMagic)+1] = byte(mode)

	return header
}

// hasEnvelope reports whether data starts with the envelope magic.
func hasEnvelope(data []byte) bool {
	return bytes.HasPrefix(data, []byte(envelopeMagic))
}

func parseEnvelopeHeader(data []byte) (CipherMode, error) {
	if len(data) < envelopeHeaderSize {
		return 0, fmt.Errorf("%w: envelope header too short", ErrTamperedData)
	}

	if !hasEnvelope(data) {
		return 0, fmt.Errorf("%w: invalid envelope magic", ErrTamperedData)
	}

	version := data[len(envelopeMagic)]
	if version != envelopeVersion {
		return 0, fmt.Errorf("%w: unsupported envelope version %d", ErrTamperedData, version)
	}

	mode := CipherMode(data[len(envelopeMagic)+1])
	if mode != ModeGCM {
		return 0, fmt.Errorf("%w: unsupported envelope mode %d", ErrTamperedData, mode)
	}

	return mode, nil
}
