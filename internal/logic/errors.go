package logic

import "errors"

var (
	// ErrDigestMismatch is returned when stored bytes no longer match the recorded digest.
	ErrDigestMismatch = errors.New("content digest mismatch")
	// ErrVerificationFailed is returned by Verify when at least one record failed its check.
	ErrVerificationFailed = errors.New("verification failed")
	// ErrOutputExists is returned by Download when the output file exists and overwriting is off.
	ErrOutputExists = errors.New("output file already exists")
)
