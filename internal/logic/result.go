package logic

import "github.com/idelchi/govault/internal/vault"

// Result represents the outcome of uploading a single file.
type Result struct {
	// Input file path
	Input string

	// ID of the stored record
	ID string

	// Size of the input file in bytes
	Size int64

	// How the content was stored
	Outcome vault.Outcome

	// Any error that occurred during processing
	Error error
}
