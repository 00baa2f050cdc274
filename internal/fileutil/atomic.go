// Package fileutil provides shared file operation helpers.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// TempContext holds state for an atomic file write operation.
type TempContext struct {
	TmpFile *os.File
	TmpName string
}

// NewTempContext creates a temp file next to outPath for atomic writing.
// Caller must defer CleanupOnError.
func NewTempContext(outPath string) (*TempContext, error) {
	tmpFile, err := os.CreateTemp(filepath.Dir(outPath), ".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("creating temporary file: %w", err)
	}

	return &TempContext{
		TmpFile: tmpFile,
		TmpName: tmpFile.Name(),
	}, nil
}

// CleanupOnError closes the temp file and removes it if the write failed.
func (tc *TempContext) CleanupOnError(errp *error) {
	tc.TmpFile.Close() //nolint:errcheck,gosec // best-effort cleanup

	if *errp != nil {
		os.Remove(tc.TmpName) //nolint:errcheck,gosec // best-effort cleanup
	}
}

// Commit syncs and closes the temp file, applies perm and renames it to outPath.
func (tc *TempContext) Commit(outPath string, perm os.FileMode) error {
	if err := tc.TmpFile.Sync(); err != nil {
		return fmt.Errorf("syncing temporary file: %w", err)
	}

	if err := tc.TmpFile.Close(); err != nil {
		return fmt.Errorf("closing temporary file: %w", err)
	}

	if err := os.Chmod(tc.TmpName, perm); err != nil {
		return fmt.Errorf("setting file permissions: %w", err)
	}

	if err := os.Rename(tc.TmpName, outPath); err != nil {
		return fmt.Errorf("renaming output file: %w", err)
	}

	return nil
}

// WriteAtomic writes data to outPath through a temp file and a rename, so readers
// never observe a partially written file.
func WriteAtomic(outPath string, data []byte, perm os.FileMode) (err error) {
	tc, err := NewTempContext(outPath)
	if err != nil {
		return fmt.Errorf("preparing atomic write: %w", err)
	}

	defer tc.CleanupOnError(&err)

	if _, err = tc.TmpFile.Write(data); err != nil {
		return fmt.Errorf("writing content: %w", err)
	}

	return tc.Commit(outPath, perm)
}
