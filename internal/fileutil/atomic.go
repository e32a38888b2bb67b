// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fileutil provides file helpers shared across commands.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/vocab-deck/pkg/types"
)

// WriteAtomic writes data to destPath through a temporary file in the same
// directory, renaming it into place only after every byte is on disk. A
// failed write leaves any existing destPath untouched and no temp file
// behind. Failures are reported as *types.FileError.
func WriteAtomic(destPath string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &types.FileError{Op: "create directory", Path: dir, Err: err}
	}

	tmpFile, err := os.CreateTemp(dir, ".vocab-deck-*.tmp")
	if err != nil {
		return &types.FileError{Op: "write", Path: destPath, Err: fmt.Errorf("creating temp file: %w", err)}
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return &types.FileError{Op: "write", Path: destPath, Err: writeErr}
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return &types.FileError{Op: "write", Path: destPath, Err: fmt.Errorf("closing temp file: %w", closeErr)}
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return &types.FileError{Op: "write", Path: destPath, Err: err}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return &types.FileError{Op: "write", Path: destPath, Err: fmt.Errorf("renaming temp file: %w", err)}
	}
	return nil
}
