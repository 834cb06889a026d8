// Package fsatomic provides the write-temp-then-rename atomic file write
// used by every persisted store in this module (§5: "writes are always
// write-temp-then-rename for atomicity").
package fsatomic

import (
	"os"
	"path/filepath"

	"ai-accounting-mcp/internal/errs"
)

// Write atomically replaces the file at path with data.
func Write(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.IOError("failed to create directory "+dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return errs.IOError("failed to create temp file", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errs.IOError("failed to write temp file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errs.IOError("failed to close temp file", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errs.IOError("failed to rename temp file into place", err)
	}
	return nil
}
