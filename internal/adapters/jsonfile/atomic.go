// Package jsonfile contains the file-backed store adapters: layered
// SOP documents, knowledge files, the pending-learnings queue, the
// failure-state slot, and session detail documents. Every adapter
// takes its paths from injected settings so tests can point storage
// at a temporary directory.
package jsonfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// writeAtomic writes data via a temp file + rename so a crashed
// invocation never leaves a half-written document behind. Parent
// directories are created as needed.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}
