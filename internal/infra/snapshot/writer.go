// Package snapshot persists the finished snapshot as a JSON artifact.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"newswatch/internal/domain/entity"
)

// Writer writes snapshots to a fixed path, atomically: the artifact is
// served directly by static hosting, so readers must never observe a
// half-written file.
type Writer struct {
	path string
}

// NewWriter creates a Writer targeting path. Parent directories are created
// on first write.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Write marshals the snapshot with two-space indentation and renames it into
// place over the previous artifact.
func (w *Writer) Write(snap *entity.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	// Stage in the same directory so the rename stays on one filesystem.
	tmp, err := os.CreateTemp(dir, filepath.Base(w.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating staging file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing staging file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing staging file: %w", err)
	}

	if err := os.Rename(tmpName, w.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", w.path, err)
	}
	return nil
}
