package feed

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Checkpoint persists the last processed GTID set in a plain text file.
type Checkpoint struct {
	path string
}

func NewCheckpoint(path string) *Checkpoint {
	return &Checkpoint{path: path}
}

// Load returns the saved GTID set, or "" when nothing was saved yet.
func (c *Checkpoint) Load() (string, error) {
	b, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("Checkpoint: read %s: %w", c.path, err)
	}
	return strings.TrimSpace(string(b)), nil
}

// Save replaces the saved GTID set. The file is written next to the target
// and renamed so a crash never leaves a truncated checkpoint.
func (c *Checkpoint) Save(gtidSet string) error {
	tmp, err := os.CreateTemp(filepath.Dir(c.path), ".gtid-*")
	if err != nil {
		return fmt.Errorf("Checkpoint: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(gtidSet + "\n"); err != nil {
		tmp.Close()
		return fmt.Errorf("Checkpoint: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("Checkpoint: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("Checkpoint: rename: %w", err)
	}
	return nil
}
