package dashboard

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/bistboard/bistboard/internal/portfolio"
)

// Snapshot persists the dashboard aggregate to disk (msgpack) so a
// restarted process can serve the last known data while the first
// workbook load runs.
type Snapshot struct {
	path string
}

// NewSnapshot creates a snapshot store at dir/dashboard.snapshot.
func NewSnapshot(dir string) *Snapshot {
	return &Snapshot{path: filepath.Join(dir, "dashboard.snapshot")}
}

// Load reads the persisted dashboard. Returns (nil, nil) when no snapshot
// exists yet.
func (s *Snapshot) Load() (*portfolio.Dashboard, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var d portfolio.Dashboard
	if err := msgpack.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &d, nil
}

// Save writes the dashboard atomically (temp file + rename).
func (s *Snapshot) Save(d *portfolio.Dashboard) error {
	data, err := msgpack.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}
