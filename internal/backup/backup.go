package backup

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"adujour/internal/fileutil"
	"adujour/internal/site"
)

// Handle identifies one snapshot on disk.
type Handle struct {
	// ID is the snapshot's uuid, also the directory name.
	ID string
	// Dir is the absolute snapshot directory.
	Dir string
	// Source is the artifact directory the snapshot was taken from.
	Source string
}

// Manager snapshots build artifacts before any branch surgery and
// restores them when a deploy aborts.
type Manager struct {
	backupsDir string
}

func NewManager(backupsDir string) *Manager {
	return &Manager{backupsDir: backupsDir}
}

// Snapshot copies artifactDir into a fresh uuid-named directory under
// the backups dir, verifying every file copy, and confirms the entry
// file made it into the snapshot.
func (m *Manager) Snapshot(artifactDir string) (*Handle, error) {
	if _, err := os.Stat(filepath.Join(artifactDir, site.EntryFile)); err != nil {
		return nil, fmt.Errorf("artifact has no %s, refusing to snapshot: %w", site.EntryFile, err)
	}

	id := uuid.New().String()
	dir := filepath.Join(m.backupsDir, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	if err := fileutil.CopyTree(artifactDir, dir); err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("snapshot %s: %w", artifactDir, err)
	}
	if _, err := os.Stat(filepath.Join(dir, site.EntryFile)); err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("snapshot incomplete, %s missing: %w", site.EntryFile, err)
	}

	return &Handle{ID: id, Dir: dir, Source: artifactDir}, nil
}

// Restore copies the snapshot back over its source directory. The
// source is recreated if it was deleted; files present in the source
// but not in the snapshot are removed so the restore is exact.
func (m *Manager) Restore(h *Handle) error {
	if h == nil {
		return fmt.Errorf("nil snapshot handle")
	}
	if _, err := os.Stat(h.Dir); err != nil {
		return fmt.Errorf("snapshot %s unavailable: %w", h.ID, err)
	}
	if err := os.RemoveAll(h.Source); err != nil {
		return fmt.Errorf("clear artifact dir for restore: %w", err)
	}
	if err := os.MkdirAll(h.Source, 0o755); err != nil {
		return err
	}
	if err := fileutil.CopyTree(h.Dir, h.Source); err != nil {
		return fmt.Errorf("restore snapshot %s: %w", h.ID, err)
	}
	return nil
}

// Discard removes the snapshot directory. Discarding an already-removed
// snapshot is not an error.
func (m *Manager) Discard(h *Handle) error {
	if h == nil {
		return nil
	}
	if err := os.RemoveAll(h.Dir); err != nil {
		return fmt.Errorf("discard snapshot %s: %w", h.ID, err)
	}
	return nil
}
