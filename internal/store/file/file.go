package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rebelpaulo/mission-control-data/internal/model"
	"github.com/rebelpaulo/mission-control-data/internal/snapshot"
	"github.com/rebelpaulo/mission-control-data/internal/store"
)

// FileStore implements store.Store as one JSON file per document
type FileStore struct {
	dataDir string
}

var _ store.Store = (*FileStore)(nil)

// New creates a FileStore rooted at dataDir. The directory is created on
// the first Save.
func New(dataDir string) (*FileStore, error) {
	absPath, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("invalid data directory: %w", err)
	}

	info, err := os.Stat(absPath)
	if err == nil && !info.IsDir() {
		return nil, fmt.Errorf("data path is not a directory: %s", absPath)
	}

	return &FileStore{dataDir: absPath}, nil
}

// DataDir returns the data directory
func (s *FileStore) DataDir() string {
	return s.dataDir
}

// documentPath returns the path of a document file
func (s *FileStore) documentPath(name string) string {
	return filepath.Join(s.dataDir, name)
}

// Save writes every document of snap, replacing the previous snapshot
func (s *FileStore) Save(snap *snapshot.Snapshot) error {
	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	for _, doc := range snap.Documents() {
		data, err := doc.Marshal()
		if err != nil {
			return fmt.Errorf("encode %s: %w", doc.Name, err)
		}
		if err := writeFileAtomic(s.documentPath(doc.Name), data); err != nil {
			return fmt.Errorf("write %s: %w", doc.Name, err)
		}
	}
	return nil
}

// writeFileAtomic writes data next to path and renames it into place so a
// reader never sees a half-written document.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// Load reads the persisted documents back into a Snapshot
func (s *FileStore) Load() (*snapshot.Snapshot, error) {
	snap := &snapshot.Snapshot{}

	targets := map[string]any{
		snapshot.HeartbeatFile: &snap.Heartbeat,
		snapshot.SystemFile:    &snap.System,
		snapshot.AgentsFile:    &snap.Agents,
		snapshot.SessionsFile:  &snap.Sessions,
		snapshot.SkillsFile:    &snap.Skills,
		snapshot.WorkflowsFile: &snap.Workflows,
		snapshot.RunsFile:      &snap.Runs,
		snapshot.LogsFile:      &snap.Logs,
	}

	for _, name := range snapshot.FileNames {
		data, err := os.ReadFile(s.documentPath(name))
		if err != nil {
			if os.IsNotExist(err) && name == snapshot.HeartbeatFile {
				return nil, fmt.Errorf("%w in %s", store.ErrNoSnapshot, s.dataDir)
			}
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		if err := json.Unmarshal(data, targets[name]); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
	}

	if ts, err := time.Parse(model.TimestampLayout, snap.Heartbeat.Timestamp); err == nil {
		snap.GeneratedAt = ts
	} else if ts, err := time.Parse(time.RFC3339Nano, snap.Heartbeat.Timestamp); err == nil {
		snap.GeneratedAt = ts.UTC()
	}

	return snap, nil
}
