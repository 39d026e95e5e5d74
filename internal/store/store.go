package store

import (
	"errors"

	"github.com/rebelpaulo/mission-control-data/internal/snapshot"
)

// ErrNoSnapshot is returned by Load when no snapshot has been written yet.
var ErrNoSnapshot = errors.New("no snapshot found")

// Store defines the interface for snapshot storage backends
type Store interface {
	// Save replaces the persisted snapshot with snap
	Save(snap *snapshot.Snapshot) error

	// Load reads the persisted snapshot
	Load() (*snapshot.Snapshot, error)

	// DataDir returns the directory holding the documents
	DataDir() string
}
