// Package persistence implements the snapshot store, the graded-prediction
// NDJSON log, the integration rollup writer, and the Redis-backed daily-job
// lock.
package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sawpanic/sharpline/internal/changemonitor"
)

// SnapshotStore persists one JSON snapshot per sport under baseDir, using an
// exclusive tmp-then-rename write to avoid torn reads by concurrent readers.
type SnapshotStore struct {
	baseDir string
}

// NewSnapshotStore returns a store rooted at baseDir, creating it if needed.
func NewSnapshotStore(baseDir string) (*SnapshotStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("persistence: creating snapshot dir: %w", err)
	}
	return &SnapshotStore{baseDir: baseDir}, nil
}

func (s *SnapshotStore) latestPath(sport string) string {
	return filepath.Join(s.baseDir, sport+"_latest.json")
}

// Load reads the last persisted snapshot for a sport. A missing file
// returns an empty archive and no error — there is simply no prior
// baseline yet.
func (s *SnapshotStore) Load(sport string) (changemonitor.Archive, error) {
	data, err := os.ReadFile(s.latestPath(sport))
	if os.IsNotExist(err) {
		return changemonitor.Archive{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("persistence: reading snapshot for %s: %w", sport, err)
	}
	var meta changemonitor.SnapshotMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("persistence: decoding snapshot for %s: %w", sport, err)
	}
	archive := make(changemonitor.Archive, len(meta.Picks))
	for _, p := range meta.Picks {
		archive[p.PickID] = p
	}
	return archive, nil
}

// Save atomically replaces the sport's latest snapshot: write to a temp
// file in the same directory, then rename over the target so readers never
// observe a partially-written file.
func (s *SnapshotStore) Save(meta changemonitor.SnapshotMeta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("persistence: encoding snapshot for %s: %w", meta.Sport, err)
	}
	target := s.latestPath(meta.Sport)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("persistence: writing temp snapshot for %s: %w", meta.Sport, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("persistence: renaming snapshot for %s: %w", meta.Sport, err)
	}
	return nil
}
