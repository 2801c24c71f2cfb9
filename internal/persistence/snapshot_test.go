package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/sharpline/internal/changemonitor"
)

func TestSnapshotStoreLoadMissingReturnsEmptyArchive(t *testing.T) {
	store, err := NewSnapshotStore(t.TempDir())
	require.NoError(t, err)
	archive, err := store.Load("NBA")
	require.NoError(t, err)
	assert.Empty(t, archive)
}

func TestSnapshotStoreSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSnapshotStore(dir)
	require.NoError(t, err)

	meta := changemonitor.SnapshotMeta{
		Sport: "NBA",
		Picks: []changemonitor.Snapshot{{PickID: "p1", Tier: "GOLD_STAR"}},
	}
	require.NoError(t, store.Save(meta))

	archive, err := store.Load("NBA")
	require.NoError(t, err)
	require.Contains(t, archive, "p1")
	assert.Equal(t, "GOLD_STAR", archive["p1"].Tier)

	_, statErr := filepath.Glob(filepath.Join(dir, "*.tmp"))
	assert.NoError(t, statErr)
}

func TestGradedLogWriterAppendsNDJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graded.ndjson")
	w, err := NewGradedLogWriter(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Append(GradedPick{PickID: "p1", Sport: "NBA", Tier: "GOLD_STAR", Units: 2.0, FinalScore: 8.1}))
	require.NoError(t, w.Append(GradedPick{PickID: "p2", Sport: "NBA", Tier: "EDGE_LEAN", Units: 1.0, FinalScore: 6.8}))
}
