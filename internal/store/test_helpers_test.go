package store

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/roach88/scenes/internal/history"
	"github.com/roach88/scenes/internal/reader"
	"github.com/roach88/scenes/internal/scene"
)

// createTestStore creates a new temporary store for testing.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// sequenceIDs hands out save-1, save-2, ...
type sequenceIDs struct {
	mu   sync.Mutex
	next int
}

func (g *sequenceIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("save-%d", g.next)
}

// createTestSnapshot returns a mid-scene snapshot with entries in both logs.
func createTestSnapshot() reader.Snapshot {
	return reader.Snapshot{
		LinesRead:      17,
		Scene:          "Hall",
		NextScene:      "",
		SectionsRead:   1,
		LinesInSection: 2,
		FrontState:     scene.StateActive,
		PausesSeen:     1,
		StopsSeen:      0,
		Events: []history.Entry{
			{Key: "bell,0", Seq: 2},
			{Key: "Event,2", Seq: 10},
			{Key: "Event,2", Seq: 15},
			{Key: "pause,1", Seq: 16},
		},
		Scenes: []history.Entry{
			{Key: "Opening", Seq: 0},
			{Key: "Hall", Seq: 12},
		},
	}
}
