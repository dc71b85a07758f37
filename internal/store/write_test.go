package store

import (
	"context"
	"errors"
	"testing"

	"github.com/roach88/scenes/internal/history"
	"github.com/roach88/scenes/internal/reader"
	"github.com/roach88/scenes/internal/testutil"
)

func TestWriteSave_Basic(t *testing.T) {
	s := createTestStore(t, WithIDGenerator(testutil.NewFixedIDGenerator("save-fixed")))
	ctx := context.Background()

	id, err := s.WriteSave(ctx, "autosave", createTestSnapshot())
	if err != nil {
		t.Fatalf("WriteSave() failed: %v", err)
	}
	if id != "save-fixed" {
		t.Errorf("id = %q, want %q", id, "save-fixed")
	}

	var scene string
	var linesRead int64
	err = s.db.QueryRow("SELECT scene, lines_read FROM saves WHERE slot = ?", "autosave").Scan(&scene, &linesRead)
	if err != nil {
		t.Fatalf("query save: %v", err)
	}
	if scene != "Hall" || linesRead != 17 {
		t.Errorf("row = (%q, %d), want (Hall, 17)", scene, linesRead)
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM history_entries WHERE slot = ?", "autosave").Scan(&count); err != nil {
		t.Fatalf("count entries: %v", err)
	}
	if count != 6 {
		t.Errorf("history entries = %d, want 6", count)
	}
}

func TestWriteSave_DefaultIDIsUUID(t *testing.T) {
	s := createTestStore(t)

	id, err := s.WriteSave(context.Background(), "autosave", createTestSnapshot())
	if err != nil {
		t.Fatalf("WriteSave() failed: %v", err)
	}
	// 8-4-4-4-12 hex
	if len(id) != 36 {
		t.Errorf("id = %q, want a hyphenated UUID", id)
	}
}

func TestWriteSave_EmptySlot(t *testing.T) {
	s := createTestStore(t)

	if _, err := s.WriteSave(context.Background(), "", createTestSnapshot()); err == nil {
		t.Error("WriteSave() with empty slot should fail")
	}
}

func TestWriteSave_ReplacesSlot(t *testing.T) {
	s := createTestStore(t, WithIDGenerator(&sequenceIDs{}))
	ctx := context.Background()

	if _, err := s.WriteSave(ctx, "autosave", createTestSnapshot()); err != nil {
		t.Fatalf("first WriteSave() failed: %v", err)
	}

	smaller := reader.Snapshot{
		LinesRead: 3,
		Scene:     "Opening",
		Scenes:    []history.Entry{{Key: "Opening", Seq: 0}},
	}
	id, err := s.WriteSave(ctx, "autosave", smaller)
	if err != nil {
		t.Fatalf("second WriteSave() failed: %v", err)
	}
	if id != "save-2" {
		t.Errorf("id = %q, want save-2", id)
	}

	got, err := s.LoadSave(ctx, "autosave")
	if err != nil {
		t.Fatalf("LoadSave() failed: %v", err)
	}
	if got.Snapshot.LinesRead != 3 {
		t.Errorf("LinesRead = %d, want 3", got.Snapshot.LinesRead)
	}
	if len(got.Snapshot.Events) != 0 {
		t.Errorf("old event entries survived: %v", got.Snapshot.Events)
	}
	if len(got.Snapshot.Scenes) != 1 {
		t.Errorf("scene entries = %v, want one", got.Snapshot.Scenes)
	}

	saves, err := s.ListSaves(ctx)
	if err != nil {
		t.Fatalf("ListSaves() failed: %v", err)
	}
	if len(saves) != 1 {
		t.Errorf("ListSaves() = %d slots, want 1", len(saves))
	}
}

func TestWriteSave_CanceledContextKeepsPreviousSave(t *testing.T) {
	s := createTestStore(t, WithIDGenerator(&sequenceIDs{}))

	if _, err := s.WriteSave(context.Background(), "autosave", createTestSnapshot()); err != nil {
		t.Fatalf("WriteSave() failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.WriteSave(ctx, "autosave", reader.Snapshot{LinesRead: 99}); err == nil {
		t.Fatal("WriteSave() with canceled context should fail")
	}

	got, err := s.LoadSave(context.Background(), "autosave")
	if err != nil {
		t.Fatalf("LoadSave() failed: %v", err)
	}
	if got.Snapshot.LinesRead != 17 {
		t.Errorf("LinesRead = %d, want the previous save's 17", got.Snapshot.LinesRead)
	}
}

func TestDeleteSave(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if _, err := s.WriteSave(ctx, "autosave", createTestSnapshot()); err != nil {
		t.Fatalf("WriteSave() failed: %v", err)
	}
	if err := s.DeleteSave(ctx, "autosave"); err != nil {
		t.Fatalf("DeleteSave() failed: %v", err)
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM history_entries").Scan(&count); err != nil {
		t.Fatalf("count entries: %v", err)
	}
	if count != 0 {
		t.Errorf("history entries after delete = %d, want 0", count)
	}

	if err := s.DeleteSave(ctx, "autosave"); !errors.Is(err, ErrSaveNotFound) {
		t.Errorf("second DeleteSave() = %v, want ErrSaveNotFound", err)
	}
}
