package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/scenes/internal/history"
	"github.com/roach88/scenes/internal/reader"
	"github.com/roach88/scenes/internal/scene"
)

// Save is a stored snapshot and the slot it lives in.
type Save struct {
	ID       string
	Slot     string
	Seq      int64
	Snapshot reader.Snapshot
}

// SaveInfo summarizes a slot without its history.
type SaveInfo struct {
	ID        string `json:"id"`
	Slot      string `json:"slot"`
	Seq       int64  `json:"seq"`
	Scene     string `json:"scene"`
	LinesRead int64  `json:"lines_read"`
}

// LoadSave reads the snapshot stored in slot, including both logs.
// Returns ErrSaveNotFound if the slot has never been written.
func (s *Store) LoadSave(ctx context.Context, slot string) (*Save, error) {
	var (
		save       = Save{Slot: slot}
		frontState int
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, save_seq, lines_read, scene, next_scene, sections_read,
		       lines_in_section, front_state, pauses_seen, stops_seen
		FROM saves
		WHERE slot = ?
	`, slot).Scan(
		&save.ID,
		&save.Seq,
		&save.Snapshot.LinesRead,
		&save.Snapshot.Scene,
		&save.Snapshot.NextScene,
		&save.Snapshot.SectionsRead,
		&save.Snapshot.LinesInSection,
		&frontState,
		&save.Snapshot.PausesSeen,
		&save.Snapshot.StopsSeen,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load save %q: %w", slot, ErrSaveNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load save %q: %w", slot, err)
	}
	save.Snapshot.FrontState = scene.State(frontState)

	if save.Snapshot.Events, err = s.ReadHistory(ctx, slot, LogEvents); err != nil {
		return nil, fmt.Errorf("load save %q: %w", slot, err)
	}
	if save.Snapshot.Scenes, err = s.ReadHistory(ctx, slot, LogScenes); err != nil {
		return nil, fmt.Errorf("load save %q: %w", slot, err)
	}
	return &save, nil
}

// ListSaves returns every slot, oldest save first.
//
// Returns an empty slice (not nil) if nothing has been saved.
func (s *Store) ListSaves(ctx context.Context) ([]SaveInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, slot, save_seq, scene, lines_read
		FROM saves
		ORDER BY save_seq ASC, slot COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query saves: %w", err)
	}
	defer rows.Close()

	saves := []SaveInfo{}
	for rows.Next() {
		var info SaveInfo
		if err := rows.Scan(&info.ID, &info.Slot, &info.Seq, &info.Scene, &info.LinesRead); err != nil {
			return nil, fmt.Errorf("scan save: %w", err)
		}
		saves = append(saves, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate saves: %w", err)
	}
	return saves, nil
}

// ReadHistory returns one log of a slot in the order it was saved
// (seq ASC, key ASC).
//
// Returns an empty slice (not nil) if the log has no entries.
func (s *Store) ReadHistory(ctx context.Context, slot, logName string) ([]history.Entry, error) {
	if logName != LogEvents && logName != LogScenes {
		return nil, fmt.Errorf("read history: unknown log %q", logName)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT entry_key, seq
		FROM history_entries
		WHERE slot = ? AND log_name = ?
		ORDER BY ord ASC
	`, slot, logName)
	if err != nil {
		return nil, fmt.Errorf("query %s history: %w", logName, err)
	}
	defer rows.Close()

	entries := []history.Entry{}
	for rows.Next() {
		var e history.Entry
		if err := rows.Scan(&e.Key, &e.Seq); err != nil {
			return nil, fmt.Errorf("scan %s entry: %w", logName, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s history: %w", logName, err)
	}
	return entries, nil
}

// CountKey returns how many entries of a slot's log have exactly key.
func (s *Store) CountKey(ctx context.Context, slot, logName, key string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM history_entries
		WHERE slot = ? AND log_name = ? AND entry_key = ?
	`, slot, logName, key).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s entries for %q: %w", logName, key, err)
	}
	return n, nil
}
