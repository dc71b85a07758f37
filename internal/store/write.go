package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/scenes/internal/history"
	"github.com/roach88/scenes/internal/reader"
)

// Log names stored in history_entries.log_name.
const (
	LogEvents = "event"
	LogScenes = "scene"
)

// WriteSave stores a snapshot under slot, replacing anything saved there
// before. The slot row, its position and both history logs are written in
// one transaction; a failed save leaves the previous one intact.
//
// Returns the id of the new save.
func (s *Store) WriteSave(ctx context.Context, slot string, snap reader.Snapshot) (id string, err error) {
	if slot == "" {
		return "", fmt.Errorf("write save: slot must not be empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("write save: begin tx: %w", err)
	}
	defer tx.Rollback()

	// Entries go first; the slot row may not exist yet and the
	// foreign key is only checked on insert.
	if _, err := tx.ExecContext(ctx, `DELETE FROM history_entries WHERE slot = ?`, slot); err != nil {
		return "", fmt.Errorf("write save: clear history: %w", err)
	}

	id = s.ids.Generate()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO saves
		(slot, id, save_seq, lines_read, scene, next_scene, sections_read,
		 lines_in_section, front_state, pauses_seen, stops_seen)
		VALUES (?, ?, (SELECT COALESCE(MAX(save_seq), 0) + 1 FROM saves), ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			id = excluded.id,
			save_seq = excluded.save_seq,
			lines_read = excluded.lines_read,
			scene = excluded.scene,
			next_scene = excluded.next_scene,
			sections_read = excluded.sections_read,
			lines_in_section = excluded.lines_in_section,
			front_state = excluded.front_state,
			pauses_seen = excluded.pauses_seen,
			stops_seen = excluded.stops_seen
	`,
		slot,
		id,
		snap.LinesRead,
		snap.Scene,
		snap.NextScene,
		snap.SectionsRead,
		snap.LinesInSection,
		int(snap.FrontState),
		snap.PausesSeen,
		snap.StopsSeen,
	)
	if err != nil {
		return "", fmt.Errorf("write save: upsert slot %q: %w", slot, err)
	}

	if err := insertEntries(ctx, tx, slot, LogEvents, snap.Events); err != nil {
		return "", fmt.Errorf("write save: %w", err)
	}
	if err := insertEntries(ctx, tx, slot, LogScenes, snap.Scenes); err != nil {
		return "", fmt.Errorf("write save: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("write save: commit: %w", err)
	}
	return id, nil
}

// DeleteSave removes a slot and its history. Deleting a missing slot
// returns ErrSaveNotFound.
func (s *Store) DeleteSave(ctx context.Context, slot string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM saves WHERE slot = ?`, slot)
	if err != nil {
		return fmt.Errorf("delete save %q: %w", slot, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete save %q: rows affected: %w", slot, err)
	}
	if n == 0 {
		return fmt.Errorf("delete save %q: %w", slot, ErrSaveNotFound)
	}
	return nil
}

func insertEntries(ctx context.Context, tx *sql.Tx, slot, logName string, entries []history.Entry) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO history_entries (slot, log_name, ord, entry_key, seq)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare %s entries: %w", logName, err)
	}
	defer stmt.Close()

	for i, e := range entries {
		if _, err := stmt.ExecContext(ctx, slot, logName, i, e.Key, e.Seq); err != nil {
			return fmt.Errorf("insert %s entry %d (%q): %w", logName, i, e.Key, err)
		}
	}
	return nil
}
