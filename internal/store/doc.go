// Package store provides SQLite-backed save slots for scene playback.
//
// A save slot holds a playback snapshot:
//   - Position: current scene, sections read, lines read in the front section
//   - Counter: lines read so far
//   - History: every entry of the event log and the scene log
//
// # Critical Patterns
//
// Logical Time Only
//   - History entries carry the lines-read seq, NEVER timestamps
//   - Saves are ordered by a monotonic save_seq, not wall time
//
// Deterministic Query Results
//   - History reads use ORDER BY ord ASC, the order the log exported them
//     (seq ASC, key ASC)
//
// Atomic Slots
//   - WriteSave replaces a slot's position and history in one transaction
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
