// Package reader plays scenes: it loads scene files, records scene visits,
// and reads Sections line by line while their conditions allow.
//
// ARCHITECTURE:
//
// The Reader owns the lines-read counter, the event log, the scene log and
// the event registry. Sections and Events only hold references to them.
//
// Playback Flow:
//  1. LoadScene appends the scene name to the scene log at the current line
//     count, then builds one Section per scene.Spec.
//  2. Read takes the front Section and, while it is active, checks for
//     cancellation and pause/stop signals, reads one line, advances the
//     counter and waits the line delay.
//  3. An exhausted or inactive Section is dropped; when the queue drains the
//     scene named by the last goto event is loaded, or playback finishes.
//
// Signals:
// The built-in "pause" and "stop" events log "pause,1" and "stop,1". A new
// entry for either since the last check interrupts Read with StopPaused or
// StopStopped. The interrupted Section stays at the front of the queue, so a
// later Read resumes exactly where playback left off.
//
// Everything runs on the caller's goroutine. The only suspension is the line
// delay, which returns early when the context is cancelled.
package reader
