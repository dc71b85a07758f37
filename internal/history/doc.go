// Package history implements the append-only logs that record when things
// happened during playback.
//
// A Log maps a string key to the ordered list of line counts at which the key
// was appended. The same type backs two logs with different key conventions:
//
//   - the event log, keyed by "name,result" event strings
//   - the scene log, keyed by raw scene names
//
// Sequence numbers come from a Counter shared with the reader. Append reads
// the counter at call time, so every entry reflects the number of lines read
// when it was recorded. Logs never shrink: there is no delete operation.
//
// Missing keys are not errors. Query returns an empty slice and FindKeys an
// empty result so that "never happened" is representable without a sentinel.
package history
