// Package event wraps named callbacks whose every invocation is recorded in a
// history log.
//
// An Event has a uniform (string) -> int shape. Each Call stores the result
// and appends the canonical event string "name,result" to the injected log at
// the current line count. Call is the only side-effecting operation of the
// playback core; condition checks are pure reads over what it recorded.
//
// Callbacks of other shapes are adapted to Func at registration time with
// Action, Supplier, Procedure or Wrap, keeping Event itself monomorphic.
package event
