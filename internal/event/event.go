package event

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidName is returned when an event name contains Delimiter.
var ErrInvalidName = errors.New("event name cannot contain ','")

// Func is the canonical callback shape.
type Func func(arg string) int

// Appender is the write side of a history log.
type Appender interface {
	Append(key string)
}

// Event is a named Func whose invocations are appended to a shared log.
type Event struct {
	name string
	fn   Func
	last int
	log  Appender
}

// New creates an Event. The log is shared, not owned.
func New(fn Func, name string, log Appender) (*Event, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if fn == nil {
		return nil, fmt.Errorf("new event %q: nil function", name)
	}
	return &Event{name: name, fn: fn, log: log}, nil
}

// ValidateName rejects names that would break FormatKey/ParseKey round trips.
func ValidateName(name string) error {
	if strings.Contains(name, Delimiter) {
		return fmt.Errorf("event %q: %w", name, ErrInvalidName)
	}
	return nil
}

// Call invokes the function, stores its result and logs the event string.
func (e *Event) Call(arg string) int {
	e.last = e.fn(arg)
	e.log.Append(e.EventString())
	return e.last
}

// EventString returns the canonical log key for the last call.
// Before the first call the result is 0.
func (e *Event) EventString() string {
	return FormatKey(e.name, e.last)
}

// Name returns the event name.
func (e *Event) Name() string {
	return e.name
}

// LastResult returns the most recent result, 0 before the first call.
func (e *Event) LastResult() int {
	return e.last
}

// Equal reports whether two events share a name and last result.
// Function identity is not compared.
func (e *Event) Equal(other *Event) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.name == other.name && e.last == other.last
}
