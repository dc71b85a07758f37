package event

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDuplicateEvent is returned when registering a name twice.
var ErrDuplicateEvent = errors.New("event already registered")

// Map is a name -> Event lookup. A nil Map resolves nothing.
type Map map[string]*Event

// Resolve looks up name. Missing names are not an error.
func (m Map) Resolve(name string) (*Event, bool) {
	e, ok := m[name]
	return e, ok
}

// Registry creates Events bound to one event log and indexes them by name.
type Registry struct {
	log    Appender
	events Map
}

// NewRegistry creates an empty registry whose events append to log.
func NewRegistry(log Appender) *Registry {
	return &Registry{log: log, events: make(Map)}
}

// Register adds a named event.
func (r *Registry) Register(name string, fn Func) error {
	if _, exists := r.events[name]; exists {
		return fmt.Errorf("register %q: %w", name, ErrDuplicateEvent)
	}
	e, err := New(fn, name, r.log)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	r.events[name] = e
	return nil
}

// Resolve looks up a registered event by name.
func (r *Registry) Resolve(name string) (*Event, bool) {
	return r.events.Resolve(name)
}

// Names returns registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.events))
	for name := range r.events {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
