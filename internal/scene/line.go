package scene

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/roach88/scenes/internal/event"
)

// Resolver finds an Event by name at read time.
// *event.Registry and event.Map both satisfy it.
type Resolver interface {
	Resolve(name string) (*event.Event, bool)
}

// Line is one unit of playback: text plus an optional, late-bound event.
// An empty EventName means the line fires nothing.
type Line struct {
	Text      string `json:"text" yaml:"text"`
	EventName string `json:"event,omitempty" yaml:"event,omitempty"`
	EventArg  string `json:"arg,omitempty" yaml:"arg,omitempty"`
}

// HasEvent reports whether the line names an event.
func (l Line) HasEvent() bool {
	return l.EventName != ""
}

// Read writes the text to w, then calls the named event if events resolves
// it. A name the resolver does not know is skipped silently.
func (l Line) Read(w io.Writer, events Resolver) error {
	if _, err := io.WriteString(w, l.Text); err != nil {
		return fmt.Errorf("read line: %w", err)
	}
	if !l.HasEvent() || events == nil {
		return nil
	}
	if e, ok := events.Resolve(l.EventName); ok {
		e.Call(l.EventArg)
	}
	return nil
}

// MarshalJSON writes "event": null for lines without an event.
func (l Line) MarshalJSON() ([]byte, error) {
	wire := struct {
		Text  string  `json:"text"`
		Event *string `json:"event"`
		Arg   string  `json:"arg"`
	}{Text: l.Text, Arg: l.EventArg}
	if l.HasEvent() {
		name := l.EventName
		wire.Event = &name
	}
	return json.Marshal(wire)
}
