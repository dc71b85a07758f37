package reader

import (
	"fmt"

	"github.com/roach88/scenes/internal/history"
	"github.com/roach88/scenes/internal/scene"
)

// Snapshot is everything needed to resume playback later.
type Snapshot struct {
	LinesRead int64

	// Scene is the scene being played; empty if playback never started.
	Scene string

	// NextScene is the pending goto target, or the start scene before the
	// first Read.
	NextScene string

	// SectionsRead counts sections of Scene already dropped.
	SectionsRead int

	// LinesInSection counts lines read from the front section.
	LinesInSection int

	// FrontState is the front section's frozen activation state.
	FrontState scene.State

	PausesSeen int
	StopsSeen  int

	Events []history.Entry
	Scenes []history.Entry
}

// Snapshot captures the current playback position and both logs.
func (r *Reader) Snapshot() Snapshot {
	snap := Snapshot{
		LinesRead:      r.counter.Current(),
		NextScene:      r.next,
		SectionsRead:   r.sections,
		LinesInSection: r.frontRead,
		PausesSeen:     r.pausesSeen,
		StopsSeen:      r.stopsSeen,
		Events:         r.events.Entries(),
		Scenes:         r.scenes.Entries(),
	}
	if r.started {
		snap.Scene = r.current
	}
	if len(r.queue) > 0 {
		snap.FrontState = r.queue[0].State()
	}
	return snap
}

// Resume rebuilds a Reader from a snapshot. The current scene is reloaded
// from source without recording a new visit; sections already read are
// skipped and the front section keeps its frozen state.
//
// User events must be registered again with AddEvent.
func Resume(source SceneSource, cfg Config, snap Snapshot) (*Reader, error) {
	counter := history.NewLineCounterAt(snap.LinesRead)

	events, err := history.Restore(counter, snap.Events)
	if err != nil {
		return nil, fmt.Errorf("resume: event log: %w", err)
	}
	scenes, err := history.Restore(counter, snap.Scenes)
	if err != nil {
		return nil, fmt.Errorf("resume: scene log: %w", err)
	}

	r, err := newReader(source, cfg, counter, events, scenes)
	if err != nil {
		return nil, err
	}
	r.next = snap.NextScene
	r.pausesSeen = snap.PausesSeen
	r.stopsSeen = snap.StopsSeen

	if snap.Scene == "" {
		return r, nil
	}

	specs, err := source.LoadScene(snap.Scene)
	if err != nil {
		return nil, fmt.Errorf("resume scene %q: %w", snap.Scene, err)
	}
	if snap.SectionsRead > len(specs) {
		return nil, fmt.Errorf("resume scene %q: position %d beyond %d sections", snap.Scene, snap.SectionsRead, len(specs))
	}

	for i, spec := range specs[snap.SectionsRead:] {
		if i > 0 {
			r.queue = append(r.queue, scene.NewSection(spec.Lines, scenes, events, spec.Conditions))
			continue
		}
		if snap.LinesInSection > len(spec.Lines) {
			return nil, fmt.Errorf("resume scene %q: line %d beyond %d lines", snap.Scene, snap.LinesInSection, len(spec.Lines))
		}
		r.queue = append(r.queue, scene.RestoreSection(spec.Lines[snap.LinesInSection:], scenes, events, spec.Conditions, snap.FrontState))
	}

	r.current = snap.Scene
	r.sections = snap.SectionsRead
	r.frontRead = snap.LinesInSection
	r.started = true

	r.logger.Info("playback resumed", "scene", snap.Scene, "section", snap.SectionsRead, "lines_read", snap.LinesRead)
	return r, nil
}
