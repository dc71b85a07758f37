package reader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/scenes/internal/event"
	"github.com/roach88/scenes/internal/history"
	"github.com/roach88/scenes/internal/scene"
)

// Built-in event names.
const (
	EventPause = "pause"
	EventStop  = "stop"
	EventGoto  = "goto"
)

const (
	// DefaultStartScene is the first scene when none is configured.
	DefaultStartScene = "Opening"

	// DefaultLineDelay is the pause between lines.
	DefaultLineDelay = 500 * time.Millisecond
)

var (
	pauseSignal = event.FormatKey(EventPause, 1)
	stopSignal  = event.FormatKey(EventStop, 1)
)

// ErrNoStartScene is returned when Read has nothing to load.
var ErrNoStartScene = errors.New("no start scene")

// SceneSource loads the section specs of a named scene.
type SceneSource interface {
	LoadScene(name string) ([]scene.Spec, error)
}

// StopReason tells why Read returned without error.
type StopReason int

const (
	// StopFinished means no scene is left to play.
	StopFinished StopReason = iota
	// StopPaused means a pause signal was logged.
	StopPaused
	// StopStopped means a stop signal was logged.
	StopStopped
)

func (r StopReason) String() string {
	switch r {
	case StopFinished:
		return "finished"
	case StopPaused:
		return "paused"
	case StopStopped:
		return "stopped"
	default:
		return fmt.Sprintf("stop(%d)", int(r))
	}
}

// Config controls playback.
type Config struct {
	// StartScene is loaded by the first Read. Defaults to DefaultStartScene.
	StartScene string

	// LineDelay is waited after every line. Zero disables pacing.
	LineDelay time.Duration

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Reader plays scenes from a SceneSource.
type Reader struct {
	counter  *history.LineCounter
	events   *history.Log
	scenes   *history.Log
	registry *event.Registry
	source   SceneSource
	logger   *slog.Logger
	delay    time.Duration
	wait     func(ctx context.Context, d time.Duration) error

	queue     []*scene.Section
	current   string
	next      string
	started   bool
	sections  int // sections dropped from the current scene
	frontRead int // lines read from the front section

	pausesSeen int
	stopsSeen  int
}

// New creates a Reader that starts at line 0 with empty logs.
func New(source SceneSource, cfg Config) (*Reader, error) {
	counter := history.NewLineCounter()
	return newReader(source, cfg, counter, history.New(counter), history.New(counter))
}

func newReader(source SceneSource, cfg Config, counter *history.LineCounter, events, scenes *history.Log) (*Reader, error) {
	if cfg.StartScene == "" {
		cfg.StartScene = DefaultStartScene
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	r := &Reader{
		counter:  counter,
		events:   events,
		scenes:   scenes,
		registry: event.NewRegistry(events),
		source:   source,
		logger:   cfg.Logger,
		delay:    cfg.LineDelay,
		wait:     sleepContext,
		next:     cfg.StartScene,
	}

	builtins := []struct {
		name string
		fn   event.Func
	}{
		{EventPause, event.Constant(1)},
		{EventStop, event.Constant(1)},
		{EventGoto, event.Action(func(arg string) { r.next = arg })},
	}
	for _, b := range builtins {
		if err := r.registry.Register(b.name, b.fn); err != nil {
			return nil, fmt.Errorf("register built-in events: %w", err)
		}
	}
	return r, nil
}

// AddEvent registers a user event. Lines resolve it by name at read time.
func (r *Reader) AddEvent(name string, fn event.Func) error {
	return r.registry.Register(name, fn)
}

// Events returns the event log.
func (r *Reader) Events() *history.Log { return r.events }

// Scenes returns the scene log.
func (r *Reader) Scenes() *history.Log { return r.scenes }

// LinesRead returns the current line count.
func (r *Reader) LinesRead() int64 { return r.counter.Current() }

// CurrentScene returns the scene being played, or "" before the first load.
func (r *Reader) CurrentScene() string { return r.current }

// SetNextScene overrides the scene loaded when the current one drains.
func (r *Reader) SetNextScene(name string) { r.next = name }

// Read plays until every scene is exhausted, a signal is logged, or ctx is
// cancelled. A condition error aborts playback and is returned as is.
func (r *Reader) Read(ctx context.Context, w io.Writer) (StopReason, error) {
	if !r.started {
		if r.next == "" {
			return StopFinished, ErrNoStartScene
		}
		if err := r.loadScene(); err != nil {
			return StopFinished, err
		}
		r.started = true
	}

	for {
		for len(r.queue) > 0 {
			reason, interrupted, err := r.readSection(ctx, w)
			if err != nil {
				return StopFinished, err
			}
			if interrupted {
				return reason, nil
			}
			r.dropSection()
		}

		if r.next == "" {
			r.logger.Info("playback finished", "scene", r.current, "lines_read", r.counter.Current())
			return StopFinished, nil
		}
		if err := r.loadScene(); err != nil {
			return StopFinished, err
		}
	}
}

// loadScene loads the scene set by the last goto event (or the start scene)
// and replaces the section queue.
func (r *Reader) loadScene() error {
	name := r.next
	r.next = ""
	r.scenes.Append(name)

	specs, err := r.source.LoadScene(name)
	if err != nil {
		return fmt.Errorf("load scene %q: %w", name, err)
	}

	r.queue = r.queue[:0]
	for _, spec := range specs {
		r.queue = append(r.queue, scene.NewSection(spec.Lines, r.scenes, r.events, spec.Conditions))
	}
	r.current = name
	r.sections = 0
	r.frontRead = 0

	r.logger.Info("scene loaded", "scene", name, "sections", len(specs), "lines_read", r.counter.Current())
	return nil
}

// readSection reads the front section while it is active. interrupted is
// true when a signal stopped playback mid-section.
func (r *Reader) readSection(ctx context.Context, w io.Writer) (StopReason, bool, error) {
	s := r.queue[0]
	for {
		active, err := s.IsActive()
		if err != nil {
			return StopFinished, false, fmt.Errorf("scene %q section %d: %w", r.current, r.sections, err)
		}
		if !active {
			if r.frontRead == 0 {
				r.logger.Debug("section skipped", "scene", r.current, "section", r.sections)
			}
			return StopFinished, false, nil
		}

		if err := ctx.Err(); err != nil {
			return StopFinished, false, err
		}
		if reason, ok := r.pollSignals(); ok {
			r.logger.Info("playback interrupted", "reason", reason.String(), "scene", r.current, "lines_read", r.counter.Current())
			return reason, true, nil
		}

		if err := s.ReadLine(w, r.registry); err != nil {
			return StopFinished, false, fmt.Errorf("scene %q section %d: %w", r.current, r.sections, err)
		}
		r.frontRead++
		r.counter.Advance()

		if err := r.wait(ctx, r.delay); err != nil {
			return StopFinished, false, err
		}
	}
}

func (r *Reader) dropSection() {
	r.queue = r.queue[1:]
	r.sections++
	r.frontRead = 0
}

// pollSignals reports a pause or stop logged since the previous poll.
// Stop wins when both arrived.
func (r *Reader) pollSignals() (StopReason, bool) {
	pauses := len(r.events.Query(pauseSignal))
	stops := len(r.events.Query(stopSignal))

	newPause := pauses > r.pausesSeen
	newStop := stops > r.stopsSeen
	r.pausesSeen = pauses
	r.stopsSeen = stops

	switch {
	case newStop:
		return StopStopped, true
	case newPause:
		return StopPaused, true
	default:
		return StopFinished, false
	}
}

// sleepContext waits d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
