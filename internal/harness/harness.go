package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/roach88/scenes/internal/event"
	"github.com/roach88/scenes/internal/history"
	"github.com/roach88/scenes/internal/loader"
	"github.com/roach88/scenes/internal/reader"
	"github.com/roach88/scenes/internal/scene"
	"github.com/roach88/scenes/internal/testutil"
)

// maxReads bounds how often a paused scenario is resumed.
const maxReads = 64

// probeLine gives checked sections something to be active for.
var probeLine = []scene.Line{{Text: "probe"}}

// Harness holds the logs a scenario runs against.
type Harness struct {
	counter *testutil.ManualCounter
	events  *history.Log
	scenes  *history.Log
	logger  *slog.Logger
}

// transcript records each Write as one line. Lines are written in a single
// call each.
type transcript []string

func (t *transcript) Write(p []byte) (int, error) {
	*t = append(*t, string(p))
	return len(p), nil
}

// Run executes a scenario and returns the result.
//
// Execution flow:
// 1. Log the history steps at their line counts
// 2. Play scenes from the seeded logs, resuming after every pause
// 3. Evaluate checks and assertions against the final logs
//
// Check and assertion failures are reported in the result. The error is
// non-nil only when the scenario could not run at all.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context for playback.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	counter := testutil.NewManualCounter(0)
	h := &Harness{
		counter: counter,
		events:  history.New(counter),
		scenes:  history.New(counter),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	h.seed(scenario.History)

	result := NewResult()
	events, scenes := h.events, h.scenes
	result.LinesRead = counter.Current()

	if scenario.Scenes != "" {
		r, err := h.play(ctx, scenario, result)
		if err != nil {
			return nil, err
		}
		events, scenes = r.Events(), r.Scenes()
		result.LinesRead = r.LinesRead()
	}

	result.Trace = append(result.Trace, entriesTrace(TraceScene, scenes.Entries())...)
	result.Trace = append(result.Trace, entriesTrace(TraceEvent, events.Entries())...)
	sortTrace(result.Trace)

	for i, check := range scenario.Checks {
		got, err := evaluateCheck(scenes, events, check)
		if err != nil {
			return nil, fmt.Errorf("checks[%d]: %w", i, err)
		}
		result.Checks = append(result.Checks, CheckResult{
			Name:       check.Name,
			Conditions: conditionStrings(check.Conditions),
			Expect:     check.Expect,
			Got:        got,
		})
		if got != check.Expect {
			result.AddError(fmt.Sprintf("checks[%d] %s: expected %s, got %s", i, check.Name, check.Expect, got))
		}
	}

	actx := &AssertionContext{Events: events, Scenes: scenes}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}

	return result, nil
}

// seed logs every history step at its line count.
func (h *Harness) seed(steps []HistoryStep) {
	for _, step := range steps {
		h.counter.Set(step.At)
		if step.Scene != "" {
			h.scenes.Append(loader.NormalizeName(step.Scene))
			continue
		}
		h.events.Append(step.Event)
	}
}

// play resumes a Reader from the seeded logs and reads until playback
// finishes, stops or fails. Each pause is resumed immediately.
func (h *Harness) play(ctx context.Context, scenario *Scenario, result *Result) (*reader.Reader, error) {
	start := scenario.Start
	if start == "" {
		start = reader.DefaultStartScene
	}

	snap := reader.Snapshot{
		LinesRead: h.counter.Current(),
		NextScene: start,
		Events:    h.events.Entries(),
		Scenes:    h.scenes.Entries(),
	}
	r, err := reader.Resume(loader.NewDir(scenario.Scenes), reader.Config{
		StartScene: start,
		Logger:     h.logger,
	}, snap)
	if err != nil {
		return nil, fmt.Errorf("failed to start playback: %w", err)
	}

	names := make([]string, 0, len(scenario.Events))
	for name := range scenario.Events {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := r.AddEvent(name, event.Constant(scenario.Events[name])); err != nil {
			return nil, fmt.Errorf("failed to register event %q: %w", name, err)
		}
	}

	var out transcript
	for i := 0; i < maxReads; i++ {
		before := len(out)
		seq := r.LinesRead()

		reason, err := r.Read(ctx, &out)
		for j, text := range out[before:] {
			result.Trace = append(result.Trace, TraceEntry{Type: TraceLine, Text: text, Seq: seq + int64(j)})
		}
		if err != nil {
			result.Stops = append(result.Stops, "error")
			result.AddError(fmt.Sprintf("playback: %v", err))
			break
		}
		result.Stops = append(result.Stops, reason.String())
		if reason != reader.StopPaused {
			break
		}
	}
	result.Transcript = []string(out)
	return r, nil
}

// evaluateCheck runs the conditions through a one-line Section.
func evaluateCheck(scenes, events *history.Log, check Check) (string, error) {
	s := scene.NewSection(probeLine, scenes, events, check.Conditions)
	active, err := s.IsActive()
	switch {
	case scene.IsInvalidArgument(err):
		return ExpectInvalidArgument, nil
	case scene.IsNotFound(err):
		return ExpectNotFound, nil
	case err != nil:
		return "", err
	case active:
		return ExpectActive, nil
	default:
		return ExpectInactive, nil
	}
}

func entriesTrace(kind string, entries []history.Entry) []TraceEntry {
	out := make([]TraceEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, TraceEntry{Type: kind, Key: e.Key, Seq: e.Seq})
	}
	return out
}

func conditionStrings(conditions []scene.Condition) []string {
	out := make([]string, len(conditions))
	for i, c := range conditions {
		out[i] = c.String()
	}
	return out
}

// describe is used in failure messages.
func describe(lines []string) string {
	quoted := make([]string, len(lines))
	for i, l := range lines {
		quoted[i] = fmt.Sprintf("%q", l)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
