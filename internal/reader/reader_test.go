package reader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scenes/internal/event"
	"github.com/roach88/scenes/internal/scene"
)

var errNoSuchScene = errors.New("no such scene")

// mapSource serves scenes from memory.
type mapSource map[string][]scene.Spec

func (m mapSource) LoadScene(name string) ([]scene.Spec, error) {
	specs, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, errNoSuchScene)
	}
	return specs, nil
}

func lines(texts ...string) []scene.Line {
	out := make([]scene.Line, len(texts))
	for i, t := range texts {
		out[i] = scene.Line{Text: t}
	}
	return out
}

func twoScenes() mapSource {
	return mapSource{
		"Opening": {
			{
				Lines: []scene.Line{
					{Text: "You wake in a cold room.\n"},
					{Text: "A bell rings.\n", EventName: "Bell"},
					{Text: "You stand up.\n", EventName: EventGoto, EventArg: "Hall"},
				},
			},
			{
				Lines:      lines("The bell still echoes.\n"),
				Conditions: []scene.Condition{scene.NewCondition(scene.ExpectEqual, "Bell,1")},
			},
			{
				Lines:      lines("You already opened the door.\n"),
				Conditions: []scene.Condition{scene.NewCondition(scene.ExpectEqual, "Door,1")},
			},
		},
		"Hall": {
			{
				Lines: lines("The hall is quiet after the bell.\n"),
				Conditions: []scene.Condition{
					scene.NewCondition(scene.TriggeredBeforeLatestSceneCall, "Hall", "Bell,1"),
				},
			},
			{
				Lines: lines("Nothing else happens.\n"),
				Conditions: []scene.Condition{
					scene.NewCondition(scene.NotTriggeredSinceLatestSceneCall, "Hall", "Bell,1"),
				},
			},
			{
				Lines:      lines("The end.\n"),
				Conditions: []scene.Condition{scene.NewCondition(scene.ExpectHigher, "Bell,0")},
			},
		},
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestReader(t *testing.T, src SceneSource) *Reader {
	t.Helper()
	r, err := New(src, Config{Logger: quietLogger()})
	require.NoError(t, err)
	return r
}

func TestRead_TwoScenes(t *testing.T) {
	r := newTestReader(t, twoScenes())
	require.NoError(t, r.AddEvent("Bell", event.Constant(1)))

	var out bytes.Buffer
	reason, err := r.Read(context.Background(), &out)
	require.NoError(t, err)
	assert.Equal(t, StopFinished, reason)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "two_scenes", out.Bytes())

	assert.Equal(t, int64(7), r.LinesRead())
	assert.Equal(t, "Hall", r.CurrentScene())
	assert.Equal(t, []int64{0}, r.Scenes().Query("Opening"))
	assert.Equal(t, []int64{4}, r.Scenes().Query("Hall"))
	assert.Equal(t, []int64{1}, r.Events().Query("Bell,1"))
	assert.Equal(t, []int64{2}, r.Events().Query("goto,0"))
}

func TestRead_DefaultStartSceneMissing(t *testing.T) {
	r := newTestReader(t, mapSource{})

	_, err := r.Read(context.Background(), io.Discard)
	require.Error(t, err)
	assert.ErrorIs(t, err, errNoSuchScene)
	assert.Contains(t, err.Error(), DefaultStartScene)
}

func TestRead_EmptyStartScene(t *testing.T) {
	r := newTestReader(t, mapSource{})
	r.SetNextScene("")

	_, err := r.Read(context.Background(), io.Discard)
	assert.ErrorIs(t, err, ErrNoStartScene)
}

func TestRead_GotoMissingScene(t *testing.T) {
	src := mapSource{
		"Opening": {{Lines: []scene.Line{{Text: "x", EventName: EventGoto, EventArg: "Nowhere"}}}},
	}
	r := newTestReader(t, src)

	_, err := r.Read(context.Background(), io.Discard)
	require.Error(t, err)
	assert.ErrorIs(t, err, errNoSuchScene)
}

func TestRead_ConditionErrorAborts(t *testing.T) {
	src := mapSource{
		"Opening": {
			{Lines: lines("first\n")},
			{Lines: lines("never\n"), Conditions: []scene.Condition{scene.NewCondition("bogus")}},
			{Lines: lines("unreached\n")},
		},
	}
	r := newTestReader(t, src)

	var out bytes.Buffer
	_, err := r.Read(context.Background(), &out)
	require.Error(t, err)
	assert.True(t, scene.IsNotFound(err))
	assert.Equal(t, "first\n", out.String())
}

func TestRead_PauseAndResume(t *testing.T) {
	src := mapSource{
		"Opening": {
			{Lines: []scene.Line{{Text: "a\n"}, {Text: "b\n", EventName: EventPause}, {Text: "c\n"}}},
			{Lines: lines("d\n")},
		},
	}
	r := newTestReader(t, src)

	var out bytes.Buffer
	reason, err := r.Read(context.Background(), &out)
	require.NoError(t, err)
	assert.Equal(t, StopPaused, reason)
	assert.Equal(t, "a\nb\n", out.String())

	reason, err = r.Read(context.Background(), &out)
	require.NoError(t, err)
	assert.Equal(t, StopFinished, reason)
	assert.Equal(t, "a\nb\nc\nd\n", out.String())
}

func TestRead_Stop(t *testing.T) {
	src := mapSource{
		"Opening": {
			{Lines: []scene.Line{{Text: "a\n", EventName: EventStop}, {Text: "b\n"}}},
		},
	}
	r := newTestReader(t, src)

	var out bytes.Buffer
	reason, err := r.Read(context.Background(), &out)
	require.NoError(t, err)
	assert.Equal(t, StopStopped, reason)
	assert.Equal(t, "a\n", out.String())
}

func TestRead_SignalOnLastLineSeenInNextSection(t *testing.T) {
	src := mapSource{
		"Opening": {
			{Lines: []scene.Line{{Text: "a\n", EventName: EventPause}}},
			{Lines: lines("b\n")},
		},
	}
	r := newTestReader(t, src)

	var out bytes.Buffer
	reason, err := r.Read(context.Background(), &out)
	require.NoError(t, err)
	assert.Equal(t, StopPaused, reason)
	assert.Equal(t, "a\n", out.String())
}

func TestRead_ContextCancelledDuringDelay(t *testing.T) {
	src := mapSource{"Opening": {{Lines: lines("a\n", "b\n")}}}
	r := newTestReader(t, src)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.wait = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	var out bytes.Buffer
	_, err := r.Read(ctx, &out)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "a\n", out.String())

	// The second line is still queued
	snap := r.Snapshot()
	assert.Equal(t, 1, snap.LinesInSection)
}

func TestRead_LineDelayIsApplied(t *testing.T) {
	src := mapSource{"Opening": {{Lines: lines("a", "b", "c")}}}
	r, err := New(src, Config{LineDelay: 250 * time.Millisecond, Logger: quietLogger()})
	require.NoError(t, err)

	var waited []time.Duration
	r.wait = func(ctx context.Context, d time.Duration) error {
		waited = append(waited, d)
		return nil
	}

	_, err = r.Read(context.Background(), io.Discard)
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{250 * time.Millisecond, 250 * time.Millisecond, 250 * time.Millisecond}, waited)
}

func TestAddEvent_RejectsBuiltinAndBadNames(t *testing.T) {
	r := newTestReader(t, mapSource{})

	assert.ErrorIs(t, r.AddEvent(EventPause, event.Constant(2)), event.ErrDuplicateEvent)
	assert.ErrorIs(t, r.AddEvent("a,b", event.Constant(2)), event.ErrInvalidName)
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), 0))
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
	assert.ErrorIs(t, sleepContext(ctx, 0), context.Canceled)
}

func TestStopReason_String(t *testing.T) {
	assert.Equal(t, "finished", StopFinished.String())
	assert.Equal(t, "paused", StopPaused.String())
	assert.Equal(t, "stopped", StopStopped.String())
}
