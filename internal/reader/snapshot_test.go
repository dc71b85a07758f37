package reader

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scenes/internal/event"
	"github.com/roach88/scenes/internal/history"
	"github.com/roach88/scenes/internal/scene"
)

func pausingSource() mapSource {
	return mapSource{
		"Opening": {
			{Lines: lines("skipped?\n"), Conditions: []scene.Condition{scene.NewCondition(scene.ExpectEqual, "Door,1")}},
			{
				Lines: []scene.Line{
					{Text: "a\n"},
					{Text: "b\n", EventName: EventPause},
					{Text: "c\n"},
				},
				// Becomes false once "Door,1" is logged, but the state is frozen
				Conditions: []scene.Condition{scene.NewCondition(scene.ExpectNotEqual, "Door,1")},
			},
			{Lines: []scene.Line{{Text: "d\n", EventName: EventGoto, EventArg: "Hall"}}},
		},
		"Hall": {
			{Lines: lines("hall\n")},
		},
	}
}

func TestSnapshot_BeforeStart(t *testing.T) {
	r := newTestReader(t, pausingSource())

	snap := r.Snapshot()
	assert.Equal(t, "", snap.Scene)
	assert.Equal(t, DefaultStartScene, snap.NextScene)
	assert.Equal(t, int64(0), snap.LinesRead)

	resumed, err := Resume(pausingSource(), Config{Logger: quietLogger()}, snap)
	require.NoError(t, err)

	var out bytes.Buffer
	reason, err := resumed.Read(context.Background(), &out)
	require.NoError(t, err)
	assert.Equal(t, StopPaused, reason)
	assert.Equal(t, "a\nb\n", out.String())
}

func TestSnapshot_ResumeMidSection(t *testing.T) {
	r := newTestReader(t, pausingSource())

	var first bytes.Buffer
	reason, err := r.Read(context.Background(), &first)
	require.NoError(t, err)
	require.Equal(t, StopPaused, reason)
	require.Equal(t, "a\nb\n", first.String())

	snap := r.Snapshot()
	assert.Equal(t, "Opening", snap.Scene)
	assert.Equal(t, 1, snap.SectionsRead)
	assert.Equal(t, 2, snap.LinesInSection)
	assert.Equal(t, scene.StateActive, snap.FrontState)
	assert.Equal(t, 1, snap.PausesSeen)
	assert.Equal(t, int64(2), snap.LinesRead)
	assert.Equal(t, []history.Entry{{Key: "pause,1", Seq: 1}}, snap.Events)
	assert.Equal(t, []history.Entry{{Key: "Opening", Seq: 0}}, snap.Scenes)

	resumed, err := Resume(pausingSource(), Config{Logger: quietLogger()}, snap)
	require.NoError(t, err)

	// A log change that would flip the front section's conditions
	resumed.Events().Append("Door,1")

	var second bytes.Buffer
	reason, err = resumed.Read(context.Background(), &second)
	require.NoError(t, err)
	assert.Equal(t, StopFinished, reason)
	assert.Equal(t, "c\nd\nhall\n", second.String())

	// Scene log keeps the first visit and gains only Hall
	assert.Equal(t, []int64{0}, resumed.Scenes().Query("Opening"))
	assert.Equal(t, []int64{4}, resumed.Scenes().Query("Hall"))
	assert.Equal(t, int64(5), resumed.LinesRead())
}

func TestResume_UserEventsReRegistered(t *testing.T) {
	src := mapSource{
		"Opening": {{Lines: []scene.Line{
			{Text: "1", EventName: EventPause},
			{Text: "2", EventName: "Score", EventArg: "7"},
		}}},
	}
	r := newTestReader(t, src)
	_, err := r.Read(context.Background(), &bytes.Buffer{})
	require.NoError(t, err)

	resumed, err := Resume(src, Config{Logger: quietLogger()}, r.Snapshot())
	require.NoError(t, err)
	require.NoError(t, resumed.AddEvent("Score", func(arg string) int { return len(arg) + 6 }))

	_, err = resumed.Read(context.Background(), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, resumed.Events().Query(event.FormatKey("Score", 7)))
}

func TestResume_PositionOutOfRange(t *testing.T) {
	snap := Snapshot{Scene: "Opening", SectionsRead: 9}
	_, err := Resume(pausingSource(), Config{Logger: quietLogger()}, snap)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "beyond")

	snap = Snapshot{Scene: "Opening", SectionsRead: 1, LinesInSection: 9}
	_, err = Resume(pausingSource(), Config{Logger: quietLogger()}, snap)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "beyond")
}

func TestResume_RejectsDecreasingLog(t *testing.T) {
	snap := Snapshot{Events: []history.Entry{{Key: "a,1", Seq: 5}, {Key: "a,1", Seq: 2}}}
	_, err := Resume(pausingSource(), Config{Logger: quietLogger()}, snap)
	require.Error(t, err)
}
