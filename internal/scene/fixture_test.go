package scene

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/scenes/internal/event"
	"github.com/roach88/scenes/internal/history"
	"github.com/roach88/scenes/internal/testutil"
)

// sectionFixture reproduces a short playthrough:
//
//	line 10: visit "Example Scene", "Example Event,2"
//	line 15: visit "Example Scene", "Example Event,2"
//	line 16: visit "Example Scene"
//	line 17: visit "Example Scene 2", "Example Event,5"
type sectionFixture struct {
	counter *testutil.ManualCounter
	scenes  *history.Log
	events  *history.Log
	lines   []Line
}

func newSectionFixture(t *testing.T) *sectionFixture {
	t.Helper()

	counter := testutil.NewManualCounter(10)
	f := &sectionFixture{
		counter: counter,
		scenes:  history.New(counter),
		events:  history.New(counter),
		lines: []Line{
			{Text: "Line 1"}, {Text: "Line 2"}, {Text: "Line 3"}, {Text: "Line 4"}, {Text: "Line 5"},
		},
	}

	f.scenes.Append("Example Scene")
	f.events.Append(event.FormatKey("Example Event", 2))

	counter.Add(5)
	f.scenes.Append("Example Scene")
	f.events.Append(event.FormatKey("Example Event", 2))

	counter.Add(1)
	f.scenes.Append("Example Scene")

	counter.Add(1)
	f.scenes.Append("Example Scene 2")
	f.events.Append(event.FormatKey("Example Event", 5))

	return f
}

func (f *sectionFixture) section(conditions ...Condition) *Section {
	return NewSection(f.lines, f.scenes, f.events, conditions)
}

// readAll drives the caller loop contract and returns each line's output.
func readAll(t *testing.T, s *Section) ([]string, error) {
	t.Helper()

	var out []string
	for {
		active, err := s.IsActive()
		if err != nil {
			return out, err
		}
		if !active {
			return out, nil
		}
		var buf bytes.Buffer
		require.NoError(t, s.ReadLine(&buf, nil))
		out = append(out, buf.String())
	}
}

func (f *sectionFixture) allText() []string {
	out := make([]string, len(f.lines))
	for i, l := range f.lines {
		out[i] = l.Text
	}
	return out
}
