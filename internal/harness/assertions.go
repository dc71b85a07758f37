package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/scenes/internal/history"
)

// AssertionContext holds the logs assertions read.
type AssertionContext struct {
	Events *history.Log
	Scenes *history.Log
}

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEntry // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for i, entry := range e.Trace {
			label := entry.Key
			if entry.Type == TraceLine {
				label = fmt.Sprintf("%q", entry.Text)
			}
			fmt.Fprintf(&buf, "  [%d] %-5s @%d %s\n", i+1, entry.Type, entry.Seq, label)
		}
	}

	return buf.String()
}

// EvaluateAssertions runs every assertion and returns one message per
// failure. An empty slice means all assertions held.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var failures []string
	for i, a := range assertions {
		if err := evaluateAssertion(result, a, actx); err != nil {
			failures = append(failures, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return failures
}

func evaluateAssertion(result *Result, a Assertion, actx *AssertionContext) error {
	switch a.Type {
	case AssertEventCount:
		return assertLogCount(result, a, actx.Events)
	case AssertSceneCount:
		return assertLogCount(result, a, actx.Scenes)
	case AssertLinesRead:
		return assertLinesRead(result, a)
	case AssertStopReason:
		return assertStopReason(result, a)
	case AssertTranscript:
		return assertTranscript(result, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertLogCount checks that key was logged exactly Count times.
func assertLogCount(result *Result, a Assertion, log *history.Log) error {
	got := len(log.Query(a.Key))
	if got == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("%q logged %d time(s)", a.Key, a.Count),
		Actual:   fmt.Sprintf("logged %d time(s) at %v", got, log.Query(a.Key)),
		Trace:    result.Trace,
	}
}

func assertLinesRead(result *Result, a Assertion) error {
	if result.LinesRead == a.Value {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("%d line(s) read", a.Value),
		Actual:   fmt.Sprintf("%d line(s) read", result.LinesRead),
		Trace:    result.Trace,
	}
}

func assertStopReason(result *Result, a Assertion) error {
	if result.LastStop() == a.Reason {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("playback %s", a.Reason),
		Actual:   fmt.Sprintf("stops %v", result.Stops),
	}
}

// assertTranscript checks the lines written, in order and in full.
func assertTranscript(result *Result, a Assertion) error {
	if len(result.Transcript) == len(a.Lines) {
		same := true
		for i := range a.Lines {
			if result.Transcript[i] != a.Lines[i] {
				same = false
				break
			}
		}
		if same {
			return nil
		}
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: describe(a.Lines),
		Actual:   describe(result.Transcript),
	}
}
