package harness

import "sort"

// Trace event types.
const (
	TraceScene = "scene"
	TraceLine  = "line"
	TraceEvent = "event"
)

// TraceEntry is one scene visit, line read or event firing.
type TraceEntry struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	Key  string `json:"key,omitempty"`
	Seq  int64  `json:"seq"`
}

// CheckResult records how one check evaluated.
type CheckResult struct {
	Name       string   `json:"name,omitempty"`
	Conditions []string `json:"conditions"`
	Expect     string   `json:"expect"`
	Got        string   `json:"got"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true if every check and assertion held.
	Pass bool `json:"pass"`

	// Trace merges scene visits, lines and events, ordered by seq.
	// At equal seq a scene visit comes before the line read there, and the
	// line before the event it fired.
	Trace []TraceEntry `json:"trace"`

	// Transcript is the text of every line read, one element per line.
	Transcript []string `json:"-"`

	// Stops lists the reason of every Read call, or "error" if one failed.
	Stops []string `json:"stops,omitempty"`

	LinesRead int64 `json:"lines_read"`

	Checks []CheckResult `json:"checks,omitempty"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEntry{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// LastStop returns the reason of the final Read, or "" if nothing played.
func (r *Result) LastStop() string {
	if len(r.Stops) == 0 {
		return ""
	}
	return r.Stops[len(r.Stops)-1]
}

var traceRank = map[string]int{TraceScene: 0, TraceLine: 1, TraceEvent: 2}

func sortTrace(trace []TraceEntry) {
	sort.SliceStable(trace, func(i, j int) bool {
		if trace[i].Seq != trace[j].Seq {
			return trace[i].Seq < trace[j].Seq
		}
		return traceRank[trace[i].Type] < traceRank[trace[j].Type]
	})
}
