package scene

import (
	"fmt"
	"io"
	"slices"
)

// State is a Section's activation state. Active and Inactive are terminal.
type State int

const (
	StateUnchecked State = iota
	StateActive
	StateInactive
)

func (s State) String() string {
	switch s {
	case StateUnchecked:
		return "unchecked"
	case StateActive:
		return "active"
	case StateInactive:
		return "inactive"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Section is a consumable run of Lines gated by Conditions.
//
// The conditions slice is held by reference: the owner may still mutate it
// until the first activity check freezes the result.
type Section struct {
	lines      []Line
	conditions []Condition
	eval       *Evaluator
	state      State
}

// NewSection creates an unchecked Section over a copy of lines.
// Both logs are only read.
func NewSection(lines []Line, scenes, events LogReader, conditions []Condition) *Section {
	return &Section{
		lines:      slices.Clone(lines),
		conditions: conditions,
		eval:       NewEvaluator(scenes, events),
	}
}

// RestoreSection rebuilds a partly-read Section with a previously frozen
// state, so resuming does not re-evaluate against a log that has grown.
func RestoreSection(lines []Line, scenes, events LogReader, conditions []Condition, state State) *Section {
	s := NewSection(lines, scenes, events, conditions)
	s.state = state
	return s
}

// IsActive reports whether the front line may be read.
//
// An empty Section is never active. Otherwise the first call evaluates every
// condition and caches the conjunction; later calls return the cached value
// even if the logs have changed. A condition error aborts the check and
// leaves the Section unchecked.
func (s *Section) IsActive() (bool, error) {
	if len(s.lines) == 0 {
		return false, nil
	}
	if s.state != StateUnchecked {
		return s.state == StateActive, nil
	}

	active, err := s.evaluate()
	if err != nil {
		return false, err
	}
	if active {
		s.state = StateActive
	} else {
		s.state = StateInactive
	}
	return active, nil
}

// evaluate folds every condition with AND. All conditions are matched so a
// malformed one is reported even after another has already failed.
func (s *Section) evaluate() (bool, error) {
	active := true
	for i, c := range s.conditions {
		outcome, err := s.eval.Match(c)
		if err != nil {
			return false, newBadArgumentError(i, c, err)
		}
		switch outcome {
		case OutcomeInvalidSize:
			return false, newInvalidSizeError(i, c, Arity(c.Name))
		case OutcomeInvalidCondition:
			return false, newUnknownConditionError(i, c)
		case OutcomeFalse:
			active = false
		}
	}
	return active, nil
}

// State returns the cached activation state.
func (s *Section) State() State {
	return s.state
}

// Empty reports whether every line has been read.
func (s *Section) Empty() bool {
	return len(s.lines) == 0
}

// Len returns the number of unread lines.
func (s *Section) Len() int {
	return len(s.lines)
}

// Lines returns a copy of the unread lines.
func (s *Section) Lines() []Line {
	return slices.Clone(s.lines)
}

// Conditions returns the section's conditions.
func (s *Section) Conditions() []Condition {
	return s.conditions
}

// ReadLine writes the front line, fires its event through events, and removes
// it. A failed write leaves the line queued and fires nothing. ReadLine does
// not check IsActive. Reading an empty Section panics: callers must check
// Empty or IsActive first.
func (s *Section) ReadLine(w io.Writer, events Resolver) error {
	if len(s.lines) == 0 {
		panic("scene: ReadLine on empty section")
	}
	if err := s.lines[0].Read(w, events); err != nil {
		return err
	}
	s.lines = s.lines[1:]
	return nil
}
