package scene

import (
	"fmt"
	"sort"

	"github.com/roach88/scenes/internal/event"
)

// Unary predicate names. Each takes one event string.
const (
	ExpectEqual         = "expectEqual"
	ExpectNotEqual      = "expectNotEqual"
	ExpectLower         = "expectLower"
	ExpectLowerOrEqual  = "expectLowerOrEqual"
	ExpectHigher        = "expectHigher"
	ExpectHigherOrEqual = "expectHigherOrEqual"
)

// Binary predicate names. Each takes a scene name, then an event string.
const (
	TriggeredSinceLatestSceneCall     = "triggeredSinceLatestSceneCall"
	NotTriggeredSinceLatestSceneCall  = "notTriggeredSinceLatestSceneCall"
	TriggeredBeforeLatestSceneCall    = "triggeredBeforeLatestSceneCall"
	NotTriggeredBeforeLatestSceneCall = "notTriggeredBeforeLatestSceneCall"
)

// LogReader is the read side of a history log.
type LogReader interface {
	Query(key string) []int64
	FindKeys(searchTerm string) []string
}

// Outcome is the result of matching one Condition against the registry.
type Outcome int

const (
	OutcomeFalse Outcome = iota
	OutcomeTrue
	// OutcomeInvalidSize means the predicate exists but the argument count
	// does not match its arity.
	OutcomeInvalidSize
	// OutcomeInvalidCondition means no predicate has this name.
	OutcomeInvalidCondition
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFalse:
		return "false"
	case OutcomeTrue:
		return "true"
	case OutcomeInvalidSize:
		return "invalid_size"
	case OutcomeInvalidCondition:
		return "invalid_condition"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

type unaryPredicate func(events LogReader, eventString string) (bool, error)

type binaryPredicate func(scenes, events LogReader, sceneName, eventString string) (bool, error)

var unaryPredicates = map[string]unaryPredicate{
	ExpectEqual: func(events LogReader, eventString string) (bool, error) {
		return len(events.Query(eventString)) > 0, nil
	},
	ExpectNotEqual: func(events LogReader, eventString string) (bool, error) {
		return len(events.Query(eventString)) == 0, nil
	},
	ExpectLower: func(events LogReader, eventString string) (bool, error) {
		return anyLoggedResult(events, eventString, func(logged, want int) bool { return logged < want })
	},
	ExpectLowerOrEqual: func(events LogReader, eventString string) (bool, error) {
		return anyLoggedResult(events, eventString, func(logged, want int) bool { return logged <= want })
	},
	ExpectHigher: func(events LogReader, eventString string) (bool, error) {
		return anyLoggedResult(events, eventString, func(logged, want int) bool { return logged > want })
	},
	ExpectHigherOrEqual: func(events LogReader, eventString string) (bool, error) {
		return anyLoggedResult(events, eventString, func(logged, want int) bool { return logged >= want })
	},
}

// The never-recorded branches differ per predicate: an event that never
// fired cannot be "before" a scene, but trivially satisfies "not triggered".
var binaryPredicates = map[string]binaryPredicate{
	TriggeredSinceLatestSceneCall: func(scenes, events LogReader, sceneName, eventString string) (bool, error) {
		ev, evOK := latest(events, eventString)
		sc, scOK := latest(scenes, sceneName)
		if !evOK || !scOK {
			return false, nil
		}
		return ev >= sc, nil
	},
	NotTriggeredSinceLatestSceneCall: func(scenes, events LogReader, sceneName, eventString string) (bool, error) {
		ev, evOK := latest(events, eventString)
		sc, scOK := latest(scenes, sceneName)
		if !evOK || !scOK {
			return true, nil
		}
		return ev < sc, nil
	},
	TriggeredBeforeLatestSceneCall: func(scenes, events LogReader, sceneName, eventString string) (bool, error) {
		ev, evOK := latest(events, eventString)
		if !evOK {
			return false, nil
		}
		sc, scOK := latest(scenes, sceneName)
		if !scOK {
			return true, nil
		}
		return ev < sc, nil
	},
	NotTriggeredBeforeLatestSceneCall: func(scenes, events LogReader, sceneName, eventString string) (bool, error) {
		ev, evOK := latest(events, eventString)
		if !evOK {
			return true, nil
		}
		sc, scOK := latest(scenes, sceneName)
		if !scOK {
			return false, nil
		}
		return ev >= sc, nil
	},
}

// relationalPredicates parse their argument as an event string.
var relationalPredicates = map[string]bool{
	ExpectLower:         true,
	ExpectLowerOrEqual:  true,
	ExpectHigher:        true,
	ExpectHigherOrEqual: true,
}

// Evaluator matches Conditions against the scene log and the event log.
// It only reads the logs.
type Evaluator struct {
	scenes LogReader
	events LogReader
}

// NewEvaluator creates an evaluator over the given logs.
func NewEvaluator(scenes, events LogReader) *Evaluator {
	return &Evaluator{scenes: scenes, events: events}
}

// Match evaluates c. Unknown names yield OutcomeInvalidCondition and arity
// mismatches OutcomeInvalidSize; neither is returned as an error. The error
// is non-nil only when a relational predicate's argument does not parse.
func (e *Evaluator) Match(c Condition) (Outcome, error) {
	unary, isUnary := unaryPredicates[c.Name]
	binary, isBinary := binaryPredicates[c.Name]

	switch {
	case !isUnary && !isBinary:
		return OutcomeInvalidCondition, nil
	case isUnary && len(c.Arguments) != 1, isBinary && len(c.Arguments) != 2:
		return OutcomeInvalidSize, nil
	}

	var ok bool
	var err error
	if isUnary {
		ok, err = unary(e.events, c.Arguments[0])
	} else {
		ok, err = binary(e.scenes, e.events, c.Arguments[0], c.Arguments[1])
	}
	if err != nil {
		return OutcomeFalse, err
	}
	if ok {
		return OutcomeTrue, nil
	}
	return OutcomeFalse, nil
}

// Validate checks c's name and arity, and that relational arguments parse,
// without reading any log.
func Validate(c Condition) error {
	return validateAt(0, c)
}

func validateAt(index int, c Condition) error {
	_, isUnary := unaryPredicates[c.Name]
	_, isBinary := binaryPredicates[c.Name]

	switch {
	case !isUnary && !isBinary:
		return newUnknownConditionError(index, c)
	case isUnary && len(c.Arguments) != 1:
		return newInvalidSizeError(index, c, 1)
	case isBinary && len(c.Arguments) != 2:
		return newInvalidSizeError(index, c, 2)
	}

	if relationalPredicates[c.Name] {
		if _, _, err := event.ParseKey(c.Arguments[0]); err != nil {
			return newBadArgumentError(index, c, err)
		}
	}
	return nil
}

// PredicateNames returns every known predicate name, sorted.
func PredicateNames() []string {
	names := make([]string, 0, len(unaryPredicates)+len(binaryPredicates))
	for name := range unaryPredicates {
		names = append(names, name)
	}
	for name := range binaryPredicates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Arity returns the argument count of a predicate, or 0 if unknown.
func Arity(name string) int {
	if _, ok := unaryPredicates[name]; ok {
		return 1
	}
	if _, ok := binaryPredicates[name]; ok {
		return 2
	}
	return 0
}

// anyLoggedResult reports whether any result logged for the argument's event
// name satisfies rel. FindKeys matches substrings, so keys whose parsed name
// differs (or that do not parse) are skipped.
func anyLoggedResult(events LogReader, eventString string, rel func(logged, want int) bool) (bool, error) {
	name, want, err := event.ParseKey(eventString)
	if err != nil {
		return false, err
	}

	for _, key := range events.FindKeys(name) {
		loggedName, logged, err := event.ParseKey(key)
		if err != nil || loggedName != name {
			continue
		}
		if rel(logged, want) {
			return true, nil
		}
	}
	return false, nil
}

func latest(log LogReader, key string) (int64, bool) {
	seqs := log.Query(key)
	if len(seqs) == 0 {
		return 0, false
	}
	return seqs[len(seqs)-1], true
}
