package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/scenes/internal/event"
	"github.com/roach88/scenes/internal/scene"
)

// Scenario seeds history, optionally plays scenes, then checks conditions
// and asserts on the logs.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Scenes is the directory scenes are played from. Relative paths are
	// resolved against the scenario file. Empty means nothing is played.
	Scenes string `yaml:"scenes,omitempty"`

	// Start is the first scene played. Defaults to reader.DefaultStartScene.
	Start string `yaml:"start,omitempty"`

	// Events maps user event names to the constant result they log.
	Events map[string]int `yaml:"events,omitempty"`

	// History is logged before anything is played.
	History []HistoryStep `yaml:"history,omitempty"`

	// Checks are evaluated against the logs after playback.
	Checks []Check `yaml:"checks,omitempty"`

	// Assertions validate the logs and playback outcome.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// HistoryStep logs one scene visit or one event string at a line count.
// Exactly one of Scene and Event is set.
type HistoryStep struct {
	At    int64  `yaml:"at"`
	Scene string `yaml:"scene,omitempty"`

	// Event is a full event string, e.g. "Bell,1".
	Event string `yaml:"event,omitempty"`
}

// Check evaluates a condition list as a Section would.
type Check struct {
	Name       string            `yaml:"name,omitempty"`
	Conditions []scene.Condition `yaml:"conditions"`
	Expect     string            `yaml:"expect"`
}

// Check outcomes.
const (
	ExpectActive          = "active"
	ExpectInactive        = "inactive"
	ExpectInvalidArgument = "invalid_argument"
	ExpectNotFound        = "not_found"
)

// Assertion validates the final logs or the playback outcome.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Key is the log key (used by event_count, scene_count).
	Key string `yaml:"key,omitempty"`

	// Count is the expected number of entries (used by event_count, scene_count).
	Count int `yaml:"count,omitempty"`

	// Value is the expected line count (used by lines_read).
	Value int64 `yaml:"value,omitempty"`

	// Reason is the expected last stop (used by stop_reason).
	Reason string `yaml:"reason,omitempty"`

	// Lines is the expected transcript (used by transcript).
	Lines []string `yaml:"lines,omitempty"`
}

// Assertion type constants.
const (
	AssertEventCount = "event_count"
	AssertSceneCount = "scene_count"
	AssertLinesRead  = "lines_read"
	AssertStopReason = "stop_reason"
	AssertTranscript = "transcript"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
//
// A relative Scenes directory is resolved against the file's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict fields catch typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Scenes != "" && !filepath.IsAbs(scenario.Scenes) {
		scenario.Scenes = filepath.Join(filepath.Dir(path), scenario.Scenes)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Checks) == 0 && len(s.Assertions) == 0 {
		return fmt.Errorf("at least one check or assertion is required")
	}

	if s.Scenes != "" {
		info, err := os.Stat(s.Scenes)
		if err != nil {
			return fmt.Errorf("scenes directory: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("scenes is not a directory: %s", s.Scenes)
		}
	}

	for name := range s.Events {
		if err := event.ValidateName(name); err != nil {
			return fmt.Errorf("events[%q]: %w", name, err)
		}
	}

	var last int64
	for i, step := range s.History {
		if step.At < last {
			return fmt.Errorf("history[%d]: at %d is before previous entry at %d", i, step.At, last)
		}
		last = step.At

		switch {
		case step.Scene == "" && step.Event == "":
			return fmt.Errorf("history[%d]: one of scene or event is required", i)
		case step.Scene != "" && step.Event != "":
			return fmt.Errorf("history[%d]: scene and event are mutually exclusive", i)
		case step.Event != "":
			if _, _, err := event.ParseKey(step.Event); err != nil {
				return fmt.Errorf("history[%d]: %w", i, err)
			}
		}
	}

	for i, check := range s.Checks {
		switch check.Expect {
		case ExpectActive, ExpectInactive, ExpectInvalidArgument, ExpectNotFound:
		case "":
			return fmt.Errorf("checks[%d]: expect is required", i)
		default:
			return fmt.Errorf("checks[%d]: unknown expect %q", i, check.Expect)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion, s.Scenes != ""); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, plays bool) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertEventCount, AssertSceneCount:
		if a.Key == "" {
			return fmt.Errorf("assertions[%d]: key is required for %s", index, a.Type)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertLinesRead, AssertStopReason, AssertTranscript:
		if !plays {
			return fmt.Errorf("assertions[%d]: %s requires scenes", index, a.Type)
		}
		if a.Type == AssertStopReason && a.Reason == "" {
			return fmt.Errorf("assertions[%d]: reason is required for stop_reason", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
