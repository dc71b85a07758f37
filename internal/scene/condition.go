package scene

import "strings"

// Condition names a predicate and its string arguments.
// Arity is only checked when the condition is matched.
type Condition struct {
	Name      string   `json:"name" yaml:"name"`
	Arguments []string `json:"arguments" yaml:"arguments"`
}

// NewCondition is a convenience constructor.
func NewCondition(name string, args ...string) Condition {
	return Condition{Name: name, Arguments: args}
}

func (c Condition) String() string {
	return c.Name + "(" + strings.Join(c.Arguments, "; ") + ")"
}

// Spec is the loader-facing shape of a Section: the lines and conditions a
// scene file declares for it.
type Spec struct {
	Lines      []Line      `json:"lines" yaml:"lines"`
	Conditions []Condition `json:"conditions" yaml:"conditions"`
}
