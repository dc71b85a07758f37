package scene

import (
	"errors"
	"fmt"

	"github.com/roach88/scenes/internal/event"
)

// ErrorCode categorizes condition failures.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates a condition has the wrong number of
	// arguments for its predicate, or an argument that is not an event string.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// ErrCodeNotFound indicates a condition names no known predicate.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// ConditionError reports a condition that could not be evaluated.
// It aborts the whole activity check.
type ConditionError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Condition is the offending predicate name.
	Condition string

	// Index is the condition's position in the section's list.
	Index int

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *ConditionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (condition[%d]=%s): %v", e.Code, e.Message, e.Index, e.Condition, e.Err)
	}
	return fmt.Sprintf("%s: %s (condition[%d]=%s)", e.Code, e.Message, e.Index, e.Condition)
}

func (e *ConditionError) Unwrap() error {
	return e.Err
}

// IsInvalidArgument reports whether err is an arity or argument error,
// including an event name rejected at construction.
func IsInvalidArgument(err error) bool {
	var ce *ConditionError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeInvalidArgument
	}
	return errors.Is(err, event.ErrInvalidName)
}

// IsNotFound reports whether err is an unknown-condition error.
func IsNotFound(err error) bool {
	var ce *ConditionError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeNotFound
	}
	return false
}

func newInvalidSizeError(index int, c Condition, want int) *ConditionError {
	return &ConditionError{
		Code:      ErrCodeInvalidArgument,
		Message:   fmt.Sprintf("expected %d argument(s), got %d", want, len(c.Arguments)),
		Condition: c.Name,
		Index:     index,
	}
}

func newUnknownConditionError(index int, c Condition) *ConditionError {
	return &ConditionError{
		Code:      ErrCodeNotFound,
		Message:   "unknown condition",
		Condition: c.Name,
		Index:     index,
	}
}

func newBadArgumentError(index int, c Condition, err error) *ConditionError {
	return &ConditionError{
		Code:      ErrCodeInvalidArgument,
		Message:   "argument is not an event string",
		Condition: c.Name,
		Index:     index,
		Err:       err,
	}
}
