package event

// Codec converts between the canonical string argument / int result and a
// callback's own argument and result types.
type Codec[A, R any] struct {
	Decode func(arg string) A
	Encode func(result R) int
}

// Wrap adapts fn to Func through c.
func Wrap[A, R any](fn func(A) R, c Codec[A, R]) Func {
	return func(arg string) int {
		return c.Encode(fn(c.Decode(arg)))
	}
}

// Action adapts a callback with no result. Calls log a result of 0.
func Action(fn func(arg string)) Func {
	return func(arg string) int {
		fn(arg)
		return 0
	}
}

// Supplier adapts a callback that ignores the argument.
func Supplier(fn func() int) Func {
	return func(string) int {
		return fn()
	}
}

// Procedure adapts a callback with neither argument nor result.
func Procedure(fn func()) Func {
	return func(string) int {
		fn()
		return 0
	}
}

// Constant returns a Func that always yields result.
func Constant(result int) Func {
	return func(string) int {
		return result
	}
}
