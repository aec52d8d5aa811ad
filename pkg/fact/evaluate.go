package fact

import "runtime/debug"

// Thunk produces the left-hand value of an assertion. It is
// invoked at most once per evaluation.
type Thunk func() any

// Evaluate runs the left-hand thunk against the expectation and
// classifies the outcome. The thunk runs first, the expectation
// is applied second; a panic from either side is captured and
// classified, never propagated.
func Evaluate(
	thunk Thunk, exp Expectation, expr Expr, meta Meta,
) Result {
	if exp.kind == expectRaises {
		if raised(thunk) {
			return NewSuccess(expr, meta)
		}
		return NewFailure(expr, meta)
	}

	held, cause, trace, panicked := apply(thunk, exp)
	if panicked {
		return NewError(expr, meta, cause, trace)
	}
	if held {
		return NewSuccess(expr, meta)
	}
	return NewFailure(expr, meta)
}

// raised reports whether the thunk panicked. The returned value
// of a normal run is discarded.
func raised(thunk Thunk) (panicked bool) {
	defer func() {
		if recover() != nil {
			panicked = true
		}
	}()
	thunk()
	return false
}

// apply evaluates the thunk and applies the expectation to the
// produced value, converting any panic into a captured cause
// and stack trace.
func apply(thunk Thunk, exp Expectation) (
	held bool, cause any, trace []byte, panicked bool,
) {
	defer func() {
		if r := recover(); r != nil {
			panicked = true
			cause = r
			trace = debug.Stack()
		}
	}()

	actual := thunk()
	held = exp.check(actual)
	return held, nil, nil, false
}
