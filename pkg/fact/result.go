// Package fact implements the assertion evaluation core of the
// facts engine: the three-way result model, the expectation
// evaluator, and the sink stack that routes results to the
// active suite scope.
package fact

import "fmt"

// Outcome constants for fact evaluation results.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeError   = "error"
)

// Well-known metadata keys.
const (
	// MetaDesc keys the enclosing suite description.
	MetaDesc = "desc"

	// MetaLine keys the caller-supplied source location. The
	// value is treated as opaque and rendered with fmt.Sprint.
	MetaLine = "line"
)

// Expr is the textual form of a submitted assertion. It is
// display-only and never re-evaluated.
type Expr struct {
	// LHS is the literal source form of the left-hand
	// expression.
	LHS string `json:"lhs"`

	// RHS is the literal source form of the expectation.
	RHS string `json:"rhs"`
}

// String renders the expression as "<lhs> => <rhs>".
func (e Expr) String() string {
	return e.LHS + " => " + e.RHS
}

// Field is a single key-value metadata pair.
type Field struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// Meta is ordered fact metadata. A slice of pairs is used
// instead of a map so that insertion order is preserved.
// Unrecognized keys are carried through and ignored by
// consumers.
type Meta []Field

// With returns a copy of the metadata extended with one pair.
func (m Meta) With(key string, value any) Meta {
	out := make(Meta, len(m), len(m)+1)
	copy(out, m)
	return append(out, Field{Key: key, Value: value})
}

// Lookup returns the value for the first occurrence of key and
// whether it was present.
func (m Meta) Lookup(key string) (any, bool) {
	for _, f := range m {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Desc returns the rendered value of the "desc" key, or the
// empty string when absent.
func (m Meta) Desc() string {
	v, ok := m.Lookup(MetaDesc)
	if !ok {
		return ""
	}
	return fmt.Sprint(v)
}

// Line returns the rendered value of the "line" key and whether
// it was present.
func (m Meta) Line() (string, bool) {
	v, ok := m.Lookup(MetaLine)
	if !ok {
		return "", false
	}
	return fmt.Sprint(v), true
}

// Result captures the classified outcome of one submitted fact.
// Exactly one Result is produced per submission.
type Result struct {
	// Outcome is one of the Outcome* constants.
	Outcome string `json:"outcome"`

	// Expr is the display form of the assertion.
	Expr Expr `json:"expr"`

	// Meta carries caller-supplied metadata such as the suite
	// description and source location.
	Meta Meta `json:"meta,omitempty"`

	// Cause is the captured panic value. Set only when Outcome
	// is OutcomeError.
	Cause any `json:"cause,omitempty"`

	// Trace is the captured stack at the point of the panic.
	// Set only when Outcome is OutcomeError.
	Trace []byte `json:"trace,omitempty"`
}

// NewSuccess creates a Result for an expectation that held.
func NewSuccess(expr Expr, meta Meta) Result {
	return Result{
		Outcome: OutcomeSuccess,
		Expr:    expr,
		Meta:    meta,
	}
}

// NewFailure creates a Result for an expectation that did not
// hold without raising.
func NewFailure(expr Expr, meta Meta) Result {
	return Result{
		Outcome: OutcomeFailure,
		Expr:    expr,
		Meta:    meta,
	}
}

// NewError creates a Result for an evaluation that panicked.
func NewError(
	expr Expr, meta Meta, cause any, trace []byte,
) Result {
	return Result{
		Outcome: OutcomeError,
		Expr:    expr,
		Meta:    meta,
		Cause:   cause,
		Trace:   trace,
	}
}
