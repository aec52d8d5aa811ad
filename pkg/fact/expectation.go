package fact

import "github.com/google/go-cmp/cmp"

// expectKind discriminates the three expectation forms.
type expectKind int

const (
	expectEquals expectKind = iota
	expectSatisfies
	expectRaises
)

// Predicate is a single-argument check applied to the value
// produced by the left-hand thunk.
type Predicate func(actual any) bool

// raisesToken is the value identity of the raises expectation.
// Negating a raises expectation compares against this token the
// same way any plain value is negated.
type raisesToken struct{}

// Expectation is the right-hand side of an assertion. The kind
// is chosen explicitly by the constructor, never inferred from
// the runtime shape of a value.
type Expectation struct {
	kind  expectKind
	value any
	pred  Predicate
}

// Equals creates a value expectation. The actual value must be
// structurally equal to v for the fact to verify.
func Equals(v any) Expectation {
	return Expectation{kind: expectEquals, value: v}
}

// Satisfies creates a predicate expectation. The predicate must
// return true for the actual value for the fact to verify.
func Satisfies(pred Predicate) Expectation {
	return Expectation{kind: expectSatisfies, pred: pred}
}

// Raises creates an exception expectation. The left-hand thunk
// must panic for the fact to verify; a normal return is a
// failure. Evaluation under this expectation never produces an
// error outcome.
func Raises() Expectation {
	return Expectation{kind: expectRaises, value: raisesToken{}}
}

// Not complements an expectation. A predicate expectation
// becomes its logical negation; a value expectation becomes a
// structural inequality check. A raises expectation negates as
// a plain value: the check is inequality against its token, not
// "does not panic".
func Not(e Expectation) Expectation {
	if e.kind == expectSatisfies {
		pred := e.pred
		return Satisfies(func(actual any) bool {
			return !pred(actual)
		})
	}

	v := e.value
	return Satisfies(func(actual any) bool {
		return !cmp.Equal(actual, v)
	})
}

// check applies the expectation to an already-computed actual
// value. Only valid for the equals and satisfies kinds.
func (e Expectation) check(actual any) bool {
	if e.kind == expectSatisfies {
		return e.pred(actual)
	}
	return cmp.Equal(actual, e.value)
}
