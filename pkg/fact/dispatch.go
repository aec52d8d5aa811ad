package fact

import (
	"errors"
	"sync"
)

// ErrEmptyStack indicates a fact was submitted while no result
// sink was active, i.e. outside any suite scope. This is a
// protocol misuse by the caller, not a failed fact, and must
// surface as a hard failure of the run.
var ErrEmptyStack = errors.New("no active result sink")

// Sink consumes one evaluated Result.
type Sink func(Result)

// Stack is a LIFO of result sinks. Every dispatched Result is
// routed to the sink most recently pushed. Suites push their
// sink when they begin and pop it when they finish, restoring
// the parent scope's sink.
type Stack struct {
	mu    sync.Mutex
	sinks []Sink
}

// NewStack creates a new, empty Stack.
func NewStack() *Stack {
	return &Stack{}
}

// Default is the package-level stack used by Submit. It models
// the process-wide routing of a single-threaded run; callers
// needing scope-local routing construct their own Stack and use
// SubmitTo.
var Default = NewStack()

// Push makes sink the active dispatch target.
func (s *Stack) Push(sink Sink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sinks = append(s.sinks, sink)
}

// Pop removes the most recently pushed sink, restoring the one
// below it. Popping an empty stack is a no-op.
func (s *Stack) Pop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sinks) > 0 {
		s.sinks = s.sinks[:len(s.sinks)-1]
	}
}

// Depth returns the number of active sinks.
func (s *Stack) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sinks)
}

// Dispatch routes a Result to the top sink. Returns
// ErrEmptyStack when no sink is active. The sink is invoked
// outside the stack lock so that it may itself push or pop.
func (s *Stack) Dispatch(r Result) error {
	s.mu.Lock()
	if len(s.sinks) == 0 {
		s.mu.Unlock()
		return ErrEmptyStack
	}
	top := s.sinks[len(s.sinks)-1]
	s.mu.Unlock()

	top(r)
	return nil
}

// Submit evaluates a fact and dispatches the Result on the
// default stack before returning it. The error is non-nil only
// when no suite scope is active.
func Submit(
	thunk Thunk, exp Expectation, expr Expr, meta Meta,
) (Result, error) {
	return SubmitTo(Default, thunk, exp, expr, meta)
}

// SubmitTo evaluates a fact and dispatches the Result on an
// explicit stack before returning it.
func SubmitTo(
	stack *Stack,
	thunk Thunk,
	exp Expectation,
	expr Expr,
	meta Meta,
) (Result, error) {
	r := Evaluate(thunk, exp, expr, meta)
	if err := stack.Dispatch(r); err != nil {
		return r, err
	}
	return r, nil
}
