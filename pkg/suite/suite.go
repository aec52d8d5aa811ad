// Package suite implements the reporting scope of the facts
// engine. Begin opens a scope: it renders the suite header,
// pushes a result sink on the handler stack, and from then on
// every dispatched fact lands in the suite's ledger, with
// failures and errors rendered the moment they arrive. Finish
// renders the final tally and restores the parent scope.
package suite

import (
	"fmt"
	"path/filepath"
	"sync"

	"digital.vasic.facts/pkg/fact"
	"digital.vasic.facts/pkg/logging"
	"digital.vasic.facts/pkg/monitor"
	"digital.vasic.facts/pkg/report"
)

// Suite aggregates the results of one verification scope. It is
// created by Begin and closed by Finish. The three ledgers
// preserve evaluation order and never shrink; their combined
// length equals the number of facts dispatched to this suite.
type Suite struct {
	mu          sync.Mutex
	file        string
	description string

	successes []fact.Result
	failures  []fact.Result
	errors    []fact.Result

	stack     *fact.Stack
	reporter  *report.Console
	logger    logging.Logger
	collector *monitor.EventCollector

	finished bool
}

// Begin opens a suite scope. The display file name is the last
// path segment of fileLocation. The header is rendered before
// Begin returns, so it always precedes any fact output, and the
// suite's sink becomes the active dispatch target until Finish
// restores the parent scope.
func Begin(
	fileLocation, description string, opts ...Option,
) *Suite {
	s := &Suite{
		file:        filepath.Base(fileLocation),
		description: description,
		stack:       fact.Default,
		reporter:    report.NewConsole(true),
		logger:      logging.NullLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.reporter.Header(s.description, s.file)
	s.stack.Push(s.sink)

	s.logger.Debug(
		"suite_started",
		logging.StringField("suite", s.file),
		logging.StringField("description", s.description),
	)
	if s.collector != nil {
		s.collector.EmitSuiteStarted(s.file, s.description)
	}
	return s
}

// sink consumes one dispatched Result: it records the result in
// the outcome ledger, renders failures and errors immediately,
// and only then notifies the optional collector. Rendering
// happens before the dispatch that produced the result returns.
func (s *Suite) sink(r fact.Result) {
	s.record(r)

	line, _ := r.Meta.Line()
	expr := r.Expr.String()

	switch r.Outcome {
	case fact.OutcomeSuccess:
		if s.collector != nil {
			s.collector.EmitFactVerified(s.file, expr)
		}
	case fact.OutcomeFailure:
		s.reporter.Failure(r)
		s.logger.Debug(
			"fact_failed",
			logging.StringField("suite", s.file),
			logging.StringField("expr", expr),
			logging.StringField("line", line),
		)
		if s.collector != nil {
			s.collector.EmitFactFailed(s.file, expr, line)
		}
	case fact.OutcomeError:
		s.reporter.Error(r)
		s.logger.Debug(
			"fact_errored",
			logging.StringField("suite", s.file),
			logging.StringField("expr", expr),
			logging.StringField("line", line),
			logging.StringField("cause", fmt.Sprint(r.Cause)),
		)
		if s.collector != nil {
			s.collector.EmitFactErrored(
				s.file, expr, line, fmt.Sprint(r.Cause),
			)
		}
	}
}

// record appends the result to the ledger for its outcome.
func (s *Suite) record(r fact.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch r.Outcome {
	case fact.OutcomeSuccess:
		s.successes = append(s.successes, r)
	case fact.OutcomeFailure:
		s.failures = append(s.failures, r)
	case fact.OutcomeError:
		s.errors = append(s.errors, r)
	}
}

// Finish closes the suite scope. It renders the tally from the
// accumulated counts, pops the suite's sink so the parent
// scope's routing is restored, and reports the final counts to
// the optional collector. Finishing an already finished suite
// is a no-op.
func (s *Suite) Finish() {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return
	}
	s.finished = true
	verified := len(s.successes)
	failed := len(s.failures)
	errored := len(s.errors)
	s.mu.Unlock()

	s.reporter.Tally(verified, failed, errored)
	s.stack.Pop()

	s.logger.Debug(
		"suite_finished",
		logging.StringField("suite", s.file),
		logging.IntField("verified", verified),
		logging.IntField("failed", failed),
		logging.IntField("errored", errored),
	)
	if s.collector != nil {
		s.collector.EmitSuiteFinished(
			s.file, verified, failed, errored,
		)
	}
}

// File returns the suite's display file name.
func (s *Suite) File() string {
	return s.file
}

// Description returns the optional human label.
func (s *Suite) Description() string {
	return s.description
}

// Successes returns a copy of the verified facts in evaluation
// order.
func (s *Suite) Successes() []fact.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]fact.Result, len(s.successes))
	copy(out, s.successes)
	return out
}

// Failures returns a copy of the failed facts in evaluation
// order.
func (s *Suite) Failures() []fact.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]fact.Result, len(s.failures))
	copy(out, s.failures)
	return out
}

// Errors returns a copy of the errored facts in evaluation
// order.
func (s *Suite) Errors() []fact.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]fact.Result, len(s.errors))
	copy(out, s.errors)
	return out
}

// Counts returns the verified, failed, and errored fact counts.
func (s *Suite) Counts() (verified, failed, errored int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.successes), len(s.failures), len(s.errors)
}

// Total returns the tally total, verified plus failed.
func (s *Suite) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.successes) + len(s.failures)
}

// Passed reports whether the suite saw no failures and no
// errors.
func (s *Suite) Passed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.failures) == 0 && len(s.errors) == 0
}
