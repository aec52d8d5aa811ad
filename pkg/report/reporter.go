// Package report renders fact results: live colorized console
// output for suites in progress, plus JSON, HTML, and Markdown
// reports for completed runs.
package report

import (
	"io"

	"digital.vasic.facts/pkg/fact"
)

// Source is the read-only view of a suite consumed by report
// generation.
type Source interface {
	// File returns the suite's display file name.
	File() string

	// Description returns the optional human label.
	Description() string

	// Counts returns the verified, failed, and errored fact
	// counts.
	Counts() (verified, failed, errored int)

	// Successes returns the verified facts in evaluation order.
	Successes() []fact.Result

	// Failures returns the failed facts in evaluation order.
	Failures() []fact.Result

	// Errors returns the errored facts in evaluation order.
	Errors() []fact.Result
}

// Reporter defines the interface for generating suite reports.
type Reporter interface {
	// GenerateReport creates a report for a single suite.
	GenerateReport(src Source) ([]byte, error)

	// GenerateRunSummary creates a report covering all suites
	// of a run.
	GenerateRunSummary(srcs []Source) ([]byte, error)

	// WriteReport writes a single-suite report to the specified
	// writer.
	WriteReport(w io.Writer, src Source) error
}
