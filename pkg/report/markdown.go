package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"digital.vasic.facts/pkg/fact"
)

// MarkdownReporter generates Markdown reports from suite
// results.
type MarkdownReporter struct{}

// NewMarkdownReporter creates a new Markdown reporter.
func NewMarkdownReporter() *MarkdownReporter {
	return &MarkdownReporter{}
}

// GenerateReport creates a Markdown report for a single suite.
func (r *MarkdownReporter) GenerateReport(
	src Source,
) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.WriteReport(&buf, src); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteReport writes a Markdown report to the specified writer.
func (r *MarkdownReporter) WriteReport(
	w io.Writer,
	src Source,
) error {
	verified, failed, errored := src.Counts()

	status := "PASSED"
	if failed > 0 || errored > 0 {
		status = "FAILED"
	}

	fmt.Fprintf(w, "# Suite: %s\n\n", suiteTitle(src))
	fmt.Fprintf(
		w,
		"**Generated:** %s\n\n",
		time.Now().Format(time.RFC3339),
	)
	fmt.Fprintf(w, "**Status:** %s\n\n", status)

	fmt.Fprintln(w, "| Metric | Value |")
	fmt.Fprintln(w, "|--------|-------|")
	fmt.Fprintf(w, "| Verified | %d |\n", verified)
	fmt.Fprintf(w, "| Failed | %d |\n", failed)
	fmt.Fprintf(w, "| Errored | %d |\n", errored)
	fmt.Fprintln(w)

	r.writeFactList(w, "Failures", src.Failures())
	r.writeFactList(w, "Errors", src.Errors())

	return nil
}

func (r *MarkdownReporter) writeFactList(
	w io.Writer,
	heading string,
	results []fact.Result,
) {
	if len(results) == 0 {
		return
	}

	fmt.Fprintf(w, "## %s\n\n", heading)
	for _, res := range results {
		line := ""
		if tag := locationTag(res.Meta); tag != "" {
			line = " " + strings.TrimSpace(tag)
		}
		fmt.Fprintf(
			w, "- `%s`%s", res.Expr.String(), line,
		)
		if res.Cause != nil {
			fmt.Fprintf(w, " - %v", res.Cause)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
}

// GenerateRunSummary creates a Markdown report covering all
// suites of a run.
func (r *MarkdownReporter) GenerateRunSummary(
	srcs []Source,
) ([]byte, error) {
	summary := BuildRunSummary(srcs)
	return []byte(markdownFromSummary(summary)), nil
}
