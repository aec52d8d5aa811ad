package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"digital.vasic.facts/pkg/fact"
)

// Marshal hooks for dependency injection in tests.
var (
	jsonMarshal       = json.Marshal
	jsonMarshalIndent = json.MarshalIndent
)

// JSONReporter generates JSON reports from suite results.
type JSONReporter struct {
	pretty bool
}

// NewJSONReporter creates a new JSON reporter. When pretty is
// true, output is indented for readability.
func NewJSONReporter(pretty bool) *JSONReporter {
	return &JSONReporter{pretty: pretty}
}

// jsonFact is the JSON form of one recorded fact.
type jsonFact struct {
	Expr  string `json:"expr"`
	Desc  string `json:"desc,omitempty"`
	Line  string `json:"line,omitempty"`
	Cause string `json:"cause,omitempty"`
}

// jsonSuite is the JSON form of one suite report.
type jsonSuite struct {
	File        string     `json:"file"`
	Description string     `json:"description,omitempty"`
	Verified    int        `json:"verified"`
	Failed      int        `json:"failed"`
	Errored     int        `json:"errored"`
	Passed      bool       `json:"passed"`
	Successes   []jsonFact `json:"successes"`
	Failures    []jsonFact `json:"failures"`
	Errors      []jsonFact `json:"errors"`
}

// jsonRunSummary is the JSON structure for a whole-run report.
type jsonRunSummary struct {
	GeneratedAt  time.Time   `json:"generated_at"`
	TotalSuites  int         `json:"total_suites"`
	PassedSuites int         `json:"passed_suites"`
	FailedSuites int         `json:"failed_suites"`
	Verified     int         `json:"verified"`
	Failed       int         `json:"failed"`
	Errored      int         `json:"errored"`
	Suites       []jsonSuite `json:"suites"`
}

func toJSONFact(r fact.Result) jsonFact {
	f := jsonFact{
		Expr: r.Expr.String(),
		Desc: r.Meta.Desc(),
	}
	if line, ok := r.Meta.Line(); ok {
		f.Line = line
	}
	if r.Cause != nil {
		f.Cause = fmt.Sprint(r.Cause)
	}
	return f
}

func toJSONFacts(results []fact.Result) []jsonFact {
	out := make([]jsonFact, 0, len(results))
	for _, r := range results {
		out = append(out, toJSONFact(r))
	}
	return out
}

func toJSONSuite(src Source) jsonSuite {
	verified, failed, errored := src.Counts()
	return jsonSuite{
		File:        src.File(),
		Description: src.Description(),
		Verified:    verified,
		Failed:      failed,
		Errored:     errored,
		Passed:      failed == 0 && errored == 0,
		Successes:   toJSONFacts(src.Successes()),
		Failures:    toJSONFacts(src.Failures()),
		Errors:      toJSONFacts(src.Errors()),
	}
}

func (r *JSONReporter) marshal(v any) ([]byte, error) {
	if r.pretty {
		return jsonMarshalIndent(v, "", "  ")
	}
	return jsonMarshal(v)
}

// GenerateReport creates a JSON report for a single suite.
func (r *JSONReporter) GenerateReport(
	src Source,
) ([]byte, error) {
	return r.marshal(toJSONSuite(src))
}

// GenerateRunSummary creates a JSON report covering all suites
// of a run.
func (r *JSONReporter) GenerateRunSummary(
	srcs []Source,
) ([]byte, error) {
	summary := jsonRunSummary{
		GeneratedAt: time.Now(),
		TotalSuites: len(srcs),
		Suites:      make([]jsonSuite, 0, len(srcs)),
	}

	for _, src := range srcs {
		js := toJSONSuite(src)
		summary.Suites = append(summary.Suites, js)
		summary.Verified += js.Verified
		summary.Failed += js.Failed
		summary.Errored += js.Errored
		if js.Passed {
			summary.PassedSuites++
		} else {
			summary.FailedSuites++
		}
	}

	return r.marshal(summary)
}

// WriteReport writes a JSON report to the specified writer.
func (r *JSONReporter) WriteReport(
	w io.Writer,
	src Source,
) error {
	data, err := r.GenerateReport(src)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
