package report

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"time"

	"digital.vasic.facts/pkg/fact"
)

// HTMLReporter generates HTML reports from suite results.
type HTMLReporter struct{}

// NewHTMLReporter creates a new HTML reporter.
func NewHTMLReporter() *HTMLReporter {
	return &HTMLReporter{}
}

// GenerateReport creates an HTML report for a single suite.
func (r *HTMLReporter) GenerateReport(
	src Source,
) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.WriteReport(&buf, src); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// suiteTitle renders the display name for a suite.
func suiteTitle(src Source) string {
	if src.Description() != "" {
		return fmt.Sprintf(
			"%s (%s)", src.Description(), src.File(),
		)
	}
	return src.File()
}

// WriteReport writes an HTML report to the specified writer.
func (r *HTMLReporter) WriteReport(
	w io.Writer,
	src Source,
) error {
	title := suiteTitle(src)
	r.writeHeader(w, "Suite Report: "+title)

	fmt.Fprintf(
		w,
		"<h1>Suite Report: %s</h1>\n",
		html.EscapeString(title),
	)
	fmt.Fprintf(
		w,
		"<p><strong>Generated:</strong> %s</p>\n",
		time.Now().Format(time.RFC3339),
	)

	r.writeSummaryTable(w, src)
	r.writeFactsSection(
		w, "Failures", "status-failed", src.Failures(),
	)
	r.writeFactsSection(
		w, "Errors", "status-failed", src.Errors(),
	)
	r.writeFactsSection(
		w, "Verified", "status-passed", src.Successes(),
	)

	r.writeFooter(w)
	return nil
}

func (r *HTMLReporter) writeSummaryTable(
	w io.Writer,
	src Source,
) {
	verified, failed, errored := src.Counts()

	statusClass := "status-passed"
	status := "PASSED"
	if failed > 0 || errored > 0 {
		statusClass = "status-failed"
		status = "FAILED"
	}

	fmt.Fprintln(w, "<h2>Summary</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(w, "<tr><th>Metric</th><th>Value</th></tr>")
	fmt.Fprintf(
		w,
		"<tr><td>Status</td><td class=\"%s\">"+
			"<strong>%s</strong></td></tr>\n",
		statusClass, status,
	)
	fmt.Fprintf(
		w,
		"<tr><td>File</td><td><code>%s</code></td></tr>\n",
		html.EscapeString(src.File()),
	)
	if src.Description() != "" {
		fmt.Fprintf(
			w,
			"<tr><td>Description</td><td>%s</td></tr>\n",
			html.EscapeString(src.Description()),
		)
	}
	fmt.Fprintf(
		w,
		"<tr><td>Verified</td><td>%d</td></tr>\n",
		verified,
	)
	fmt.Fprintf(
		w,
		"<tr><td>Failed</td><td>%d</td></tr>\n",
		failed,
	)
	fmt.Fprintf(
		w,
		"<tr><td>Errored</td><td>%d</td></tr>\n",
		errored,
	)
	fmt.Fprintln(w, "</table>")
}

func (r *HTMLReporter) writeFactsSection(
	w io.Writer,
	heading string,
	cls string,
	results []fact.Result,
) {
	if len(results) == 0 {
		return
	}

	fmt.Fprintf(w, "<h2>%s</h2>\n", heading)
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(
		w,
		"<tr><th>Expression</th><th>Line</th>"+
			"<th>Cause</th></tr>",
	)

	for _, res := range results {
		line, _ := res.Meta.Line()
		if line == "" {
			line = "-"
		}
		cause := "-"
		if res.Cause != nil {
			cause = fmt.Sprint(res.Cause)
		}
		fmt.Fprintf(
			w,
			"<tr><td class=\"%s\"><code>%s</code></td>"+
				"<td>%s</td><td>%s</td></tr>\n",
			cls,
			html.EscapeString(res.Expr.String()),
			html.EscapeString(line),
			html.EscapeString(cause),
		)
	}

	fmt.Fprintln(w, "</table>")
}

// GenerateRunSummary creates an HTML report covering all suites
// of a run.
func (r *HTMLReporter) GenerateRunSummary(
	srcs []Source,
) ([]byte, error) {
	var buf bytes.Buffer

	r.writeHeader(&buf, "Facts Framework - Run Summary")

	fmt.Fprintln(
		&buf, "<h1>Facts Framework - Run Summary</h1>",
	)
	fmt.Fprintf(
		&buf,
		"<p><strong>Generated:</strong> %s</p>\n",
		time.Now().Format(time.RFC3339),
	)

	r.writeRunOverview(&buf, srcs)
	r.writeRunStats(&buf, srcs)
	r.writeFooter(&buf)

	return buf.Bytes(), nil
}

func (r *HTMLReporter) writeRunOverview(
	w io.Writer,
	srcs []Source,
) {
	fmt.Fprintln(w, "<h2>Overview</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(
		w,
		"<tr><th>Suite</th><th>Status</th>"+
			"<th>Verified</th><th>Failed</th>"+
			"<th>Errored</th></tr>",
	)

	for _, src := range srcs {
		verified, failed, errored := src.Counts()
		cls := "status-passed"
		status := "PASSED"
		if failed > 0 || errored > 0 {
			cls = "status-failed"
			status = "FAILED"
		}
		fmt.Fprintf(
			w,
			"<tr><td>%s</td>"+
				"<td class=\"%s\">%s</td>"+
				"<td>%d</td><td>%d</td><td>%d</td></tr>\n",
			html.EscapeString(suiteTitle(src)),
			cls, status,
			verified, failed, errored,
		)
	}

	fmt.Fprintln(w, "</table>")
}

func (r *HTMLReporter) writeRunStats(
	w io.Writer,
	srcs []Source,
) {
	var passedSuites, verified, failed, errored int
	for _, src := range srcs {
		v, f, e := src.Counts()
		verified += v
		failed += f
		errored += e
		if f == 0 && e == 0 {
			passedSuites++
		}
	}

	fmt.Fprintln(w, "<h2>Statistics</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(w, "<tr><th>Metric</th><th>Value</th></tr>")
	fmt.Fprintf(
		w,
		"<tr><td>Total Suites</td><td>%d</td></tr>\n",
		len(srcs),
	)
	fmt.Fprintf(
		w,
		"<tr><td>Passed</td><td>%d</td></tr>\n",
		passedSuites,
	)
	fmt.Fprintf(
		w,
		"<tr><td>Failed</td><td>%d</td></tr>\n",
		len(srcs)-passedSuites,
	)

	if len(srcs) > 0 {
		pct := float64(passedSuites) /
			float64(len(srcs)) * 100
		fmt.Fprintf(
			w,
			"<tr><td>Pass Rate</td>"+
				"<td>%.0f%%</td></tr>\n",
			pct,
		)
	}

	fmt.Fprintf(
		w,
		"<tr><td>Facts Verified</td><td>%d</td></tr>\n",
		verified,
	)
	fmt.Fprintf(
		w,
		"<tr><td>Facts Failed</td><td>%d</td></tr>\n",
		failed,
	)
	fmt.Fprintf(
		w,
		"<tr><td>Facts Errored</td><td>%d</td></tr>\n",
		errored,
	)
	fmt.Fprintln(w, "</table>")
}

func (r *HTMLReporter) writeHeader(w io.Writer, title string) {
	fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<style>
body {
  font-family: -apple-system, BlinkMacSystemFont,
    "Segoe UI", Roboto, sans-serif;
  max-width: 960px;
  margin: 0 auto;
  padding: 20px;
  color: #333;
  background: #f9f9f9;
}
h1 { color: #2c3e50; border-bottom: 2px solid #3498db; padding-bottom: 10px; }
h2 { color: #2c3e50; margin-top: 30px; }
table {
  border-collapse: collapse;
  width: 100%%;
  margin: 10px 0;
  background: #fff;
}
th, td {
  border: 1px solid #ddd;
  padding: 8px 12px;
  text-align: left;
}
th { background: #3498db; color: #fff; }
tr:nth-child(even) { background: #f2f2f2; }
.status-passed { color: #27ae60; font-weight: bold; }
.status-failed { color: #e74c3c; font-weight: bold; }
code {
  background: #ecf0f1;
  padding: 2px 6px;
  border-radius: 3px;
  font-size: 0.9em;
}
footer {
  margin-top: 40px;
  padding-top: 10px;
  border-top: 1px solid #ddd;
  color: #7f8c8d;
  font-size: 0.9em;
}
</style>
</head>
<body>
`, html.EscapeString(title))
}

func (r *HTMLReporter) writeFooter(w io.Writer) {
	fmt.Fprintln(w, "<footer>")
	fmt.Fprintln(w, "<p>Generated by Facts Framework</p>")
	fmt.Fprintln(w, "</footer>")
	fmt.Fprintln(w, "</body>")
	fmt.Fprintln(w, "</html>")
}
