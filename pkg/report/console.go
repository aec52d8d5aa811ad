package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/mattn/go-colorable"

	"digital.vasic.facts/pkg/fact"
)

// ANSI escape sequences for console output.
const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiRed   = "\033[31m"
	ansiGreen = "\033[32m"
)

// Console renders suite headers, failures, errors, and the
// final tally to a terminal. Failures and errors are rendered
// the moment they are dispatched, before the next fact runs.
type Console struct {
	mu    sync.Mutex
	out   io.Writer
	color bool
}

// NewConsole creates a console reporter writing to stdout. The
// writer translates ANSI escapes on platforms whose terminals
// do not interpret them natively.
func NewConsole(color bool) *Console {
	return &Console{
		out:   colorable.NewColorableStdout(),
		color: color,
	}
}

// NewConsoleWriter creates a console reporter targeting an
// explicit writer.
func NewConsoleWriter(w io.Writer, color bool) *Console {
	return &Console{out: w, color: color}
}

// code returns the escape sequence, or the empty string when
// color is disabled.
func (c *Console) code(seq string) string {
	if !c.color {
		return ""
	}
	return seq
}

// Header renders the bold suite header: "<description> (<file>)"
// when a description is present, else just "<file>".
func (c *Console) Header(description, file string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	title := file
	if description != "" {
		title = fmt.Sprintf("%s (%s)", description, file)
	}

	fmt.Fprintf(
		c.out, "%s%s%s\n",
		c.code(ansiBold), title, c.code(ansiReset),
	)
}

// Failure renders one failed fact in the failure color. The
// expression is the literal source form, never a re-evaluated
// value.
func (c *Console) Failure(r fact.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintf(
		c.out, "%sFailure %s:: %s%s\n",
		c.code(ansiRed),
		locationTag(r.Meta),
		r.Expr.String(),
		c.code(ansiReset),
	)
}

// Error renders one errored fact: the captured cause in the
// failure color, followed by the captured stack trace.
func (c *Console) Error(r fact.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintf(
		c.out, "%sError %s:: %v%s\n",
		c.code(ansiRed),
		locationTag(r.Meta),
		r.Cause,
		c.code(ansiReset),
	)
	if len(r.Trace) > 0 {
		c.out.Write(r.Trace)
	}
}

// Tally renders the cumulative outcome block for one suite.
// With no failures or errors it is a single success-colored
// line; otherwise a four-line block with per-outcome counts.
func (c *Console) Tally(verified, failed, errored int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if failed == 0 && errored == 0 {
		fmt.Fprintf(
			c.out, "%s%d %s verified.%s\n",
			c.code(ansiGreen),
			verified,
			Pluralize(verified, "fact"),
			c.code(ansiReset),
		)
		return
	}

	fmt.Fprintf(
		c.out, "Out of %d total fact(s):\n", verified+failed,
	)
	fmt.Fprintf(
		c.out, "%sVerified: %d%s\n",
		c.code(ansiGreen), verified, c.code(ansiReset),
	)
	fmt.Fprintf(
		c.out, "%sFailed: %d%s\n",
		c.code(ansiRed), failed, c.code(ansiReset),
	)
	fmt.Fprintf(
		c.out, "%sErrored: %d%s\n",
		c.code(ansiRed), errored, c.code(ansiReset),
	)
}

// Pluralize appends "s" to word unless n is exactly one.
func Pluralize(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// locationTag renders the "(line:N) " prefix when line metadata
// is present, else the empty string.
func locationTag(m fact.Meta) string {
	line, ok := m.Line()
	if !ok {
		return ""
	}
	return fmt.Sprintf("(line:%s) ", line)
}
