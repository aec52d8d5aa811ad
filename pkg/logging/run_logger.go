package logging

// NewRunLogger builds the diagnostics logger for a verification
// run. Verbose mode attaches a console logger on stderr; a
// non-empty logFile attaches a JSON Lines logger appending to
// that path. With neither, the NullLogger is returned so
// callers never nil-check. The result is wrapped in a
// TruncatingLogger because fact causes and traces are
// unbounded.
//
// A log file that cannot be opened is reported on the console
// logger when one is present and otherwise skipped; diagnostics
// are never allowed to fail the run.
func NewRunLogger(verbose bool, logFile string) Logger {
	var console *ConsoleLogger
	var sinks []Logger

	if verbose {
		console = NewConsoleLogger(true)
		sinks = append(sinks, console)
	}

	if logFile != "" {
		jl, err := NewJSONLogger(LoggerConfig{
			OutputPath: logFile,
			Level:      levelFor(verbose),
			Verbose:    verbose,
		})
		switch {
		case err == nil:
			sinks = append(sinks, jl)
		case console != nil:
			console.Warn(
				"log file unavailable",
				StringField("path", logFile),
				ErrorField(err),
			)
		}
	}

	switch len(sinks) {
	case 0:
		return NullLogger{}
	case 1:
		return NewTruncatingLogger(sinks[0], 0)
	default:
		return NewTruncatingLogger(
			NewMultiLogger(sinks...), 0,
		)
	}
}

func levelFor(verbose bool) LogLevel {
	if verbose {
		return LevelDebug
	}
	return LevelInfo
}
