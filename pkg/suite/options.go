package suite

import (
	"digital.vasic.facts/pkg/config"
	"digital.vasic.facts/pkg/fact"
	"digital.vasic.facts/pkg/logging"
	"digital.vasic.facts/pkg/monitor"
	"digital.vasic.facts/pkg/report"
)

// Option configures a Suite created by Begin.
type Option func(*Suite)

// WithReporter sets the console reporter the suite renders
// through.
func WithReporter(r *report.Console) Option {
	return func(s *Suite) {
		s.reporter = r
	}
}

// WithStack sets the handler stack the suite's sink is pushed
// on. Callers needing scope-local routing pass their own stack
// instead of the process-wide default.
func WithStack(stack *fact.Stack) Option {
	return func(s *Suite) {
		s.stack = stack
	}
}

// WithLogger sets the logger used for suite lifecycle
// diagnostics.
func WithLogger(logger logging.Logger) Option {
	return func(s *Suite) {
		s.logger = logger
	}
}

// WithCollector attaches a monitor collector. The suite emits
// run events to it after rendering, so live monitoring never
// reorders console output.
func WithCollector(c *monitor.EventCollector) Option {
	return func(s *Suite) {
		s.collector = c
	}
}

// WithConfig applies runtime configuration to the suite: the
// resolved color mode for the reporter and the run logger built
// from the verbosity and log file settings. Later options
// override, so WithConfig composes with an explicit
// WithReporter.
func WithConfig(cfg *config.Config) Option {
	return func(s *Suite) {
		s.reporter = report.NewConsole(cfg.ColorEnabled())
		if cfg.Verbose || cfg.LogFile != "" {
			s.logger = logging.NewRunLogger(
				cfg.Verbose, cfg.LogFile,
			)
		}
	}
}
