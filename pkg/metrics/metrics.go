package metrics

import "io"

// RunMetrics defines the interface for recording facts run metrics.
type RunMetrics interface {
	// RecordFact records one evaluated fact by suite and outcome.
	RecordFact(suite, outcome string)
	// RecordSuiteStarted records a suite entering its scope.
	RecordSuiteStarted(suite string)
	// RecordSuiteFinished records a completed suite with its
	// final status.
	RecordSuiteFinished(suite, status string)
}

// Exporter renders collected metrics to a writer.
type Exporter interface {
	// WriteExposition writes the metrics in the Prometheus text
	// exposition format.
	WriteExposition(w io.Writer) error
}

// NoopMetrics is a no-op implementation of RunMetrics
// useful for testing or when metrics collection is disabled.
type NoopMetrics struct{}

func (NoopMetrics) RecordFact(_, _ string)          {}
func (NoopMetrics) RecordSuiteStarted(_ string)     {}
func (NoopMetrics) RecordSuiteFinished(_, _ string) {}
