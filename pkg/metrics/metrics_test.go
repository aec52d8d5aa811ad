package metrics

import (
	"testing"
)

func TestNoopMetrics_ImplementsInterface(t *testing.T) {
	var _ RunMetrics = NoopMetrics{}
}

func TestInMemory_ImplementsInterfaces(t *testing.T) {
	var _ RunMetrics = &InMemory{}
	var _ Exporter = &InMemory{}
}

func TestNoopMetrics(t *testing.T) {
	m := NoopMetrics{}
	// Should not panic
	m.RecordFact("calc.fact", "verified")
	m.RecordSuiteStarted("calc.fact")
	m.RecordSuiteFinished("calc.fact", "passed")
}
