package monitor

import "digital.vasic.facts/pkg/metrics"

// ObserveMetrics registers a collector handler that records run
// events into the given metrics sink. Suite status follows the
// finish counts: a suite passes only when nothing failed or
// errored.
func ObserveMetrics(c *EventCollector, m metrics.RunMetrics) {
	c.OnEvent(func(e RunEvent) {
		switch e.Type {
		case EventSuiteStarted:
			m.RecordSuiteStarted(e.Suite)
		case EventFactVerified:
			m.RecordFact(e.Suite, "verified")
		case EventFactFailed:
			m.RecordFact(e.Suite, "failed")
		case EventFactErrored:
			m.RecordFact(e.Suite, "errored")
		case EventSuiteFinished:
			status := "passed"
			if e.Failed > 0 || e.Errored > 0 {
				status = "failed"
			}
			m.RecordSuiteFinished(e.Suite, status)
		}
	})
}
