package metrics

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

// InMemory implements RunMetrics using in-process counters and
// renders them in the Prometheus text exposition format. Real
// Prometheus integration is done by the host application using
// prometheus/client_golang.
type InMemory struct {
	mu     sync.Mutex
	facts  map[string]int
	suites map[string]int
	active int
}

// NewInMemory creates a new InMemory metrics instance.
func NewInMemory() *InMemory {
	return &InMemory{
		facts:  make(map[string]int),
		suites: make(map[string]int),
	}
}

func (m *InMemory) RecordFact(suite, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.facts[suite+":"+outcome]++
}

func (m *InMemory) RecordSuiteStarted(_ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active++
}

func (m *InMemory) RecordSuiteFinished(suite, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suites[suite+":"+status]++
	if m.active > 0 {
		m.active--
	}
}

// FactCount returns the count for a suite+outcome combination.
func (m *InMemory) FactCount(suite, outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.facts[suite+":"+outcome]
}

// SuiteCount returns the count for a suite+status combination.
func (m *InMemory) SuiteCount(suite, status string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.suites[suite+":"+status]
}

// ActiveSuites returns the number of suites currently in scope.
func (m *InMemory) ActiveSuites() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// WriteExposition writes all counters in the Prometheus text
// exposition format. Series are sorted so the output is
// deterministic.
func (m *InMemory) WriteExposition(w io.Writer) error {
	m.mu.Lock()
	var buf bytes.Buffer
	buf.WriteString("# TYPE facts_assertions_total counter\n")
	writeSeries(
		&buf, "facts_assertions_total",
		"suite", "outcome", m.facts,
	)
	buf.WriteString("# TYPE facts_suites_total counter\n")
	writeSeries(
		&buf, "facts_suites_total",
		"suite", "status", m.suites,
	)
	buf.WriteString("# TYPE facts_active_suites gauge\n")
	fmt.Fprintf(&buf, "facts_active_suites %d\n", m.active)
	m.mu.Unlock()

	_, err := w.Write(buf.Bytes())
	return err
}

// writeSeries writes one labeled counter family in sorted key
// order. Keys are "<first>:<second>" composites; the split is on
// the last colon since outcome and status values never contain
// one.
func writeSeries(
	buf *bytes.Buffer,
	name, firstLabel, secondLabel string,
	series map[string]int,
) {
	keys := make([]string, 0, len(series))
	for k := range series {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		i := strings.LastIndex(k, ":")
		fmt.Fprintf(
			buf, "%s{%s=%q,%s=%q} %d\n",
			name,
			firstLabel, k[:i],
			secondLabel, k[i+1:],
			series[k],
		)
	}
}
