package monitor

import (
	"sync"
	"time"
)

// EventCollector captures run events and timing data.
type EventCollector struct {
	mu       sync.RWMutex
	events   []RunEvent
	handlers []func(RunEvent)
	stats    CollectorStats
}

// CollectorStats holds aggregate statistics.
type CollectorStats struct {
	Total     int           `json:"total"`
	Suites    int           `json:"suites"`
	Verified  int           `json:"verified"`
	Failed    int           `json:"failed"`
	Errored   int           `json:"errored"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
}

// NewEventCollector creates a new event collector.
func NewEventCollector() *EventCollector {
	return &EventCollector{
		events: make([]RunEvent, 0, 64),
		stats:  CollectorStats{StartTime: time.Now()},
	}
}

// OnEvent registers a handler to be called for each event.
func (c *EventCollector) OnEvent(handler func(RunEvent)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, handler)
}

// Emit records an event and notifies all handlers.
func (c *EventCollector) Emit(event RunEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	c.mu.Lock()
	c.events = append(c.events, event)
	c.stats.Total++
	switch event.Type {
	case EventSuiteStarted:
		c.stats.Suites++
	case EventFactVerified:
		c.stats.Verified++
	case EventFactFailed:
		c.stats.Failed++
	case EventFactErrored:
		c.stats.Errored++
	}
	c.stats.Duration = time.Since(c.stats.StartTime)
	handlers := make([]func(RunEvent), len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()

	for _, h := range handlers {
		h(event)
	}
}

// EmitSuiteStarted emits a suite started event.
func (c *EventCollector) EmitSuiteStarted(
	suite, description string,
) {
	c.Emit(RunEvent{
		Type:        EventSuiteStarted,
		Suite:       suite,
		Description: description,
		Timestamp:   time.Now(),
	})
}

// EmitFactVerified emits a fact verified event.
func (c *EventCollector) EmitFactVerified(suite, expr string) {
	c.Emit(RunEvent{
		Type:      EventFactVerified,
		Suite:     suite,
		Expr:      expr,
		Timestamp: time.Now(),
	})
}

// EmitFactFailed emits a fact failed event.
func (c *EventCollector) EmitFactFailed(
	suite, expr, line string,
) {
	c.Emit(RunEvent{
		Type:      EventFactFailed,
		Suite:     suite,
		Expr:      expr,
		Line:      line,
		Timestamp: time.Now(),
	})
}

// EmitFactErrored emits a fact errored event.
func (c *EventCollector) EmitFactErrored(
	suite, expr, line, msg string,
) {
	c.Emit(RunEvent{
		Type:      EventFactErrored,
		Suite:     suite,
		Expr:      expr,
		Line:      line,
		Message:   msg,
		Timestamp: time.Now(),
	})
}

// EmitSuiteFinished emits a suite finished event carrying the
// final counts.
func (c *EventCollector) EmitSuiteFinished(
	suite string,
	verified, failed, errored int,
) {
	c.Emit(RunEvent{
		Type:      EventSuiteFinished,
		Suite:     suite,
		Verified:  verified,
		Failed:    failed,
		Errored:   errored,
		Timestamp: time.Now(),
	})
}

// Events returns a copy of all collected events.
func (c *EventCollector) Events() []RunEvent {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]RunEvent, len(c.events))
	copy(result, c.events)
	return result
}

// Stats returns the current aggregate statistics.
func (c *EventCollector) Stats() CollectorStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.stats
	s.Duration = time.Since(s.StartTime)
	return s
}

// Reset clears all collected events and statistics.
func (c *EventCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = c.events[:0]
	c.stats = CollectorStats{StartTime: time.Now()}
}
