package monitor

import "time"

// EventType represents the type of run event.
type EventType string

const (
	EventSuiteStarted  EventType = "suite_started"
	EventFactVerified  EventType = "fact_verified"
	EventFactFailed    EventType = "fact_failed"
	EventFactErrored   EventType = "fact_errored"
	EventSuiteFinished EventType = "suite_finished"
)

// RunEvent represents a lifecycle event during suite evaluation.
type RunEvent struct {
	Type        EventType `json:"type"`
	Suite       string    `json:"suite"`
	Description string    `json:"description,omitempty"`
	Expr        string    `json:"expr,omitempty"`
	Line        string    `json:"line,omitempty"`
	Verified    int       `json:"verified,omitempty"`
	Failed      int       `json:"failed,omitempty"`
	Errored     int       `json:"errored,omitempty"`
	Message     string    `json:"message,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
