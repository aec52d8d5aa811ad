package monitor

import (
	"sync"
	"time"
)

// DashboardData provides a real-time snapshot of run state.
type DashboardData struct {
	mu        sync.RWMutex
	RunID     string                `json:"run_id"`
	StartTime time.Time             `json:"start_time"`
	Status    string                `json:"status"` // running, completed, failed
	Suites    map[string]SuiteState `json:"suites"`
	Summary   DashboardSummary      `json:"summary"`
}

// SuiteState represents the current state of a suite in the
// dashboard.
type SuiteState struct {
	File        string     `json:"file"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Verified    int        `json:"verified"`
	Failed      int        `json:"failed"`
	Errored     int        `json:"errored"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
}

// DashboardSummary holds aggregate stats for the dashboard.
type DashboardSummary struct {
	Suites       int     `json:"suites"`
	Running      int     `json:"running"`
	Passed       int     `json:"passed"`
	Failed       int     `json:"failed"`
	Verified     int     `json:"verified"`
	FailedFacts  int     `json:"failed_facts"`
	ErroredFacts int     `json:"errored_facts"`
	PassRate     float64 `json:"pass_rate"`
	Elapsed      string  `json:"elapsed"`
}

// DashboardSnapshot is a point-in-time copy of the dashboard
// state, safe to marshal and pass around without the lock.
type DashboardSnapshot struct {
	RunID     string                `json:"run_id"`
	StartTime time.Time             `json:"start_time"`
	Status    string                `json:"status"`
	Suites    map[string]SuiteState `json:"suites"`
	Summary   DashboardSummary      `json:"summary"`
}

// NewDashboardData creates a new dashboard data instance.
func NewDashboardData(runID string) *DashboardData {
	return &DashboardData{
		RunID:     runID,
		StartTime: time.Now(),
		Status:    "running",
		Suites:    make(map[string]SuiteState),
	}
}

// UpdateFromEvent updates dashboard state from a run event.
func (d *DashboardData) UpdateFromEvent(event RunEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	state, exists := d.Suites[event.Suite]
	if !exists {
		state = SuiteState{
			File:        event.Suite,
			Description: event.Description,
		}
	}

	switch event.Type {
	case EventSuiteStarted:
		state.Status = "running"
		state.Description = event.Description
		state.StartTime = &now
	case EventFactVerified:
		state.Verified++
	case EventFactFailed:
		state.Failed++
	case EventFactErrored:
		state.Errored++
	case EventSuiteFinished:
		state.Verified = event.Verified
		state.Failed = event.Failed
		state.Errored = event.Errored
		if event.Failed == 0 && event.Errored == 0 {
			state.Status = "passed"
		} else {
			state.Status = "failed"
		}
		state.EndTime = &now
	}

	d.Suites[event.Suite] = state
	d.recalcSummary()
}

func (d *DashboardData) recalcSummary() {
	s := DashboardSummary{}
	for _, st := range d.Suites {
		s.Suites++
		switch st.Status {
		case "passed":
			s.Passed++
		case "failed":
			s.Failed++
		case "running":
			s.Running++
		}
		s.Verified += st.Verified
		s.FailedFacts += st.Failed
		s.ErroredFacts += st.Errored
	}
	if finished := s.Passed + s.Failed; finished > 0 {
		s.PassRate = float64(s.Passed) / float64(finished) * 100
	}
	s.Elapsed = time.Since(d.StartTime).Round(time.Millisecond).String()
	d.Summary = s
}

// Snapshot returns a copy of the current dashboard state.
func (d *DashboardData) Snapshot() DashboardSnapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	snap := DashboardSnapshot{
		RunID:     d.RunID,
		StartTime: d.StartTime,
		Status:    d.Status,
		Suites:    make(map[string]SuiteState, len(d.Suites)),
		Summary:   d.Summary,
	}
	for k, v := range d.Suites {
		snap.Suites[k] = v
	}
	return snap
}

// SetStatus sets the overall run status.
func (d *DashboardData) SetStatus(status string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Status = status
}

// BuildDashboardData creates a DashboardData snapshot from an
// EventCollector by replaying all collected events.
func BuildDashboardData(
	collector *EventCollector,
) *DashboardData {
	data := NewDashboardData("snapshot")
	for _, event := range collector.Events() {
		data.UpdateFromEvent(event)
	}
	return data
}
