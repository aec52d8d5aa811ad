package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// RunSummary represents an aggregated summary of all suites in
// one engine run.
type RunSummary struct {
	ID           string         `json:"id"`
	GeneratedAt  time.Time      `json:"generated_at"`
	Suites       []SuiteSummary `json:"suites"`
	TotalSuites  int            `json:"total_suites"`
	PassedSuites int            `json:"passed_suites"`
	FailedSuites int            `json:"failed_suites"`
	Verified     int            `json:"verified"`
	Failed       int            `json:"failed"`
	Errored      int            `json:"errored"`
	PassRate     float64        `json:"pass_rate"`
}

// SuiteSummary represents a summary of a single suite.
type SuiteSummary struct {
	File        string `json:"file"`
	Description string `json:"description,omitempty"`
	Verified    int    `json:"verified"`
	Failed      int    `json:"failed"`
	Errored     int    `json:"errored"`
	Passed      bool   `json:"passed"`
}

// BuildRunSummary creates a run summary from completed suites.
func BuildRunSummary(srcs []Source) *RunSummary {
	summary := &RunSummary{
		ID: fmt.Sprintf(
			"run_%s",
			time.Now().Format("20060102_150405"),
		),
		GeneratedAt: time.Now(),
		Suites:      make([]SuiteSummary, 0, len(srcs)),
	}

	for _, src := range srcs {
		verified, failed, errored := src.Counts()

		ss := SuiteSummary{
			File:        src.File(),
			Description: src.Description(),
			Verified:    verified,
			Failed:      failed,
			Errored:     errored,
			Passed:      failed == 0 && errored == 0,
		}

		summary.Suites = append(summary.Suites, ss)
		summary.TotalSuites++
		summary.Verified += verified
		summary.Failed += failed
		summary.Errored += errored

		if ss.Passed {
			summary.PassedSuites++
		} else {
			summary.FailedSuites++
		}
	}

	if summary.TotalSuites > 0 {
		summary.PassRate =
			float64(summary.PassedSuites) /
				float64(summary.TotalSuites)
	}

	return summary
}

// Passed returns true if no fact failed or errored anywhere in
// the run.
func (s *RunSummary) Passed() bool {
	return s.Failed == 0 && s.Errored == 0
}

// ExitCode returns the process exit status a driver should use
// for this run: zero when every fact verified, one otherwise.
func (s *RunSummary) ExitCode() int {
	if s.Passed() {
		return 0
	}
	return 1
}

// SaveRunSummary saves the run summary to both JSON and
// Markdown files in the given output directory.
func SaveRunSummary(
	summary *RunSummary,
	outputDir string,
) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf(
			"failed to create output directory: %w", err,
		)
	}

	ts := summary.GeneratedAt.Format("20060102_150405")

	jsonPath := filepath.Join(
		outputDir,
		fmt.Sprintf("run_summary_%s.json", ts),
	)
	jsonData, err := jsonMarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf(
			"failed to marshal summary: %w", err,
		)
	}
	if err := os.WriteFile(jsonPath, jsonData, 0644); err != nil {
		return fmt.Errorf(
			"failed to write JSON summary: %w", err,
		)
	}

	mdPath := filepath.Join(
		outputDir,
		fmt.Sprintf("run_summary_%s.md", ts),
	)
	mdContent := markdownFromSummary(summary)
	if err := os.WriteFile(
		mdPath, []byte(mdContent), 0644,
	); err != nil {
		return fmt.Errorf(
			"failed to write Markdown summary: %w", err,
		)
	}

	latestJSON := filepath.Join(outputDir, "latest_summary.json")
	latestMD := filepath.Join(outputDir, "latest_summary.md")

	_ = os.Remove(latestJSON)
	_ = os.Remove(latestMD)
	_ = os.Symlink(filepath.Base(jsonPath), latestJSON)
	_ = os.Symlink(filepath.Base(mdPath), latestMD)

	return nil
}

// markdownFromSummary creates markdown from a run summary.
func markdownFromSummary(summary *RunSummary) string {
	var sb strings.Builder

	sb.WriteString("# Facts Framework - Run Summary\n\n")
	sb.WriteString(
		fmt.Sprintf("**Run ID:** %s\n\n", summary.ID),
	)
	sb.WriteString(
		fmt.Sprintf(
			"**Generated:** %s\n\n",
			summary.GeneratedAt.Format(time.RFC3339),
		),
	)

	sb.WriteString("## Overview\n\n")
	sb.WriteString(
		"| Suite | Status | Verified | Failed | Errored |\n",
	)
	sb.WriteString(
		"|-------|--------|----------|--------|---------|\n",
	)

	for _, s := range summary.Suites {
		status := "FAILED"
		if s.Passed {
			status = "PASSED"
		}
		name := s.File
		if s.Description != "" {
			name = fmt.Sprintf(
				"%s (%s)", s.Description, s.File,
			)
		}
		sb.WriteString(
			fmt.Sprintf(
				"| %s | %s | %d | %d | %d |\n",
				name, status,
				s.Verified, s.Failed, s.Errored,
			),
		)
	}

	sb.WriteString("\n## Statistics\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(
		fmt.Sprintf(
			"| Total Suites | %d |\n", summary.TotalSuites,
		),
	)
	sb.WriteString(
		fmt.Sprintf(
			"| Passed | %d |\n", summary.PassedSuites,
		),
	)
	sb.WriteString(
		fmt.Sprintf(
			"| Failed | %d |\n", summary.FailedSuites,
		),
	)
	sb.WriteString(
		fmt.Sprintf(
			"| Pass Rate | %.0f%% |\n",
			summary.PassRate*100,
		),
	)
	sb.WriteString(
		fmt.Sprintf(
			"| Facts Verified | %d |\n", summary.Verified,
		),
	)
	sb.WriteString(
		fmt.Sprintf(
			"| Facts Failed | %d |\n", summary.Failed,
		),
	)
	sb.WriteString(
		fmt.Sprintf(
			"| Facts Errored | %d |\n", summary.Errored,
		),
	)

	sb.WriteString("\n---\n\n")
	sb.WriteString("*Generated by Facts Framework*\n")

	return sb.String()
}
