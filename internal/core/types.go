// Package core provides the business logic for NEM12 generation runs.
// This package has no HTTP dependencies and can be used by any frontend.
package core

import (
	"time"

	"github.com/S-Forouzandeh/NEM12/internal/nem12"
)

// UploadedFile is one file submitted to a generation run.
type UploadedFile struct {
	Name string
	Data []byte
}

// RunPhase indicates the current stage of run processing.
type RunPhase string

const (
	PhaseStarting   RunPhase = "starting"
	PhaseReading    RunPhase = "reading"
	PhaseAssembling RunPhase = "assembling"
	PhaseComposing  RunPhase = "composing"
	PhaseComplete   RunPhase = "complete"
	PhaseFailed     RunPhase = "failed"
	PhaseCancelled  RunPhase = "cancelled"
)

// RunProgress represents the current state of a generation run.
type RunProgress struct {
	RunID        string   `json:"runId"`
	Phase        RunPhase `json:"phase"`
	FileName     string   `json:"fileName,omitempty"`
	TotalSources int      `json:"totalSources"`
	DoneSources  int      `json:"doneSources"`
	Error        string   `json:"error,omitempty"` // Non-empty if Phase is PhaseFailed
}

// Percent returns the progress as a percentage (0-100).
func (p RunProgress) Percent() int {
	if p.TotalSources > 0 {
		return (p.DoneSources * 100) / p.TotalSources
	}
	return 0
}

// SourceOutcome records how a single source fared during a run.
type SourceOutcome struct {
	Source   string `json:"source"`
	Rows     int    `json:"rows"`
	Inferred bool   `json:"inferred"`
	Skipped  bool   `json:"skipped"`
	Reason   string `json:"reason,omitempty"`
}

// RunResult contains the final result of a generation run.
type RunResult struct {
	RunID       string             `json:"runId"`
	FileName    string             `json:"fileName,omitempty"`
	Output      string             `json:"-"`
	Sources     []SourceOutcome    `json:"sources"`
	Diagnostics []nem12.Diagnostic `json:"diagnostics"`
	TotalRows   int                `json:"totalRows"`
	Duration    time.Duration      `json:"duration"`
	Error       string             `json:"error,omitempty"` // Non-empty if run failed
}
