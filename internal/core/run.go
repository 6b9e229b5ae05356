package core

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/S-Forouzandeh/NEM12/internal/nem12"
	"github.com/S-Forouzandeh/NEM12/internal/tabular"
)

// outputFileNameLayout names the generated file by wall-clock time,
// "nem12_20240615_093000.csv".
const outputFileNameLayout = "20060102_150405"

// processRun executes the full generation pipeline for one run: read the
// submitted files into sources, classify and assemble each source, then
// compose the surviving blocks into a single NEM12 payload. A failing
// source is skipped with diagnostics; only a run with zero surviving
// sources fails as a whole.
func (s *Service) processRun(ctx context.Context, run *activeRun, files []UploadedFile) {
	startTime := time.Now()

	defer func() {
		run.closeListeners()
		close(run.Done)
		s.cleanup(run.ID, s.opts.ResultTTL)
	}()

	result := &RunResult{RunID: run.ID}
	var diags []nem12.Diagnostic

	run.Progress.Phase = PhaseReading
	run.notifyProgress()

	var sources []tabular.Source
	for _, f := range files {
		if ctx.Err() != nil {
			s.finishCancelled(run, result, diags, startTime)
			return
		}

		run.Progress.FileName = f.Name
		run.notifyProgress()

		if !tabular.SupportedExt(f.Name) {
			diags = append(diags, nem12.Error(f.Name, fmt.Sprintf("unsupported file type %q; skipped", filepath.Ext(f.Name))))
			result.Sources = append(result.Sources, SourceOutcome{
				Source:  f.Name,
				Skipped: true,
				Reason:  "unsupported file type",
			})
			continue
		}

		if s.opts.MaxFileSize > 0 && int64(len(f.Data)) > s.opts.MaxFileSize {
			diags = append(diags, nem12.Error(f.Name, fmt.Sprintf("file too large (%d bytes, limit %d); skipped", len(f.Data), s.opts.MaxFileSize)))
			result.Sources = append(result.Sources, SourceOutcome{
				Source:  f.Name,
				Skipped: true,
				Reason:  "file too large",
			})
			continue
		}

		srcs, err := tabular.ReadSources(f.Name, bytes.NewReader(f.Data))
		if err != nil {
			diags = append(diags, nem12.Error(f.Name, fmt.Sprintf("unreadable source: %v; skipped", err)))
			result.Sources = append(result.Sources, SourceOutcome{
				Source:  f.Name,
				Skipped: true,
				Reason:  "unreadable source",
			})
			continue
		}
		sources = append(sources, srcs...)
	}

	run.Progress.FileName = ""
	run.Progress.TotalSources = len(sources)
	run.Progress.Phase = PhaseAssembling
	run.notifyProgress()

	var blocks []nem12.Block
	totalRows := 0

	for _, src := range sources {
		if ctx.Err() != nil {
			s.finishCancelled(run, result, diags, startTime)
			return
		}

		buckets, explicit, cdiags := nem12.Classify(src.Grid, src.Name)
		diags = append(diags, cdiags...)

		if buckets.Size() == 0 {
			result.Sources = append(result.Sources, SourceOutcome{
				Source:   src.Name,
				Inferred: !explicit,
				Skipped:  true,
				Reason:   "source could not be classified",
			})
			run.Progress.DoneSources++
			run.notifyProgress()
			continue
		}

		block, adiags, err := nem12.Assemble(src.Name, buckets, s.catalog)
		diags = append(diags, adiags...)
		if err != nil {
			result.Sources = append(result.Sources, SourceOutcome{
				Source:   src.Name,
				Inferred: !explicit,
				Skipped:  true,
				Reason:   err.Error(),
			})
			run.Progress.DoneSources++
			run.notifyProgress()
			continue
		}

		blocks = append(blocks, block)
		totalRows += len(block.Rows)
		result.Sources = append(result.Sources, SourceOutcome{
			Source:   src.Name,
			Rows:     len(block.Rows),
			Inferred: !explicit,
		})

		run.Progress.DoneSources++
		run.notifyProgress()
	}

	run.Progress.Phase = PhaseComposing
	run.notifyProgress()

	if len(blocks) == 0 {
		diags = append(diags, nem12.Error("", "no valid sources: every submitted source was skipped"))
		s.finishFailed(run, result, diags, ErrNoValidSources.Error(), startTime)
		return
	}

	output, err := nem12.Compose(blocks)
	if err != nil {
		diags = append(diags, nem12.Error("", fmt.Sprintf("compose: %v", err)))
		s.finishFailed(run, result, diags, err.Error(), startTime)
		return
	}

	result.Output = output
	result.FileName = fmt.Sprintf("nem12_%s.csv", s.catalog.Time().Format(outputFileNameLayout))
	result.Diagnostics = diags
	result.TotalRows = totalRows
	result.Duration = time.Since(startTime)
	run.Result = result

	run.Progress.Phase = PhaseComplete
	run.notifyProgress()
}

// finishFailed records a failed run and notifies listeners.
func (s *Service) finishFailed(run *activeRun, result *RunResult, diags []nem12.Diagnostic, errText string, startTime time.Time) {
	result.Diagnostics = diags
	result.Error = errText
	result.Duration = time.Since(startTime)
	run.Result = result

	run.Progress.Phase = PhaseFailed
	run.Progress.Error = errText
	run.notifyProgress()
}

// finishCancelled records a cancelled run and notifies listeners.
func (s *Service) finishCancelled(run *activeRun, result *RunResult, diags []nem12.Diagnostic, startTime time.Time) {
	result.Diagnostics = diags
	result.Error = "cancelled"
	result.Duration = time.Since(startTime)
	run.Result = result

	run.Progress.Phase = PhaseCancelled
	run.notifyProgress()
}
