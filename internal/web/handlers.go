package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/S-Forouzandeh/NEM12/internal/core"
	"github.com/S-Forouzandeh/NEM12/internal/tabular"
	"github.com/go-chi/chi/v5"
)

// handleIndex serves the upload page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// handleGenerate accepts one or more tabular files and starts a generation
// run. Responds with the run ID; progress and result are fetched separately.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Generate.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			err = fmt.Errorf("%w: request body exceeds %d bytes", core.ErrFileTooLarge, maxSize)
		}
		s.respondError(w, r, err, statusForError(err))
		return
	}

	if r.MultipartForm == nil || len(r.MultipartForm.File["files"]) == 0 {
		s.respondError(w, r, fmt.Errorf("no file provided"), http.StatusBadRequest)
		return
	}

	// Reject a batch with nothing readable up front; a mixed batch still
	// goes through and skips bad sources individually.
	supported := 0
	for _, header := range r.MultipartForm.File["files"] {
		if tabular.SupportedExt(header.Filename) {
			supported++
		}
	}
	if supported == 0 {
		err := fmt.Errorf("%w: no uploaded file has a supported extension", core.ErrUnsupportedFile)
		s.respondError(w, r, err, statusForError(err))
		return
	}

	var files []core.UploadedFile
	for _, header := range r.MultipartForm.File["files"] {
		f, err := header.Open()
		if err != nil {
			s.respondError(w, r, fmt.Errorf("open %s: %w", header.Filename, err), http.StatusBadRequest)
			return
		}

		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			s.respondError(w, r, fmt.Errorf("read %s: %w", header.Filename, err), http.StatusBadRequest)
			return
		}

		files = append(files, core.UploadedFile{
			Name: header.Filename,
			Data: data,
		})
	}

	runID, err := s.service.StartRun(r.Context(), files)
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}

	writeJSON(w, map[string]string{"run_id": runID})
}

// handleRunProgress streams run progress via Server-Sent Events.
// Supports resumption via the lastEventId query parameter for reconnection.
func (s *Server) handleRunProgress(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	if runID == "" {
		s.respondError(w, r, fmt.Errorf("run not found: missing run ID"), http.StatusBadRequest)
		return
	}

	// The event ID is the progress percentage, allowing clients to skip
	// already-received events after reconnection.
	lastEventIDStr := r.URL.Query().Get("lastEventId")
	var lastEventID int
	if lastEventIDStr != "" {
		lastEventID, _ = strconv.Atoi(lastEventIDStr)
	}

	progressCh, err := s.service.SubscribeProgress(runID)
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.respondError(w, r, fmt.Errorf("streaming not supported"), http.StatusInternalServerError)
		return
	}

	for {
		select {
		case progress, ok := <-progressCh:
			if !ok {
				// Channel closed: run complete or cancelled
				fmt.Fprintf(w, "event: complete\ndata: {}\n\n")
				flusher.Flush()
				return
			}

			currentPercent := progress.Percent()

			// Skip events that were already sent (for resumption)
			if lastEventIDStr != "" && currentPercent <= lastEventID {
				continue
			}

			data, _ := json.Marshal(progress)
			fmt.Fprintf(w, "id: %d\nevent: progress\ndata: %s\n\n", currentPercent, data)
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

// handleRunResult returns the final result of a run as JSON.
// Blocks until the run completes.
func (s *Server) handleRunResult(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	result, err := s.service.GetRunResult(runID)
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}

	writeJSON(w, result)
}

// handleRunDownload serves the generated NEM12 file as a CSV attachment.
func (s *Server) handleRunDownload(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	result, err := s.service.GetRunResult(runID)
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}

	if result.Error != "" || result.Output == "" {
		s.respondError(w, r, fmt.Errorf("no valid sources: run produced no output"), http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, result.FileName))
	io.WriteString(w, result.Output)
}

// handleCancelRun cancels an in-progress run.
func (s *Server) handleCancelRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	if err := s.service.CancelRun(runID); err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"cancelled"}`))
}

// handleStatus reports the run limiter state for monitoring.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.service.LimiterStatus())
}
