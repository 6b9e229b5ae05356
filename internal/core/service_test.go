package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/S-Forouzandeh/NEM12/internal/nem12"
)

func newTestService() *Service {
	return NewService(Options{
		FromParticipant: "SENDER",
		ToParticipant:   "RECEIVER",
		MaxConcurrent:   2,
		MaxWaitTime:     time.Second,
		RunTimeout:      10 * time.Second,
		ResultTTL:       time.Minute,
	})
}

func csvFile(name string, lines ...string) UploadedFile {
	return UploadedFile{Name: name, Data: []byte(strings.Join(lines, "\n"))}
}

func TestStartRun_NoFiles(t *testing.T) {
	s := newTestService()

	_, err := s.StartRun(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error for empty file list")
	}
	if MapError(err).Code != "FILE003" {
		t.Errorf("MapError code = %q, want FILE003", MapError(err).Code)
	}
}

func TestService_CompleteRun(t *testing.T) {
	s := newTestService()

	file := csvFile("meter.csv",
		"200,NMI1234567,E1,1,E1,N1,METSER123,KWH,30,",
		"300,20240101,A,,",
		"300,20240102,A,,",
	)

	runID, err := s.StartRun(context.Background(), []UploadedFile{file})
	if err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}

	result, err := s.GetRunResult(runID)
	if err != nil {
		t.Fatalf("GetRunResult failed: %v", err)
	}

	if result.Error != "" {
		t.Fatalf("run failed: %s", result.Error)
	}
	if !strings.HasPrefix(result.FileName, "nem12_") || !strings.HasSuffix(result.FileName, ".csv") {
		t.Errorf("unexpected output file name %q", result.FileName)
	}

	lines := strings.Split(strings.TrimRight(result.Output, "\n"), "\n")
	if !strings.HasPrefix(lines[0], "100,NEM12,") {
		t.Errorf("first line = %q, want synthesized 100 header", lines[0])
	}
	if !strings.HasPrefix(lines[len(lines)-1], "900") {
		t.Errorf("last line = %q, want 900 trailer", lines[len(lines)-1])
	}

	// 100 + 200 + 2x300 + 900
	if result.TotalRows != 5 {
		t.Errorf("TotalRows = %d, want 5", result.TotalRows)
	}
	if len(result.Sources) != 1 {
		t.Fatalf("Sources = %d, want 1", len(result.Sources))
	}
	if out := result.Sources[0]; out.Skipped || out.Rows != 5 {
		t.Errorf("unexpected source outcome: %+v", out)
	}
}

func TestService_SkipsBadSourcesAndContinues(t *testing.T) {
	s := newTestService()

	files := []UploadedFile{
		{Name: "notes.txt", Data: []byte("not tabular")},
		csvFile("good.csv", "300,20240101,A,,", "900"),
	}

	runID, err := s.StartRun(context.Background(), files)
	if err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}

	result, err := s.GetRunResult(runID)
	if err != nil {
		t.Fatalf("GetRunResult failed: %v", err)
	}

	if result.Error != "" {
		t.Fatalf("run failed: %s", result.Error)
	}
	if len(result.Sources) != 2 {
		t.Fatalf("Sources = %d, want 2", len(result.Sources))
	}

	var skipped, ok bool
	for _, out := range result.Sources {
		if out.Source == "notes.txt" && out.Skipped {
			skipped = true
		}
		if out.Source == "good.csv" && !out.Skipped {
			ok = true
		}
	}
	if !skipped {
		t.Error("notes.txt should be skipped")
	}
	if !ok {
		t.Error("good.csv should survive")
	}
	if !nem12.HasErrors(result.Diagnostics) {
		t.Error("expected an error diagnostic for the skipped file")
	}
}

func TestService_NoValidSources(t *testing.T) {
	s := newTestService()

	runID, err := s.StartRun(context.Background(), []UploadedFile{
		{Name: "notes.txt", Data: []byte("not tabular")},
	})
	if err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}

	result, err := s.GetRunResult(runID)
	if err != nil {
		t.Fatalf("GetRunResult failed: %v", err)
	}

	if result.Error == "" {
		t.Fatal("expected run to fail")
	}
	if !strings.Contains(result.Error, "no valid sources") {
		t.Errorf("Error = %q, want no-valid-sources failure", result.Error)
	}
	if result.Output != "" {
		t.Error("failed run should have no output")
	}
}

func TestService_FileTooLarge(t *testing.T) {
	s := NewService(Options{
		MaxFileSize:   16,
		MaxConcurrent: 1,
		MaxWaitTime:   time.Second,
	})

	runID, err := s.StartRun(context.Background(), []UploadedFile{
		csvFile("big.csv", "300,20240101,A,,", "300,20240102,A,,"),
	})
	if err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}

	result, err := s.GetRunResult(runID)
	if err != nil {
		t.Fatalf("GetRunResult failed: %v", err)
	}

	if result.Error == "" {
		t.Fatal("expected run to fail")
	}
	if len(result.Sources) != 1 || !result.Sources[0].Skipped {
		t.Fatalf("unexpected sources: %+v", result.Sources)
	}
	if result.Sources[0].Reason != "file too large" {
		t.Errorf("Reason = %q, want file too large", result.Sources[0].Reason)
	}
}

func TestService_ProgressSubscription(t *testing.T) {
	s := newTestService()

	runID, err := s.StartRun(context.Background(), []UploadedFile{
		csvFile("meter.csv", "300,20240101,A,,"),
	})
	if err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}

	ch, err := s.SubscribeProgress(runID)
	if err != nil {
		t.Fatalf("SubscribeProgress failed: %v", err)
	}

	for p := range ch {
		if p.Phase == PhaseFailed || p.Phase == PhaseCancelled {
			t.Errorf("unexpected phase %q", p.Phase)
		}
		if p.RunID != runID {
			t.Errorf("progress for wrong run: %q", p.RunID)
		}
	}

	if _, err := s.GetRunResult(runID); err != nil {
		t.Fatalf("GetRunResult failed: %v", err)
	}
}

func TestService_RunNotFound(t *testing.T) {
	s := newTestService()

	if _, err := s.GetRunResult("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("GetRunResult err = %v, want ErrRunNotFound", err)
	}
	if _, err := s.GetRunProgress("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("GetRunProgress err = %v, want ErrRunNotFound", err)
	}
	if _, err := s.SubscribeProgress("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("SubscribeProgress err = %v, want ErrRunNotFound", err)
	}
	if err := s.CancelRun("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("CancelRun err = %v, want ErrRunNotFound", err)
	}
}

func TestService_MultipleBlocksKeepSubmissionOrder(t *testing.T) {
	s := newTestService()

	files := []UploadedFile{
		csvFile("a.csv", "300,20240101,A,,"),
		csvFile("b.csv", "300,20240202,A,,"),
	}

	runID, err := s.StartRun(context.Background(), files)
	if err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}

	result, err := s.GetRunResult(runID)
	if err != nil {
		t.Fatalf("GetRunResult failed: %v", err)
	}
	if result.Error != "" {
		t.Fatalf("run failed: %s", result.Error)
	}

	first := strings.Index(result.Output, "20240101")
	second := strings.Index(result.Output, "20240202")
	if first < 0 || second < 0 || first > second {
		t.Errorf("blocks out of order: first=%d second=%d", first, second)
	}
}
