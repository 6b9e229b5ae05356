package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/S-Forouzandeh/NEM12/internal/nem12"
	"github.com/google/uuid"
)

// DefaultRunTimeout is the maximum duration for a generation run.
const DefaultRunTimeout = 10 * time.Minute

// DefaultResultTTL is how long a completed run stays available for download.
const DefaultResultTTL = 5 * time.Minute

// Options configures a Service.
type Options struct {
	FromParticipant string
	ToParticipant   string
	MaxFileSize     int64
	MaxConcurrent   int
	MaxWaitTime     time.Duration
	RunTimeout      time.Duration
	ResultTTL       time.Duration
}

// Service provides the core business logic for generation runs.
type Service struct {
	opts    Options
	catalog *nem12.Catalog
	limiter *RunLimiter

	mu   sync.RWMutex
	runs map[string]*activeRun
}

type activeRun struct {
	ID         string
	Cancel     context.CancelFunc
	Progress   RunProgress
	Result     *RunResult
	Done       chan struct{}
	Listeners  []chan RunProgress
	ListenerMu sync.Mutex
	closed     bool // guarded by ListenerMu; set once listeners are closed
}

// NewService creates a new Service instance.
func NewService(opts Options) *Service {
	if opts.RunTimeout <= 0 {
		opts.RunTimeout = DefaultRunTimeout
	}
	if opts.ResultTTL <= 0 {
		opts.ResultTTL = DefaultResultTTL
	}

	return &Service{
		opts:    opts,
		catalog: nem12.NewCatalog(opts.FromParticipant, opts.ToParticipant),
		limiter: NewRunLimiter(opts.MaxConcurrent, opts.MaxWaitTime),
		runs:    make(map[string]*activeRun),
	}
}

// StartRun begins an asynchronous generation run over the submitted files.
// Returns the run ID immediately. Use SubscribeProgress to get updates.
//
// Returns ErrTooManyRuns if the concurrent run limit is reached and no slot
// becomes available within the wait period.
func (s *Service) StartRun(ctx context.Context, files []UploadedFile) (string, error) {
	if len(files) == 0 {
		return "", fmt.Errorf("no file provided")
	}

	// Acquire a run slot (blocks until available or timeout)
	if err := s.limiter.Acquire(ctx); err != nil {
		return "", err
	}

	runID := uuid.New().String()

	runCtx, cancel := context.WithTimeout(context.Background(), s.opts.RunTimeout)

	run := &activeRun{
		ID:     runID,
		Cancel: cancel,
		Progress: RunProgress{
			RunID: runID,
			Phase: PhaseStarting,
		},
		Done:      make(chan struct{}),
		Listeners: make([]chan RunProgress, 0),
	}

	s.mu.Lock()
	s.runs[runID] = run
	s.mu.Unlock()

	// Process in background with panic recovery to ensure limiter release
	go func() {
		defer s.limiter.Release()
		defer func() {
			if r := recover(); r != nil {
				slog.Error("panic in generation run",
					"run_id", runID,
					"panic", r,
				)
				run.Progress.Phase = PhaseFailed
				run.Progress.Error = fmt.Sprintf("internal error: %v", r)
				run.notifyProgress()
				run.closeListeners()
				close(run.Done)
				s.cleanup(runID, s.opts.ResultTTL)
			}
		}()
		s.processRun(runCtx, run, files)
	}()

	return runID, nil
}

// SubscribeProgress returns a channel that receives progress updates.
// The channel is closed when the run completes.
func (s *Service) SubscribeProgress(runID string) (<-chan RunProgress, error) {
	s.mu.RLock()
	run, ok := s.runs[runID]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	ch := make(chan RunProgress, 10)

	run.ListenerMu.Lock()
	if run.closed {
		// Run already finished: deliver the final progress and close.
		ch <- run.Progress
		close(ch)
	} else {
		run.Listeners = append(run.Listeners, ch)
		// Send current progress immediately
		select {
		case ch <- run.Progress:
		default:
		}
	}
	run.ListenerMu.Unlock()

	return ch, nil
}

// CancelRun cancels an in-progress run.
func (s *Service) CancelRun(runID string) error {
	s.mu.RLock()
	run, ok := s.runs[runID]
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	run.Cancel()
	return nil
}

// GetRunResult returns the result of a completed run.
// Blocks until the run completes if still in progress.
func (s *Service) GetRunResult(runID string) (*RunResult, error) {
	s.mu.RLock()
	run, ok := s.runs[runID]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	<-run.Done

	return run.Result, nil
}

// GetRunProgress returns the current progress without blocking.
func (s *Service) GetRunProgress(runID string) (RunProgress, error) {
	s.mu.RLock()
	run, ok := s.runs[runID]
	s.mu.RUnlock()

	if !ok {
		return RunProgress{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	return run.Progress, nil
}

// LimiterStatus returns the run limiter's current state.
func (s *Service) LimiterStatus() RunLimiterStatus {
	return s.limiter.Status()
}

// WaitForDrain blocks until all active runs complete or the context is
// cancelled. Used for graceful shutdown.
func (s *Service) WaitForDrain(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// notifyProgress sends progress updates to all listeners.
func (run *activeRun) notifyProgress() {
	run.ListenerMu.Lock()
	defer run.ListenerMu.Unlock()

	for _, ch := range run.Listeners {
		select {
		case ch <- run.Progress:
		default:
			// Listener is slow, skip this update
		}
	}
}

// closeListeners closes all listener channels.
func (run *activeRun) closeListeners() {
	run.ListenerMu.Lock()
	defer run.ListenerMu.Unlock()

	for _, ch := range run.Listeners {
		close(ch)
	}
	run.Listeners = nil
	run.closed = true
}

// cleanup removes the run from tracking after a delay.
func (s *Service) cleanup(runID string, delay time.Duration) {
	time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.runs, runID)
		s.mu.Unlock()
	})
}
