package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/seokit/internal/config"
	"github.com/JonMunkholm/seokit/internal/highlight"
	"github.com/JonMunkholm/seokit/internal/history"
	"github.com/JonMunkholm/seokit/internal/langdetect"
	"github.com/JonMunkholm/seokit/internal/logging"
	"github.com/JonMunkholm/seokit/internal/pipeline"
)

// historyTimeout bounds the write of one history entry.
const historyTimeout = 5 * time.Second

// Service runs the tools as background jobs.
type Service struct {
	connect       Connector
	store         history.Store
	limiter       *JobLimiter
	detector      LabelDetector
	highlightOpts []highlight.Option
	jobTimeout    time.Duration
	resultTTL     time.Duration
	batchSize     int

	mu   sync.RWMutex
	jobs map[string]*activeJob
}

type activeJob struct {
	ID         string
	Tool       string
	Cancel     context.CancelFunc
	Progress   JobProgress
	Result     *JobResult
	Done       chan struct{}
	Listeners  []chan JobProgress
	ListenerMu sync.Mutex
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithConnector replaces the Google Sheets connector, mainly for tests.
func WithConnector(c Connector) ServiceOption {
	return func(s *Service) {
		if c != nil {
			s.connect = c
		}
	}
}

// WithHighlightOptions appends options passed to every highlight run.
func WithHighlightOptions(opts ...highlight.Option) ServiceOption {
	return func(s *Service) {
		s.highlightOpts = append(s.highlightOpts, opts...)
	}
}

// WithDetector replaces the language detector.
func WithDetector(d LabelDetector) ServiceOption {
	return func(s *Service) {
		if d != nil {
			s.detector = d
		}
	}
}

// NewService creates a Service from the application config. A nil store
// disables run history.
func NewService(cfg *config.Config, store history.Store, opts ...ServiceOption) (*Service, error) {
	palette := highlight.Palette{Alphabet: cfg.Highlight.Palette}
	if err := palette.Validate(); err != nil {
		return nil, fmt.Errorf("highlight palette: %w", err)
	}
	if store == nil {
		store = history.Nop{}
	}

	s := &Service{
		connect:  ConnectGoogle,
		store:    store,
		limiter:  NewJobLimiter(cfg.Jobs.MaxConcurrent, cfg.Jobs.MaxWaitTime),
		detector: langdetect.New(langdetect.WithMinConfidence(cfg.Detect.MinConfidence)),
		highlightOpts: []highlight.Option{
			highlight.WithPalette(palette),
			highlight.WithMaxAttempts(cfg.Highlight.MaxColorAttempts),
		},
		jobTimeout: cfg.Jobs.Timeout,
		resultTTL:  cfg.Jobs.ResultTTL,
		batchSize:  cfg.Detect.WriteBatchSize,
		jobs:       make(map[string]*activeJob),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Tools returns the registered tools in display order.
func (s *Service) Tools() []Tool {
	return All()
}

// StartHighlight validates req and starts a Highlight Rows job.
// Returns the job ID immediately. Use SubscribeProgress to get updates.
func (s *Service) StartHighlight(ctx context.Context, req HighlightRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	entry := history.Entry{
		Tool:      ToolHighlightRows,
		UserEmail: req.UserEmail,
		Worksheet: req.Worksheet,
		Columns:   req.GroupColumn,
	}
	return s.startJob(ctx, ToolHighlightRows, req.UserEmail, entry, func(ctx context.Context, p *Progress) (*JobResult, error) {
		return RunHighlight(ctx, s.connect, req, p, s.highlightOpts...)
	})
}

// StartDetectLanguage validates req and starts a Detect Language job.
func (s *Service) StartDetectLanguage(ctx context.Context, req DetectRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	entry := history.Entry{
		Tool:      ToolDetectLanguage,
		UserEmail: req.UserEmail,
		Worksheet: req.Worksheet,
		Columns:   req.SourceColumn + " > " + req.DestinationColumn,
	}
	return s.startJob(ctx, ToolDetectLanguage, req.UserEmail, entry, func(ctx context.Context, p *Progress) (*JobResult, error) {
		return RunDetectLanguage(ctx, s.connect, req, s.detector, s.batchSize, p)
	})
}

type runFunc func(ctx context.Context, p *Progress) (*JobResult, error)

func (s *Service) startJob(ctx context.Context, toolKey, userEmail string, entry history.Entry, run runFunc) (string, error) {
	tool, ok := Get(toolKey)
	if !ok {
		return "", fmt.Errorf("unknown tool: %s", toolKey)
	}

	// Wait for a slot in the caller's context so a busy server pushes back
	// on the request instead of queueing unbounded work.
	if err := s.limiter.Acquire(ctx, toolKey); err != nil {
		return "", err
	}

	jobID := uuid.New().String()
	jobCtx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)

	stages := make([]StageProgress, len(tool.Stages))
	for i, name := range tool.Stages {
		stages[i] = StageProgress{Name: name, Status: pipeline.StatusPending}
	}

	job := &activeJob{
		ID:     jobID,
		Tool:   toolKey,
		Cancel: cancel,
		Progress: JobProgress{
			JobID:     jobID,
			Tool:      toolKey,
			Phase:     PhaseQueued,
			Stages:    stages,
			UserEmail: userEmail,
		},
		Done:      make(chan struct{}),
		Listeners: make([]chan JobProgress, 0),
	}

	s.mu.Lock()
	s.jobs[jobID] = job
	s.mu.Unlock()

	logger := logging.WithFields(ctx,
		"job_id", jobID,
		"tool", toolKey,
		"user", userEmail,
		"ip", IPAddressFromContext(ctx),
	)
	logger.Info("job started", "user_agent", UserAgentFromContext(ctx))

	entry.ID = jobID
	go s.runJob(jobCtx, job, entry, run)

	return jobID, nil
}

// runJob executes one job and publishes its result.
func (s *Service) runJob(ctx context.Context, job *activeJob, entry history.Entry, run runFunc) {
	defer s.limiter.Release(job.Tool)
	defer job.Cancel()

	logger := logging.WithFields(ctx, "job_id", job.ID, "tool", job.Tool)
	start := time.Now()

	job.update(true, func(p *JobProgress) {
		p.Phase = PhaseRunning
	})

	progress := &Progress{
		Stage: func(e pipeline.Event) {
			job.update(true, func(p *JobProgress) {
				if e.Index < len(p.Stages) {
					p.Stages[e.Index].Status = e.Status
					p.Stages[e.Index].ElapsedMS = e.Elapsed.Milliseconds()
				}
				if e.Status == pipeline.StatusRunning {
					p.CurrentStage = e.Name
				}
			})
			if e.Status == pipeline.StatusFailed {
				logger.Warn("stage failed", "stage", e.Name, "error", e.Err)
			} else if e.Status == pipeline.StatusDone {
				logger.Debug("stage done", "stage", e.Name, "duration_ms", e.Elapsed.Milliseconds())
			}
		},
		Rows: func(done, total int) {
			notify := done == 0 || done == total || done%25 == 0
			job.update(notify, func(p *JobProgress) {
				p.CurrentRow = done
				p.TotalRows = total
			})
		},
	}

	res, err := run(ctx, progress)
	if res == nil {
		res = &JobResult{Tool: job.Tool}
	}
	res.JobID = job.ID
	res.Duration = time.Since(start)

	entry.Status = history.StatusSucceeded
	phase := PhaseCompleted
	if err != nil {
		msg := MapError(err)
		res.Error = msg.Message
		res.ErrorAction = msg.Action
		res.ErrorCode = msg.Code
		entry.Error = err.Error()

		if errors.Is(err, context.Canceled) {
			phase = PhaseCancelled
			res.Cancelled = true
			entry.Status = history.StatusCancelled
			logger.Info("job cancelled", "duration_ms", res.Duration.Milliseconds())
		} else {
			phase = PhaseFailed
			entry.Status = history.StatusFailed
			logger.Error("job failed",
				"error", err,
				"error_code", msg.Code,
				"duration_ms", res.Duration.Milliseconds(),
			)
		}
	} else {
		logger.Info("job completed",
			"rows", res.Rows,
			"groups", res.Groups,
			"ranges", res.Ranges,
			"written", res.Written,
			"duration_ms", res.Duration.Milliseconds(),
		)
	}

	// History is written before the result is published so readers of
	// the result also see the entry.
	entry.SpreadsheetID = res.SpreadsheetID
	if res.Worksheet != "" {
		entry.Worksheet = res.Worksheet
	}
	entry.Rows = res.Rows
	entry.Groups = res.Groups
	entry.Ranges = res.Ranges
	entry.Duration = res.Duration
	entry.CreatedAt = start
	s.recordHistory(entry)

	job.ListenerMu.Lock()
	job.Result = res
	job.ListenerMu.Unlock()

	job.finish(func(p *JobProgress) {
		p.Phase = phase
		p.Error = res.Error
		p.ErrorCode = res.ErrorCode
	})
	close(job.Done)

	s.cleanup(job.ID, s.resultTTL)
}

// recordHistory stores a finished run. Failures are logged, never returned.
func (s *Service) recordHistory(e history.Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
	defer cancel()

	if err := s.store.Record(ctx, e); err != nil {
		logging.WithFields(ctx, "job_id", e.ID, "tool", e.Tool).
			Warn("failed to record history", "error", err)
	}
}

// SubscribeProgress returns a channel of progress snapshots for a job.
// The current state is sent immediately; the channel closes when the job
// finishes. Slow readers miss intermediate updates, never the final one.
func (s *Service) SubscribeProgress(jobID string) (<-chan JobProgress, error) {
	job, err := s.job(jobID)
	if err != nil {
		return nil, err
	}

	ch := make(chan JobProgress, 10)

	job.ListenerMu.Lock()
	defer job.ListenerMu.Unlock()

	ch <- job.Progress.snapshot()
	if job.Progress.Phase.Finished() {
		close(ch)
		return ch, nil
	}
	job.Listeners = append(job.Listeners, ch)
	return ch, nil
}

// GetJobProgress returns the current progress without blocking.
func (s *Service) GetJobProgress(jobID string) (JobProgress, error) {
	job, err := s.job(jobID)
	if err != nil {
		return JobProgress{}, err
	}

	job.ListenerMu.Lock()
	defer job.ListenerMu.Unlock()
	return job.Progress.snapshot(), nil
}

// GetJobResult returns the result of a job.
// Blocks until the job completes or ctx ends.
func (s *Service) GetJobResult(ctx context.Context, jobID string) (*JobResult, error) {
	job, err := s.job(jobID)
	if err != nil {
		return nil, err
	}

	select {
	case <-job.Done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	job.ListenerMu.Lock()
	defer job.ListenerMu.Unlock()
	return job.Result, nil
}

// CancelJob cancels a running job. Cancelling a finished job is a no-op.
func (s *Service) CancelJob(jobID string) error {
	job, err := s.job(jobID)
	if err != nil {
		return err
	}
	job.Cancel()
	return nil
}

// JobOwner returns the email of the user who started the job.
func (s *Service) JobOwner(jobID string) (string, error) {
	p, err := s.GetJobProgress(jobID)
	if err != nil {
		return "", err
	}
	return p.UserEmail, nil
}

// LimiterStatus reports job slot usage.
func (s *Service) LimiterStatus() JobLimiterStatus {
	return s.limiter.Status()
}

// WaitForJobs blocks until all running jobs finish or ctx ends.
func (s *Service) WaitForJobs(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// ListHistory returns recorded runs, newest first.
func (s *Service) ListHistory(ctx context.Context, f history.Filter) ([]history.Entry, error) {
	return s.store.List(ctx, f)
}

func (s *Service) job(jobID string) (*activeJob, error) {
	s.mu.RLock()
	job, ok := s.jobs[jobID]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, strings.TrimSpace(jobID))
	}
	return job, nil
}

// update applies fn to the job progress and, when notify is set, sends a
// snapshot to every listener.
func (job *activeJob) update(notify bool, fn func(*JobProgress)) {
	job.ListenerMu.Lock()
	defer job.ListenerMu.Unlock()

	fn(&job.Progress)
	if notify {
		job.notifyProgress()
	}
}

// notifyProgress sends the current progress to all listeners.
// Callers must hold ListenerMu.
func (job *activeJob) notifyProgress() {
	snap := job.Progress.snapshot()
	for _, ch := range job.Listeners {
		select {
		case ch <- snap:
		default:
			// Skip if channel is full
		}
	}
}

// finish applies the terminal update, hands every listener the final
// snapshot and closes the listener channels. A full buffer gives up its
// oldest entry so the final snapshot is never the one dropped.
func (job *activeJob) finish(fn func(*JobProgress)) {
	job.ListenerMu.Lock()
	defer job.ListenerMu.Unlock()

	fn(&job.Progress)
	snap := job.Progress.snapshot()
	for _, ch := range job.Listeners {
		select {
		case ch <- snap:
		default:
			// Only finish sends while holding ListenerMu, so after
			// discarding one entry there is room.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
		close(ch)
	}
	job.Listeners = nil
}

// snapshot copies p so listeners never share the stage slice.
func (p JobProgress) snapshot() JobProgress {
	p.Stages = append([]StageProgress(nil), p.Stages...)
	return p
}

// cleanup removes the job from memory after delay.
func (s *Service) cleanup(jobID string, delay time.Duration) {
	time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.jobs, jobID)
		s.mu.Unlock()
	})
}
