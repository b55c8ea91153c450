package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/JonMunkholm/seokit/internal/config"
	"github.com/JonMunkholm/seokit/internal/highlight"
	"github.com/JonMunkholm/seokit/internal/history"
)

// memStore is a history.Store kept in memory.
type memStore struct {
	mu      sync.Mutex
	entries []history.Entry
	purged  []time.Time
}

func (m *memStore) Record(_ context.Context, e history.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *memStore) List(_ context.Context, f history.Filter) ([]history.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []history.Entry
	for i := len(m.entries) - 1; i >= 0; i-- {
		if f.Tool == "" || m.entries[i].Tool == f.Tool {
			out = append(out, m.entries[i])
		}
	}
	return out, nil
}

func (m *memStore) Purge(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purged = append(m.purged, cutoff)
	return 0, nil
}

func (m *memStore) Close() error { return nil }

func (m *memStore) all() []history.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]history.Entry(nil), m.entries...)
}

func testConfig() *config.Config {
	return &config.Config{
		Jobs: config.JobsConfig{
			MaxConcurrent: 2,
			MaxWaitTime:   50 * time.Millisecond,
			Timeout:       time.Minute,
			ResultTTL:     time.Minute,
		},
		Highlight: config.HighlightConfig{MaxColorAttempts: 100, Palette: highlight.DefaultAlphabet},
		Detect:    config.DetectConfig{WriteBatchSize: 10},
	}
}

func newTestService(t *testing.T, connect Connector, store history.Store) *Service {
	t.Helper()
	svc, err := NewService(testConfig(), store, WithConnector(connect), WithDetector(upperDetector{}))
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc
}

func waitResult(t *testing.T, svc *Service, jobID string) *JobResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := svc.GetJobResult(ctx, jobID)
	if err != nil {
		t.Fatalf("GetJobResult() error = %v", err)
	}
	return res
}

func TestNewService_InvalidPalette(t *testing.T) {
	cfg := testConfig()
	cfg.Highlight.Palette = "XYZ"
	if _, err := NewService(cfg, nil); !errors.Is(err, highlight.ErrInvalidPalette) {
		t.Errorf("NewService() error = %v, want ErrInvalidPalette", err)
	}
}

func TestService_HighlightJob(t *testing.T) {
	store := &memStore{}
	svc := newTestService(t, connectTo(metricSheet()), store)

	jobID, err := svc.StartHighlight(context.Background(), HighlightRequest{
		Credentials: testCreds,
		DocumentURL: testDocumentURL,
		Worksheet:   "Data",
		GroupColumn: "Metric",
		UserEmail:   "ana@example.com",
	})
	if err != nil {
		t.Fatalf("StartHighlight() error = %v", err)
	}

	res := waitResult(t, svc, jobID)
	if res.Error != "" {
		t.Fatalf("job failed: %s (%s)", res.Error, res.ErrorCode)
	}
	if res.JobID != jobID || res.Groups != 2 || res.Ranges != 3 {
		t.Errorf("result = %+v", res)
	}

	p, err := svc.GetJobProgress(jobID)
	if err != nil {
		t.Fatalf("GetJobProgress() error = %v", err)
	}
	if p.Phase != PhaseCompleted || p.Percent() != 100 {
		t.Errorf("progress phase/percent = %s/%d, want completed/100", p.Phase, p.Percent())
	}
	for _, s := range p.Stages {
		if s.Status != "done" {
			t.Errorf("stage %q status = %s, want done", s.Name, s.Status)
		}
	}

	if owner, _ := svc.JobOwner(jobID); owner != "ana@example.com" {
		t.Errorf("JobOwner() = %q", owner)
	}

	entries := store.all()
	if len(entries) != 1 {
		t.Fatalf("history entries = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.ID != jobID || e.Status != history.StatusSucceeded || e.Columns != "Metric" || e.Rows != 4 {
		t.Errorf("history entry = %+v", e)
	}
}

func TestService_DetectJob(t *testing.T) {
	ws := textSheet()
	store := &memStore{}
	svc := newTestService(t, connectTo(ws), store)

	jobID, err := svc.StartDetectLanguage(context.Background(), DetectRequest{
		Credentials:       testCreds,
		DocumentURL:       testDocumentURL,
		Worksheet:         "Data",
		SourceColumn:      "Text",
		DestinationColumn: "Detected Language",
	})
	if err != nil {
		t.Fatalf("StartDetectLanguage() error = %v", err)
	}

	res := waitResult(t, svc, jobID)
	if res.Written != 5 || len(res.Languages) != 3 {
		t.Errorf("result = %+v", res)
	}
	if got := store.all()[0].Columns; got != "Text > Detected Language" {
		t.Errorf("history columns = %q", got)
	}
}

func TestService_FailedJob(t *testing.T) {
	store := &memStore{}
	svc := newTestService(t, connectTo(metricSheet()), store)

	jobID, err := svc.StartHighlight(context.Background(), HighlightRequest{
		Credentials: testCreds,
		DocumentURL: testDocumentURL,
		Worksheet:   "Missing",
		GroupColumn: "Metric",
	})
	if err != nil {
		t.Fatalf("StartHighlight() error = %v", err)
	}

	res := waitResult(t, svc, jobID)
	if res.ErrorCode != "SHT001" {
		t.Errorf("ErrorCode = %q, want SHT001", res.ErrorCode)
	}
	p, _ := svc.GetJobProgress(jobID)
	if p.Phase != PhaseFailed || p.Stages[0].Status != "failed" {
		t.Errorf("progress = %+v, want failed first stage", p)
	}
	if got := store.all()[0].Status; got != history.StatusFailed {
		t.Errorf("history status = %q, want failed", got)
	}
}

func TestService_CancelJob(t *testing.T) {
	started := make(chan struct{})
	store := &memStore{}
	svc := newTestService(t, connectBlocking(started), store)

	jobID, err := svc.StartHighlight(context.Background(), HighlightRequest{
		Credentials: testCreds,
		DocumentURL: testDocumentURL,
		Worksheet:   "Data",
		GroupColumn: "Metric",
	})
	if err != nil {
		t.Fatalf("StartHighlight() error = %v", err)
	}

	ch, err := svc.SubscribeProgress(jobID)
	if err != nil {
		t.Fatalf("SubscribeProgress() error = %v", err)
	}

	<-started
	if err := svc.CancelJob(jobID); err != nil {
		t.Fatalf("CancelJob() error = %v", err)
	}

	res := waitResult(t, svc, jobID)
	if !res.Cancelled || res.ErrorCode != "JOB003" {
		t.Errorf("result = %+v, want cancelled JOB003", res)
	}

	// The channel drains and closes once the job is finished.
	timeout := time.After(time.Second)
	for open := true; open; {
		select {
		case _, open = <-ch:
		case <-timeout:
			t.Fatal("progress channel not closed")
		}
	}
	if got := store.all()[0].Status; got != history.StatusCancelled {
		t.Errorf("history status = %q, want cancelled", got)
	}
}

func TestService_TooManyJobs(t *testing.T) {
	cfg := testConfig()
	cfg.Jobs.MaxConcurrent = 1
	svc, err := NewService(cfg, nil, WithConnector(connectBlocking(nil)))
	if err != nil {
		t.Fatal(err)
	}
	req := HighlightRequest{Credentials: testCreds, DocumentURL: testDocumentURL, Worksheet: "Data", GroupColumn: "Metric"}

	first, err := svc.StartHighlight(context.Background(), req)
	if err != nil {
		t.Fatalf("first StartHighlight() error = %v", err)
	}
	if _, err := svc.StartHighlight(context.Background(), req); !errors.Is(err, ErrTooManyJobs) {
		t.Errorf("second StartHighlight() error = %v, want ErrTooManyJobs", err)
	}
	if st := svc.LimiterStatus(); st.Active != 1 {
		t.Errorf("LimiterStatus().Active = %d, want 1", st.Active)
	}

	svc.CancelJob(first)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := svc.WaitForJobs(ctx); err != nil {
		t.Errorf("WaitForJobs() error = %v", err)
	}
}

func TestService_Validation(t *testing.T) {
	svc := newTestService(t, connectTo(metricSheet()), nil)

	tests := []struct {
		name    string
		req     HighlightRequest
		wantErr error
	}{
		{"missing fields", HighlightRequest{Credentials: testCreds, DocumentURL: testDocumentURL}, ErrMissingField},
		{"no credentials", HighlightRequest{DocumentURL: testDocumentURL, Worksheet: "Data", GroupColumn: "Metric"}, ErrNoCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.StartHighlight(context.Background(), tt.req); !errors.Is(err, tt.wantErr) {
				t.Errorf("StartHighlight() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestService_UnknownJob(t *testing.T) {
	svc := newTestService(t, connectTo(metricSheet()), nil)

	if _, err := svc.SubscribeProgress("nope"); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("SubscribeProgress() error = %v", err)
	}
	if _, err := svc.GetJobResult(context.Background(), "nope"); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("GetJobResult() error = %v", err)
	}
	if err := svc.CancelJob("nope"); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("CancelJob() error = %v", err)
	}
}

func TestService_HistoryPurge(t *testing.T) {
	store := &memStore{}
	svc := newTestService(t, connectTo(metricSheet()), store)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.StartHistoryPurge(ctx, PurgeConfig{RetentionDays: 30, Interval: time.Hour})
		close(done)
	}()

	deadline := time.After(time.Second)
	for {
		store.mu.Lock()
		n := len(store.purged)
		store.mu.Unlock()
		if n > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("purge did not run on start")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done

	cutoff := store.purged[0]
	want := time.Now().AddDate(0, 0, -30)
	if diff := want.Sub(cutoff); diff < 0 || diff > time.Minute {
		t.Errorf("cutoff = %v, want about %v", cutoff, want)
	}
}

func TestActiveJob_FinishDeliversFinalSnapshot(t *testing.T) {
	full := make(chan JobProgress, 2)
	full <- JobProgress{Phase: PhaseRunning, CurrentRow: 1}
	full <- JobProgress{Phase: PhaseRunning, CurrentRow: 2}
	roomy := make(chan JobProgress, 2)

	job := &activeJob{
		Progress:  JobProgress{JobID: "j1", Phase: PhaseRunning},
		Listeners: []chan JobProgress{full, roomy},
	}
	job.finish(func(p *JobProgress) {
		p.Phase = PhaseCompleted
	})

	for name, ch := range map[string]chan JobProgress{"full": full, "roomy": roomy} {
		var last JobProgress
		for p := range ch {
			last = p
		}
		if last.Phase != PhaseCompleted {
			t.Errorf("%s listener: last phase = %q, want %q", name, last.Phase, PhaseCompleted)
		}
	}
	if job.Listeners != nil {
		t.Errorf("listeners not cleared: %d left", len(job.Listeners))
	}
}
