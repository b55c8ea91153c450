package core

import (
	"time"

	"golang.org/x/oauth2"

	"github.com/JonMunkholm/seokit/internal/pipeline"
)

// Tool keys.
const (
	ToolHighlightRows  = "highlight-rows"
	ToolDetectLanguage = "detect-language"
)

// JobPhase represents the lifecycle of a job.
type JobPhase string

const (
	PhaseQueued    JobPhase = "queued"
	PhaseRunning   JobPhase = "running"
	PhaseCompleted JobPhase = "completed"
	PhaseFailed    JobPhase = "failed"
	PhaseCancelled JobPhase = "cancelled"
)

// Finished reports whether the phase is terminal.
func (p JobPhase) Finished() bool {
	return p == PhaseCompleted || p == PhaseFailed || p == PhaseCancelled
}

// StageProgress is the state of one pipeline stage.
type StageProgress struct {
	Name      string          `json:"name"`
	Status    pipeline.Status `json:"status"`
	ElapsedMS int64           `json:"elapsed_ms,omitempty"`
}

// JobProgress represents the current state of a job.
type JobProgress struct {
	JobID        string          `json:"job_id"`
	Tool         string          `json:"tool"`
	Phase        JobPhase        `json:"phase"`
	Stages       []StageProgress `json:"stages"`
	CurrentStage string          `json:"current_stage,omitempty"`
	TotalRows    int             `json:"total_rows"`
	CurrentRow   int             `json:"current_row"`
	Error        string          `json:"error,omitempty"`
	ErrorCode    string          `json:"error_code,omitempty"`

	UserEmail string `json:"-"`
}

// Percent returns completion from 0 to 100. Finished stages count fully;
// the running stage counts by its row progress.
func (p JobProgress) Percent() int {
	if p.Phase == PhaseCompleted {
		return 100
	}
	if len(p.Stages) == 0 {
		return 0
	}
	var done float64
	for _, s := range p.Stages {
		switch s.Status {
		case pipeline.StatusDone:
			done++
		case pipeline.StatusRunning:
			if p.TotalRows > 0 {
				done += float64(p.CurrentRow) / float64(p.TotalRows)
			}
		}
	}
	pct := int(done * 100 / float64(len(p.Stages)))
	if pct > 100 {
		pct = 100
	}
	return pct
}

// RangePreview describes one applied range for display.
type RangePreview struct {
	Range string `json:"range"`
	Color string `json:"color"`
	Value string `json:"value"`
}

// LanguageCount is the number of rows labelled with one language.
type LanguageCount struct {
	Label string `json:"label"`
	Rows  int    `json:"rows"`
}

// JobResult contains the final result of a job.
type JobResult struct {
	JobID         string          `json:"job_id"`
	Tool          string          `json:"tool"`
	SpreadsheetID string          `json:"spreadsheet_id,omitempty"`
	Worksheet     string          `json:"worksheet,omitempty"`
	Rows          int             `json:"rows"`
	Groups        int             `json:"groups,omitempty"`
	Ranges        int             `json:"ranges,omitempty"`
	Preview       []RangePreview  `json:"preview,omitempty"`
	Written       int             `json:"written,omitempty"`
	Column        string          `json:"column,omitempty"`
	Languages     []LanguageCount `json:"languages,omitempty"`
	Duration      time.Duration   `json:"duration"`
	Cancelled     bool            `json:"cancelled,omitempty"`
	Error         string          `json:"error,omitempty"` // User-facing message; empty on success
	ErrorAction   string          `json:"error_action,omitempty"`
	ErrorCode     string          `json:"error_code,omitempty"`
}

// Credentials authorize spreadsheet access. ServiceAccountKey wins when
// both are set.
type Credentials struct {
	ServiceAccountKey []byte
	TokenSource       oauth2.TokenSource
}

// Empty reports whether no credential is present.
func (c Credentials) Empty() bool {
	return len(c.ServiceAccountKey) == 0 && c.TokenSource == nil
}

// HighlightRequest are the inputs of the Highlight Rows tool.
type HighlightRequest struct {
	Credentials Credentials
	DocumentURL string
	Worksheet   string
	GroupColumn string
	UserEmail   string
}

// DetectRequest are the inputs of the Detect Language tool.
type DetectRequest struct {
	Credentials       Credentials
	DocumentURL       string
	Worksheet         string
	SourceColumn      string
	DestinationColumn string
	UserEmail         string
}
