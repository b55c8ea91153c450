package core

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/JonMunkholm/seokit/internal/highlight"
	"github.com/JonMunkholm/seokit/internal/langdetect"
	"github.com/JonMunkholm/seokit/internal/pipeline"
)

// DefaultWriteBatchSize is the number of rows written per Sheets call.
const DefaultWriteBatchSize = 500

// LabelDetector turns one cell of text into its language label.
type LabelDetector interface {
	Label(text string) string
}

type detectState struct {
	connect   Connector
	req       DetectRequest
	detector  LabelDetector
	batchSize int
	progress  *Progress

	sheet   Worksheet
	texts   []string
	labels  []string
	dest    int
	written int
}

var detectStages = []pipeline.Stage[detectState]{
	{Name: "Retrieving worksheet", Run: openDetectSheet},
	{Name: "Data extraction", Run: extractTexts},
	{Name: "Detecting languages", Run: detectLabels},
	{Name: "Writing results", Run: writeLabels},
}

func openDetectSheet(ctx context.Context, s *detectState) error {
	opener, err := s.connect(ctx, s.req.Credentials)
	if err != nil {
		return err
	}
	s.sheet, err = opener.Open(ctx, s.req.DocumentURL, s.req.Worksheet)
	return err
}

func extractTexts(ctx context.Context, s *detectState) error {
	ds, err := s.sheet.Records(ctx)
	if err != nil {
		return err
	}
	texts, err := ds.Values(s.req.SourceColumn)
	if err != nil {
		return err
	}
	s.texts = texts

	// An existing destination column is overwritten in place; otherwise the
	// results go right after the last header cell.
	idx, err := ds.Column(s.req.DestinationColumn)
	switch {
	case err == nil:
		s.dest = idx
	case errors.Is(err, highlight.ErrColumnNotFound):
		s.dest = len(ds.Columns) + 1
	default:
		return err
	}
	s.progress.rows(0, len(texts))
	return nil
}

func detectLabels(ctx context.Context, s *detectState) error {
	s.labels = make([]string, len(s.texts))
	for i, text := range s.texts {
		if i%100 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		s.labels[i] = s.detector.Label(text)
		s.progress.rows(i+1, len(s.texts))
	}
	return nil
}

func writeLabels(ctx context.Context, s *detectState) error {
	for s.sheet.ColumnCount() < s.dest {
		if err := s.sheet.AppendColumn(ctx); err != nil {
			return err
		}
	}

	if err := s.sheet.WriteColumn(ctx, s.dest, 1, []string{s.req.DestinationColumn}); err != nil {
		return err
	}

	total := len(s.labels)
	s.progress.rows(0, total)
	for from := 0; from < total; from += s.batchSize {
		to := min(from+s.batchSize, total)
		if err := s.sheet.WriteColumn(ctx, s.dest, from+2, s.labels[from:to]); err != nil {
			return err
		}
		s.written = to
		s.progress.rows(to, total)
	}
	return nil
}

// RunDetectLanguage labels every row of the source column with its
// language and writes the labels to the destination column. The returned
// result is never nil.
func RunDetectLanguage(ctx context.Context, connect Connector, req DetectRequest, detector LabelDetector, batchSize int, progress *Progress) (*JobResult, error) {
	start := time.Now()
	if detector == nil {
		detector = langdetect.New()
	}
	if batchSize <= 0 {
		batchSize = DefaultWriteBatchSize
	}
	state := &detectState{
		connect:   connect,
		req:       req,
		detector:  detector,
		batchSize: batchSize,
		progress:  progress,
	}

	err := pipeline.Run(ctx, state, detectStages, progress.stage)

	res := &JobResult{
		Tool:      ToolDetectLanguage,
		Rows:      len(state.texts),
		Written:   state.written,
		Column:    req.DestinationColumn,
		Languages: countLanguages(state.labels),
	}
	if state.sheet != nil {
		res.SpreadsheetID = state.sheet.SpreadsheetID()
		res.Worksheet = state.sheet.Title()
	}
	res.Duration = time.Since(start)
	return res, err
}

// countLanguages tallies labels, most frequent first. Empty labels are
// skipped.
func countLanguages(labels []string) []LanguageCount {
	counts := make(map[string]int)
	for _, l := range labels {
		if l != "" {
			counts[l]++
		}
	}
	if len(counts) == 0 {
		return nil
	}
	out := make([]LanguageCount, 0, len(counts))
	for label, n := range counts {
		out = append(out, LanguageCount{Label: label, Rows: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rows != out[j].Rows {
			return out[i].Rows > out[j].Rows
		}
		return out[i].Label < out[j].Label
	})
	return out
}
