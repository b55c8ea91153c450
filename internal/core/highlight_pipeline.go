package core

import (
	"context"
	"time"

	"github.com/JonMunkholm/seokit/internal/highlight"
	"github.com/JonMunkholm/seokit/internal/pipeline"
)

// MaxPreviewRanges caps the ranges listed in a JobResult.
const MaxPreviewRanges = 50

// Progress receives pipeline updates. Either callback may be nil.
type Progress struct {
	Stage func(pipeline.Event)
	Rows  func(done, total int)
}

func (p *Progress) stage(e pipeline.Event) {
	if p != nil && p.Stage != nil {
		p.Stage(e)
	}
}

func (p *Progress) rows(done, total int) {
	if p != nil && p.Rows != nil {
		p.Rows(done, total)
	}
}

type highlightState struct {
	connect  Connector
	req      HighlightRequest
	opts     []highlight.Option
	progress *Progress

	sheet  Worksheet
	data   highlight.Dataset
	groups []highlight.ColorGroup
	ranges []highlight.ColoredRange
}

var highlightStages = []pipeline.Stage[highlightState]{
	{Name: "Retrieving worksheet", Run: openHighlightSheet},
	{Name: "Data extraction", Run: extractHighlightData},
	{Name: "Grouping data and generating colors", Run: assignColors},
	{Name: "Generating color ranges", Run: compressRanges},
	{Name: "Applying formatting", Run: applyFormatting},
}

func openHighlightSheet(ctx context.Context, s *highlightState) error {
	opener, err := s.connect(ctx, s.req.Credentials)
	if err != nil {
		return err
	}
	s.sheet, err = opener.Open(ctx, s.req.DocumentURL, s.req.Worksheet)
	return err
}

func extractHighlightData(ctx context.Context, s *highlightState) error {
	ds, err := s.sheet.Records(ctx)
	if err != nil {
		return err
	}
	if _, err := ds.Column(s.req.GroupColumn); err != nil {
		return err
	}
	s.data = ds
	s.progress.rows(0, ds.Len())
	return nil
}

func assignColors(_ context.Context, s *highlightState) error {
	groups, err := highlight.AssignGroupColors(s.data, s.req.GroupColumn, s.opts...)
	if err != nil {
		return err
	}
	s.groups = groups
	return nil
}

func compressRanges(_ context.Context, s *highlightState) error {
	ranges, err := highlight.CompressToRanges(s.groups)
	if err != nil {
		return err
	}
	s.ranges = ranges
	return nil
}

func applyFormatting(ctx context.Context, s *highlightState) error {
	if len(s.ranges) == 0 {
		return nil
	}
	if err := s.sheet.Apply(ctx, s.ranges); err != nil {
		return err
	}
	s.progress.rows(s.data.Len(), s.data.Len())
	return nil
}

// RunHighlight colors the rows of one worksheet by the value of the group
// column. The returned result is never nil; on failure it describes how
// far the run got.
func RunHighlight(ctx context.Context, connect Connector, req HighlightRequest, progress *Progress, opts ...highlight.Option) (*JobResult, error) {
	start := time.Now()
	state := &highlightState{
		connect:  connect,
		req:      req,
		opts:     opts,
		progress: progress,
	}

	err := pipeline.Run(ctx, state, highlightStages, progress.stage)

	res := &JobResult{
		Tool:   ToolHighlightRows,
		Rows:   state.data.Len(),
		Groups: len(state.groups),
		Ranges: len(state.ranges),
		Column: req.GroupColumn,
	}
	if state.sheet != nil {
		res.SpreadsheetID = state.sheet.SpreadsheetID()
		res.Worksheet = state.sheet.Title()
		res.Preview = previewRanges(state.groups, state.ranges, state.sheet.ColumnCount())
	}
	res.Duration = time.Since(start)
	return res, err
}

// previewRanges lists the first ranges with the group value they belong to.
func previewRanges(groups []highlight.ColorGroup, ranges []highlight.ColoredRange, lastColumn int) []RangePreview {
	if len(ranges) == 0 {
		return nil
	}
	if lastColumn < 1 {
		lastColumn = 1
	}

	valueByColor := make(map[highlight.Color]string, len(groups))
	for _, g := range groups {
		valueByColor[g.Color] = g.Value
	}

	n := min(len(ranges), MaxPreviewRanges)
	out := make([]RangePreview, 0, n)
	for _, r := range ranges[:n] {
		a1, err := r.Range.A1(lastColumn)
		if err != nil {
			a1 = r.Range.String()
		}
		out = append(out, RangePreview{
			Range: a1,
			Color: r.Color.Hex(),
			Value: valueByColor[r.Color],
		})
	}
	return out
}
