package core

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/JonMunkholm/seokit/internal/workbook"
)

// HighlightPreview is an offline run of Highlight Rows over a CSV export.
type HighlightPreview struct {
	Workbook []byte
	Rows     int
	Groups   int
	Ranges   int
	Preview  []RangePreview
}

// PreviewHighlight loads a CSV from r and renders it as an XLSX workbook
// highlighted by column, using the same color settings as sheet jobs.
// No spreadsheet API is involved.
func (s *Service) PreviewHighlight(ctx context.Context, r io.Reader, column string) (*HighlightPreview, error) {
	if column == "" {
		return nil, fmt.Errorf("%w: group_column", ErrMissingField)
	}
	ds, err := workbook.LoadCSV(r)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	plan, err := workbook.Render(ctx, &buf, ds, column, s.highlightOpts...)
	if err != nil {
		return nil, err
	}

	return &HighlightPreview{
		Workbook: buf.Bytes(),
		Rows:     plan.Rows,
		Groups:   len(plan.Groups),
		Ranges:   len(plan.Ranges),
		Preview:  previewRanges(plan.Groups, plan.Ranges, len(ds.Columns)),
	}, nil
}
