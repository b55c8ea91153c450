// Package workbook renders highlighted datasets offline: it loads CSV input
// and writes an XLSX workbook with the row fills applied.
package workbook

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/seokit/internal/highlight"
)

// SheetName is the name of the single sheet in generated workbooks.
const SheetName = "Sheet1"

var (
	ErrEmptyCSV   = errors.New("csv has no header row")
	ErrInvalidCSV = errors.New("invalid csv")
)

// LoadCSV reads a header row followed by data rows. Rows may be ragged.
func LoadCSV(r io.Reader) (highlight.Dataset, error) {
	cr := csv.NewReader(cleanReader(r))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return highlight.Dataset{}, ErrEmptyCSV
	}
	if err != nil {
		return highlight.Dataset{}, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
	}

	var rows [][]string
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return highlight.Dataset{}, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
		}
		rows = append(rows, row)
	}
	return highlight.NewDataset(header, rows), nil
}

// New creates a workbook holding ds on SheetName, header in row 1.
func New(ds highlight.Dataset) (*excelize.File, error) {
	f := excelize.NewFile()

	header := make([]interface{}, len(ds.Columns))
	for i, col := range ds.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i := range ds.Records {
		cells := ds.Row(i)
		row := make([]interface{}, len(cells))
		for j, v := range cells {
			row[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	return f, nil
}

// Applier fills row ranges of one sheet with solid background colors.
type Applier struct {
	file    *excelize.File
	sheet   string
	columns int
	styles  map[highlight.Color]int
}

// NewApplier colors columns 1..columns of sheet in f.
func NewApplier(f *excelize.File, sheet string, columns int) *Applier {
	if columns < 1 {
		columns = 1
	}
	return &Applier{
		file:    f,
		sheet:   sheet,
		columns: columns,
		styles:  make(map[highlight.Color]int),
	}
}

// Apply sets the fill of every range. The workbook is only modified in
// memory; callers persist it with Write.
func (a *Applier) Apply(ctx context.Context, ranges []highlight.ColoredRange) error {
	for _, cr := range ranges {
		if err := ctx.Err(); err != nil {
			return err
		}
		style, err := a.style(cr.Color)
		if err != nil {
			return err
		}
		ref, err := cr.Range.A1(a.columns)
		if err != nil {
			return err
		}
		from, to, _ := strings.Cut(ref, ":")
		if err := a.file.SetCellStyle(a.sheet, from, to, style); err != nil {
			return fmt.Errorf("fill %s: %w", ref, err)
		}
	}
	return nil
}

func (a *Applier) style(c highlight.Color) (int, error) {
	if id, ok := a.styles[c]; ok {
		return id, nil
	}
	id, err := a.file.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{c.Hex()}},
	})
	if err != nil {
		return 0, fmt.Errorf("create style %s: %w", c, err)
	}
	a.styles[c] = id
	return id, nil
}

// Render builds a workbook from ds, highlights it by column and writes the
// XLSX to w. Nothing is written if highlighting fails.
func Render(ctx context.Context, w io.Writer, ds highlight.Dataset, column string, opts ...highlight.Option) (highlight.Plan, error) {
	f, err := New(ds)
	if err != nil {
		return highlight.Plan{}, err
	}
	defer f.Close()

	plan, err := highlight.Highlight(ctx, ds, column, NewApplier(f, SheetName, len(ds.Columns)), opts...)
	if err != nil {
		return plan, err
	}
	if err := f.Write(w); err != nil {
		return plan, fmt.Errorf("write workbook: %w", err)
	}
	return plan, nil
}
