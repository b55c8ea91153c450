package gsheet

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"google.golang.org/api/sheets/v4"

	"github.com/JonMunkholm/seokit/internal/highlight"
)

// Worksheet is one tab of a spreadsheet.
type Worksheet struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetID       int64
	title         string
	rowCount      int
	columnCount   int
}

// Title is the tab name.
func (w *Worksheet) Title() string { return w.title }

// SpreadsheetID is the id of the document holding the tab.
func (w *Worksheet) SpreadsheetID() string { return w.spreadsheetID }

// ColumnCount is the number of grid columns, including empty ones.
func (w *Worksheet) ColumnCount() int { return w.columnCount }

// quotedTitle returns the title as an A1 sheet reference.
func (w *Worksheet) quotedTitle() string {
	return "'" + strings.ReplaceAll(w.title, "'", "''") + "'"
}

// Records reads the whole worksheet. Row 1 is the header; every following
// row becomes a record.
func (w *Worksheet) Records(ctx context.Context) (highlight.Dataset, error) {
	vr, err := w.svc.Spreadsheets.Values.Get(w.spreadsheetID, w.quotedTitle()).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return highlight.Dataset{}, classify("read values", err)
	}
	return datasetFromValues(vr.Values), nil
}

func datasetFromValues(values [][]interface{}) highlight.Dataset {
	if len(values) == 0 {
		return highlight.Dataset{}
	}
	header := cellStrings(values[0])
	rows := make([][]string, 0, len(values)-1)
	for _, row := range values[1:] {
		rows = append(rows, cellStrings(row))
	}
	return highlight.NewDataset(header, rows)
}

func cellStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		if v != nil {
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}

// AppendColumn adds one empty column at the right edge of the grid.
func (w *Worksheet) AppendColumn(ctx context.Context) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AppendDimension: &sheets.AppendDimensionRequest{
				SheetId:   w.sheetID,
				Dimension: "COLUMNS",
				Length:    1,
			},
		}},
	}
	if _, err := w.svc.Spreadsheets.BatchUpdate(w.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return classify("append column", err)
	}
	w.columnCount++
	return nil
}

// WriteColumn writes values downward into column (1-based) starting at
// startRow.
func (w *Worksheet) WriteColumn(ctx context.Context, column, startRow int, values []string) error {
	if len(values) == 0 {
		return nil
	}
	rng, err := columnA1(w.quotedTitle(), column, startRow, startRow+len(values)-1)
	if err != nil {
		return err
	}

	rows := make([][]interface{}, len(values))
	for i, v := range values {
		rows[i] = []interface{}{v}
	}
	req := &sheets.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             []*sheets.ValueRange{{Range: rng, Values: rows}},
	}
	if _, err := w.svc.Spreadsheets.Values.BatchUpdate(w.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return classify("write values", err)
	}
	return nil
}

func columnA1(sheet string, column, fromRow, toRow int) (string, error) {
	from, err := excelize.CoordinatesToCellName(column, fromRow)
	if err != nil {
		return "", err
	}
	to, err := excelize.CoordinatesToCellName(column, toRow)
	if err != nil {
		return "", err
	}
	return sheet + "!" + from + ":" + to, nil
}

// Apply colors every range across all grid columns in one batchUpdate.
func (w *Worksheet) Apply(ctx context.Context, ranges []highlight.ColoredRange) error {
	if len(ranges) == 0 {
		return nil
	}
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: formatRequests(w.sheetID, w.columnCount, ranges),
	}
	if _, err := w.svc.Spreadsheets.BatchUpdate(w.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return classify("apply formatting", err)
	}
	return nil
}
