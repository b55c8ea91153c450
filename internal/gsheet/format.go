package gsheet

import (
	"google.golang.org/api/sheets/v4"

	"github.com/JonMunkholm/seokit/internal/highlight"
)

const backgroundColorField = "userEnteredFormat.backgroundColor"

// formatRequests builds one repeatCell request per range. Ranges are
// converted from inclusive 1-based rows to the API's 0-based, end-exclusive
// GridRange. A columnCount of 0 leaves the column span unbounded.
func formatRequests(sheetID int64, columnCount int, ranges []highlight.ColoredRange) []*sheets.Request {
	reqs := make([]*sheets.Request, 0, len(ranges))
	for _, cr := range ranges {
		grid := &sheets.GridRange{
			SheetId:          sheetID,
			StartRowIndex:    int64(cr.Range.Start - 1),
			EndRowIndex:      int64(cr.Range.End),
			StartColumnIndex: 0,
		}
		if columnCount > 0 {
			grid.EndColumnIndex = int64(columnCount)
		}
		r, g, b := cr.Color.Fractions()
		reqs = append(reqs, &sheets.Request{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: grid,
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						BackgroundColor: &sheets.Color{Red: r, Green: g, Blue: b},
					},
				},
				Fields: backgroundColorField,
			},
		})
	}
	return reqs
}
