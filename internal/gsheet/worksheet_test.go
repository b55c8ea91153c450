package gsheet

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/JonMunkholm/seokit/internal/highlight"
)

const testSpreadsheetID = "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms"

// fakeSheets serves the handful of Sheets endpoints the client touches.
type fakeSheets struct {
	mu       sync.Mutex
	values   [][]interface{}
	status   int
	batches  []sheets.BatchUpdateSpreadsheetRequest
	valueReq []sheets.BatchUpdateValuesRequest
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.status != 0 {
		w.WriteHeader(f.status)
		io.WriteString(w, `{"error":{"code":403,"message":"denied"}}`)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	path := r.URL.Path
	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(path, "/spreadsheets/"+testSpreadsheetID):
		json.NewEncoder(w).Encode(sheets.Spreadsheet{
			SpreadsheetId: testSpreadsheetID,
			Sheets: []*sheets.Sheet{
				{Properties: &sheets.SheetProperties{SheetId: 0, Title: "Summary"}},
				{Properties: &sheets.SheetProperties{
					SheetId:        42,
					Title:          "Data",
					GridProperties: &sheets.GridProperties{RowCount: 100, ColumnCount: 4},
				}},
			},
		})
	case r.Method == http.MethodGet && strings.Contains(path, "/values/"):
		json.NewEncoder(w).Encode(sheets.ValueRange{Values: f.values})
	case r.Method == http.MethodPost && strings.HasSuffix(path, ":batchUpdate") && strings.Contains(path, "/values"):
		var req sheets.BatchUpdateValuesRequest
		json.NewDecoder(r.Body).Decode(&req)
		f.valueReq = append(f.valueReq, req)
		io.WriteString(w, `{}`)
	case r.Method == http.MethodPost && strings.HasSuffix(path, ":batchUpdate"):
		var req sheets.BatchUpdateSpreadsheetRequest
		json.NewDecoder(r.Body).Decode(&req)
		f.batches = append(f.batches, req)
		io.WriteString(w, `{}`)
	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, f *fakeSheets) *Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	svc, err := sheets.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return NewClient(svc)
}

func TestClient_Open(t *testing.T) {
	c := newTestClient(t, &fakeSheets{})

	ws, err := c.Open(context.Background(), "https://docs.google.com/spreadsheets/d/"+testSpreadsheetID+"/edit", "Data")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if ws.sheetID != 42 || ws.ColumnCount() != 4 || ws.Title() != "Data" {
		t.Errorf("worksheet = %+v", ws)
	}

	_, err = c.Open(context.Background(), testSpreadsheetID, "Missing")
	if !errors.Is(err, ErrWorksheetNotFound) {
		t.Errorf("Open(Missing) error = %v, want ErrWorksheetNotFound", err)
	}
}

func TestClient_OpenPermissionDenied(t *testing.T) {
	c := newTestClient(t, &fakeSheets{status: http.StatusForbidden})

	_, err := c.Open(context.Background(), testSpreadsheetID, "Data")
	if !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("error = %v, want ErrPermissionDenied", err)
	}
}

func TestWorksheet_Records(t *testing.T) {
	f := &fakeSheets{values: [][]interface{}{
		{"Metric", "Value"},
		{"a", "1"},
		{"b"},
	}}
	ws, err := newTestClient(t, f).Open(context.Background(), testSpreadsheetID, "Data")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	ds, err := ws.Records(context.Background())
	if err != nil {
		t.Fatalf("Records failed: %v", err)
	}
	if ds.Len() != 2 {
		t.Fatalf("Len = %d, want 2", ds.Len())
	}
	if got := ds.Records[1]["Value"]; got != "" {
		t.Errorf("trimmed cell = %q, want empty", got)
	}
}

func TestWorksheet_ApplySingleBatch(t *testing.T) {
	f := &fakeSheets{}
	ws, err := newTestClient(t, f).Open(context.Background(), testSpreadsheetID, "Data")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	ranges := []highlight.ColoredRange{
		{Range: highlight.Range{Start: 2, End: 3}, Color: 0x888888},
		{Range: highlight.Range{Start: 5, End: 5}, Color: 0xFFFFFF},
	}
	if err := ws.Apply(context.Background(), ranges); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if len(f.batches) != 1 {
		t.Fatalf("got %d batchUpdate calls, want 1", len(f.batches))
	}
	if got := len(f.batches[0].Requests); got != 2 {
		t.Errorf("got %d requests, want 2", got)
	}
}

func TestWorksheet_WriteColumn(t *testing.T) {
	f := &fakeSheets{}
	ws, err := newTestClient(t, f).Open(context.Background(), testSpreadsheetID, "Data")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if err := ws.AppendColumn(context.Background()); err != nil {
		t.Fatalf("AppendColumn failed: %v", err)
	}
	if ws.ColumnCount() != 5 {
		t.Errorf("ColumnCount = %d, want 5", ws.ColumnCount())
	}

	if err := ws.WriteColumn(context.Background(), 5, 2, []string{"English (en)", "German (de)"}); err != nil {
		t.Fatalf("WriteColumn failed: %v", err)
	}
	if len(f.valueReq) != 1 {
		t.Fatalf("got %d value writes, want 1", len(f.valueReq))
	}
	if got := f.valueReq[0].Data[0].Range; got != "'Data'!E2:E3" {
		t.Errorf("range = %q, want 'Data'!E2:E3", got)
	}
	if got := f.valueReq[0].ValueInputOption; got != "RAW" {
		t.Errorf("ValueInputOption = %q, want RAW", got)
	}
}

func TestFormatRequests(t *testing.T) {
	reqs := formatRequests(7, 3, []highlight.ColoredRange{
		{Range: highlight.Range{Start: 2, End: 4}, Color: 0xFF8800},
	})
	if len(reqs) != 1 {
		t.Fatalf("got %d requests, want 1", len(reqs))
	}

	rc := reqs[0].RepeatCell
	if rc.Fields != "userEnteredFormat.backgroundColor" {
		t.Errorf("Fields = %q", rc.Fields)
	}
	g := rc.Range
	if g.SheetId != 7 || g.StartRowIndex != 1 || g.EndRowIndex != 4 || g.EndColumnIndex != 3 {
		t.Errorf("GridRange = %+v, want sheet 7 rows [1,4) cols [0,3)", g)
	}
	c := rc.Cell.UserEnteredFormat.BackgroundColor
	if c.Red != 1 || c.Blue != 0 {
		t.Errorf("color = %+v", c)
	}

	unbounded := formatRequests(7, 0, []highlight.ColoredRange{{Range: highlight.Range{Start: 1, End: 1}}})
	if unbounded[0].RepeatCell.Range.EndColumnIndex != 0 {
		t.Error("zero column count should leave the column span open")
	}
}

func TestNewServiceAccountClient_BadKey(t *testing.T) {
	_, err := NewServiceAccountClient(context.Background(), []byte(`{"type":"nope"}`))
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("error = %v, want ErrInvalidCredentials", err)
	}
}
