package core

import (
	"context"
	"sync"

	"github.com/JonMunkholm/seokit/internal/gsheet"
	"github.com/JonMunkholm/seokit/internal/highlight"
)

const testDocumentURL = "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms/edit"

var testCreds = Credentials{ServiceAccountKey: []byte(`{"type":"service_account"}`)}

type columnWrite struct {
	column   int
	startRow int
	values   []string
}

// fakeSheet is an in-memory Worksheet.
type fakeSheet struct {
	mu sync.Mutex

	title   string
	columns int
	data    highlight.Dataset

	recordsErr error
	applyErr   error
	writeErr   error

	applied  [][]highlight.ColoredRange
	appended int
	writes   []columnWrite
}

func newFakeSheet(header []string, rows ...[]string) *fakeSheet {
	return &fakeSheet{
		title:   "Data",
		columns: len(header),
		data:    highlight.NewDataset(header, rows),
	}
}

func (f *fakeSheet) Title() string         { return f.title }
func (f *fakeSheet) SpreadsheetID() string { return "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" }

func (f *fakeSheet) ColumnCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.columns
}

func (f *fakeSheet) Records(context.Context) (highlight.Dataset, error) {
	if f.recordsErr != nil {
		return highlight.Dataset{}, f.recordsErr
	}
	return f.data, nil
}

func (f *fakeSheet) AppendColumn(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appended++
	f.columns++
	return nil
}

func (f *fakeSheet) WriteColumn(_ context.Context, column, startRow int, values []string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, columnWrite{column, startRow, append([]string(nil), values...)})
	return nil
}

func (f *fakeSheet) Apply(_ context.Context, ranges []highlight.ColoredRange) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applied = append(f.applied, append([]highlight.ColoredRange(nil), ranges...))
	return nil
}

// connectTo returns a Connector that serves ws under its title.
func connectTo(ws *fakeSheet) Connector {
	return func(context.Context, Credentials) (Opener, error) {
		return OpenerFunc(func(_ context.Context, _ string, title string) (Worksheet, error) {
			if title != ws.title {
				return nil, gsheet.ErrWorksheetNotFound
			}
			return ws, nil
		}), nil
	}
}

// connectBlocking returns a Connector whose Open waits for cancellation.
func connectBlocking(started chan<- struct{}) Connector {
	return func(context.Context, Credentials) (Opener, error) {
		return OpenerFunc(func(ctx context.Context, _, _ string) (Worksheet, error) {
			if started != nil {
				close(started)
			}
			<-ctx.Done()
			return nil, ctx.Err()
		}), nil
	}
}
